// Package idempotency replays stored responses for repeated Idempotency-Key
// requests.
//
// A record holds the request fingerprint (Hash, XXH3-128) next to the
// response. A replay with the same key and fingerprint gets the stored
// response back; the same key with a different body is rejected with
// ErrKeyReused. MemoryStore serves tests and single instances, RedisStore
// shares records across replicas.
package idempotency
