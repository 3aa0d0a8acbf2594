package idempotency

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/zeebo/xxh3"
)

// DefaultTTL is how long a replayable response is kept.
const DefaultTTL = 24 * time.Hour

var (
	// ErrKeyReused means the key was already used with a different request.
	ErrKeyReused = errors.New("idempotency key already used with a different request")
	ErrEmptyKey  = errors.New("idempotency key is empty")
)

// Record is the stored outcome of the first request seen for a key.
type Record struct {
	RequestHash string          `json:"request_hash"`
	StatusCode  int             `json:"status_code"`
	Body        json.RawMessage `json:"body"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Store deduplicates requests by idempotency key.
type Store interface {
	// Lookup returns the stored record for key. found is false when the key
	// is unknown or expired. A stored record with a different request hash
	// yields ErrKeyReused.
	Lookup(ctx context.Context, key, requestHash string) (rec Record, found bool, err error)

	// Save stores rec under key for ttl.
	Save(ctx context.Context, key string, rec Record, ttl time.Duration) error
}

// Key scopes a client-supplied key to one tenant, entity and operation, so
// the same key on two entities never collides.
func Key(tenantID, kind, entityID, op, clientKey string) (string, error) {
	if clientKey == "" {
		return "", ErrEmptyKey
	}
	return fmt.Sprintf("idem:%s:%s:%s:%s:%s", tenantID, kind, entityID, op, clientKey), nil
}

// Hash fingerprints a request body with XXH3-128. Parts are length-prefixed
// so ("ab", "c") and ("a", "bc") hash differently.
func Hash(parts ...[]byte) string {
	h := xxh3.New()
	var size [8]byte
	for _, p := range parts {
		n := uint64(len(p))
		for i := range size {
			size[i] = byte(n >> (8 * i))
		}
		_, _ = h.Write(size[:])
		_, _ = h.Write(p)
	}
	sum := h.Sum128().Bytes()
	return hex.EncodeToString(sum[:])
}

func checkHash(key string, rec Record, requestHash string) error {
	if rec.RequestHash != requestHash {
		return fmt.Errorf("%w: %q", ErrKeyReused, key)
	}
	return nil
}
