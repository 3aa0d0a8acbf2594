// Package redis connects the Redis client backing idempotency keys.
//
//	client, err := redis.Connect(ctx, cfg.Redis)
//	if err != nil {
//		return err
//	}
//	store := idempotency.NewRedisStore(client)
package redis
