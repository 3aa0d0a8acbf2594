package idempotency_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/idempotency"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func record(hash string) idempotency.Record {
	return idempotency.Record{
		RequestHash: hash,
		StatusCode:  200,
		Body:        json.RawMessage(`{"data":{"status":"closed"}}`),
		CreatedAt:   time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
	}
}

// storeContract runs the behavior every Store must share.
func storeContract(t *testing.T, store idempotency.Store, expire func(time.Duration)) {
	ctx := context.Background()

	_, found, err := store.Lookup(ctx, "k1", "h1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Save(ctx, "k1", record("h1"), time.Minute))

	got, found, err := store.Lookup(ctx, "k1", "h1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 200, got.StatusCode)
	assert.JSONEq(t, `{"data":{"status":"closed"}}`, string(got.Body))

	_, found, err = store.Lookup(ctx, "k1", "other")
	require.ErrorIs(t, err, idempotency.ErrKeyReused)
	assert.True(t, found)

	require.NoError(t, store.Save(ctx, "k1", record("h2"), time.Minute))
	_, _, err = store.Lookup(ctx, "k1", "h1")
	require.NoError(t, err, "first record wins")

	expire(2 * time.Minute)
	_, found, err = store.Lookup(ctx, "k1", "h1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	c := &clock{now: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)}
	store := idempotency.NewMemoryStore(c.Now)
	storeContract(t, store, c.Advance)
	assert.Zero(t, store.Len())
}

func TestRedisStore(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	storeContract(t, idempotency.NewRedisStore(client), mr.FastForward)
}

func TestRedisStoreCorruptRecord(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, mr.Set("k1", "not json"))
	_, _, err := idempotency.NewRedisStore(client).Lookup(context.Background(), "k1", "h1")
	require.Error(t, err)
}

func TestKey(t *testing.T) {
	t.Parallel()

	key, err := idempotency.Key("store-1", "deal", "deal-1", "transition", "abc")
	require.NoError(t, err)
	assert.Equal(t, "idem:store-1:deal:deal-1:transition:abc", key)

	_, err = idempotency.Key("store-1", "deal", "deal-1", "transition", "")
	require.ErrorIs(t, err, idempotency.ErrEmptyKey)
}

func TestHash(t *testing.T) {
	t.Parallel()

	a := idempotency.Hash([]byte("closed"), []byte(`{"final_price":100}`))
	assert.Len(t, a, 32)
	assert.Equal(t, a, idempotency.Hash([]byte("closed"), []byte(`{"final_price":100}`)))
	assert.NotEqual(t, a, idempotency.Hash([]byte("closed"), []byte(`{"final_price":101}`)))
	assert.NotEqual(t, idempotency.Hash([]byte("ab"), []byte("c")), idempotency.Hash([]byte("a"), []byte("bc")))
}
