package audit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/audit"
)

type ctxKey string

func fromCtx(key ctxKey) func(context.Context) (string, bool) {
	return func(ctx context.Context) (string, bool) {
		v, ok := ctx.Value(key).(string)
		return v, ok
	}
}

func TestLogger(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	ctx := context.WithValue(context.Background(), ctxKey("tenant"), "store-1")
	ctx = context.WithValue(ctx, ctxKey("request"), "req-9")

	newLogger := func(storage audit.Storage) *audit.Logger {
		return audit.NewLogger(storage,
			audit.WithTenantIDExtractor(fromCtx("tenant")),
			audit.WithRequestIDExtractor(fromCtx("request")),
			audit.WithActorExtractor(fromCtx("actor")),
			audit.WithClock(func() time.Time { return at }),
		)
	}

	t.Run("log fills context values", func(t *testing.T) {
		t.Parallel()
		storage := audit.NewMemoryStorage()
		err := newLogger(storage).Log(ctx, "workflow.transition",
			audit.WithEntity("deal", "deal-1"),
			audit.WithTransition("offer", "contract"),
			audit.WithActor("user-1"),
		)
		require.NoError(t, err)

		events, err := storage.Query(context.Background(), audit.Criteria{TenantID: "store-1"})
		require.NoError(t, err)
		require.Len(t, events, 1)
		e := events[0]
		assert.NotEmpty(t, e.ID)
		assert.Equal(t, "req-9", e.RequestID)
		assert.Equal(t, "user-1", e.Actor)
		assert.Equal(t, "offer", e.FromState)
		assert.Equal(t, "contract", e.ToState)
		assert.Equal(t, audit.ResultSuccess, e.Result)
		assert.Equal(t, at, e.CreatedAt)
	})

	t.Run("log error keeps message and code", func(t *testing.T) {
		t.Parallel()
		storage := audit.NewMemoryStorage()
		err := newLogger(storage).LogError(ctx, "workflow.transition", errors.New("transition not allowed"),
			audit.WithEntity("deal", "deal-1"),
			audit.WithErrorCode("invalid_transition"),
			audit.WithResult(audit.ResultFailure),
		)
		require.NoError(t, err)

		events, err := storage.Query(context.Background(), audit.Criteria{TenantID: "store-1"})
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, audit.ResultFailure, events[0].Result)
		assert.Equal(t, "transition not allowed", events[0].Error)
		assert.Equal(t, "invalid_transition", events[0].ErrorCode)
	})

	t.Run("invalid events are rejected", func(t *testing.T) {
		t.Parallel()
		storage := audit.NewMemoryStorage()
		l := newLogger(storage)

		err := l.Log(ctx, "", audit.WithEntity("deal", "deal-1"))
		require.ErrorIs(t, err, audit.ErrEventValidation)

		err = l.Log(context.Background(), "workflow.transition", audit.WithEntity("deal", "deal-1"))
		require.ErrorIs(t, err, audit.ErrEventValidation)

		err = l.Log(ctx, "workflow.transition")
		require.ErrorIs(t, err, audit.ErrEventValidation)
	})

	t.Run("nil storage panics", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() { audit.NewLogger(nil) })
	})
}
