package audit_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/audit"
)

func seedEvents(t *testing.T, storage interface {
	StoreBatch(context.Context, []audit.Event) error
}) time.Time {
	t.Helper()
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	events := []audit.Event{
		{ID: "e3", TenantID: "store-1", Action: "workflow.transition", EntityKind: "deal", EntityID: "deal-1", Result: audit.ResultFailure, CreatedAt: base.Add(3 * time.Hour)},
		{ID: "e1", TenantID: "store-1", Action: "workflow.transition", EntityKind: "deal", EntityID: "deal-1", Result: audit.ResultSuccess, CreatedAt: base.Add(time.Hour)},
		{ID: "e2", TenantID: "store-1", Action: "workflow.transition", EntityKind: "deal", EntityID: "deal-2", Result: audit.ResultSuccess, CreatedAt: base.Add(2 * time.Hour)},
		{ID: "e4", TenantID: "store-2", Action: "workflow.transition", EntityKind: "deal", EntityID: "deal-1", Result: audit.ResultSuccess, CreatedAt: base.Add(4 * time.Hour)},
	}
	require.NoError(t, storage.StoreBatch(context.Background(), events))
	return base
}

func ids(events []audit.Event) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.ID)
	}
	return out
}

func TestMemoryStorageQuery(t *testing.T) {
	t.Parallel()

	storage := audit.NewMemoryStorage()
	base := seedEvents(t, storage)

	tests := []struct {
		name     string
		criteria audit.Criteria
		want     []string
	}{
		{"tenant scoped and ordered", audit.Criteria{TenantID: "store-1"}, []string{"e1", "e2", "e3"}},
		{"one entity", audit.Criteria{TenantID: "store-1", EntityKind: "deal", EntityID: "deal-1"}, []string{"e1", "e3"}},
		{"by result", audit.Criteria{TenantID: "store-1", Result: audit.ResultFailure}, []string{"e3"}},
		{"time window", audit.Criteria{TenantID: "store-1", StartTime: base.Add(2 * time.Hour), EndTime: base.Add(3 * time.Hour)}, []string{"e2"}},
		{"limit and offset", audit.Criteria{TenantID: "store-1", Offset: 1, Limit: 1}, []string{"e2"}},
		{"offset past the end", audit.Criteria{TenantID: "store-1", Offset: 10}, []string{}},
		{"other tenant", audit.Criteria{TenantID: "store-2"}, []string{"e4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			events, err := storage.Query(context.Background(), tt.criteria)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(events))
		})
	}

	t.Run("tenant is required", func(t *testing.T) {
		t.Parallel()
		_, err := storage.Query(context.Background(), audit.Criteria{})
		require.ErrorIs(t, err, audit.ErrTenantRequired)
	})
}

func TestReader(t *testing.T) {
	t.Parallel()

	storage := audit.NewMemoryStorage()
	seedEvents(t, storage)
	reader := audit.NewReader(storage)

	history, err := reader.History(context.Background(), "store-1", "deal", "deal-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"e1", "e3"}, ids(history))

	n, err := reader.Count(context.Background(), audit.Criteria{TenantID: "store-1", Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	_, err = reader.Find(context.Background(), audit.Criteria{EntityID: "deal-1"})
	require.ErrorIs(t, err, audit.ErrTenantRequired)
}
