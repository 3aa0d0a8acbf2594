package workflow_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sm "github.com/nymkash-gerel/temuulel-app-sub004/pkg/statemachine"
	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/workflow"
)

const (
	planned    sm.StringState = "planned"
	inProgress sm.StringState = "in_progress"
	onHold     sm.StringState = "on_hold"
	completed  sm.StringState = "completed"
	cancelled  sm.StringState = "cancelled"
)

const tenant = "store-1"

var now = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func batchDefinition() workflow.KindDefinition {
	return workflow.KindDefinition{
		Kind: workflow.KindProductionBatch,
		Machine: sm.MustNew(planned,
			sm.WithStates(planned, inProgress, onHold, completed, cancelled),
			sm.WithTerminal(completed, cancelled),
			sm.WithTransition(planned, inProgress),
			sm.WithTransition(inProgress, completed),
			sm.WithTransition(onHold, planned, inProgress),
			sm.FromAnyActive(onHold, cancelled),
		),
		Rules: []workflow.Rule{
			{To: inProgress, Apply: workflow.Stamp("started_at")},
			{From: inProgress, To: completed, Apply: func(in workflow.RuleInput) (workflow.Mutation, error) {
				qty, err := in.RequirePositive("produced_qty")
				if err != nil {
					return workflow.Mutation{}, err
				}
				var m workflow.Mutation
				m.Set("produced_qty", qty)
				return m, nil
			}},
		},
		Editable: map[string][]sm.State{
			"produced_qty": {planned, inProgress},
			"notes":        nil,
		},
	}
}

type recorded struct {
	attempt workflow.TransitionAttempt
	err     error
}

type memoryRecorder struct {
	mu       sync.Mutex
	attempts []recorded
}

func (r *memoryRecorder) RecordAttempt(_ context.Context, a workflow.TransitionAttempt, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts = append(r.attempts, recorded{a, err})
}

func newEngine(t *testing.T, store workflow.Store, opts ...workflow.Option) *workflow.Engine {
	t.Helper()
	reg := workflow.MustNewRegistry(batchDefinition())
	opts = append([]workflow.Option{
		workflow.WithLogger(slogt.New(t)),
		workflow.WithClock(func() time.Time { return now }),
	}, opts...)
	return workflow.NewEngine(reg, store, opts...)
}

func seed(t *testing.T, store workflow.Store, id, status string, fields map[string]any) {
	t.Helper()
	require.NoError(t, store.Insert(context.Background(), workflow.Entity{
		Kind:     workflow.KindProductionBatch,
		ID:       id,
		TenantID: tenant,
		Status:   status,
		Version:  1,
		Fields:   fields,
	}))
}

func TestEngineTransition(t *testing.T) {
	t.Parallel()

	t.Run("commits status, side effects and stamps", func(t *testing.T) {
		t.Parallel()
		store := workflow.NewMemoryStore()
		rec := &memoryRecorder{}
		engine := newEngine(t, store, workflow.WithRecorder(rec))
		seed(t, store, "b-1", "planned", map[string]any{"notes": "rush"})

		got, err := engine.Transition(context.Background(), workflow.TransitionRequest{
			Kind:     workflow.KindProductionBatch,
			TenantID: tenant,
			EntityID: "b-1",
			ToState:  "in_progress",
			Actor:    "user-1",
		})
		require.NoError(t, err)
		assert.Equal(t, "in_progress", got.Status)
		assert.Equal(t, int64(2), got.Version)
		assert.Equal(t, now, got.Fields["started_at"])
		assert.Equal(t, now, got.Fields[workflow.FieldStatusChangedAt])
		assert.Equal(t, "user-1", got.Fields[workflow.FieldStatusChangedBy])
		assert.Equal(t, "rush", got.Fields["notes"])

		require.Len(t, rec.attempts, 1)
		assert.NoError(t, rec.attempts[0].err)
		assert.Equal(t, "planned", rec.attempts[0].attempt.FromObserved)
		assert.Equal(t, "in_progress", rec.attempts[0].attempt.ToRequested)
		assert.Equal(t, now, rec.attempts[0].attempt.At)
	})

	t.Run("request time overrides the clock", func(t *testing.T) {
		t.Parallel()
		store := workflow.NewMemoryStore()
		engine := newEngine(t, store)
		seed(t, store, "b-1", "planned", nil)

		at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("ULAT", 8*3600))
		got, err := engine.Transition(context.Background(), workflow.TransitionRequest{
			Kind:     workflow.KindProductionBatch,
			TenantID: tenant,
			EntityID: "b-1",
			ToState:  "in_progress",
			At:       at,
		})
		require.NoError(t, err)
		assert.Equal(t, at.UTC(), got.Fields["started_at"])
	})

	t.Run("side effect errors leave the entity untouched", func(t *testing.T) {
		t.Parallel()
		store := workflow.NewMemoryStore()
		rec := &memoryRecorder{}
		engine := newEngine(t, store, workflow.WithRecorder(rec))
		seed(t, store, "b-1", "in_progress", nil)

		_, err := engine.Transition(context.Background(), workflow.TransitionRequest{
			Kind:     workflow.KindProductionBatch,
			TenantID: tenant,
			EntityID: "b-1",
			ToState:  "completed",
		})
		require.Error(t, err)
		assert.True(t, workflow.IsMissingRequiredField(err))

		current, err := engine.Get(context.Background(), workflow.KindProductionBatch, tenant, "b-1")
		require.NoError(t, err)
		assert.Equal(t, "in_progress", current.Status)
		assert.Equal(t, int64(1), current.Version)

		require.Len(t, rec.attempts, 1)
		assert.True(t, workflow.IsMissingRequiredField(rec.attempts[0].err))
	})

	t.Run("denials carry observed and requested states", func(t *testing.T) {
		t.Parallel()
		store := workflow.NewMemoryStore()
		engine := newEngine(t, store)
		seed(t, store, "b-1", "planned", nil)

		tests := []struct {
			to     string
			reason sm.Reason
		}{
			{"planned", sm.ReasonSameState},
			{"completed", sm.ReasonNotAllowed},
			{"shipped", sm.ReasonUnknownTarget},
		}
		for _, tt := range tests {
			_, err := engine.Transition(context.Background(), workflow.TransitionRequest{
				Kind:     workflow.KindProductionBatch,
				TenantID: tenant,
				EntityID: "b-1",
				ToState:  tt.to,
			})
			var denied *workflow.InvalidTransitionError
			require.ErrorAs(t, err, &denied, tt.to)
			assert.Equal(t, workflow.KindProductionBatch, denied.Kind)
			assert.Equal(t, "planned", denied.From)
			assert.Equal(t, tt.to, denied.To)
			assert.Equal(t, tt.reason, denied.Reason)
		}
	})

	t.Run("corrupt stored state is denied", func(t *testing.T) {
		t.Parallel()
		store := workflow.NewMemoryStore()
		engine := newEngine(t, store)
		seed(t, store, "b-1", "paused", nil)

		_, err := engine.Transition(context.Background(), workflow.TransitionRequest{
			Kind:     workflow.KindProductionBatch,
			TenantID: tenant,
			EntityID: "b-1",
			ToState:  "in_progress",
		})
		var denied *workflow.InvalidTransitionError
		require.ErrorAs(t, err, &denied)
		assert.Equal(t, sm.ReasonUnknownCurrent, denied.Reason)
	})

	t.Run("unknown kind is not recorded", func(t *testing.T) {
		t.Parallel()
		rec := &memoryRecorder{}
		engine := newEngine(t, workflow.NewMemoryStore(), workflow.WithRecorder(rec))

		_, err := engine.Transition(context.Background(), workflow.TransitionRequest{
			Kind:     workflow.KindDeal,
			TenantID: tenant,
			EntityID: "d-1",
			ToState:  "closed",
		})
		require.Error(t, err)
		assert.True(t, workflow.IsUnknownEntityKind(err))
		assert.Empty(t, rec.attempts)
	})

	t.Run("missing identifiers", func(t *testing.T) {
		t.Parallel()
		engine := newEngine(t, workflow.NewMemoryStore())

		_, err := engine.Transition(context.Background(), workflow.TransitionRequest{
			Kind:     workflow.KindProductionBatch,
			EntityID: "b-1",
			ToState:  "in_progress",
		})
		var missing *workflow.MissingFieldError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "store_id", missing.Field)

		_, err = engine.Transition(context.Background(), workflow.TransitionRequest{
			Kind:     workflow.KindProductionBatch,
			TenantID: tenant,
			EntityID: "b-1",
		})
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "to_state", missing.Field)
	})

	t.Run("not found and tenant isolation", func(t *testing.T) {
		t.Parallel()
		store := workflow.NewMemoryStore()
		engine := newEngine(t, store)
		seed(t, store, "b-1", "planned", nil)

		_, err := engine.Transition(context.Background(), workflow.TransitionRequest{
			Kind:     workflow.KindProductionBatch,
			TenantID: "store-2",
			EntityID: "b-1",
			ToState:  "in_progress",
		})
		assert.True(t, workflow.IsNotFound(err))
		assert.Equal(t, "not_found", workflow.Code(err))
	})

	t.Run("storage failures are wrapped", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("connection reset")
		engine := newEngine(t, failingStore{err: boom})

		_, err := engine.Transition(context.Background(), workflow.TransitionRequest{
			Kind:     workflow.KindProductionBatch,
			TenantID: tenant,
			EntityID: "b-1",
			ToState:  "in_progress",
		})
		require.Error(t, err)
		assert.True(t, workflow.IsStorageFailure(err))
		assert.ErrorIs(t, err, boom)
		assert.True(t, workflow.Retryable(err))
	})
}

// barrierStore holds every Get until all racers have read, so both observe
// the same state before either commits.
type barrierStore struct {
	*workflow.MemoryStore
	reads *sync.WaitGroup
}

func (s barrierStore) Get(ctx context.Context, kind workflow.Kind, tenantID, id string) (workflow.Entity, error) {
	e, err := s.MemoryStore.Get(ctx, kind, tenantID, id)
	s.reads.Done()
	s.reads.Wait()
	return e, err
}

func TestConcurrentTransitionsOneWins(t *testing.T) {
	t.Parallel()

	mem := workflow.NewMemoryStore()
	seed(t, mem, "b-1", "planned", nil)

	reads := &sync.WaitGroup{}
	reads.Add(2)
	engine := newEngine(t, barrierStore{MemoryStore: mem, reads: reads})

	targets := []string{"in_progress", "cancelled"}
	errs := make([]error, len(targets))
	var wg sync.WaitGroup
	for i, to := range targets {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = engine.Transition(context.Background(), workflow.TransitionRequest{
				Kind:     workflow.KindProductionBatch,
				TenantID: tenant,
				EntityID: "b-1",
				ToState:  to,
			})
		}()
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case workflow.IsConcurrentModification(err):
			conflicts++
			var cm *workflow.ConcurrentModificationError
			require.ErrorAs(t, err, &cm)
			assert.Equal(t, "planned", cm.Expected)
			assert.True(t, workflow.Retryable(err))
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, conflicts)

	final, err := mem.Get(context.Background(), workflow.KindProductionBatch, tenant, "b-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), final.Version)
	assert.Contains(t, targets, final.Status)
}

func TestEngineCreate(t *testing.T) {
	t.Parallel()

	store := workflow.NewMemoryStore()
	engine := newEngine(t, store, workflow.WithIDGenerator(func() string { return "generated" }))

	got, err := engine.Create(context.Background(), workflow.CreateRequest{
		Kind:     workflow.KindProductionBatch,
		TenantID: tenant,
		Fields:   map[string]any{"target_qty": 100},
		Actor:    "user-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "generated", got.ID)
	assert.Equal(t, "planned", got.Status)
	assert.Equal(t, int64(1), got.Version)
	assert.Equal(t, now, got.CreatedAt)
	assert.Equal(t, 100, got.Fields["target_qty"])

	_, err = engine.Create(context.Background(), workflow.CreateRequest{
		Kind:     workflow.KindProductionBatch,
		TenantID: tenant,
		EntityID: "generated",
	})
	assert.ErrorIs(t, err, workflow.ErrEntityExists)

	_, err = engine.Create(context.Background(), workflow.CreateRequest{
		Kind:     workflow.KindProductionBatch,
		TenantID: tenant,
		Fields:   map[string]any{"status": "completed"},
	})
	assert.True(t, workflow.IsInvalidFieldValue(err))

	_, err = engine.Create(context.Background(), workflow.CreateRequest{Kind: workflow.KindDeal, TenantID: tenant})
	assert.True(t, workflow.IsUnknownEntityKind(err))
}

func TestEngineEditFields(t *testing.T) {
	t.Parallel()

	edit := func(engine *workflow.Engine, fields map[string]any) (workflow.Entity, error) {
		return engine.EditFields(context.Background(), workflow.EditRequest{
			Kind:     workflow.KindProductionBatch,
			TenantID: tenant,
			EntityID: "b-1",
			Fields:   fields,
		})
	}

	t.Run("edits declared fields in allowed states", func(t *testing.T) {
		t.Parallel()
		store := workflow.NewMemoryStore()
		engine := newEngine(t, store)
		seed(t, store, "b-1", "in_progress", map[string]any{"notes": "a"})

		got, err := edit(engine, map[string]any{"produced_qty": 40})
		require.NoError(t, err)
		assert.Equal(t, "in_progress", got.Status)
		assert.Equal(t, int64(2), got.Version)
		assert.Equal(t, 40, got.Fields["produced_qty"])
		assert.Equal(t, "a", got.Fields["notes"])
	})

	t.Run("rejects status, undeclared and frozen fields", func(t *testing.T) {
		t.Parallel()
		store := workflow.NewMemoryStore()
		engine := newEngine(t, store)
		seed(t, store, "b-1", "on_hold", nil)

		_, err := edit(engine, map[string]any{"status": "planned"})
		assert.True(t, workflow.IsInvalidFieldValue(err))

		_, err = edit(engine, map[string]any{"color": "red"})
		assert.True(t, workflow.IsInvalidFieldValue(err))

		_, err = edit(engine, map[string]any{"produced_qty": 1})
		var invalid *workflow.InvalidFieldError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, "produced_qty", invalid.Field)

		got, err := edit(engine, map[string]any{"notes": "waiting"})
		require.NoError(t, err)
		assert.Equal(t, "waiting", got.Fields["notes"])
	})

	t.Run("terminal entities are read-only", func(t *testing.T) {
		t.Parallel()
		store := workflow.NewMemoryStore()
		engine := newEngine(t, store)
		seed(t, store, "b-1", "completed", nil)

		_, err := edit(engine, map[string]any{"notes": "late"})
		assert.True(t, workflow.IsInvalidFieldValue(err))
	})

	t.Run("edits keep fields written by a transition", func(t *testing.T) {
		t.Parallel()
		store := workflow.NewMemoryStore()
		engine := newEngine(t, store)
		seed(t, store, "b-1", "planned", nil)

		_, err := engine.Transition(context.Background(), workflow.TransitionRequest{
			Kind:     workflow.KindProductionBatch,
			TenantID: tenant,
			EntityID: "b-1",
			ToState:  "in_progress",
		})
		require.NoError(t, err)

		got, err := edit(engine, map[string]any{"notes": "on line 2"})
		require.NoError(t, err)
		assert.Equal(t, now, got.Fields["started_at"])
		assert.Equal(t, "on line 2", got.Fields["notes"])
	})
}

func TestEngineNextActions(t *testing.T) {
	t.Parallel()
	engine := newEngine(t, workflow.NewMemoryStore(), workflow.WithLabeler(workflow.LabelerFunc(
		func(lang, kind, to string) string {
			if lang == "mn" && to == "cancelled" {
				return "Цуцлах"
			}
			return ""
		},
	)))

	actions, err := engine.NextActions(workflow.KindProductionBatch, "planned", "mn")
	require.NoError(t, err)
	assert.Equal(t, []workflow.Action{
		{ToState: "in_progress", Label: "In progress"},
		{ToState: "on_hold", Label: "On hold"},
		{ToState: "cancelled", Label: "Цуцлах"},
	}, actions)
}

type failingStore struct {
	err error
}

func (s failingStore) Get(context.Context, workflow.Kind, string, string) (workflow.Entity, error) {
	return workflow.Entity{}, s.err
}

func (s failingStore) Insert(context.Context, workflow.Entity) error { return s.err }

func (s failingStore) Commit(context.Context, workflow.Commit) (workflow.Entity, error) {
	return workflow.Entity{}, s.err
}

func (s failingStore) Patch(context.Context, workflow.Patch) (workflow.Entity, error) {
	return workflow.Entity{}, s.err
}
