package verticals_test

import (
	"context"
	"testing"
	"time"

	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/statemachine"
	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/verticals"
	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/workflow"
)

const tenant = "store-1"

var now = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

type fixture struct {
	engine *workflow.Engine
	store  *workflow.MemoryStore
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := workflow.NewMemoryStore()
	engine := workflow.NewEngine(verticals.Registry(), store,
		workflow.WithLogger(slogt.New(t)),
		workflow.WithClock(func() time.Time { return now }),
	)
	return fixture{engine: engine, store: store}
}

func (f fixture) seed(t *testing.T, kind workflow.Kind, id, status string, fields map[string]any) {
	t.Helper()
	require.NoError(t, f.store.Insert(context.Background(), workflow.Entity{
		Kind:      kind,
		ID:        id,
		TenantID:  tenant,
		Status:    status,
		Version:   1,
		Fields:    fields,
		CreatedAt: now.Add(-time.Hour),
		UpdatedAt: now.Add(-time.Hour),
	}))
}

func (f fixture) transition(kind workflow.Kind, id, to string, payload map[string]any) (workflow.Entity, error) {
	return f.engine.Transition(context.Background(), workflow.TransitionRequest{
		Kind:     kind,
		TenantID: tenant,
		EntityID: id,
		ToState:  to,
		Payload:  payload,
		Actor:    "user-7",
	})
}

func (f fixture) get(t *testing.T, kind workflow.Kind, id string) workflow.Entity {
	t.Helper()
	e, err := f.engine.Get(context.Background(), kind, tenant, id)
	require.NoError(t, err)
	return e
}

func requireDenied(t *testing.T, err error, reason statemachine.Reason) {
	t.Helper()
	require.Error(t, err)
	require.True(t, workflow.IsInvalidTransition(err), "got %v", err)
	var denied *workflow.InvalidTransitionError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, reason, denied.Reason)
}

func TestScenarioA_DealClosedSplitsCommission(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.seed(t, workflow.KindDeal, "deal-1", "contract", nil)

	got, err := f.transition(workflow.KindDeal, "deal-1", "closed", map[string]any{
		"final_price":      50_000_000,
		"commission_rate":  5,
		"agent_share_rate": 60,
	})
	require.NoError(t, err)

	assert.Equal(t, "closed", got.Status)
	assert.Equal(t, int64(2), got.Version)
	assert.Equal(t, float64(50_000_000), got.Fields["final_price"])
	assert.Equal(t, float64(2_500_000), got.Fields["commission_amount"])
	assert.Equal(t, float64(1_500_000), got.Fields["agent_share_amount"])
	assert.Equal(t, float64(1_000_000), got.Fields["company_share_amount"])
	assert.Equal(t, now, got.Fields["closed_date"])
	assert.Equal(t, now, got.Fields[workflow.FieldStatusChangedAt])
	assert.Equal(t, "user-7", got.Fields[workflow.FieldStatusChangedBy])
}

func TestScenarioB_DealCannotCloseFromLead(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.seed(t, workflow.KindDeal, "deal-1", "lead", nil)

	_, err := f.transition(workflow.KindDeal, "deal-1", "closed", map[string]any{"final_price": 1000})
	requireDenied(t, err, statemachine.ReasonNotAllowed)
	assert.Equal(t, "lead", f.get(t, workflow.KindDeal, "deal-1").Status)
}

func TestScenarioC_ReturnCannotSkipApproval(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.seed(t, workflow.KindReturnRequest, "ret-1", "pending", map[string]any{"order_id": "order-1"})
	f.store.PutOrder(tenant, "order-1", "paid")

	_, err := f.transition(workflow.KindReturnRequest, "ret-1", "completed", map[string]any{
		"refund_amount": 120,
		"refund_method": "cash",
	})
	requireDenied(t, err, statemachine.ReasonNotAllowed)

	status, _ := f.store.OrderPaymentStatus(tenant, "order-1")
	assert.Equal(t, "paid", status)
}

func TestScenarioD_TransferReceivedDefaultsQuantities(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.seed(t, workflow.KindStockTransfer, "tr-1", "in_transit", map[string]any{
		"to_location_id": "loc-b",
		"items": []any{
			map[string]any{"line_item_id": "line-1", "product_id": "sku-1", "quantity": 10},
			map[string]any{"line_item_id": "line-2", "product_id": "sku-2", "quantity": 5},
		},
	})

	got, err := f.transition(workflow.KindStockTransfer, "tr-1", "received", nil)
	require.NoError(t, err)
	assert.Equal(t, "received", got.Status)

	items, ok := got.Fields["items"].([]any)
	require.True(t, ok)
	require.Len(t, items, 2)
	assert.Equal(t, float64(10), items[0].(map[string]any)["received_quantity"])
	assert.Equal(t, float64(5), items[1].(map[string]any)["received_quantity"])

	movements, err := f.store.ListMovements(context.Background(), tenant, "tr-1")
	require.NoError(t, err)
	require.Len(t, movements, 2)
	assert.Equal(t, "line-1", movements[0].LineItemID)
	assert.Equal(t, float64(10), movements[0].Quantity)
	assert.Equal(t, "loc-b", movements[0].LocationID)
	assert.Equal(t, "sku-1", movements[0].ProductID)
	assert.Equal(t, "line-2", movements[1].LineItemID)
	assert.Equal(t, float64(5), movements[1].Quantity)
}

func TestScenarioE_TerminalInspectionIsFrozen(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.seed(t, workflow.KindInspection, "insp-1", "passed", map[string]any{"inspected_at": "earlier"})
	before := f.get(t, workflow.KindInspection, "insp-1")

	_, err := f.transition(workflow.KindInspection, "insp-1", "failed", map[string]any{"findings": "cracks"})
	requireDenied(t, err, statemachine.ReasonTerminal)

	assert.Equal(t, before, f.get(t, workflow.KindInspection, "insp-1"))
}

func TestMovementReplayIsIdempotent(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.seed(t, workflow.KindStockTransfer, "tr-1", "in_transit", map[string]any{
		"to_location_id": "loc-b",
		"items": []any{
			map[string]any{"line_item_id": "line-1", "quantity": 10},
			map[string]any{"line_item_id": "line-2", "quantity": 5},
		},
	})
	_, err := f.transition(workflow.KindStockTransfer, "tr-1", "received", nil)
	require.NoError(t, err)

	recorded, err := f.store.ListMovements(context.Background(), tenant, "tr-1")
	require.NoError(t, err)

	inserted, err := f.store.AppendMovements(context.Background(), recorded)
	require.NoError(t, err)
	assert.Zero(t, inserted)

	after, err := f.store.ListMovements(context.Background(), tenant, "tr-1")
	require.NoError(t, err)
	assert.Len(t, after, 2)
}
