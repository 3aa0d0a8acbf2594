package verticals

import (
	sm "github.com/nymkash-gerel/temuulel-app-sub004/pkg/statemachine"
	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/workflow"
)

// Manufacturing production batches.
const (
	BatchPlanned    sm.StringState = "planned"
	BatchInProgress sm.StringState = "in_progress"
	BatchOnHold     sm.StringState = "on_hold"
	BatchCompleted  sm.StringState = "completed"
	BatchCancelled  sm.StringState = "cancelled"
)

func productionBatchDefinition() workflow.KindDefinition {
	return workflow.KindDefinition{
		Kind: workflow.KindProductionBatch,
		Machine: sm.MustNew(BatchPlanned,
			sm.WithStates(BatchPlanned, BatchInProgress, BatchOnHold, BatchCompleted, BatchCancelled),
			sm.WithTerminal(BatchCompleted, BatchCancelled),
			sm.WithTransition(BatchPlanned, BatchInProgress),
			sm.WithTransition(BatchInProgress, BatchCompleted),
			sm.WithTransition(BatchOnHold, BatchPlanned, BatchInProgress),
			sm.FromAnyActive(BatchOnHold, BatchCancelled),
		),
		Rules: []workflow.Rule{
			{To: BatchInProgress, Apply: stampOnce("started_at")},
			{To: BatchOnHold, Apply: workflow.Chain(workflow.Stamp("on_hold_at"), workflow.CopyOptional("hold_reason"))},
			{From: BatchInProgress, To: BatchCompleted, Apply: completeBatch},
			{To: BatchCancelled, Apply: cancellation},
		},
		Editable: map[string][]sm.State{
			"produced_qty": {BatchPlanned, BatchInProgress},
			"target_qty":   {BatchPlanned},
			"product_id":   {BatchPlanned},
			"notes":        nil,
		},
	}
}

// completeBatch records the yield. A batch may complete with fewer units
// than targeted.
func completeBatch(in workflow.RuleInput) (workflow.Mutation, error) {
	var m workflow.Mutation
	m.Set("completed_at", in.Now)

	produced, ok, err := in.Number("produced_qty")
	if err != nil || !ok {
		return m, err
	}
	if produced < 0 {
		return workflow.Mutation{}, &workflow.InvalidFieldError{Field: "produced_qty", Reason: "cannot be negative"}
	}
	m.Set("produced_qty", produced)

	target, ok, err := in.Number("target_qty")
	if err != nil {
		return workflow.Mutation{}, err
	}
	if ok {
		if pct, ok := workflow.Percent(produced, target); ok {
			m.Set("yield_percent", pct)
		}
	}
	return m, nil
}
