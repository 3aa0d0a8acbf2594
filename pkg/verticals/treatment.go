package verticals

import (
	sm "github.com/nymkash-gerel/temuulel-app-sub004/pkg/statemachine"
	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/workflow"
)

// Medical and beauty treatment plans.
const (
	TreatmentDraft     sm.StringState = "draft"
	TreatmentActive    sm.StringState = "active"
	TreatmentPaused    sm.StringState = "paused"
	TreatmentCompleted sm.StringState = "completed"
	TreatmentCancelled sm.StringState = "cancelled"
)

func treatmentPlanDefinition() workflow.KindDefinition {
	return workflow.KindDefinition{
		Kind: workflow.KindTreatmentPlan,
		Machine: sm.MustNew(TreatmentDraft,
			sm.WithStates(TreatmentDraft, TreatmentActive, TreatmentPaused, TreatmentCompleted, TreatmentCancelled),
			sm.WithTerminal(TreatmentCompleted, TreatmentCancelled),
			sm.WithTransition(TreatmentDraft, TreatmentActive),
			sm.WithTransition(TreatmentActive, TreatmentCompleted, TreatmentPaused),
			sm.WithTransition(TreatmentPaused, TreatmentActive),
			sm.FromAnyActive(TreatmentCancelled),
		),
		Rules: []workflow.Rule{
			{To: TreatmentActive, Apply: workflow.Chain(stampOnce("started_at"), progress)},
			{To: TreatmentPaused, Apply: workflow.Chain(workflow.Stamp("paused_at"), progress)},
			{To: TreatmentCompleted, Apply: completeTreatment},
			{To: TreatmentCancelled, Apply: workflow.Chain(cancellation, progress)},
		},
		Editable: map[string][]sm.State{
			"total_sessions":     {TreatmentDraft, TreatmentActive, TreatmentPaused},
			"completed_sessions": {TreatmentActive},
			"practitioner_id":    nil,
			"notes":              nil,
		},
	}
}

// progress recomputes progress_percent from the session counters, capped at
// 100, and stores the counters it used so the three fields stay consistent.
// Plans without a total_sessions are left untouched.
func progress(in workflow.RuleInput) (workflow.Mutation, error) {
	var m workflow.Mutation
	total, ok, err := in.Number("total_sessions")
	if err != nil || !ok {
		return m, err
	}
	if total < 0 {
		return workflow.Mutation{}, &workflow.InvalidFieldError{Field: "total_sessions", Reason: "cannot be negative"}
	}
	done, ok, err := in.Number("completed_sessions")
	if err != nil {
		return workflow.Mutation{}, err
	}
	if done < 0 {
		return workflow.Mutation{}, &workflow.InvalidFieldError{Field: "completed_sessions", Reason: "cannot be negative"}
	}
	m.Set("total_sessions", total)
	if ok {
		m.Set("completed_sessions", done)
	}
	if pct, ok := workflow.Percent(done, total); ok {
		m.Set("progress_percent", min(pct, 100))
	}
	return m, nil
}

func completeTreatment(in workflow.RuleInput) (workflow.Mutation, error) {
	var m workflow.Mutation
	m.Set("progress_percent", float64(100))
	m.Set("completed_at", in.Now)
	return m, nil
}
