package verticals

import (
	sm "github.com/nymkash-gerel/temuulel-app-sub004/pkg/statemachine"
	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/workflow"
)

// Construction and property inspections.
const (
	InspectionScheduled  sm.StringState = "scheduled"
	InspectionInProgress sm.StringState = "in_progress"
	InspectionPassed     sm.StringState = "passed"
	InspectionFailed     sm.StringState = "failed"
	InspectionCancelled  sm.StringState = "cancelled"
)

func inspectionDefinition() workflow.KindDefinition {
	return workflow.KindDefinition{
		Kind: workflow.KindInspection,
		Machine: sm.MustNew(InspectionScheduled,
			sm.WithStates(InspectionScheduled, InspectionInProgress, InspectionPassed, InspectionFailed, InspectionCancelled),
			sm.WithTerminal(InspectionPassed, InspectionFailed, InspectionCancelled),
			sm.WithTransition(InspectionScheduled, InspectionInProgress),
			sm.WithTransition(InspectionInProgress, InspectionPassed),
			sm.FromAnyActive(InspectionFailed, InspectionCancelled),
		),
		Rules: []workflow.Rule{
			{To: InspectionInProgress, Apply: workflow.Stamp("started_at")},
			{To: InspectionPassed, Apply: workflow.Stamp("inspected_at")},
			{To: InspectionFailed, Apply: workflow.Chain(workflow.Stamp("inspected_at"), workflow.CopyOptional("findings"))},
			{To: InspectionCancelled, Apply: cancellation},
		},
		Editable: map[string][]sm.State{
			"inspector_id": {InspectionScheduled},
			"scheduled_at": {InspectionScheduled},
			"checklist":    {InspectionInProgress},
			"notes":        nil,
		},
	}
}
