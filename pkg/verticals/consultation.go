package verticals

import (
	sm "github.com/nymkash-gerel/temuulel-app-sub004/pkg/statemachine"
	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/workflow"
)

// Legal and medical consultations.
const (
	ConsultationScheduled  sm.StringState = "scheduled"
	ConsultationConfirmed  sm.StringState = "confirmed"
	ConsultationInProgress sm.StringState = "in_progress"
	ConsultationCompleted  sm.StringState = "completed"
	ConsultationCancelled  sm.StringState = "cancelled"
	ConsultationNoShow     sm.StringState = "no_show"
)

func consultationDefinition() workflow.KindDefinition {
	return workflow.KindDefinition{
		Kind: workflow.KindConsultation,
		Machine: sm.MustNew(ConsultationScheduled,
			sm.WithStates(
				ConsultationScheduled, ConsultationConfirmed, ConsultationInProgress,
				ConsultationCompleted, ConsultationCancelled, ConsultationNoShow,
			),
			sm.WithTerminal(ConsultationCompleted, ConsultationCancelled, ConsultationNoShow),
			sm.WithTransition(ConsultationScheduled, ConsultationConfirmed),
			sm.WithTransition(ConsultationConfirmed, ConsultationInProgress),
			sm.WithTransition(ConsultationInProgress, ConsultationCompleted),
			sm.FromAnyActive(ConsultationCancelled, ConsultationNoShow),
		),
		Rules: []workflow.Rule{
			{To: ConsultationConfirmed, Apply: workflow.Stamp("confirmed_at")},
			{To: ConsultationInProgress, Apply: workflow.Stamp("started_at")},
			{To: ConsultationCompleted, Apply: workflow.Chain(workflow.Stamp("completed_at"), workflow.CopyOptional("summary"))},
			{To: ConsultationCancelled, Apply: cancellation},
			{To: ConsultationNoShow, Apply: workflow.Stamp("no_show_at")},
		},
		Editable: map[string][]sm.State{
			"scheduled_at":  {ConsultationScheduled, ConsultationConfirmed},
			"consultant_id": {ConsultationScheduled, ConsultationConfirmed},
			"notes":         nil,
		},
	}
}
