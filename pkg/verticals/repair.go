package verticals

import (
	sm "github.com/nymkash-gerel/temuulel-app-sub004/pkg/statemachine"
	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/workflow"
)

// Device and vehicle repair orders.
const (
	RepairReceived     sm.StringState = "received"
	RepairDiagnosing   sm.StringState = "diagnosing"
	RepairWaitingParts sm.StringState = "waiting_parts"
	RepairRepairing    sm.StringState = "repairing"
	RepairReady        sm.StringState = "ready"
	RepairDelivered    sm.StringState = "delivered"
	RepairCancelled    sm.StringState = "cancelled"
)

func repairOrderDefinition() workflow.KindDefinition {
	return workflow.KindDefinition{
		Kind: workflow.KindRepairOrder,
		Machine: sm.MustNew(RepairReceived,
			sm.WithStates(
				RepairReceived, RepairDiagnosing, RepairWaitingParts, RepairRepairing,
				RepairReady, RepairDelivered, RepairCancelled,
			),
			sm.WithTerminal(RepairDelivered, RepairCancelled),
			sm.WithTransition(RepairReceived, RepairDiagnosing, RepairCancelled),
			sm.WithTransition(RepairDiagnosing, RepairRepairing, RepairWaitingParts, RepairCancelled),
			sm.WithTransition(RepairWaitingParts, RepairRepairing, RepairCancelled),
			sm.WithTransition(RepairRepairing, RepairReady, RepairCancelled),
			// A finished repair is handed back, never cancelled.
			sm.WithTransition(RepairReady, RepairDelivered),
		),
		Rules: []workflow.Rule{
			{From: RepairDiagnosing, To: RepairRepairing, Apply: workflow.CopyOptional("diagnosis")},
			{From: RepairDiagnosing, To: RepairWaitingParts, Apply: workflow.CopyOptional("diagnosis", "parts_ordered")},
			{To: RepairReady, Apply: workflow.Chain(workflow.Stamp("ready_at"), optionalPositive("final_cost"))},
			{To: RepairDelivered, Apply: workflow.Stamp("delivered_at")},
			{To: RepairCancelled, Apply: cancellation},
		},
		Editable: map[string][]sm.State{
			"diagnosis":      {RepairDiagnosing},
			"estimated_cost": {RepairDiagnosing, RepairWaitingParts},
			"technician_id":  nil,
			"notes":          nil,
		},
	}
}
