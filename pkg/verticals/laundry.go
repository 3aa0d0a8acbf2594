package verticals

import (
	sm "github.com/nymkash-gerel/temuulel-app-sub004/pkg/statemachine"
	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/workflow"
)

// Laundry and dry-cleaning orders.
const (
	LaundryReceived  sm.StringState = "received"
	LaundryWashing   sm.StringState = "washing"
	LaundryDrying    sm.StringState = "drying"
	LaundryIroning   sm.StringState = "ironing"
	LaundryReady     sm.StringState = "ready"
	LaundryDelivered sm.StringState = "delivered"
	LaundryCancelled sm.StringState = "cancelled"
)

func laundryOrderDefinition() workflow.KindDefinition {
	return workflow.KindDefinition{
		Kind: workflow.KindLaundryOrder,
		Machine: sm.MustNew(LaundryReceived,
			sm.WithStates(
				LaundryReceived, LaundryWashing, LaundryDrying, LaundryIroning,
				LaundryReady, LaundryDelivered, LaundryCancelled,
			),
			sm.WithTerminal(LaundryDelivered, LaundryCancelled),
			sm.WithTransition(LaundryReceived, LaundryWashing, LaundryCancelled),
			sm.WithTransition(LaundryWashing, LaundryDrying),
			sm.WithTransition(LaundryDrying, LaundryIroning, LaundryReady),
			sm.WithTransition(LaundryIroning, LaundryReady),
			sm.WithTransition(LaundryReady, LaundryDelivered),
		),
		Rules: []workflow.Rule{
			{To: LaundryReady, Apply: workflow.Stamp("ready_at")},
			{To: LaundryDelivered, Apply: workflow.Stamp("delivered_at")},
			{To: LaundryCancelled, Apply: cancellation},
		},
		Editable: map[string][]sm.State{
			"items":     {LaundryReceived},
			"express":   {LaundryReceived},
			"pickup_at": nil,
			"notes":     nil,
		},
	}
}
