package verticals

import (
	sm "github.com/nymkash-gerel/temuulel-app-sub004/pkg/statemachine"
	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/workflow"
)

// Restaurant tables cycle forever and have no terminal state.
const (
	TableAvailable sm.StringState = "available"
	TableReserved  sm.StringState = "reserved"
	TableOccupied  sm.StringState = "occupied"
	TableCleaning  sm.StringState = "cleaning"
)

func tableDefinition() workflow.KindDefinition {
	return workflow.KindDefinition{
		Kind: workflow.KindTable,
		Machine: sm.MustNew(TableAvailable,
			sm.WithStates(TableAvailable, TableReserved, TableOccupied, TableCleaning),
			sm.WithTransition(TableAvailable, TableReserved, TableOccupied),
			sm.WithTransition(TableReserved, TableOccupied, TableAvailable),
			sm.WithTransition(TableOccupied, TableCleaning),
			sm.WithTransition(TableCleaning, TableAvailable),
		),
		Rules: []workflow.Rule{
			{To: TableReserved, Apply: workflow.Chain(workflow.Stamp("reserved_at"), workflow.CopyOptional("reservation_name"))},
			{To: TableOccupied, Apply: workflow.Chain(workflow.Stamp("seated_at"), optionalPositive("party_size"))},
			{To: TableAvailable, Apply: unset("party_size", "seated_at", "reserved_at", "reservation_name")},
		},
		Editable: map[string][]sm.State{
			"capacity":         nil,
			"party_size":       {TableOccupied},
			"reservation_name": {TableReserved},
		},
	}
}
