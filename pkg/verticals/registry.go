package verticals

import (
	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/workflow"
)

// Definitions returns the definition of every supported kind.
func Definitions() []workflow.KindDefinition {
	return []workflow.KindDefinition{
		dealDefinition(),
		consultationDefinition(),
		inspectionDefinition(),
		productionBatchDefinition(),
		returnRequestDefinition(),
		stockTransferDefinition(),
		treatmentPlanDefinition(),
		repairOrderDefinition(),
		laundryOrderDefinition(),
		tableDefinition(),
	}
}

// Registry builds the process-wide registry. It panics on a malformed table.
func Registry() *workflow.Registry {
	return workflow.MustNewRegistry(Definitions()...)
}
