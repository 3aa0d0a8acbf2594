// Package workflow moves business entities through their status lifecycles.
//
// A Registry maps every entity Kind to a KindDefinition: the transition
// graph from pkg/statemachine, the side-effect rules that run when a status
// is entered and the fields that may be edited outside a transition. The
// Engine ties the registry to a Store:
//
//	engine := workflow.NewEngine(verticals.Registry(), store,
//		workflow.WithLogger(log),
//		workflow.WithRecorder(recorder),
//	)
//	deal, err := engine.Transition(ctx, workflow.TransitionRequest{
//		Kind:     workflow.KindDeal,
//		TenantID: storeID,
//		EntityID: dealID,
//		ToState:  "closed",
//		Payload:  map[string]any{"final_price": 125000000},
//	})
//
// Transition validates the move, computes the side-effect mutation and
// commits status and fields with one conditional write keyed on the status
// that was read. A concurrent writer that got there first surfaces as
// *ConcurrentModificationError and nothing is written.
//
// Errors are typed. Use the Is* helpers, Code for a stable machine-readable
// code and Retryable to tell storage trouble from caller mistakes.
//
// MemoryStore serves tests and single-node setups. PgStore persists entities
// and inventory movements in Postgres. Both implement MovementLedger.
package workflow
