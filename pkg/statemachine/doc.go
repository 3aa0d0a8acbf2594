// Package statemachine provides immutable, validated transition graphs for
// status-bearing business objects.
//
// A Definition is built once at process start from a set of declared states,
// an initial state, a terminal set and the edges between them. Construction
// fails fast when the graph is inconsistent:
//  1. the initial state is terminal
//  2. a terminal state has outgoing edges
//  3. an edge refers to an undeclared state
//  4. a declared state cannot be reached from the initial state
//
// After construction the graph is read-only and may be shared between
// goroutines without locking.
//
// # Usage
//
//	const (
//	    Pending   = statemachine.StringState("pending")
//	    InTransit = statemachine.StringState("in_transit")
//	    Received  = statemachine.StringState("received")
//	    Cancelled = statemachine.StringState("cancelled")
//	)
//
//	def := statemachine.MustNew(Pending,
//	    statemachine.WithStates(Pending, InTransit, Received, Cancelled),
//	    statemachine.WithTerminal(Received, Cancelled),
//	    statemachine.WithTransition(Pending, InTransit),
//	    statemachine.WithTransition(InTransit, Received),
//	    statemachine.FromAnyActive(Cancelled),
//	)
//
//	if err := def.Validate(Pending, Received); err != nil {
//	    // *ErrTransitionDenied with Reason == ReasonNotAllowed
//	}
//
//	next := def.Next(Pending) // [in_transit cancelled]
//
// # Wildcard edges
//
// FromAnyActive declares a target reachable from every non-terminal state
// except itself. It keeps tables compact for "cancel from anywhere" branches
// and keeps that intent visible through Definition.Wildcards.
//
// # Error Handling
//
// Validate returns *ErrTransitionDenied carrying the observed and requested
// state names plus a Reason. Use IsTransitionDeniedError or DeniedReason to
// inspect it. Construction errors wrap ErrInvalidDefinition.
package statemachine
