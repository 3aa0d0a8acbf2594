// Package verticals holds the per-kind data the workflow engine runs on:
// the transition graph of every status-bearing business object, the side
// effects attached to its transitions and the fields that may be edited
// outside a transition.
//
// Each business vertical contributes a KindDefinition and no engine code.
// Registry assembles all of them into an immutable *workflow.Registry at
// process start.
package verticals
