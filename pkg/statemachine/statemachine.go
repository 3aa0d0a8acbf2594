package statemachine

// State represents a state in a transition graph.
// Two states are equal when their names are equal.
type State interface {
	Name() string
}

// StringState provides a simple string-based state implementation.
type StringState string

func (s StringState) Name() string {
	return string(s)
}

func (s StringState) String() string {
	return string(s)
}

// TransitionDef defines the allowed targets from a single state.
type TransitionDef struct {
	From State
	To   []State
}
