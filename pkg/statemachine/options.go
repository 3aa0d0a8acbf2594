package statemachine

import (
	"fmt"
)

// Option configures a definition during construction.
type Option func(*builder) error

type builder struct {
	states    []State
	terminal  []State
	edges     []TransitionDef
	wildcards []State
}

// New creates an immutable definition with the given initial state and options.
// The graph is validated before it is returned: the initial state must not be
// terminal, terminal states have no outgoing edges and every declared state is
// reachable from the initial one.
func New(initial State, opts ...Option) (*Definition, error) {
	if initial == nil {
		return nil, definitionError("initial state: %w", ErrNilState)
	}

	b := &builder{}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}

	return b.build(initial)
}

// MustNew creates a definition and panics on error.
// Transition tables are compiled in, so a broken table must prevent startup.
func MustNew(initial State, opts ...Option) *Definition {
	def, err := New(initial, opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to create transition definition: %v", err))
	}
	return def
}

// WithStates declares the states of the graph. Declaration order is the
// display order used by Next.
func WithStates(states ...State) Option {
	return func(b *builder) error {
		for i, s := range states {
			if s == nil {
				return definitionError("state[%d]: %w", i, ErrNilState)
			}
			b.states = append(b.states, s)
		}
		return nil
	}
}

// WithTerminal marks states as terminal.
func WithTerminal(states ...State) Option {
	return func(b *builder) error {
		for i, s := range states {
			if s == nil {
				return definitionError("terminal[%d]: %w", i, ErrNilState)
			}
			b.terminal = append(b.terminal, s)
		}
		return nil
	}
}

// WithTransition allows moving from one state to each of the given targets.
func WithTransition(from State, to ...State) Option {
	return func(b *builder) error {
		if from == nil {
			return definitionError("transition source: %w", ErrNilState)
		}
		for i, t := range to {
			if t == nil {
				return definitionError("transition %s->[%d]: %w", from.Name(), i, ErrNilState)
			}
		}
		b.edges = append(b.edges, TransitionDef{From: from, To: to})
		return nil
	}
}

// WithTransitions adds multiple transitions at once.
func WithTransitions(transitions []TransitionDef) Option {
	return func(b *builder) error {
		for i, t := range transitions {
			if err := WithTransition(t.From, t.To...)(b); err != nil {
				return fmt.Errorf("transition[%d]: %w", i, err)
			}
		}
		return nil
	}
}

// FromAnyActive makes each target reachable from every non-terminal state
// other than the target itself.
func FromAnyActive(to ...State) Option {
	return func(b *builder) error {
		for i, t := range to {
			if t == nil {
				return definitionError("wildcard[%d]: %w", i, ErrNilState)
			}
			b.wildcards = append(b.wildcards, t)
		}
		return nil
	}
}

func (b *builder) build(initial State) (*Definition, error) {
	def := &Definition{
		initial:  initial,
		index:    make(map[string]int),
		terminal: make(map[string]bool),
		edges:    make(map[string][]State),
	}

	for _, s := range b.states {
		if _, dup := def.index[s.Name()]; dup {
			return nil, definitionError("state %q declared twice", s.Name())
		}
		def.index[s.Name()] = len(def.states)
		def.states = append(def.states, s)
	}
	if !def.Has(initial) {
		return nil, definitionError("initial state %q is not declared", initial.Name())
	}

	for _, s := range b.terminal {
		if !def.Has(s) {
			return nil, definitionError("terminal state %q is not declared", s.Name())
		}
		def.terminal[s.Name()] = true
	}
	if def.terminal[initial.Name()] {
		return nil, definitionError("initial state %q cannot be terminal", initial.Name())
	}

	for _, e := range b.edges {
		if !def.Has(e.From) {
			return nil, definitionError("transition source %q is not declared", e.From.Name())
		}
		if def.terminal[e.From.Name()] {
			return nil, definitionError("terminal state %q cannot have outgoing transitions", e.From.Name())
		}
		for _, to := range e.To {
			if !def.Has(to) {
				return nil, definitionError("transition target %q is not declared", to.Name())
			}
			def.addEdge(e.From, to)
		}
	}

	for _, to := range b.wildcards {
		if !def.Has(to) {
			return nil, definitionError("wildcard target %q is not declared", to.Name())
		}
		def.wildcards = append(def.wildcards, to)
		for _, from := range def.states {
			if def.terminal[from.Name()] || from.Name() == to.Name() {
				continue
			}
			def.addEdge(from, to)
		}
	}

	if unreachable := def.unreachable(); len(unreachable) > 0 {
		return nil, definitionError("states unreachable from %q: %v", initial.Name(), unreachable)
	}

	return def, nil
}
