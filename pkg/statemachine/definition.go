package statemachine

import (
	"slices"
)

// Definition is an immutable transition graph: declared states, an initial
// state, a terminal set and the ordered edges leaving every active state.
// A Definition is safe for concurrent use because it is never mutated after New.
type Definition struct {
	initial   State
	states    []State
	index     map[string]int
	terminal  map[string]bool
	edges     map[string][]State
	wildcards []State
}

func (d *Definition) Initial() State {
	return d.initial
}

// States returns the declared states in declaration order.
func (d *Definition) States() []State {
	return slices.Clone(d.states)
}

// Terminal returns the terminal states in declaration order.
func (d *Definition) Terminal() []State {
	out := make([]State, 0, len(d.terminal))
	for _, s := range d.states {
		if d.terminal[s.Name()] {
			out = append(out, s)
		}
	}
	return out
}

// Wildcards returns the targets declared with FromAnyActive.
func (d *Definition) Wildcards() []State {
	return slices.Clone(d.wildcards)
}

func (d *Definition) Has(s State) bool {
	if s == nil {
		return false
	}
	_, ok := d.index[s.Name()]
	return ok
}

// Lookup returns the declared state with the given name.
func (d *Definition) Lookup(name string) (State, bool) {
	i, ok := d.index[name]
	if !ok {
		return nil, false
	}
	return d.states[i], true
}

func (d *Definition) IsTerminal(s State) bool {
	return s != nil && d.terminal[s.Name()]
}

// Next returns the states reachable in one step from the given state:
// explicit edges first in the order they were added, then wildcard targets.
// Terminal and unknown states have no next states.
func (d *Definition) Next(from State) []State {
	if from == nil {
		return nil
	}
	return slices.Clone(d.edges[from.Name()])
}

// Validate returns nil when the edge from -> to exists and an
// *ErrTransitionDenied otherwise. There are no implicit self-transitions.
func (d *Definition) Validate(from, to State) error {
	if from == nil || to == nil {
		return ErrNilState
	}

	fromName, toName := from.Name(), to.Name()
	switch {
	case d.terminal[fromName]:
		return NewErrTransitionDenied(fromName, toName, ReasonTerminal)
	case fromName == toName && !d.hasEdge(fromName, toName):
		return NewErrTransitionDenied(fromName, toName, ReasonSameState)
	case !d.Has(from):
		return NewErrTransitionDenied(fromName, toName, ReasonUnknownCurrent)
	case !d.Has(to):
		return NewErrTransitionDenied(fromName, toName, ReasonUnknownTarget)
	case !d.hasEdge(fromName, toName):
		return NewErrTransitionDenied(fromName, toName, ReasonNotAllowed)
	}
	return nil
}

func (d *Definition) CanTransition(from, to State) bool {
	return d.Validate(from, to) == nil
}

func (d *Definition) hasEdge(from, to string) bool {
	return slices.ContainsFunc(d.edges[from], func(s State) bool { return s.Name() == to })
}

func (d *Definition) addEdge(from, to State) {
	if d.hasEdge(from.Name(), to.Name()) {
		return
	}
	d.edges[from.Name()] = append(d.edges[from.Name()], to)
}

// unreachable walks the graph breadth-first from the initial state and returns
// the names of declared states it never visits.
func (d *Definition) unreachable() []string {
	seen := map[string]bool{d.initial.Name(): true}
	queue := []string{d.initial.Name()}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, next := range d.edges[current] {
			if !seen[next.Name()] {
				seen[next.Name()] = true
				queue = append(queue, next.Name())
			}
		}
	}

	var out []string
	for _, s := range d.states {
		if !seen[s.Name()] {
			out = append(out, s.Name())
		}
	}
	return out
}
