package workflow

import (
	"errors"
	"fmt"
	"slices"

	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/statemachine"
)

var ErrInvalidRegistry = errors.New("invalid workflow registry")

// Rule attaches a side effect to the transitions entering To. A nil From
// matches every source state.
type Rule struct {
	From  statemachine.State
	To    statemachine.State
	Apply SideEffect
}

// KindDefinition is everything one business vertical contributes to the
// engine: its transition graph, its side-effect rules and the non-status
// fields callers may edit outside of a transition.
type KindDefinition struct {
	Kind    Kind
	Machine *statemachine.Definition
	Rules   []Rule
	// Editable maps a field name to the states in which it may be edited.
	// An empty state list means any non-terminal state.
	Editable map[string][]statemachine.State
}

// Registry holds one definition per kind. It is built once at process start
// and never mutated afterwards.
type Registry struct {
	kinds map[Kind]KindDefinition
	order []Kind
}

// NewRegistry validates and indexes the given definitions.
func NewRegistry(defs ...KindDefinition) (*Registry, error) {
	r := &Registry{kinds: make(map[Kind]KindDefinition, len(defs))}
	for i, d := range defs {
		if err := d.validate(); err != nil {
			return nil, errors.Join(ErrInvalidRegistry, fmt.Errorf("definition[%d] %s: %w", i, d.Kind, err))
		}
		if _, dup := r.kinds[d.Kind]; dup {
			return nil, errors.Join(ErrInvalidRegistry, fmt.Errorf("kind %s registered twice", d.Kind))
		}
		r.kinds[d.Kind] = d
		r.order = append(r.order, d.Kind)
	}
	return r, nil
}

// MustNewRegistry panics when the registry cannot be built.
func MustNewRegistry(defs ...KindDefinition) *Registry {
	r, err := NewRegistry(defs...)
	if err != nil {
		panic(fmt.Sprintf("failed to build workflow registry: %v", err))
	}
	return r
}

// Get returns the transition graph for kind.
func (r *Registry) Get(kind Kind) (*statemachine.Definition, error) {
	d, err := r.Definition(kind)
	if err != nil {
		return nil, err
	}
	return d.Machine, nil
}

// Definition returns the full definition registered for kind.
func (r *Registry) Definition(kind Kind) (KindDefinition, error) {
	d, ok := r.kinds[kind]
	if !ok {
		return KindDefinition{}, &UnknownEntityKindError{Kind: string(kind)}
	}
	return d, nil
}

// Kinds returns the registered kinds in registration order.
func (r *Registry) Kinds() []Kind {
	return slices.Clone(r.order)
}

// sideEffects returns the chained rules for a transition, in registration order.
func (d KindDefinition) sideEffects(from, to string) SideEffect {
	var effects []SideEffect
	for _, rule := range d.Rules {
		if rule.To.Name() != to {
			continue
		}
		if rule.From != nil && rule.From.Name() != from {
			continue
		}
		effects = append(effects, rule.Apply)
	}
	return Chain(effects...)
}

func (d KindDefinition) validate() error {
	if !d.Kind.Valid() {
		return &UnknownEntityKindError{Kind: string(d.Kind)}
	}
	if d.Machine == nil {
		return errors.New("missing transition definition")
	}
	for i, rule := range d.Rules {
		if rule.To == nil || rule.Apply == nil {
			return fmt.Errorf("rule[%d]: target state and side effect are required", i)
		}
		if !d.Machine.Has(rule.To) {
			return fmt.Errorf("rule[%d]: target %q is not a declared state", i, rule.To.Name())
		}
		if rule.From != nil && !d.Machine.CanTransition(rule.From, rule.To) {
			return fmt.Errorf("rule[%d]: %s -> %s is not an allowed transition", i, rule.From.Name(), rule.To.Name())
		}
	}
	for field, states := range d.Editable {
		if field == "status" {
			return errors.New("status cannot be an editable field")
		}
		for _, s := range states {
			if !d.Machine.Has(s) || d.Machine.IsTerminal(s) {
				return fmt.Errorf("field %q: %q is not an active state", field, s.Name())
			}
		}
	}
	return nil
}

// editableIn reports whether field may be edited while in state.
func (d KindDefinition) editableIn(field string, state statemachine.State) bool {
	states, ok := d.Editable[field]
	if !ok || d.Machine.IsTerminal(state) {
		return false
	}
	if len(states) == 0 {
		return true
	}
	return slices.ContainsFunc(states, func(s statemachine.State) bool { return s.Name() == state.Name() })
}
