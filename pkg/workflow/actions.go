package workflow

import (
	"strings"
)

// Action is one next step a presentation layer may offer for an entity.
type Action struct {
	ToState string `json:"to_state"`
	Label   string `json:"label"`
}

// Labeler turns a target state into a user-facing label.
type Labeler interface {
	Label(lang, kind, toState string) string
}

// LabelerFunc adapts a function to Labeler.
type LabelerFunc func(lang, kind, toState string) string

func (f LabelerFunc) Label(lang, kind, toState string) string {
	return f(lang, kind, toState)
}

// HumanLabeler derives labels from state names: "in_transit" becomes "In transit".
var HumanLabeler = LabelerFunc(func(_, _, toState string) string {
	return Humanize(toState)
})

// Humanize converts a snake_case state name into a sentence-case label.
func Humanize(name string) string {
	s := strings.TrimSpace(strings.ReplaceAll(name, "_", " "))
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// NextActions lists the transitions available from current, in registry
// order. Terminal states yield an empty list. It never touches a store.
func NextActions(r *Registry, labels Labeler, kind Kind, current, lang string) ([]Action, error) {
	def, err := r.Get(kind)
	if err != nil {
		return nil, err
	}
	state, ok := def.Lookup(current)
	if !ok {
		return nil, invalid("state", "%q is not a %s state", current, kind)
	}
	if labels == nil {
		labels = HumanLabeler
	}

	next := def.Next(state)
	actions := make([]Action, 0, len(next))
	for _, s := range next {
		label := labels.Label(lang, string(kind), s.Name())
		if label == "" {
			label = Humanize(s.Name())
		}
		actions = append(actions, Action{ToState: s.Name(), Label: label})
	}
	return actions, nil
}
