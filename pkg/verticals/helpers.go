package verticals

import (
	"slices"
	"strings"

	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/workflow"
)

// stampOnce writes Now into field unless the entity already carries a value,
// so resuming a paused entity keeps its original start time.
func stampOnce(field string) workflow.SideEffect {
	return func(in workflow.RuleInput) (workflow.Mutation, error) {
		var m workflow.Mutation
		if v, ok := in.Entity.Fields[field]; !ok || v == nil {
			m.Set(field, in.Now)
		}
		return m, nil
	}
}

// unset removes fields that only make sense in the state being left.
func unset(fields ...string) workflow.SideEffect {
	return func(in workflow.RuleInput) (workflow.Mutation, error) {
		var m workflow.Mutation
		for _, f := range fields {
			if _, ok := in.Entity.Fields[f]; ok {
				m.Set(f, nil)
			}
		}
		return m, nil
	}
}

// cancellation stamps cancelled_at and keeps an optional cancel_reason.
var cancellation = workflow.Chain(
	workflow.Stamp("cancelled_at"),
	workflow.CopyOptional("cancel_reason"),
)

// optionalPositive copies a numeric payload field when present, rejecting
// zero and negative values.
func optionalPositive(field string) workflow.SideEffect {
	return func(in workflow.RuleInput) (workflow.Mutation, error) {
		var m workflow.Mutation
		v, ok := in.Payload[field]
		if !ok || v == nil {
			return m, nil
		}
		n, err := workflow.ParseNumber(field, v)
		if err != nil {
			return workflow.Mutation{}, err
		}
		if n <= 0 {
			return workflow.Mutation{}, &workflow.InvalidFieldError{Field: field, Reason: "must be greater than zero"}
		}
		m.Set(field, n)
		return m, nil
	}
}

// oneOf reads a string via Lookup and checks it against allowed values.
func oneOf(in workflow.RuleInput, field string, allowed []string) (string, bool, error) {
	s, ok, err := in.String(field)
	if err != nil || !ok {
		return "", ok, err
	}
	if !slices.Contains(allowed, s) {
		return "", false, &workflow.InvalidFieldError{Field: field, Reason: "must be one of " + strings.Join(allowed, ", ")}
	}
	return s, true, nil
}
