package statemachine

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDefinition = errors.New("invalid transition definition")
	ErrNilState          = errors.New("state cannot be nil")
)

// Reason explains why a transition was denied.
type Reason string

const (
	ReasonTerminal       Reason = "leaving terminal state"
	ReasonSameState      Reason = "already in target state"
	ReasonUnknownTarget  Reason = "unknown target state"
	ReasonUnknownCurrent Reason = "unknown current state"
	ReasonNotAllowed     Reason = "transition not allowed"
)

// ErrTransitionDenied indicates the requested edge is not part of the graph
// for the observed state.
type ErrTransitionDenied struct {
	From   string
	To     string
	Reason Reason
}

func (e *ErrTransitionDenied) Error() string {
	return fmt.Sprintf("transition from state '%s' to state '%s' denied: %s", e.From, e.To, e.Reason)
}

func NewErrTransitionDenied(from, to string, reason Reason) *ErrTransitionDenied {
	return &ErrTransitionDenied{
		From:   from,
		To:     to,
		Reason: reason,
	}
}

func IsTransitionDeniedError(err error) bool {
	var e *ErrTransitionDenied
	return errors.As(err, &e)
}

// DeniedReason extracts the denial reason from err, if any.
func DeniedReason(err error) (Reason, bool) {
	var e *ErrTransitionDenied
	if errors.As(err, &e) {
		return e.Reason, true
	}
	return "", false
}

func definitionError(format string, args ...any) error {
	return errors.Join(ErrInvalidDefinition, fmt.Errorf(format, args...))
}
