package workflow

import (
	"errors"
	"fmt"

	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/statemachine"
)

var (
	ErrUnknownEntityKind      = errors.New("unknown entity kind")
	ErrInvalidTransition      = errors.New("invalid transition")
	ErrMissingRequiredField   = errors.New("missing required field")
	ErrInvalidFieldValue      = errors.New("invalid field value")
	ErrConcurrentModification = errors.New("concurrent modification")
	ErrStorageFailure         = errors.New("storage failure")
	ErrEntityNotFound         = errors.New("entity not found")
	ErrEntityExists           = errors.New("entity already exists")
)

// UnknownEntityKindError reports a kind with no registered definition.
// Inside the engine it is a programming error, not a user error.
type UnknownEntityKindError struct {
	Kind string
}

func (e *UnknownEntityKindError) Error() string {
	return fmt.Sprintf("unknown entity kind '%s'", e.Kind)
}

func (e *UnknownEntityKindError) Is(target error) bool {
	return target == ErrUnknownEntityKind
}

// InvalidTransitionError reports a requested edge that is not part of the
// registry for the observed state.
type InvalidTransitionError struct {
	Kind   Kind
	From   string
	To     string
	Reason statemachine.Reason
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: cannot move from '%s' to '%s': %s", e.Kind, e.From, e.To, e.Reason)
}

func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// MissingFieldError reports a side-effect precondition that needs a field the
// caller did not supply.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field '%s'", e.Field)
}

func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingRequiredField
}

// InvalidFieldError reports a field whose value breaks a business rule.
type InvalidFieldError struct {
	Field  string
	Reason string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid value for field '%s': %s", e.Field, e.Reason)
}

func (e *InvalidFieldError) Is(target error) bool {
	return target == ErrInvalidFieldValue
}

// ConcurrentModificationError reports a conditional write that matched no rows
// because another request changed the status first.
type ConcurrentModificationError struct {
	Kind     Kind
	ID       string
	Expected string
}

func (e *ConcurrentModificationError) Error() string {
	return fmt.Sprintf("%s '%s' is no longer in state '%s'", e.Kind, e.ID, e.Expected)
}

func (e *ConcurrentModificationError) Is(target error) bool {
	return target == ErrConcurrentModification
}

// StorageError wraps a failure of the persistence layer itself.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorageFailure
}

func missing(field string) error {
	return &MissingFieldError{Field: field}
}

func invalid(field, format string, args ...any) error {
	return &InvalidFieldError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func IsUnknownEntityKind(err error) bool {
	return errors.Is(err, ErrUnknownEntityKind)
}

func IsInvalidTransition(err error) bool {
	return errors.Is(err, ErrInvalidTransition)
}

func IsMissingRequiredField(err error) bool {
	return errors.Is(err, ErrMissingRequiredField)
}

func IsInvalidFieldValue(err error) bool {
	return errors.Is(err, ErrInvalidFieldValue)
}

func IsConcurrentModification(err error) bool {
	return errors.Is(err, ErrConcurrentModification)
}

func IsStorageFailure(err error) bool {
	return errors.Is(err, ErrStorageFailure)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrEntityNotFound)
}

// Retryable reports whether the caller may retry the same request after
// re-fetching state or backing off.
func Retryable(err error) bool {
	return IsConcurrentModification(err) || IsStorageFailure(err)
}

// Code returns a stable machine-readable identifier for err, used as a metric
// label and as the error key in API responses.
func Code(err error) string {
	switch {
	case err == nil:
		return "success"
	case IsUnknownEntityKind(err):
		return "unknown_entity_kind"
	case IsInvalidTransition(err):
		return "invalid_transition"
	case IsMissingRequiredField(err):
		return "missing_required_field"
	case IsInvalidFieldValue(err):
		return "invalid_field_value"
	case IsConcurrentModification(err):
		return "concurrent_modification"
	case IsNotFound(err):
		return "not_found"
	case errors.Is(err, ErrEntityExists):
		return "already_exists"
	case IsStorageFailure(err):
		return "storage_failure"
	default:
		return "internal_error"
	}
}
