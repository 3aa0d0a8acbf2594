package tenant

import "errors"

var (
	// ErrMissingStoreID is returned when a request carries no store id.
	ErrMissingStoreID = errors.New("store id is required")

	// ErrInvalidIdentifier is returned when the identifier format is invalid.
	ErrInvalidIdentifier = errors.New("invalid store identifier")
)
