package audit

import "errors"

var (
	ErrStorageNotAvailable = errors.New("storage backend is unavailable")
	ErrEventValidation     = errors.New("event validation failed")
	ErrTenantRequired      = errors.New("store id is required to query audit events")
	ErrFailedToStoreEvent  = errors.New("failed to store audit event")
	ErrFailedToQueryEvents = errors.New("failed to query audit events")
)
