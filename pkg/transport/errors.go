package transport

import (
	"errors"
	"net/http"

	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/idempotency"
	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/tenant"
	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/workflow"
)

// HTTPError is an error with a status code and a stable machine key.
type HTTPError struct {
	Code int
	Key  string
}

func (e HTTPError) Error() string {
	return e.Key
}

var (
	ErrBadRequest            = HTTPError{Code: http.StatusBadRequest, Key: "bad_request"}
	ErrNotFound              = HTTPError{Code: http.StatusNotFound, Key: "not_found"}
	ErrMethodNotAllowed      = HTTPError{Code: http.StatusMethodNotAllowed, Key: "method_not_allowed"}
	ErrUnknownKind           = HTTPError{Code: http.StatusNotFound, Key: "unknown_entity_kind"}
	ErrRequestEntityTooLarge = HTTPError{Code: http.StatusRequestEntityTooLarge, Key: "request_entity_too_large"}
	ErrUnsupportedMediaType  = HTTPError{Code: http.StatusUnsupportedMediaType, Key: "unsupported_media_type"}
	ErrInvalidJSON           = HTTPError{Code: http.StatusBadRequest, Key: "invalid_json"}
	ErrInternal              = HTTPError{Code: http.StatusInternalServerError, Key: "internal_error"}
	ErrServiceUnavailable    = HTTPError{Code: http.StatusServiceUnavailable, Key: "service_unavailable"}
)

// classify maps an error to the HTTP status and key written in the response.
func classify(err error) HTTPError {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	switch {
	case errors.Is(err, tenant.ErrMissingStoreID):
		return HTTPError{Code: http.StatusBadRequest, Key: "store_id_required"}
	case errors.Is(err, tenant.ErrInvalidIdentifier):
		return HTTPError{Code: http.StatusBadRequest, Key: "invalid_store_id"}
	case errors.Is(err, idempotency.ErrKeyReused):
		return HTTPError{Code: http.StatusConflict, Key: "idempotency_key_reused"}
	}

	code := workflow.Code(err)
	switch code {
	case "invalid_transition", "concurrent_modification", "already_exists":
		return HTTPError{Code: http.StatusConflict, Key: code}
	case "missing_required_field", "invalid_field_value":
		return HTTPError{Code: http.StatusUnprocessableEntity, Key: code}
	case "not_found":
		return HTTPError{Code: http.StatusNotFound, Key: code}
	case "storage_failure":
		return HTTPError{Code: http.StatusServiceUnavailable, Key: code}
	default:
		// An unknown kind that reaches the engine past URL parsing is a wiring bug.
		return HTTPError{Code: http.StatusInternalServerError, Key: code}
	}
}

// errorDetails exposes the offending field or the rejected edge to clients.
func errorDetails(err error) map[string][]string {
	var (
		missing    *workflow.MissingFieldError
		invalid    *workflow.InvalidFieldError
		transition *workflow.InvalidTransitionError
	)
	switch {
	case errors.As(err, &missing):
		return map[string][]string{missing.Field: {"required"}}
	case errors.As(err, &invalid):
		return map[string][]string{invalid.Field: {invalid.Reason}}
	case errors.As(err, &transition):
		return map[string][]string{
			"from":   {transition.From},
			"to":     {transition.To},
			"reason": {string(transition.Reason)},
		}
	}
	return nil
}
