// Package transport exposes the workflow engine over HTTP with chi.
//
// Every response uses one JSON envelope: {"data": ..., "meta": ...} on
// success and {"error": {"code", "message", "details", "retryable"}} on
// failure. Error codes are the engine's stable codes (invalid_transition,
// missing_required_field, concurrent_modification, ...) and map to HTTP
// status as follows:
//
//	invalid_transition, concurrent_modification, already_exists  409
//	missing_required_field, invalid_field_value                   422
//	not_found, unknown kind in the URL                            404
//	storage_failure                                               503
//	unknown kind inside the engine                                500
//
// The store id comes from the X-Store-ID header (see pkg/tenant) and the
// acting user from X-Actor-ID; both are set by the authentication layer in
// front of the service. Transition requests may carry an Idempotency-Key
// header; the first non-retryable outcome is stored and replayed for
// identical retries.
package transport
