package transport

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/idempotency"
	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/statemachine"
	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/workflow"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		code int
		key  string
	}{
		{"invalid transition", &workflow.InvalidTransitionError{Kind: workflow.KindDeal, From: "lead", To: "closed", Reason: statemachine.ReasonNotAllowed}, http.StatusConflict, "invalid_transition"},
		{"concurrent modification", &workflow.ConcurrentModificationError{Kind: workflow.KindDeal, ID: "d", Expected: "lead"}, http.StatusConflict, "concurrent_modification"},
		{"missing field", &workflow.MissingFieldError{Field: "final_price"}, http.StatusUnprocessableEntity, "missing_required_field"},
		{"invalid field", &workflow.InvalidFieldError{Field: "commission_rate", Reason: "above 100"}, http.StatusUnprocessableEntity, "invalid_field_value"},
		{"not found", fmt.Errorf("get: %w", workflow.ErrEntityNotFound), http.StatusNotFound, "not_found"},
		{"storage", &workflow.StorageError{Op: "commit", Err: errors.New("timeout")}, http.StatusServiceUnavailable, "storage_failure"},
		{"unknown kind inside engine", &workflow.UnknownEntityKindError{Kind: "spaceship"}, http.StatusInternalServerError, "unknown_entity_kind"},
		{"idempotency key reuse", fmt.Errorf("%w: %q", idempotency.ErrKeyReused, "k"), http.StatusConflict, "idempotency_key_reused"},
		{"wrapped http error", fmt.Errorf("%w: empty body", ErrInvalidJSON), http.StatusBadRequest, "invalid_json"},
		{"anything else", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := classify(tt.err)
			assert.Equal(t, tt.code, got.Code)
			assert.Equal(t, tt.key, got.Key)
		})
	}
}
