package audit

import (
	"context"
	"fmt"
	"time"
)

// Result represents the outcome of an audited action.
type Result string

const (
	ResultSuccess Result = "success"
	ResultFailure Result = "failure"
	ResultError   Result = "error"
)

// Event is a single audit log entry. One workflow transition attempt, accepted
// or not, produces exactly one event.
type Event struct {
	ID         string         `json:"id" bson:"_id"`
	TenantID   string         `json:"store_id" bson:"store_id"`
	Action     string         `json:"action" bson:"action"`
	EntityKind string         `json:"entity_kind" bson:"entity_kind"`
	EntityID   string         `json:"entity_id" bson:"entity_id"`
	FromState  string         `json:"from_state,omitempty" bson:"from_state,omitempty"`
	ToState    string         `json:"to_state,omitempty" bson:"to_state,omitempty"`
	Actor      string         `json:"actor,omitempty" bson:"actor,omitempty"`
	RequestID  string         `json:"request_id,omitempty" bson:"request_id,omitempty"`
	Result     Result         `json:"result" bson:"result"`
	ErrorCode  string         `json:"error_code,omitempty" bson:"error_code,omitempty"`
	Error      string         `json:"error,omitempty" bson:"error,omitempty"`
	Payload    map[string]any `json:"payload,omitempty" bson:"payload,omitempty"`
	CreatedAt  time.Time      `json:"created_at" bson:"created_at"`
}

// Validate checks if the event has all required fields.
func (e *Event) Validate() error {
	switch {
	case e.Action == "":
		return fmt.Errorf("%w: action is required", ErrEventValidation)
	case e.TenantID == "":
		return fmt.Errorf("%w: store id is required", ErrEventValidation)
	case e.EntityKind == "" || e.EntityID == "":
		return fmt.Errorf("%w: entity kind and id are required", ErrEventValidation)
	}
	return nil
}

// EventOption applies configuration to an Event during creation.
type EventOption func(*Event)

// Criteria filters events on read. Zero values match everything; TenantID is
// required by every storage.
type Criteria struct {
	TenantID   string
	EntityKind string
	EntityID   string
	Action     string
	Result     Result
	StartTime  time.Time
	EndTime    time.Time
	Limit      int
	Offset     int
}

// Storage persists and queries audit events. Query returns events oldest first.
type Storage interface {
	Store(ctx context.Context, event Event) error
	Query(ctx context.Context, criteria Criteria) ([]Event, error)
}

// BatchWriter is implemented by storages that can insert many events at once.
type BatchWriter interface {
	StoreBatch(ctx context.Context, events []Event) error
}

// StorageCounter is implemented by storages with a native count.
type StorageCounter interface {
	Count(ctx context.Context, criteria Criteria) (int64, error)
}
