package workflow

import (
	"slices"
	"time"
)

// Entity is the engine's view of any status-bearing business object.
// Fields holds the kind-specific attributes side effects read and write.
type Entity struct {
	Kind      Kind           `json:"kind"`
	ID        string         `json:"id"`
	TenantID  string         `json:"store_id"`
	Status    string         `json:"status"`
	Version   int64          `json:"version"`
	Fields    map[string]any `json:"fields"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Clone returns a copy whose Fields, including nested maps and slices, can be
// modified independently.
func (e Entity) Clone() Entity {
	e.Fields = cloneFields(e.Fields)
	if e.Fields == nil {
		e.Fields = map[string]any{}
	}
	return e
}

func cloneFields(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

// cloneValue deep-copies the container shapes JSON decoding and side effects
// produce. Other values are treated as immutable.
func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return cloneFields(x)
	case []any:
		if x == nil {
			return x
		}
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = cloneValue(item)
		}
		return out
	case []map[string]any:
		if x == nil {
			return x
		}
		out := make([]map[string]any, len(x))
		for i, item := range x {
			out[i] = cloneFields(item)
		}
		return out
	case []string:
		return slices.Clone(x)
	default:
		return v
	}
}

// TransitionRequest asks the engine to move one entity to a new status.
// The HTTP layer resolves the tenant and actor before building it.
type TransitionRequest struct {
	Kind     Kind           `json:"kind"`
	TenantID string         `json:"store_id"`
	EntityID string         `json:"entity_id"`
	ToState  string         `json:"to_state"`
	Payload  map[string]any `json:"payload,omitempty"`
	Actor    string         `json:"actor,omitempty"`
	// At overrides the engine clock. Side effects only ever see this value.
	At time.Time `json:"-"`
}

// TransitionAttempt captures one transition request together with the state
// that was observed when it was evaluated. It is handed to the audit trail.
type TransitionAttempt struct {
	Kind         Kind           `json:"kind"`
	EntityID     string         `json:"entity_id"`
	TenantID     string         `json:"store_id"`
	FromObserved string         `json:"from_state"`
	ToRequested  string         `json:"to_state"`
	Payload      map[string]any `json:"payload,omitempty"`
	Actor        string         `json:"actor,omitempty"`
	At           time.Time      `json:"at"`
}

// CreateRequest creates a new entity in its kind's initial state.
type CreateRequest struct {
	Kind     Kind           `json:"kind"`
	TenantID string         `json:"store_id"`
	EntityID string         `json:"entity_id,omitempty"`
	Fields   map[string]any `json:"fields,omitempty"`
	Actor    string         `json:"actor,omitempty"`
	At       time.Time      `json:"-"`
}

// EditRequest changes non-status fields of an entity.
type EditRequest struct {
	Kind     Kind           `json:"kind"`
	TenantID string         `json:"store_id"`
	EntityID string         `json:"entity_id"`
	Fields   map[string]any `json:"fields"`
	Actor    string         `json:"actor,omitempty"`
	At       time.Time      `json:"-"`
}
