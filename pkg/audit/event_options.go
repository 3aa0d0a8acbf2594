package audit

import "time"

// WithEntity sets the entity the event is about.
func WithEntity(kind, id string) EventOption {
	return func(e *Event) {
		e.EntityKind = kind
		e.EntityID = id
	}
}

// WithTransition records the observed and the requested state.
func WithTransition(from, to string) EventOption {
	return func(e *Event) {
		e.FromState = from
		e.ToState = to
	}
}

func WithTenant(id string) EventOption {
	return func(e *Event) {
		if id != "" {
			e.TenantID = id
		}
	}
}

func WithActor(actor string) EventOption {
	return func(e *Event) {
		if actor != "" {
			e.Actor = actor
		}
	}
}

// WithPayload attaches the request payload. The map is stored as given.
func WithPayload(payload map[string]any) EventOption {
	return func(e *Event) {
		e.Payload = payload
	}
}

// WithErrorCode sets the machine-readable failure code.
func WithErrorCode(code string) EventOption {
	return func(e *Event) {
		e.ErrorCode = code
	}
}

// WithResult overrides the event result.
func WithResult(result Result) EventOption {
	return func(e *Event) {
		e.Result = result
	}
}

// WithTime overrides the event timestamp. Zero values are ignored.
func WithTime(at time.Time) EventOption {
	return func(e *Event) {
		if !at.IsZero() {
			e.CreatedAt = at.UTC()
		}
	}
}
