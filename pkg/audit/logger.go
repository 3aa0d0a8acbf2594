package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// contextExtractor returns (value, found) for a request-scoped value.
type contextExtractor func(context.Context) (string, bool)

// Logger writes audit events to a Storage, filling request-scoped fields
// from the context.
type Logger struct {
	storage            Storage
	tenantIDExtractor  contextExtractor
	actorExtractor     contextExtractor
	requestIDExtractor contextExtractor
	now                func() time.Time
}

// Option configures Logger behavior during initialization.
type Option func(*Logger)

func WithTenantIDExtractor(fn contextExtractor) Option {
	return func(l *Logger) {
		l.tenantIDExtractor = fn
	}
}

func WithActorExtractor(fn contextExtractor) Option {
	return func(l *Logger) {
		l.actorExtractor = fn
	}
}

func WithRequestIDExtractor(fn contextExtractor) Option {
	return func(l *Logger) {
		l.requestIDExtractor = fn
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(l *Logger) {
		if now != nil {
			l.now = now
		}
	}
}

// NewLogger creates a new audit logger. It panics on a nil storage.
func NewLogger(storage Storage, opts ...Option) *Logger {
	if storage == nil {
		panic("audit: storage cannot be nil")
	}

	l := &Logger{storage: storage, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Log records a successful action.
func (l *Logger) Log(ctx context.Context, action string, opts ...EventOption) error {
	event := l.newEvent(ctx, action, ResultSuccess)
	for _, opt := range opts {
		opt(&event)
	}
	if err := event.Validate(); err != nil {
		return err
	}
	return l.storage.Store(ctx, event)
}

// LogError records a failed action.
func (l *Logger) LogError(ctx context.Context, action string, err error, opts ...EventOption) error {
	event := l.newEvent(ctx, action, ResultError)
	if err != nil {
		event.Error = err.Error()
	}
	for _, opt := range opts {
		opt(&event)
	}
	if err := event.Validate(); err != nil {
		return err
	}
	return l.storage.Store(ctx, event)
}

func (l *Logger) newEvent(ctx context.Context, action string, result Result) Event {
	event := Event{
		ID:        uuid.New().String(),
		Action:    action,
		Result:    result,
		CreatedAt: l.now().UTC(),
	}
	if l.tenantIDExtractor != nil {
		if id, ok := l.tenantIDExtractor(ctx); ok {
			event.TenantID = id
		}
	}
	if l.actorExtractor != nil {
		if actor, ok := l.actorExtractor(ctx); ok {
			event.Actor = actor
		}
	}
	if l.requestIDExtractor != nil {
		if id, ok := l.requestIDExtractor(ctx); ok {
			event.RequestID = id
		}
	}
	return event
}
