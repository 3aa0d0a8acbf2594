package workflow

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"time"

	"github.com/google/uuid"

	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/logger"
	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/statemachine"
)

const (
	FieldStatusChangedAt = "status_changed_at"
	FieldStatusChangedBy = "status_changed_by"
)

// AttemptRecorder receives every transition attempt with its outcome.
type AttemptRecorder interface {
	RecordAttempt(ctx context.Context, attempt TransitionAttempt, err error)
}

// Engine validates and applies status transitions.
//
// Every call is a short unit of work: fetch the entity, validate the edge
// against the registry, compute side effects and commit them with one
// conditional write. Nothing is retried internally.
type Engine struct {
	registry *Registry
	store    Store
	labels   Labeler
	recorder AttemptRecorder
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger. Nil loggers are ignored.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithClock overrides the wall clock used when a request carries no time.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLabeler sets the labeler used by NextActions.
func WithLabeler(l Labeler) Option {
	return func(e *Engine) {
		if l != nil {
			e.labels = l
		}
	}
}

// WithRecorder sets the audit recorder for transition attempts.
func WithRecorder(r AttemptRecorder) Option {
	return func(e *Engine) {
		if r != nil {
			e.recorder = r
		}
	}
}

// WithIDGenerator overrides how Create assigns ids to new entities.
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) {
		if fn != nil {
			e.newID = fn
		}
	}
}

// NewEngine creates an engine over a registry and a store.
func NewEngine(registry *Registry, store Store, opts ...Option) *Engine {
	if registry == nil {
		panic("workflow: registry cannot be nil")
	}
	if store == nil {
		panic("workflow: store cannot be nil")
	}

	e := &Engine{
		registry: registry,
		store:    store,
		labels:   HumanLabeler,
		logger:   slog.New(slog.DiscardHandler),
		now:      time.Now,
		newID:    func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the engine's registry.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Transition moves an entity to req.ToState and returns the updated entity.
func (e *Engine) Transition(ctx context.Context, req TransitionRequest) (entity Entity, err error) {
	started := time.Now()
	ctx, span := startSpan(ctx, "workflow.transition", req.Kind, req.TenantID, req.EntityID)

	attempt := TransitionAttempt{
		Kind:        req.Kind,
		EntityID:    req.EntityID,
		TenantID:    req.TenantID,
		ToRequested: req.ToState,
		Payload:     req.Payload,
		Actor:       req.Actor,
		At:          e.at(req.At),
	}

	var def *statemachine.Definition
	defer func() {
		observeTransition(req.Kind, def, attempt.FromObserved, req.ToState, err, time.Since(started))
		endSpan(span, err)
		e.logOutcome(ctx, attempt, err)
		if e.recorder != nil && !IsUnknownEntityKind(err) {
			e.recorder.RecordAttempt(ctx, attempt, err)
		}
	}()

	kindDef, err := e.registry.Definition(req.Kind)
	if err != nil {
		return Entity{}, err
	}
	def = kindDef.Machine

	if err := requireIDs(req.TenantID, req.EntityID); err != nil {
		return Entity{}, err
	}
	if req.ToState == "" {
		return Entity{}, missing("to_state")
	}

	current, err := e.fetch(ctx, req.Kind, req.TenantID, req.EntityID)
	if err != nil {
		return Entity{}, err
	}
	attempt.FromObserved = current.Status

	from := statemachine.StringState(current.Status)
	to := statemachine.StringState(req.ToState)
	if err := def.Validate(from, to); err != nil {
		reason, _ := statemachine.DeniedReason(err)
		return Entity{}, &InvalidTransitionError{
			Kind:   req.Kind,
			From:   current.Status,
			To:     req.ToState,
			Reason: reason,
		}
	}

	mutation, err := kindDef.sideEffects(current.Status, req.ToState)(RuleInput{
		Entity:  current.Clone(),
		From:    current.Status,
		To:      req.ToState,
		Payload: maps.Clone(req.Payload),
		Actor:   req.Actor,
		Now:     attempt.At,
	})
	if err != nil {
		return Entity{}, err
	}
	mutation.Set(FieldStatusChangedAt, attempt.At)
	mutation.Set(FieldStatusChangedBy, req.Actor)

	updated, err := e.store.Commit(ctx, Commit{
		Kind:           req.Kind,
		TenantID:       req.TenantID,
		ID:             req.EntityID,
		ExpectedStatus: current.Status,
		NewStatus:      req.ToState,
		Fields:         mutation.Fields,
		Movements:      mutation.Movements,
		Linked:         mutation.Linked,
		At:             attempt.At,
	})
	if err != nil {
		return Entity{}, e.classifyWrite("commit", req.Kind, req.EntityID, current.Status, err)
	}
	return updated, nil
}

// Create persists a new entity in its kind's initial state.
func (e *Engine) Create(ctx context.Context, req CreateRequest) (Entity, error) {
	ctx, span := startSpan(ctx, "workflow.create", req.Kind, req.TenantID, req.EntityID)
	var err error
	defer func() { endSpan(span, err) }()

	def, err := e.registry.Get(req.Kind)
	if err != nil {
		e.logger.ErrorContext(ctx, "unknown entity kind", logger.EntityKind(string(req.Kind)), logger.Error(err))
		return Entity{}, err
	}
	if req.TenantID == "" {
		err = missing("store_id")
		return Entity{}, err
	}
	if _, hasStatus := req.Fields["status"]; hasStatus {
		err = invalid("status", "new entities always start in %q", def.Initial().Name())
		return Entity{}, err
	}

	id := req.EntityID
	if id == "" {
		id = e.newID()
	}
	at := e.at(req.At)
	fields := maps.Clone(req.Fields)
	if fields == nil {
		fields = map[string]any{}
	}
	fields[FieldStatusChangedAt] = at
	fields[FieldStatusChangedBy] = req.Actor

	entity := Entity{
		Kind:      req.Kind,
		ID:        id,
		TenantID:  req.TenantID,
		Status:    def.Initial().Name(),
		Version:   1,
		Fields:    fields,
		CreatedAt: at,
		UpdatedAt: at,
	}
	if err = e.store.Insert(ctx, entity); err != nil {
		if !errors.Is(err, ErrEntityExists) {
			err = &StorageError{Op: "insert", Err: err}
		}
		return Entity{}, err
	}
	e.logger.DebugContext(ctx, "entity created",
		logger.EntityKind(string(req.Kind)),
		logger.EntityID(id),
		logger.TenantID(req.TenantID),
	)
	return entity, nil
}

// EditFields changes non-status fields. Each field must be declared editable
// for the kind and the entity's current state. The write is conditional on
// the observed status, so an edit never lands after a concurrent transition
// has moved the entity somewhere the field is frozen.
func (e *Engine) EditFields(ctx context.Context, req EditRequest) (entity Entity, err error) {
	ctx, span := startSpan(ctx, "workflow.edit_fields", req.Kind, req.TenantID, req.EntityID)
	defer func() {
		observeEdit(req.Kind, err)
		endSpan(span, err)
	}()

	kindDef, err := e.registry.Definition(req.Kind)
	if err != nil {
		e.logger.ErrorContext(ctx, "unknown entity kind", logger.EntityKind(string(req.Kind)), logger.Error(err))
		return Entity{}, err
	}
	if err := requireIDs(req.TenantID, req.EntityID); err != nil {
		return Entity{}, err
	}
	if len(req.Fields) == 0 {
		return Entity{}, missing("fields")
	}

	current, err := e.fetch(ctx, req.Kind, req.TenantID, req.EntityID)
	if err != nil {
		return Entity{}, err
	}
	state, ok := kindDef.Machine.Lookup(current.Status)
	if !ok {
		return Entity{}, invalid("status", "stored state %q is not a %s state", current.Status, req.Kind)
	}

	for field := range req.Fields {
		if field == "status" {
			return Entity{}, invalid("status", "status changes must go through a transition")
		}
		if !kindDef.editableIn(field, state) {
			return Entity{}, invalid(field, "cannot be edited while %s", current.Status)
		}
	}

	at := e.at(req.At)
	updated, err := e.store.Patch(ctx, Patch{
		Kind:           req.Kind,
		TenantID:       req.TenantID,
		ID:             req.EntityID,
		ExpectedStatus: current.Status,
		Fields:         maps.Clone(req.Fields),
		At:             at,
	})
	if err != nil {
		return Entity{}, e.classifyWrite("patch", req.Kind, req.EntityID, current.Status, err)
	}
	return updated, nil
}

// Get fetches an entity scoped to a tenant.
func (e *Engine) Get(ctx context.Context, kind Kind, tenantID, id string) (Entity, error) {
	if _, err := e.registry.Get(kind); err != nil {
		return Entity{}, err
	}
	if err := requireIDs(tenantID, id); err != nil {
		return Entity{}, err
	}
	return e.fetch(ctx, kind, tenantID, id)
}

// NextActions lists what a caller may do from current. It is read-only and
// never touches the store.
func (e *Engine) NextActions(kind Kind, current, lang string) ([]Action, error) {
	return NextActions(e.registry, e.labels, kind, current, lang)
}

func (e *Engine) fetch(ctx context.Context, kind Kind, tenantID, id string) (Entity, error) {
	entity, err := e.store.Get(ctx, kind, tenantID, id)
	if err != nil {
		if IsNotFound(err) {
			return Entity{}, err
		}
		return Entity{}, &StorageError{Op: "get", Err: err}
	}
	return entity, nil
}

func (e *Engine) classifyWrite(op string, kind Kind, id, expected string, err error) error {
	switch {
	case errors.Is(err, ErrConcurrentModification):
		return &ConcurrentModificationError{Kind: kind, ID: id, Expected: expected}
	case IsNotFound(err), IsInvalidFieldValue(err), IsMissingRequiredField(err):
		return err
	default:
		return &StorageError{Op: op, Err: err}
	}
}

func (e *Engine) at(t time.Time) time.Time {
	if t.IsZero() {
		t = e.now()
	}
	return t.UTC()
}

func (e *Engine) logOutcome(ctx context.Context, a TransitionAttempt, err error) {
	attrs := []any{
		logger.EntityKind(string(a.Kind)),
		logger.EntityID(a.EntityID),
		logger.TenantID(a.TenantID),
		logger.Transition(a.FromObserved, a.ToRequested),
	}
	switch {
	case err == nil:
		e.logger.DebugContext(ctx, "transition committed", attrs...)
	case IsUnknownEntityKind(err):
		e.logger.ErrorContext(ctx, "no transition definition registered for kind", append(attrs, logger.Error(err))...)
	case IsStorageFailure(err):
		e.logger.ErrorContext(ctx, "transition storage failure", append(attrs, logger.Error(err))...)
	case IsConcurrentModification(err):
		e.logger.WarnContext(ctx, "transition lost a concurrent update", append(attrs, logger.Error(err))...)
	default:
		e.logger.InfoContext(ctx, "transition rejected", append(attrs, logger.ErrorCode(Code(err)), logger.Error(err))...)
	}
}

func requireIDs(tenantID, entityID string) error {
	if tenantID == "" {
		return missing("store_id")
	}
	if entityID == "" {
		return missing("entity_id")
	}
	return nil
}
