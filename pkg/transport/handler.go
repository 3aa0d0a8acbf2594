package transport

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/audit"
	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/i18n"
	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/idempotency"
	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/logger"
	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/tenant"
	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/workflow"
)

const (
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderReplayed       = "Idempotent-Replayed"

	maxIdempotencyKeyLength = 255
	defaultHistoryLimit     = 100
	maxHistoryLimit         = 1000
)

// Handler serves the workflow API for one engine.
type Handler struct {
	engine  *workflow.Engine
	ledger  workflow.MovementLedger
	history *audit.Reader
	idem    idempotency.Store
	idemTTL time.Duration
	logger  *slog.Logger
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithMovementLedger enables the stock transfer movements endpoint.
func WithMovementLedger(l workflow.MovementLedger) HandlerOption {
	return func(h *Handler) { h.ledger = l }
}

// WithHistory enables the audit history endpoint.
func WithHistory(r *audit.Reader) HandlerOption {
	return func(h *Handler) { h.history = r }
}

// WithIdempotency enables Idempotency-Key replay on transitions.
// A non-positive ttl means idempotency.DefaultTTL.
func WithIdempotency(store idempotency.Store, ttl time.Duration) HandlerOption {
	return func(h *Handler) {
		h.idem = store
		h.idemTTL = ttl
		if ttl <= 0 {
			h.idemTTL = idempotency.DefaultTTL
		}
	}
}

// WithLogger sets the handler logger. Nil loggers are ignored.
func WithLogger(l *slog.Logger) HandlerOption {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// NewHandler creates the API handler. It panics on a nil engine.
func NewHandler(engine *workflow.Engine, opts ...HandlerOption) *Handler {
	if engine == nil {
		panic("transport: engine cannot be nil")
	}
	h := &Handler{engine: engine, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type createRequest struct {
	ID     string         `json:"id,omitempty"`
	Fields map[string]any `json:"fields,omitempty"`
}

type transitionRequest struct {
	ToState string         `json:"to_state"`
	Payload map[string]any `json:"payload,omitempty"`
}

type editRequest struct {
	Fields map[string]any `json:"fields"`
}

// kind resolves the {kind} URL parameter. Kinds without a registered
// definition are a 404 here rather than an engine error.
func (h *Handler) kind(r *http.Request) (workflow.Kind, error) {
	kind, err := workflow.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		return "", ErrUnknownKind
	}
	if _, err := h.engine.Registry().Get(kind); err != nil {
		return "", ErrUnknownKind
	}
	return kind, nil
}

func (h *Handler) scope(r *http.Request) (workflow.Kind, string, error) {
	kind, err := h.kind(r)
	if err != nil {
		return "", "", err
	}
	storeID, ok := tenant.IDFromContext(r.Context())
	if !ok {
		return "", "", tenant.ErrMissingStoreID
	}
	return kind, storeID, nil
}

func actor(ctx context.Context) string {
	a, _ := ActorFromContext(ctx)
	return a
}

// Create handles POST /v1/{kind}.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	kind, storeID, err := h.scope(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req createRequest
	if _, err := readJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	entity, err := h.engine.Create(r.Context(), workflow.CreateRequest{
		Kind:     kind,
		TenantID: storeID,
		EntityID: req.ID,
		Fields:   req.Fields,
		Actor:    actor(r.Context()),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Location", "/v1/"+string(kind)+"/"+entity.ID)
	writeJSON(w, http.StatusCreated, Response{Data: entity, Meta: h.actionsMeta(r, entity)})
}

// Get handles GET /v1/{kind}/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	kind, storeID, err := h.scope(r)
	if err != nil {
		writeError(w, err)
		return
	}
	entity, err := h.engine.Get(r.Context(), kind, storeID, chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Data: entity, Meta: h.actionsMeta(r, entity)})
}

// Transition handles POST /v1/{kind}/{id}/transitions. With an
// Idempotency-Key header the first outcome is stored and replayed for
// identical retries; retryable failures are not stored.
func (h *Handler) Transition(w http.ResponseWriter, r *http.Request) {
	kind, storeID, err := h.scope(r)
	if err != nil {
		writeError(w, err)
		return
	}
	id := chi.URLParam(r, "id")

	var req transitionRequest
	raw, err := readJSON(w, r, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	if req.ToState == "" {
		writeError(w, &workflow.MissingFieldError{Field: "to_state"})
		return
	}

	idemKey, reqHash, replayed := h.replay(w, r, storeID, kind, id, raw)
	if replayed {
		return
	}

	entity, err := h.engine.Transition(r.Context(), workflow.TransitionRequest{
		Kind:     kind,
		TenantID: storeID,
		EntityID: id,
		ToState:  req.ToState,
		Payload:  req.Payload,
		Actor:    actor(r.Context()),
	})

	status, body := http.StatusOK, []byte(nil)
	if err != nil {
		status, body = encodeError(err)
	} else {
		body = encode(Response{Data: entity, Meta: h.actionsMeta(r, entity)})
	}

	if idemKey != "" && !workflow.Retryable(err) && status < http.StatusInternalServerError {
		rec := idempotency.Record{RequestHash: reqHash, StatusCode: status, Body: body, CreatedAt: time.Now().UTC()}
		if saveErr := h.idem.Save(r.Context(), idemKey, rec, h.idemTTL); saveErr != nil {
			h.logger.WarnContext(r.Context(), "failed to store idempotent response", logger.Error(saveErr))
		}
	}
	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", "1")
	}
	writeBody(w, status, body)
}

// replay answers from the idempotency store when the key was seen before.
// It reports the scoped key and request hash for saving the outcome.
// A failing store degrades to executing the request without replay; the
// conditional write still rejects a duplicate transition.
func (h *Handler) replay(w http.ResponseWriter, r *http.Request, storeID string, kind workflow.Kind, id string, raw []byte) (string, string, bool) {
	clientKey := r.Header.Get(HeaderIdempotencyKey)
	if h.idem == nil || clientKey == "" {
		return "", "", false
	}
	if len(clientKey) > maxIdempotencyKeyLength {
		writeError(w, &workflow.InvalidFieldError{Field: HeaderIdempotencyKey, Reason: "too long"})
		return "", "", true
	}

	key, err := idempotency.Key(storeID, string(kind), id, "transition", clientKey)
	if err != nil {
		return "", "", false
	}
	reqHash := idempotency.Hash(raw)

	rec, found, err := h.idem.Lookup(r.Context(), key, reqHash)
	switch {
	case errors.Is(err, idempotency.ErrKeyReused):
		writeError(w, err)
		return "", "", true
	case err != nil:
		h.logger.WarnContext(r.Context(), "idempotency lookup failed", logger.Error(err))
		return "", "", false
	case found:
		w.Header().Set(HeaderReplayed, "true")
		writeBody(w, rec.StatusCode, rec.Body)
		return "", "", true
	}
	return key, reqHash, false
}

// EditFields handles PATCH /v1/{kind}/{id}/fields.
func (h *Handler) EditFields(w http.ResponseWriter, r *http.Request) {
	kind, storeID, err := h.scope(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req editRequest
	if _, err := readJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	entity, err := h.engine.EditFields(r.Context(), workflow.EditRequest{
		Kind:     kind,
		TenantID: storeID,
		EntityID: chi.URLParam(r, "id"),
		Fields:   req.Fields,
		Actor:    actor(r.Context()),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Data: entity})
}

// Actions handles GET /v1/{kind}/actions?state=. It needs no entity and no store.
func (h *Handler) Actions(w http.ResponseWriter, r *http.Request) {
	kind, err := h.kind(r)
	if err != nil {
		writeError(w, err)
		return
	}
	state := r.URL.Query().Get("state")
	if state == "" {
		writeError(w, &workflow.MissingFieldError{Field: "state"})
		return
	}
	actions, err := h.engine.NextActions(kind, state, i18n.GetLocale(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Data: actions, Meta: map[string]any{"state": state}})
}

// EntityActions handles GET /v1/{kind}/{id}/actions using the stored state.
func (h *Handler) EntityActions(w http.ResponseWriter, r *http.Request) {
	kind, storeID, err := h.scope(r)
	if err != nil {
		writeError(w, err)
		return
	}
	entity, err := h.engine.Get(r.Context(), kind, storeID, chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	actions, err := h.engine.NextActions(kind, entity.Status, i18n.GetLocale(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Data: actions, Meta: map[string]any{"state": entity.Status}})
}

// History handles GET /v1/{kind}/{id}/history?limit=&offset=.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		writeError(w, ErrNotFound)
		return
	}
	kind, storeID, err := h.scope(r)
	if err != nil {
		writeError(w, err)
		return
	}
	limit, offset, err := pagination(r)
	if err != nil {
		writeError(w, err)
		return
	}

	events, err := h.history.Find(r.Context(), audit.Criteria{
		TenantID:   storeID,
		EntityKind: string(kind),
		EntityID:   chi.URLParam(r, "id"),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		h.fail(w, r, &workflow.StorageError{Op: "audit query", Err: err})
		return
	}
	if events == nil {
		events = []audit.Event{}
	}
	writeJSON(w, http.StatusOK, Response{Data: events, Meta: map[string]any{"limit": limit, "offset": offset}})
}

// Movements handles GET /v1/stock_transfer/{id}/movements.
func (h *Handler) Movements(w http.ResponseWriter, r *http.Request) {
	if h.ledger == nil {
		writeError(w, ErrNotFound)
		return
	}
	kind, storeID, err := h.scope(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if kind != workflow.KindStockTransfer {
		writeError(w, ErrNotFound)
		return
	}
	id := chi.URLParam(r, "id")
	if _, err := h.engine.Get(r.Context(), kind, storeID, id); err != nil {
		h.fail(w, r, err)
		return
	}

	movements, err := h.ledger.ListMovements(r.Context(), storeID, id)
	if err != nil {
		h.fail(w, r, &workflow.StorageError{Op: "list movements", Err: err})
		return
	}
	if movements == nil {
		movements = []workflow.InventoryMovement{}
	}
	writeJSON(w, http.StatusOK, Response{Data: movements})
}

func (h *Handler) actionsMeta(r *http.Request, entity workflow.Entity) map[string]any {
	actions, err := h.engine.NextActions(entity.Kind, entity.Status, i18n.GetLocale(r.Context()))
	if err != nil {
		return nil
	}
	return map[string]any{"actions": actions}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if classify(err).Code >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed",
			slog.String("route", routePattern(r)),
			logger.ErrorCode(workflow.Code(err)),
			logger.Error(err),
		)
	}
	writeError(w, err)
}

func pagination(r *http.Request) (int, int, error) {
	q := r.URL.Query()
	limit, offset := defaultHistoryLimit, 0
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return 0, 0, &workflow.InvalidFieldError{Field: "limit", Reason: "must be a positive integer"}
		}
		limit = min(n, maxHistoryLimit)
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return 0, 0, &workflow.InvalidFieldError{Field: "offset", Reason: "must be a non-negative integer"}
		}
		offset = n
	}
	return limit, offset, nil
}
