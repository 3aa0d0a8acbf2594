package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgColumns = "id, store_id, action, entity_kind, entity_id, from_state, to_state, actor, request_id, result, error_code, error, payload, created_at"

// PgStorage stores events in the workflow_audit_log table.
type PgStorage struct {
	pool *pgxpool.Pool
}

func NewPgStorage(pool *pgxpool.Pool) *PgStorage {
	return &PgStorage{pool: pool}
}

func (s *PgStorage) Store(ctx context.Context, event Event) error {
	return s.StoreBatch(ctx, []Event{event})
}

// StoreBatch inserts all events in one round trip. Replayed ids are ignored.
func (s *PgStorage) StoreBatch(ctx context.Context, events []Event) error {
	if len(events) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, e := range events {
		var payload []byte
		if e.Payload != nil {
			var err error
			if payload, err = json.Marshal(e.Payload); err != nil {
				return errors.Join(ErrFailedToStoreEvent, err)
			}
		}
		batch.Queue(
			"INSERT INTO workflow_audit_log ("+pgColumns+") "+
				"VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14) "+
				"ON CONFLICT (id) DO NOTHING",
			e.ID, e.TenantID, e.Action, e.EntityKind, e.EntityID, e.FromState, e.ToState,
			e.Actor, e.RequestID, string(e.Result), e.ErrorCode, e.Error, payload, e.CreatedAt,
		)
	}

	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return errors.Join(ErrFailedToStoreEvent, err)
	}
	return nil
}

func (s *PgStorage) Query(ctx context.Context, criteria Criteria) ([]Event, error) {
	if criteria.TenantID == "" {
		return nil, ErrTenantRequired
	}

	where, args := pgWhere(criteria)
	query := "SELECT " + pgColumns + " FROM workflow_audit_log WHERE " + where + " ORDER BY created_at, id"
	if criteria.Limit > 0 {
		args = append(args, criteria.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if criteria.Offset > 0 {
		args = append(args, criteria.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Join(ErrFailedToQueryEvents, err)
	}
	events, err := pgx.CollectRows(rows, scanEvent)
	if err != nil {
		return nil, errors.Join(ErrFailedToQueryEvents, err)
	}
	return events, nil
}

func (s *PgStorage) Count(ctx context.Context, criteria Criteria) (int64, error) {
	if criteria.TenantID == "" {
		return 0, ErrTenantRequired
	}
	where, args := pgWhere(criteria)
	var n int64
	if err := s.pool.QueryRow(ctx, "SELECT count(*) FROM workflow_audit_log WHERE "+where, args...).Scan(&n); err != nil {
		return 0, errors.Join(ErrFailedToQueryEvents, err)
	}
	return n, nil
}

func pgWhere(c Criteria) (string, []any) {
	conds := []string{"store_id = $1"}
	args := []any{c.TenantID}
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if c.EntityKind != "" {
		add("entity_kind = $%d", c.EntityKind)
	}
	if c.EntityID != "" {
		add("entity_id = $%d", c.EntityID)
	}
	if c.Action != "" {
		add("action = $%d", c.Action)
	}
	if c.Result != "" {
		add("result = $%d", string(c.Result))
	}
	if !c.StartTime.IsZero() {
		add("created_at >= $%d", c.StartTime)
	}
	if !c.EndTime.IsZero() {
		add("created_at < $%d", c.EndTime)
	}
	return strings.Join(conds, " AND "), args
}

func scanEvent(row pgx.CollectableRow) (Event, error) {
	var (
		e       Event
		result  string
		payload []byte
	)
	err := row.Scan(&e.ID, &e.TenantID, &e.Action, &e.EntityKind, &e.EntityID, &e.FromState, &e.ToState,
		&e.Actor, &e.RequestID, &result, &e.ErrorCode, &e.Error, &payload, &e.CreatedAt)
	if err != nil {
		return Event{}, err
	}
	e.Result = Result(result)
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &e.Payload); err != nil {
			return Event{}, err
		}
	}
	return e, nil
}
