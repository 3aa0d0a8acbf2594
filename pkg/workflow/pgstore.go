package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/pg"
)

// tables maps each kind to its table. Table names never come from callers.
var tables = map[Kind]string{
	KindDeal:            "deals",
	KindConsultation:    "consultations",
	KindInspection:      "inspections",
	KindProductionBatch: "production_batches",
	KindReturnRequest:   "return_requests",
	KindStockTransfer:   "stock_transfers",
	KindTreatmentPlan:   "treatment_plans",
	KindRepairOrder:     "repair_orders",
	KindLaundryOrder:    "laundry_orders",
	KindTable:           "restaurant_tables",
}

const entityColumns = "id, store_id, status, version, attributes, created_at, updated_at"

// PgStore is the PostgreSQL Store. Each kind lives in its own table with the
// kind-specific fields in a jsonb attributes column.
type PgStore struct {
	pool *pgxpool.Pool
}

// NewPgStore creates a store over an open pool.
func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

func tableFor(kind Kind) (string, error) {
	t, ok := tables[kind]
	if !ok {
		return "", &UnknownEntityKindError{Kind: string(kind)}
	}
	return t, nil
}

func (s *PgStore) Get(ctx context.Context, kind Kind, tenantID, id string) (Entity, error) {
	table, err := tableFor(kind)
	if err != nil {
		return Entity{}, err
	}
	row := s.pool.QueryRow(ctx,
		"SELECT "+entityColumns+" FROM "+table+" WHERE store_id = $1 AND id = $2",
		tenantID, id,
	)
	e, err := scanEntity(kind, row)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return Entity{}, fmt.Errorf("%s %q: %w", kind, id, ErrEntityNotFound)
		}
		return Entity{}, err
	}
	return e, nil
}

func (s *PgStore) Insert(ctx context.Context, entity Entity) error {
	table, err := tableFor(entity.Kind)
	if err != nil {
		return err
	}
	attrs, err := json.Marshal(entity.Fields)
	if err != nil {
		return invalid("fields", "cannot encode: %v", err)
	}
	_, err = s.pool.Exec(ctx,
		"INSERT INTO "+table+" ("+entityColumns+") VALUES ($1, $2, $3, $4, $5::jsonb, $6, $7)",
		entity.ID, entity.TenantID, entity.Status, entity.Version, attrs, entity.CreatedAt, entity.UpdatedAt,
	)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return fmt.Errorf("%s %q: %w", entity.Kind, entity.ID, ErrEntityExists)
		}
		return err
	}
	return nil
}

// Commit applies the status change, field merge, movements and linked
// updates in one transaction. The UPDATE is guarded by the expected status.
func (s *PgStore) Commit(ctx context.Context, c Commit) (Entity, error) {
	table, err := tableFor(c.Kind)
	if err != nil {
		return Entity{}, err
	}
	patch, err := json.Marshal(c.Fields)
	if err != nil {
		return Entity{}, invalid("payload", "cannot encode side effect fields: %v", err)
	}

	var updated Entity
	err = s.inTx(ctx, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx,
			"UPDATE "+table+` SET status = $1, version = version + 1,
				attributes = attributes || $2::jsonb, updated_at = $3
			WHERE store_id = $4 AND id = $5 AND status = $6
			RETURNING `+entityColumns,
			c.NewStatus, patch, c.At, c.TenantID, c.ID, c.ExpectedStatus,
		)
		updated, err = scanEntity(c.Kind, row)
		if err != nil {
			if pg.IsNotFoundError(err) {
				return s.missOrConflict(ctx, tx, table, c.Kind, c.TenantID, c.ID)
			}
			return err
		}

		if _, err := appendMovements(ctx, tx, c.Movements); err != nil {
			return err
		}
		for _, l := range c.Linked {
			if err := applyLinked(ctx, tx, c.TenantID, l, c.At); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Entity{}, err
	}
	return updated, nil
}

func (s *PgStore) Patch(ctx context.Context, p Patch) (Entity, error) {
	table, err := tableFor(p.Kind)
	if err != nil {
		return Entity{}, err
	}
	patch, err := json.Marshal(p.Fields)
	if err != nil {
		return Entity{}, invalid("fields", "cannot encode: %v", err)
	}

	var updated Entity
	err = s.inTx(ctx, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx,
			"UPDATE "+table+` SET version = version + 1,
				attributes = attributes || $1::jsonb, updated_at = $2
			WHERE store_id = $3 AND id = $4 AND status = $5
			RETURNING `+entityColumns,
			patch, p.At, p.TenantID, p.ID, p.ExpectedStatus,
		)
		updated, err = scanEntity(p.Kind, row)
		if err != nil && pg.IsNotFoundError(err) {
			return s.missOrConflict(ctx, tx, table, p.Kind, p.TenantID, p.ID)
		}
		return err
	})
	if err != nil {
		return Entity{}, err
	}
	return updated, nil
}

// AppendMovements inserts movements outside of a transition, for replays and
// backfills. Already recorded movements are skipped.
func (s *PgStore) AppendMovements(ctx context.Context, movements []InventoryMovement) (int, error) {
	var n int
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		var err error
		n, err = appendMovements(ctx, tx, movements)
		return err
	})
	return n, err
}

func (s *PgStore) ListMovements(ctx context.Context, tenantID, transferID string) ([]InventoryMovement, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id::text, store_id, transfer_id, line_item_id, product_id, location_id, quantity::float8, created_at
		FROM inventory_movements
		WHERE store_id = $1 AND transfer_id = $2
		ORDER BY line_item_id`,
		tenantID, transferID,
	)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (InventoryMovement, error) {
		var m InventoryMovement
		err := row.Scan(&m.ID, &m.TenantID, &m.TransferID, &m.LineItemID, &m.ProductID, &m.LocationID, &m.Quantity, &m.CreatedAt)
		return m, err
	})
}

// PutOrder upserts an order row that linked updates may target.
func (s *PgStore) PutOrder(ctx context.Context, tenantID, id, paymentStatus string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO orders (id, store_id, payment_status) VALUES ($1, $2, $3)
		ON CONFLICT (store_id, id) DO UPDATE SET payment_status = EXCLUDED.payment_status, updated_at = now()`,
		id, tenantID, paymentStatus,
	)
	return err
}

func (s *PgStore) inTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// missOrConflict explains why a guarded UPDATE matched no row.
func (s *PgStore) missOrConflict(ctx context.Context, tx pgx.Tx, table string, kind Kind, tenantID, id string) error {
	var exists bool
	err := tx.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM "+table+" WHERE store_id = $1 AND id = $2)",
		tenantID, id,
	).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%s %q: %w", kind, id, ErrEntityNotFound)
	}
	return ErrConcurrentModification
}

func appendMovements(ctx context.Context, tx pgx.Tx, movements []InventoryMovement) (int, error) {
	if len(movements) == 0 {
		return 0, nil
	}
	batch := &pgx.Batch{}
	for _, m := range movements {
		batch.Queue(`
			INSERT INTO inventory_movements
				(id, store_id, transfer_id, line_item_id, product_id, location_id, quantity, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (store_id, transfer_id, line_item_id) DO NOTHING`,
			m.ID, m.TenantID, m.TransferID, m.LineItemID, m.ProductID, m.LocationID, m.Quantity, m.CreatedAt,
		)
	}

	results := tx.SendBatch(ctx, batch)
	inserted := 0
	for range movements {
		tag, err := results.Exec()
		if err != nil {
			return 0, errors.Join(err, results.Close())
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, results.Close()
}

func applyLinked(ctx context.Context, tx pgx.Tx, tenantID string, l LinkedUpdate, at time.Time) error {
	switch l.Target {
	case LinkOrderPaymentStatus:
		tag, err := tx.Exec(ctx,
			"UPDATE orders SET payment_status = $1, updated_at = $2 WHERE store_id = $3 AND id = $4",
			l.Value, at, tenantID, l.ID,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return invalid("order_id", "order %q not found", l.ID)
		}
		return nil
	default:
		return fmt.Errorf("unsupported link target %q", l.Target)
	}
}

func scanEntity(kind Kind, row pgx.Row) (Entity, error) {
	var (
		e     = Entity{Kind: kind}
		attrs []byte
	)
	if err := row.Scan(&e.ID, &e.TenantID, &e.Status, &e.Version, &attrs, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return Entity{}, err
	}
	e.Fields = map[string]any{}
	if len(attrs) > 0 {
		if err := json.Unmarshal(attrs, &e.Fields); err != nil {
			return Entity{}, fmt.Errorf("decode %s attributes: %w", kind, err)
		}
	}
	return e, nil
}
