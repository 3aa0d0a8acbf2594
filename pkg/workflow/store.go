package workflow

import (
	"context"
	"time"
)

// Store persists workflow entities.
//
// Commit and Patch are conditional writes: they apply only when the stored
// row is still in ExpectedStatus and report ErrConcurrentModification
// otherwise. Implementations must apply a Commit's status change, field
// merge, movements and linked updates as one unit.
type Store interface {
	// Get retrieves an entity scoped to a tenant. Returns ErrEntityNotFound
	// when the entity does not exist or belongs to another tenant.
	Get(ctx context.Context, kind Kind, tenantID, id string) (Entity, error)

	// Insert persists a new entity. Returns ErrEntityExists on id collision.
	Insert(ctx context.Context, entity Entity) error

	// Commit moves an entity from ExpectedStatus to NewStatus.
	Commit(ctx context.Context, c Commit) (Entity, error)

	// Patch merges non-status fields while the entity stays in ExpectedStatus.
	Patch(ctx context.Context, p Patch) (Entity, error)
}

// MovementLedger is the append-only inventory movement log written by
// stock transfer side effects.
type MovementLedger interface {
	// AppendMovements inserts movements not yet recorded under their
	// (tenant, transfer, line item) key and returns how many were new.
	AppendMovements(ctx context.Context, movements []InventoryMovement) (int, error)

	// ListMovements returns a transfer's movements ordered by line item.
	ListMovements(ctx context.Context, tenantID, transferID string) ([]InventoryMovement, error)
}

// Commit is the single conditional write that finishes a transition.
type Commit struct {
	Kind           Kind
	TenantID       string
	ID             string
	ExpectedStatus string
	NewStatus      string
	// Fields are merged key by key into the stored fields, so concurrent
	// edits of disjoint fields are preserved.
	Fields    map[string]any
	Movements []InventoryMovement
	Linked    []LinkedUpdate
	At        time.Time
}

// Patch is a conditional non-status field edit.
type Patch struct {
	Kind           Kind
	TenantID       string
	ID             string
	ExpectedStatus string
	Fields         map[string]any
	At             time.Time
}
