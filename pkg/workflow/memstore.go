package workflow

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"sync"
)

type entityKey struct {
	kind     Kind
	tenantID string
	id       string
}

type movementKey struct {
	tenantID   string
	transferID string
	lineItemID string
}

type orderKey struct {
	tenantID string
	id       string
}

// MemoryStore is an in-memory Store for tests and single-process tooling.
// A single mutex serializes writes, which gives the same conditional-write
// semantics as the PostgreSQL store.
type MemoryStore struct {
	mu        sync.RWMutex
	entities  map[entityKey]Entity
	movements map[movementKey]InventoryMovement
	orders    map[orderKey]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entities:  make(map[entityKey]Entity),
		movements: make(map[movementKey]InventoryMovement),
		orders:    make(map[orderKey]string),
	}
}

func (s *MemoryStore) Get(_ context.Context, kind Kind, tenantID, id string) (Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entities[entityKey{kind, tenantID, id}]
	if !ok {
		return Entity{}, fmt.Errorf("%s %q: %w", kind, id, ErrEntityNotFound)
	}
	return e.Clone(), nil
}

func (s *MemoryStore) Insert(_ context.Context, entity Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := entityKey{entity.Kind, entity.TenantID, entity.ID}
	if _, exists := s.entities[key]; exists {
		return fmt.Errorf("%s %q: %w", entity.Kind, entity.ID, ErrEntityExists)
	}
	s.entities[key] = entity.Clone()
	return nil
}

func (s *MemoryStore) Commit(_ context.Context, c Commit) (Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := entityKey{c.Kind, c.TenantID, c.ID}
	current, ok := s.entities[key]
	if !ok {
		return Entity{}, fmt.Errorf("%s %q: %w", c.Kind, c.ID, ErrEntityNotFound)
	}
	if current.Status != c.ExpectedStatus {
		return Entity{}, ErrConcurrentModification
	}

	// Check linked rows before touching anything so a failure leaves no trace.
	for _, l := range c.Linked {
		if err := s.checkLinked(c.TenantID, l); err != nil {
			return Entity{}, err
		}
	}

	next := current.Clone()
	next.Status = c.NewStatus
	next.Version++
	next.UpdatedAt = c.At
	maps.Copy(next.Fields, cloneFields(c.Fields))
	s.entities[key] = next

	s.appendMovements(c.Movements)
	for _, l := range c.Linked {
		s.orders[orderKey{c.TenantID, l.ID}] = l.Value
	}

	return next.Clone(), nil
}

func (s *MemoryStore) Patch(_ context.Context, p Patch) (Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := entityKey{p.Kind, p.TenantID, p.ID}
	current, ok := s.entities[key]
	if !ok {
		return Entity{}, fmt.Errorf("%s %q: %w", p.Kind, p.ID, ErrEntityNotFound)
	}
	if current.Status != p.ExpectedStatus {
		return Entity{}, ErrConcurrentModification
	}

	next := current.Clone()
	next.Version++
	next.UpdatedAt = p.At
	maps.Copy(next.Fields, cloneFields(p.Fields))
	s.entities[key] = next
	return next.Clone(), nil
}

// AppendMovements inserts movements that are not yet recorded and returns how
// many were new. Replaying the same movements is a no-op.
func (s *MemoryStore) AppendMovements(_ context.Context, movements []InventoryMovement) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendMovements(movements), nil
}

func (s *MemoryStore) appendMovements(movements []InventoryMovement) int {
	inserted := 0
	for _, m := range movements {
		key := movementKey{m.TenantID, m.TransferID, m.LineItemID}
		if _, exists := s.movements[key]; exists {
			continue
		}
		s.movements[key] = m
		inserted++
	}
	return inserted
}

// ListMovements returns the recorded movements of a transfer ordered by line item.
func (s *MemoryStore) ListMovements(_ context.Context, tenantID, transferID string) ([]InventoryMovement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []InventoryMovement
	for k, m := range s.movements {
		if k.tenantID == tenantID && k.transferID == transferID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LineItemID < out[j].LineItemID })
	return out, nil
}

// PutOrder seeds an order row that linked updates may target.
func (s *MemoryStore) PutOrder(tenantID, id, paymentStatus string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[orderKey{tenantID, id}] = paymentStatus
}

// OrderPaymentStatus returns the payment status of a seeded order.
func (s *MemoryStore) OrderPaymentStatus(tenantID, id string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.orders[orderKey{tenantID, id}]
	return v, ok
}

func (s *MemoryStore) checkLinked(tenantID string, l LinkedUpdate) error {
	switch l.Target {
	case LinkOrderPaymentStatus:
		if _, ok := s.orders[orderKey{tenantID, l.ID}]; !ok {
			return invalid("order_id", "order %q not found", l.ID)
		}
		return nil
	default:
		return fmt.Errorf("unsupported link target %q", l.Target)
	}
}
