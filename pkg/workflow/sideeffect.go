package workflow

import (
	"maps"
	"time"

	"github.com/google/uuid"
)

// SideEffect computes the mutations that must be committed atomically with a
// transition. It must be deterministic for a given input: the only clock it
// may read is RuleInput.Now, so a retried write recomputes the same result.
type SideEffect func(in RuleInput) (Mutation, error)

// RuleInput is everything a side effect may look at.
type RuleInput struct {
	Entity  Entity
	From    string
	To      string
	Payload map[string]any
	Actor   string
	Now     time.Time
}

// Lookup returns the payload value for key, falling back to the entity field.
func (in RuleInput) Lookup(key string) (any, bool) {
	if v, ok := in.Payload[key]; ok && v != nil {
		return v, true
	}
	v, ok := in.Entity.Fields[key]
	return v, ok && v != nil
}

// Number reads a numeric value via Lookup. ok is false when the key is absent.
func (in RuleInput) Number(key string) (n float64, ok bool, err error) {
	v, found := in.Lookup(key)
	if !found {
		return 0, false, nil
	}
	n, err = ParseNumber(key, v)
	return n, err == nil, err
}

// String reads a non-empty string value via Lookup.
func (in RuleInput) String(key string) (string, bool, error) {
	v, found := in.Lookup(key)
	if !found {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", false, invalid(key, "expected a string, got %T", v)
	}
	return s, s != "", nil
}

// Mutation is the outcome of the side effects of one transition.
type Mutation struct {
	Fields    map[string]any
	Movements []InventoryMovement
	Linked    []LinkedUpdate
}

// Set records a field write. A nil value clears the field.
func (m *Mutation) Set(key string, value any) {
	if m.Fields == nil {
		m.Fields = make(map[string]any)
	}
	m.Fields[key] = value
}

func (m *Mutation) merge(other Mutation) {
	if len(other.Fields) > 0 {
		if m.Fields == nil {
			m.Fields = make(map[string]any, len(other.Fields))
		}
		maps.Copy(m.Fields, other.Fields)
	}
	m.Movements = append(m.Movements, other.Movements...)
	m.Linked = append(m.Linked, other.Linked...)
}

// InventoryMovement is an append-only stock record. TransferID and LineItemID
// identify it within a tenant, so replaying the same insert is a no-op.
type InventoryMovement struct {
	ID         string    `json:"id"`
	TenantID   string    `json:"store_id"`
	TransferID string    `json:"transfer_id"`
	LineItemID string    `json:"line_item_id"`
	ProductID  string    `json:"product_id"`
	LocationID string    `json:"location_id"`
	Quantity   float64   `json:"quantity"`
	CreatedAt  time.Time `json:"created_at"`
}

var movementNamespace = uuid.MustParse("6f1b8d1e-4a53-4c8e-9a55-0c2f3b7d9e10")

// MovementID derives a stable identifier from the dedup key.
func MovementID(tenantID, transferID, lineItemID string) string {
	return uuid.NewSHA1(movementNamespace, []byte(tenantID+"/"+transferID+"/"+lineItemID)).String()
}

// LinkTarget names a field of another entity that a side effect may update.
// Targets are a closed set so stores can map them to fixed statements.
type LinkTarget string

const (
	LinkOrderPaymentStatus LinkTarget = "order_payment_status"
)

// LinkedUpdate is a cross-entity write committed in the same unit of work as
// the transition that caused it.
type LinkedUpdate struct {
	Target LinkTarget `json:"target"`
	ID     string     `json:"id"`
	Value  string     `json:"value"`
}

// Stamp returns a side effect writing Now into field.
func Stamp(field string) SideEffect {
	return func(in RuleInput) (Mutation, error) {
		var m Mutation
		m.Set(field, in.Now)
		return m, nil
	}
}

// CopyOptional returns a side effect copying string payload fields onto the
// entity when they are present.
func CopyOptional(fields ...string) SideEffect {
	return func(in RuleInput) (Mutation, error) {
		var m Mutation
		for _, f := range fields {
			v, ok := in.Payload[f]
			if !ok || v == nil {
				continue
			}
			s, isString := v.(string)
			if !isString {
				return Mutation{}, invalid(f, "expected a string, got %T", v)
			}
			m.Set(f, s)
		}
		return m, nil
	}
}

// Chain runs side effects in order and merges their mutations. Later writes to
// the same field win. The first error aborts the chain.
func Chain(effects ...SideEffect) SideEffect {
	return func(in RuleInput) (Mutation, error) {
		var out Mutation
		for _, fx := range effects {
			m, err := fx(in)
			if err != nil {
				return Mutation{}, err
			}
			out.merge(m)
		}
		return out, nil
	}
}
