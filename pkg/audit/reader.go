package audit

import "context"

// Reader reads the audit trail back.
type Reader struct {
	storage Storage
}

// NewReader creates a new audit reader. It panics on a nil storage.
func NewReader(storage Storage) *Reader {
	if storage == nil {
		panic("audit: storage cannot be nil")
	}
	return &Reader{storage: storage}
}

// Find retrieves audit events matching criteria, oldest first.
func (r *Reader) Find(ctx context.Context, criteria Criteria) ([]Event, error) {
	if criteria.TenantID == "" {
		return nil, ErrTenantRequired
	}
	return r.storage.Query(ctx, criteria)
}

// History returns every recorded attempt for one entity.
func (r *Reader) History(ctx context.Context, tenantID, kind, id string) ([]Event, error) {
	return r.Find(ctx, Criteria{TenantID: tenantID, EntityKind: kind, EntityID: id})
}

// Count uses the storage's native count when it has one and falls back to
// loading the matching events.
func (r *Reader) Count(ctx context.Context, criteria Criteria) (int64, error) {
	if criteria.TenantID == "" {
		return 0, ErrTenantRequired
	}
	if counter, ok := r.storage.(StorageCounter); ok {
		return counter.Count(ctx, criteria)
	}
	criteria.Limit, criteria.Offset = 0, 0
	events, err := r.storage.Query(ctx, criteria)
	if err != nil {
		return 0, err
	}
	return int64(len(events)), nil
}
