package audit

import (
	"context"
	"maps"
	"slices"
	"sync"
)

// MemoryStorage keeps events in process. Used in tests and single-node setups.
type MemoryStorage struct {
	mu     sync.RWMutex
	events []Event
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (s *MemoryStorage) Store(ctx context.Context, event Event) error {
	return s.StoreBatch(ctx, []Event{event})
}

func (s *MemoryStorage) StoreBatch(_ context.Context, events []Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range events {
		e.Payload = maps.Clone(e.Payload)
		s.events = append(s.events, e)
	}
	return nil
}

func (s *MemoryStorage) Query(_ context.Context, criteria Criteria) ([]Event, error) {
	if criteria.TenantID == "" {
		return nil, ErrTenantRequired
	}

	s.mu.RLock()
	matched := make([]Event, 0)
	for _, e := range s.events {
		if criteria.matches(e) {
			matched = append(matched, e)
		}
	}
	s.mu.RUnlock()

	slices.SortStableFunc(matched, func(a, b Event) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return paginate(matched, criteria.Offset, criteria.Limit), nil
}

func (s *MemoryStorage) Count(ctx context.Context, criteria Criteria) (int64, error) {
	criteria.Limit, criteria.Offset = 0, 0
	events, err := s.Query(ctx, criteria)
	if err != nil {
		return 0, err
	}
	return int64(len(events)), nil
}

func (c Criteria) matches(e Event) bool {
	switch {
	case e.TenantID != c.TenantID:
		return false
	case c.EntityKind != "" && e.EntityKind != c.EntityKind:
		return false
	case c.EntityID != "" && e.EntityID != c.EntityID:
		return false
	case c.Action != "" && e.Action != c.Action:
		return false
	case c.Result != "" && e.Result != c.Result:
		return false
	case !c.StartTime.IsZero() && e.CreatedAt.Before(c.StartTime):
		return false
	case !c.EndTime.IsZero() && !e.CreatedAt.Before(c.EndTime):
		return false
	}
	return true
}

func paginate(events []Event, offset, limit int) []Event {
	if offset > 0 {
		if offset >= len(events) {
			return []Event{}
		}
		events = events[offset:]
	}
	if limit > 0 && limit < len(events) {
		events = events[:limit]
	}
	return events
}
