package audit

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore implements the Store interface using an in-memory map.
// Records do not survive process restarts; use the sqlite backend when
// history must persist.
type MemoryStore struct {
	records map[string]*Record
	mu      sync.RWMutex
	closed  bool
}

// NewMemoryStore creates a new in-memory audit store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*Record),
	}
}

// Store persists an audit record to memory.
func (s *MemoryStore) Store(ctx context.Context, record *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Copy to keep callers from mutating stored state
	recordCopy := *record
	s.records[record.ID] = &recordCopy

	return nil
}

// Query retrieves records matching the query filters, sorted by start time.
func (s *MemoryStore) Query(ctx context.Context, query *Query) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := []*Record{}
	for _, record := range s.records {
		if matchesQuery(record, query) {
			recordCopy := *record
			results = append(results, &recordCopy)
		}
	}

	asc := query.SortOrder == "asc"
	sort.Slice(results, func(i, j int) bool {
		if asc {
			return results[i].StartedAt.Before(results[j].StartedAt)
		}
		return results[i].StartedAt.After(results[j].StartedAt)
	})

	start := query.Offset
	if start > len(results) {
		return []*Record{}, nil
	}
	results = results[start:]
	if query.Limit > 0 && query.Limit < len(results) {
		results = results[:query.Limit]
	}

	return results, nil
}

// Count returns the number of records matching the query filters.
func (s *MemoryStore) Count(ctx context.Context, query *Query) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, record := range s.records {
		if matchesQuery(record, query) {
			count++
		}
	}

	return count, nil
}

// Delete removes records matching the query filters.
func (s *MemoryStore) Delete(ctx context.Context, query *Query) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for id, record := range s.records {
		if matchesQuery(record, query) {
			delete(s.records, id)
			deleted++
		}
	}

	return deleted, nil
}

// Ping reports the store as healthy while it is open.
func (s *MemoryStore) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return NewStorageError("memory", "ping", ErrClosed)
	}
	return nil
}

// Close marks the store closed and drops all records.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[string]*Record)
	s.closed = true
	return nil
}

// matchesQuery reports whether a record passes all query filters.
func matchesQuery(record *Record, query *Query) bool {
	if query == nil {
		return true
	}

	if query.StartTime != nil && record.StartedAt.Before(*query.StartTime) {
		return false
	}
	if query.EndTime != nil && record.StartedAt.After(*query.EndTime) {
		return false
	}
	if query.Status != "" && record.Status != query.Status {
		return false
	}
	if query.ErrorKind != "" && record.ErrorKind != query.ErrorKind {
		return false
	}
	if query.Mode != "" && record.Mode != query.Mode {
		return false
	}
	if query.TemplateHash != "" && record.TemplateHash != query.TemplateHash {
		return false
	}

	return true
}
