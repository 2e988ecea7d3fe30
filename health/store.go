package health

import (
	"sync"
	"time"
)

// Store is the authoritative in-memory table of last-known health per
// entity. It is mutated only by full replacement after a fleet-wide check
// or by merging a single entity after a targeted re-check; everything else
// reads deep-copied snapshots.
//
// Store is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	entities map[string]EntityRecord
	now      func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		entities: make(map[string]EntityRecord),
		now:      time.Now,
	}
}

// ReplaceAll atomically swaps the entire table. Used after a fleet-wide
// check. The store takes its own deep copies, so the caller may keep
// mutating its map afterwards.
func (s *Store) ReplaceAll(entities map[string]EntityRecord) {
	table := make(map[string]EntityRecord, len(entities))
	for id, record := range entities {
		record.ID = id
		table[id] = record.clone()
	}

	s.mu.Lock()
	s.entities = table
	s.mu.Unlock()
}

// MergeOne shallow-merges the patch into the record for id, inserting a
// new record if the id is unknown — including on a never-yet-populated
// store. The merge time is stamped as LastCheckedAt. Unrelated entities
// are untouched. The merged record is returned.
func (s *Store) MergeOne(id string, kind Kind, patch Patch) EntityRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.entities[id]
	if !ok {
		record = EntityRecord{ID: id, Kind: kind}
	}
	patch.apply(&record)
	record.LastCheckedAt = s.now()
	s.entities[id] = record

	return record.clone()
}

// Get returns a copy of the record for id.
func (s *Store) Get(id string) (EntityRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.entities[id]
	if !ok {
		return EntityRecord{}, false
	}
	return record.clone(), true
}

// Snapshot returns a deep copy of the current table. Mutating the result
// does not affect the store.
func (s *Store) Snapshot() map[string]EntityRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]EntityRecord, len(s.entities))
	for id, record := range s.entities {
		out[id] = record.clone()
	}
	return out
}

// Len returns the number of entities currently tracked.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entities)
}

// Clear resets the store to empty.
func (s *Store) Clear() {
	s.mu.Lock()
	s.entities = make(map[string]EntityRecord)
	s.mu.Unlock()
}
