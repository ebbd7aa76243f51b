package memory

import (
	"sync"

	"github.com/google/uuid"

	"github.com/PabloGalante/mul/internal/domain"
)

// MemoryJournalStore is a simple in-memory implementation of domain.JournalStore.
// It is NOT persistent; entries live as long as the process.
type MemoryJournalStore struct {
	mu      sync.RWMutex
	entries []*domain.JournalEntry // newest first
}

// NewJournalStore creates a new in-memory JournalStore.
func NewJournalStore() *MemoryJournalStore {
	return &MemoryJournalStore{}
}

// PrependJournalEntry saves a new journal entry at the top.
func (s *MemoryJournalStore) PrependJournalEntry(entry *domain.JournalEntry) error {
	if entry == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = domain.JournalEntryID(uuid.NewString())
	}

	cp := *entry
	s.entries = append([]*domain.JournalEntry{&cp}, s.entries...)
	return nil
}

// ListJournalEntries returns the newest `limit` entries.
// If limit <= 0, returns all.
func (s *MemoryJournalStore) ListJournalEntries(limit int) ([]*domain.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.entries) {
		limit = len(s.entries)
	}

	out := make([]*domain.JournalEntry, limit)
	for i, e := range s.entries[:limit] {
		cp := *e
		out[i] = &cp
	}
	return out, nil
}
