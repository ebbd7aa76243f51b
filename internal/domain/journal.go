package domain

import "time"

// DateLabelLayout renders the day an entry belongs to, e.g. "Monday, March 3, 2025".
const DateLabelLayout = "Monday, January 2, 2006"

// JournalEntry is immutable once saved.
type JournalEntry struct {
	ID        JournalEntryID `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	DateLabel string         `json:"date_label"`
	Prompt    string         `json:"prompt"`
	Text      string         `json:"text"`
}

// JournalDay is the set of entries sharing a DateLabel, newest first.
type JournalDay struct {
	DateLabel string          `json:"date_label"`
	Entries   []*JournalEntry `json:"entries"`
}

// JournalStore keeps entries newest first.
type JournalStore interface {
	PrependJournalEntry(entry *JournalEntry) error
	ListJournalEntries(limit int) ([]*JournalEntry, error)
}
