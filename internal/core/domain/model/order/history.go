package order

import "time"

// StatusHistoryEntry records a single status transition. History is append-only:
// entries are never rewritten or removed, so the sequence of entries is the
// authoritative audit trail of an entity's lifecycle.
type StatusHistoryEntry struct {
	Status string
	At     time.Time
	Note   string
}

func newHistoryEntry(status string, note string) StatusHistoryEntry {
	return StatusHistoryEntry{
		Status: status,
		At:     time.Now().UTC(),
		Note:   note,
	}
}
