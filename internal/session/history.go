package session

import (
	"github.com/vorn-digital/adlens/internal/model"
)

// HistoryCapacity bounds the session ledger; appends beyond it evict the
// oldest entry.
const HistoryCapacity = 10

// History is the bounded, append-only ledger of completed analyses for
// one session. Entries are insertion-ordered, most recent last. There is
// no delete or edit beyond capacity-driven eviction.
type History struct {
	capacity int
	entries  []model.HistoryEntry
}

// NewHistory returns an empty ledger with the default capacity.
func NewHistory() *History {
	return NewHistoryWithCapacity(HistoryCapacity)
}

// NewHistoryWithCapacity returns an empty ledger bounded to n entries.
// Non-positive n falls back to the default.
func NewHistoryWithCapacity(n int) *History {
	if n <= 0 {
		n = HistoryCapacity
	}
	return &History{capacity: n}
}

// Append adds an entry at the end, evicting the oldest entry when the
// ledger is full.
func (h *History) Append(entry model.HistoryEntry) {
	h.entries = append(h.entries, entry)
	if len(h.entries) > h.capacity {
		h.entries = h.entries[1:]
	}
}

// Entries returns a copy of the ledger, oldest first.
func (h *History) Entries() []model.HistoryEntry {
	out := make([]model.HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len reports the number of stored entries.
func (h *History) Len() int {
	return len(h.entries)
}
