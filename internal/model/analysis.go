package model

import (
	"time"

	"github.com/google/uuid"
)

// AnalysisResult is the outcome of one successful analysis run: the
// final executed SQL, the result table, the derived chart configuration
// and the generated commentary. Immutable once constructed.
type AnalysisResult struct {
	ID          uuid.UUID   `json:"id"`
	Instruction string      `json:"instruction"`
	SQL         string      `json:"sql"`
	Table       *Table      `json:"table"`
	Chart       ChartConfig `json:"chart"`
	Comment     string      `json:"comment"`
	Warning     string      `json:"warning,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

// HistoryEntry is a snapshot of one completed analysis kept in the
// session ledger.
type HistoryEntry struct {
	ID          uuid.UUID   `json:"id"`
	Instruction string      `json:"instruction"`
	SQL         string      `json:"sql"`
	Table       *Table      `json:"table"`
	Chart       ChartConfig `json:"chart"`
	Comment     string      `json:"comment"`
	CreatedAt   time.Time   `json:"created_at"`
}
