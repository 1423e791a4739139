// Package session owns the per-session state of the analytics
// conversation (filters, history, current result) and orchestrates the
// analysis flow across routing, synthesis, execution and visualization.
package session

import (
	"time"

	"github.com/vorn-digital/adlens/internal/model"
)

// defaultLookback is the initial filter window: the last 30 days.
const defaultLookback = 30 * 24 * time.Hour

// Session is the state owned by one interactive user session. It is not
// safe for concurrent use; each session is driven by one sequential
// control flow, and concurrent sessions must each own their own
// instance.
type Session struct {
	Filters model.FilterSet
	Apply   model.FilterFlags
	History *History

	// Current is the most recent analysis result, nil before the first
	// successful run.
	Current *model.AnalysisResult
}

// Options tunes the initial state of new sessions. Zero values fall
// back to the defaults.
type Options struct {
	LookbackDays    int
	HistoryCapacity int
}

// NewSession creates a session with default filters: a 30-day date
// window, no category selections, every filter dimension enabled.
func NewSession() *Session {
	return NewSessionWith(Options{})
}

// NewSessionWith creates a session with the given tuning.
func NewSessionWith(opts Options) *Session {
	lookback := defaultLookback
	if opts.LookbackDays > 0 {
		lookback = time.Duration(opts.LookbackDays) * 24 * time.Hour
	}
	now := time.Now()
	return &Session{
		Filters: model.FilterSet{
			StartDate: now.Add(-lookback),
			EndDate:   now,
		},
		Apply:   model.AllFilters(),
		History: NewHistoryWithCapacity(opts.HistoryCapacity),
	}
}
