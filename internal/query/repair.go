package query

import (
	"context"

	"go.uber.org/zap"

	"github.com/vorn-digital/adlens/internal/model"
	"github.com/vorn-digital/adlens/internal/store"
)

// MaxAttempts bounds the number of store queries one repair run issues.
const MaxAttempts = 3

// AttemptState names the outcome of one execution attempt.
type AttemptState string

const (
	// AttemptSuccess: the query ran and returned a table.
	AttemptSuccess AttemptState = "success"
	// AttemptRetryable: the query failed with an error a rewritten
	// query might fix (syntax, unknown column, and the like).
	AttemptRetryable AttemptState = "retryable"
	// AttemptFatal: permission denied; no rewrite can fix it.
	AttemptFatal AttemptState = "fatal"
)

// Attempt records one execution try within a repair run.
type Attempt struct {
	Ordinal int          `json:"ordinal"`
	SQL     string       `json:"sql"`
	State   AttemptState `json:"state"`
	Error   string       `json:"error,omitempty"`
}

// Outcome is the terminal result of ExecuteWithRepair. Success is the
// only signal callers branch on; Attempts is kept for inspection and
// Corrections counts generation calls spent on repair.
type Outcome struct {
	FinalSQL    string
	Table       *model.Table
	Success     bool
	Attempts    []Attempt
	Corrections int

	// CorrectionErr is set when a run ended because the generation
	// service itself failed while producing a correction, as opposed to
	// exhausting the attempt budget on failing SQL.
	CorrectionErr string
}

// Engine executes generated SQL against the analytic store and repairs
// failures through the generation service, bounded by MaxAttempts.
type Engine struct {
	store       store.Store
	synth       *Synthesizer
	maxAttempts int
}

// NewEngine returns an Engine with the default attempt bound.
func NewEngine(st store.Store, synth *Synthesizer) *Engine {
	return &Engine{store: st, synth: synth, maxAttempts: MaxAttempts}
}

// ExecuteWithRepair runs the query, feeding failures back to the
// generation service for correction until it succeeds, hits a
// permission error, or exhausts the attempt budget. It never returns an
// error; every path terminates in an Outcome.
//
// The attempt loop is strictly sequential: each correction prompt
// depends on the previous attempt's error text.
func (e *Engine) ExecuteWithRepair(ctx context.Context, sql string) Outcome {
	out := Outcome{FinalSQL: sql}

	for n := 1; n <= e.maxAttempts; n++ {
		table, err := e.store.Query(ctx, sql)
		if err == nil {
			out.Attempts = append(out.Attempts, Attempt{Ordinal: n, SQL: sql, State: AttemptSuccess})
			out.FinalSQL = sql
			out.Table = table
			out.Success = true
			return out
		}

		if store.IsPermissionDenied(err) {
			out.Attempts = append(out.Attempts, Attempt{Ordinal: n, SQL: sql, State: AttemptFatal, Error: err.Error()})
			out.FinalSQL = sql
			out.Table = &model.Table{}
			zap.L().Error("query permission denied, not retrying",
				zap.Int("attempt", n),
				zap.Error(err),
			)
			return out
		}

		out.Attempts = append(out.Attempts, Attempt{Ordinal: n, SQL: sql, State: AttemptRetryable, Error: err.Error()})
		out.FinalSQL = sql

		if n == e.maxAttempts {
			break
		}

		zap.L().Warn("query failed, requesting correction",
			zap.Int("attempt", n),
			zap.Int("max_attempts", e.maxAttempts),
			zap.Error(err),
		)

		corrected, genErr := e.synth.Correct(ctx, sql, err.Error())
		if genErr != nil {
			// A dead generation service ends the run; the last
			// failing SQL stays in the outcome for inspection.
			zap.L().Error("correction generation failed", zap.Error(genErr))
			out.Table = &model.Table{}
			out.CorrectionErr = genErr.Error()
			return out
		}
		out.Corrections++
		sql = corrected
	}

	zap.L().Error("query repair exhausted", zap.Int("attempts", e.maxAttempts))
	out.Table = &model.Table{}
	return out
}
