package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/vorn-digital/adlens/internal/chart"
	"github.com/vorn-digital/adlens/internal/model"
	"github.com/vorn-digital/adlens/internal/profile"
	"github.com/vorn-digital/adlens/internal/query"
)

// Warning strings surfaced on partial outcomes. The caller presents
// them; the core only produces them.
const (
	warnEmptyResult      = "クエリは成功しましたが、結果データが0件でした。"
	warnNoNumericData    = "グラフ化に適した数値データが見つかりませんでした。"
	warnRepairExceeded   = "SQL修正を3回試みましたが解決できませんでした。"
	warnCorrectionError  = "SQL修正の生成中にエラーが発生しました。"
	warnPermissionDenied = "分析データベースへのアクセス権限がありません。"
)

// Analyzer runs the full analysis flow for a session. It is stateless
// itself; all mutable state lives in the Session passed to each call.
type Analyzer struct {
	synth       *query.Synthesizer
	engine      *query.Engine
	commentator *chart.Commentator
}

// NewAnalyzer wires the analysis flow components.
func NewAnalyzer(synth *query.Synthesizer, engine *query.Engine, commentator *chart.Commentator) *Analyzer {
	return &Analyzer{synth: synth, engine: engine, commentator: commentator}
}

// Run executes one instruction end to end: route to a profile, compile
// the session's filters, synthesize SQL, execute with repair, derive the
// default chart and commentary, and append to the session history.
//
// On execution failure the returned result still carries the last
// attempted SQL and an empty table for inspection, together with a
// non-nil error. History only records fully successful analyses.
func (a *Analyzer) Run(ctx context.Context, sess *Session, instruction string) (*model.AnalysisResult, error) {
	p := profile.Route(instruction)
	zap.L().Info("instruction routed",
		zap.String("profile", string(p.Key)),
		zap.String("instruction", instruction),
	)

	fragment := query.CompileFilters(sess.Filters, sess.Apply, query.ClauseWhere)

	sql, err := a.synth.Synthesize(ctx, p, instruction, fragment)
	if err != nil {
		return nil, eris.Wrap(err, "session: synthesize sql")
	}

	result, err := a.execute(ctx, sess, instruction, sql)
	if err != nil {
		return result, err
	}

	if result.Warning == "" {
		sess.History.Append(model.HistoryEntry{
			ID:          result.ID,
			Instruction: instruction,
			SQL:         result.SQL,
			Table:       result.Table,
			Chart:       result.Chart,
			Comment:     result.Comment,
			CreatedAt:   result.CreatedAt,
		})
	}
	sess.Current = result
	return result, nil
}

// Rerun executes user-edited SQL through the repair loop and rebuilds
// the chart and commentary. Reruns are not appended to history; they
// refine the current result instead of starting a new analysis.
func (a *Analyzer) Rerun(ctx context.Context, sess *Session, sql string) (*model.AnalysisResult, error) {
	result, err := a.execute(ctx, sess, "", sql)
	if err != nil {
		return result, err
	}
	sess.Current = result
	return result, nil
}

// ModifyAndRun asks the generation service to rewrite the given SQL per
// the user's modification instruction, then executes the result.
func (a *Analyzer) ModifyAndRun(ctx context.Context, sess *Session, sql, instruction string) (*model.AnalysisResult, error) {
	if instruction == "" {
		return nil, eris.New("session: modification instruction is empty")
	}

	modified, err := a.synth.Modify(ctx, sql, instruction)
	if err != nil {
		return nil, eris.Wrap(err, "session: modify sql")
	}

	result, err := a.execute(ctx, sess, instruction, modified)
	if err != nil {
		return result, err
	}
	sess.Current = result
	return result, nil
}

func (a *Analyzer) execute(ctx context.Context, sess *Session, instruction, sql string) (*model.AnalysisResult, error) {
	out := a.engine.ExecuteWithRepair(ctx, sql)

	result := &model.AnalysisResult{
		ID:          uuid.New(),
		Instruction: instruction,
		SQL:         out.FinalSQL,
		Table:       out.Table,
		CreatedAt:   time.Now(),
	}

	if !out.Success {
		if len(out.Attempts) > 0 && out.Attempts[len(out.Attempts)-1].State == query.AttemptFatal {
			return result, eris.New(warnPermissionDenied)
		}
		if out.CorrectionErr != "" {
			return result, eris.New(warnCorrectionError)
		}
		return result, eris.New(warnRepairExceeded)
	}

	if out.Table.Empty() {
		result.Warning = warnEmptyResult
		return result, nil
	}

	cfg, ok := chart.DeriveDefault(out.Table)
	if !ok {
		result.Warning = warnNoNumericData
		return result, nil
	}

	result.Chart = cfg
	result.Comment = a.commentator.Summarize(ctx, out.Table, cfg)
	return result, nil
}
