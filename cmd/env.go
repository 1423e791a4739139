package main

import (
	"context"
	"time"

	"github.com/vorn-digital/adlens/internal/chart"
	"github.com/vorn-digital/adlens/internal/dashboard"
	"github.com/vorn-digital/adlens/internal/query"
	"github.com/vorn-digital/adlens/internal/session"
	"github.com/vorn-digital/adlens/internal/store"
	"github.com/vorn-digital/adlens/pkg/genai"
)

// analysisEnv holds the initialized collaborators shared by the ask,
// serve and dashboard commands.
type analysisEnv struct {
	Store          store.Store
	Analyzer       *session.Analyzer
	Summarizer     *dashboard.Summarizer
	SessionOptions session.Options
}

// Close releases resources held by the environment.
func (e *analysisEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initAnalysis sets up the store, the generation client, and the
// analysis flow. Callers should defer env.Close().
func initAnalysis(ctx context.Context) (*analysisEnv, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL)
	if err != nil {
		return nil, err
	}

	gen := genai.NewClient(cfg.Anthropic.Key, cfg.Anthropic.Model, cfg.Anthropic.RequestsPerSecond)
	synth := query.NewSynthesizer(gen)

	return &analysisEnv{
		Store:    st,
		Analyzer: session.NewAnalyzer(synth, query.NewEngine(st, synth), chart.NewCommentator(gen)),
		SessionOptions: session.Options{
			LookbackDays:    cfg.Session.LookbackDays,
			HistoryCapacity: cfg.Session.HistoryCapacity,
		},
		Summarizer: dashboard.NewSummarizer(st, gen,
			time.Duration(cfg.Cache.SummaryTTLSecs)*time.Second,
			time.Duration(cfg.Cache.OptionsTTLSecs)*time.Second),
	}, nil
}
