package main

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vorn-digital/adlens/internal/chart"
	"github.com/vorn-digital/adlens/internal/dashboard"
	"github.com/vorn-digital/adlens/internal/export"
	"github.com/vorn-digital/adlens/internal/model"
	"github.com/vorn-digital/adlens/internal/session"
)

// apiServer exposes the analysis flow over HTTP. Each client session
// maps to one session.Session; the per-session mutex serializes its
// requests because session state is single-threaded by design.
type apiServer struct {
	env          *analysisEnv
	lookerReport string

	mu       sync.Mutex
	sessions map[string]*apiSession
	now      func() time.Time
}

type apiSession struct {
	mu       sync.Mutex
	s        *session.Session
	lastSeen time.Time
}

// sessionIdleTTL bounds how long an untouched session keeps its result
// tables in memory before the next lookup sweeps it away.
const sessionIdleTTL = time.Hour

func newAPIServer(env *analysisEnv, lookerReport string) *apiServer {
	return &apiServer{
		env:          env,
		lookerReport: lookerReport,
		sessions:     map[string]*apiSession{},
		now:          time.Now,
	}
}

// session returns the session for the given ID, creating it on first
// use. An empty ID gets a fresh session under a new ID. Sessions idle
// past sessionIdleTTL are evicted on the way in.
func (s *apiServer) session(id string) (string, *apiSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for sid, as := range s.sessions {
		if now.Sub(as.lastSeen) > sessionIdleTTL {
			delete(s.sessions, sid)
		}
	}
	if id == "" {
		id = uuid.NewString()
	}
	as, ok := s.sessions[id]
	if !ok {
		as = &apiSession{s: session.NewSessionWith(s.env.SessionOptions)}
		s.sessions[id] = as
	}
	as.lastSeen = now
	return id, as
}

func (s *apiServer) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/rerun", s.handleRerun)
		r.Post("/modify", s.handleModify)
		r.Post("/figure", s.handleFigure)
		r.Get("/history", s.handleHistory)
		r.Get("/export", s.handleExport)

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/url", s.handleDashboardURL)
			r.Get("/summary", s.handleDashboardSummary)
			r.Get("/options", s.handleDashboardOptions)
		})
	})

	return r
}

type filtersPayload struct {
	StartDate string   `json:"start_date,omitempty"`
	EndDate   string   `json:"end_date,omitempty"`
	Media     []string `json:"media,omitempty"`
	Campaigns []string `json:"campaigns,omitempty"`

	// Pointers so an absent flag leaves the session's setting alone.
	ApplyDate     *bool `json:"apply_date,omitempty"`
	ApplyMedia    *bool `json:"apply_media,omitempty"`
	ApplyCampaign *bool `json:"apply_campaign,omitempty"`
}

type analyzeRequest struct {
	SessionID   string          `json:"session_id,omitempty"`
	Instruction string          `json:"instruction"`
	Filters     *filtersPayload `json:"filters,omitempty"`
}

type resultResponse struct {
	SessionID string                `json:"session_id"`
	Result    *model.AnalysisResult `json:"result,omitempty"`
	Error     string                `json:"error,omitempty"`
}

const apiDateLayout = "2006-01-02"

func applyFilters(sess *session.Session, f *filtersPayload) error {
	if f == nil {
		return nil
	}
	if f.StartDate != "" {
		from, err := time.Parse(apiDateLayout, f.StartDate)
		if err != nil {
			return err
		}
		sess.Filters.StartDate = from
	}
	if f.EndDate != "" {
		to, err := time.Parse(apiDateLayout, f.EndDate)
		if err != nil {
			return err
		}
		sess.Filters.EndDate = to
	}
	if f.Media != nil {
		sess.Filters.Media = f.Media
	}
	if f.Campaigns != nil {
		sess.Filters.Campaigns = f.Campaigns
	}
	if f.ApplyDate != nil {
		sess.Apply.Date = *f.ApplyDate
	}
	if f.ApplyMedia != nil {
		sess.Apply.Media = *f.ApplyMedia
	}
	if f.ApplyCampaign != nil {
		sess.Apply.Campaign = *f.ApplyCampaign
	}
	return nil
}

func (s *apiServer) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Instruction == "" {
		writeError(w, http.StatusBadRequest, "instruction is required")
		return
	}

	id, as := s.session(req.SessionID)
	as.mu.Lock()
	defer as.mu.Unlock()

	if err := applyFilters(as.s, req.Filters); err != nil {
		writeError(w, http.StatusBadRequest, "invalid filters: "+err.Error())
		return
	}

	result, err := s.env.Analyzer.Run(r.Context(), as.s, req.Instruction)
	if err != nil {
		zap.L().Warn("analysis failed", zap.String("session", id), zap.Error(err))
		writeJSON(w, http.StatusUnprocessableEntity, resultResponse{
			SessionID: id, Result: result, Error: err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, resultResponse{SessionID: id, Result: result})
}

type sqlRequest struct {
	SessionID   string `json:"session_id"`
	SQL         string `json:"sql"`
	Instruction string `json:"instruction,omitempty"`
}

func (s *apiServer) handleRerun(w http.ResponseWriter, r *http.Request) {
	var req sqlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SQL == "" {
		writeError(w, http.StatusBadRequest, "sql is required")
		return
	}

	id, as := s.session(req.SessionID)
	as.mu.Lock()
	defer as.mu.Unlock()

	result, err := s.env.Analyzer.Rerun(r.Context(), as.s, req.SQL)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, resultResponse{
			SessionID: id, Result: result, Error: err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, resultResponse{SessionID: id, Result: result})
}

func (s *apiServer) handleModify(w http.ResponseWriter, r *http.Request) {
	var req sqlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SQL == "" {
		writeError(w, http.StatusBadRequest, "sql is required")
		return
	}
	if req.Instruction == "" {
		writeError(w, http.StatusBadRequest, "instruction is required")
		return
	}

	id, as := s.session(req.SessionID)
	as.mu.Lock()
	defer as.mu.Unlock()

	result, err := s.env.Analyzer.ModifyAndRun(r.Context(), as.s, req.SQL, req.Instruction)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, resultResponse{
			SessionID: id, Result: result, Error: err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, resultResponse{SessionID: id, Result: result})
}

type figureRequest struct {
	SessionID string             `json:"session_id"`
	Chart     *model.ChartConfig `json:"chart,omitempty"`
}

// handleFigure renders the current result as a figure. A chart config
// in the request overrides the derived default, letting clients switch
// kind, axes, legend grouping or the combo secondary axis.
func (s *apiServer) handleFigure(w http.ResponseWriter, r *http.Request) {
	var req figureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	_, as := s.session(req.SessionID)
	as.mu.Lock()
	defer as.mu.Unlock()

	if as.s.Current == nil || as.s.Current.Table.Empty() {
		writeError(w, http.StatusNotFound, "no result to render")
		return
	}

	cfg := as.s.Current.Chart
	if req.Chart != nil {
		cfg = *req.Chart
	}

	fig, err := chart.Render(as.s.Current.Table, cfg)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"figure": fig,
			"error":  err.Error(),
		})
		return
	}
	if req.Chart != nil {
		as.s.Current.Chart = cfg
	}
	writeJSON(w, http.StatusOK, map[string]any{"figure": fig})
}

func (s *apiServer) handleHistory(w http.ResponseWriter, r *http.Request) {
	id, as := s.session(r.URL.Query().Get("session_id"))
	as.mu.Lock()
	defer as.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"session_id": id,
		"entries":    as.s.History.Entries(),
	})
}

func (s *apiServer) handleExport(w http.ResponseWriter, r *http.Request) {
	_, as := s.session(r.URL.Query().Get("session_id"))
	as.mu.Lock()
	defer as.mu.Unlock()

	if as.s.Current == nil || as.s.Current.Table.Empty() {
		writeError(w, http.StatusNotFound, "no result to export")
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	name := export.Filename(format, time.Now())
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)

	var err error
	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		err = export.WriteCSV(w, as.s.Current.Table)
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		err = export.WriteXLSX(w, as.s.Current.Table)
	default:
		writeError(w, http.StatusBadRequest, "unknown format: "+format)
		return
	}
	if err != nil {
		zap.L().Error("export failed", zap.String("format", format), zap.Error(err))
	}
}

func (s *apiServer) handleDashboardURL(w http.ResponseWriter, r *http.Request) {
	if s.lookerReport == "" {
		writeError(w, http.StatusServiceUnavailable, "dashboard report ID is not configured")
		return
	}

	sheet := r.URL.Query().Get("sheet")
	if sheet == "" {
		sheet = dashboard.DefaultSheet
	}

	_, as := s.session(r.URL.Query().Get("session_id"))
	as.mu.Lock()
	defer as.mu.Unlock()

	url, err := dashboard.EmbedURL(s.lookerReport, sheet, as.s.Filters, as.s.Apply)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"sheet": sheet, "url": url})
}

func (s *apiServer) handleDashboardSummary(w http.ResponseWriter, r *http.Request) {
	sheet := r.URL.Query().Get("sheet")
	if sheet == "" {
		sheet = dashboard.DefaultSheet
	}

	_, as := s.session(r.URL.Query().Get("session_id"))
	as.mu.Lock()
	filters, apply := as.s.Filters, as.s.Apply
	as.mu.Unlock()

	comment := s.env.Summarizer.Summarize(r.Context(), sheet, filters, apply)
	writeJSON(w, http.StatusOK, map[string]string{"sheet": sheet, "comment": comment})
}

func (s *apiServer) handleDashboardOptions(w http.ResponseWriter, r *http.Request) {
	media, campaigns, err := s.env.Summarizer.FilterOptions(r.Context())
	if err != nil {
		zap.L().Error("filter options load failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "failed to load filter options")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"sheets":    dashboard.SheetNames(),
		"media":     media,
		"campaigns": campaigns,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
