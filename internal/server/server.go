// Package server exposes the classification and aggregation core as a
// read-only JSON API. The dataset is held in memory and can be swapped
// atomically when the source CSV changes.
package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/aadhaar-nexus/nexus-cli/internal/aggregate"
	"github.com/aadhaar-nexus/nexus-cli/internal/classify"
	"github.com/aadhaar-nexus/nexus-cli/internal/model"
)

// Options configures the API server.
type Options struct {
	AllowedOrigins   []string
	DistributionBins int
	TopStates        int
}

// Server holds the in-memory dataset behind a read lock so a file watch
// can replace it while requests are in flight.
type Server struct {
	mu      sync.RWMutex
	records []model.DistrictRecord
	opts    Options
}

// New creates a Server over the given dataset.
func New(records []model.DistrictRecord, opts Options) *Server {
	if opts.DistributionBins <= 0 {
		opts.DistributionBins = 30
	}
	if opts.TopStates <= 0 {
		opts.TopStates = 10
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	return &Server{records: records, opts: opts}
}

// SetRecords atomically replaces the dataset.
func (s *Server) SetRecords(records []model.DistrictRecord) {
	s.mu.Lock()
	s.records = records
	s.mu.Unlock()
	zap.L().Info("server: dataset replaced", zap.Int("districts", len(records)))
}

func (s *Server) snapshot() []model.DistrictRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records
}

// Router builds the chi router with CORS and request logging.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/national", s.handleNational)
		r.Get("/distribution", s.handleDistribution)
		r.Get("/states", s.handleStates)
		r.Get("/states/{state}", s.handleState)
		r.Get("/states/{state}/districts/{district}", s.handleDistrict)
	})
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("server: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	n := len(s.records)
	s.mu.RUnlock()
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "districts": n})
}

// nationalResponse is the country rollup plus the best and worst states
// by mean DEI, sized by the configured top-N.
type nationalResponse struct {
	aggregate.NationalView
	Top    []aggregate.StateRollup `json:"top_states"`
	Bottom []aggregate.StateRollup `json:"bottom_states"`
}

func (s *Server) handleNational(w http.ResponseWriter, r *http.Request) {
	view, err := aggregate.National(s.snapshot())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "no dataset loaded")
		return
	}
	writeJSON(w, http.StatusOK, nationalResponse{
		NationalView: view,
		Top:          view.TopStates(s.opts.TopStates),
		Bottom:       view.BottomStates(s.opts.TopStates),
	})
}

func (s *Server) handleDistribution(w http.ResponseWriter, r *http.Request) {
	bins := s.opts.DistributionBins
	if raw := r.URL.Query().Get("bins"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bins must be a positive integer")
			return
		}
		bins = n
	}

	dist, err := aggregate.DEIDistribution(s.snapshot(), bins)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "no dataset loaded")
		return
	}
	writeJSON(w, http.StatusOK, dist)
}

func (s *Server) handleStates(w http.ResponseWriter, r *http.Request) {
	view, err := aggregate.National(s.snapshot())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "no dataset loaded")
		return
	}
	writeJSON(w, http.StatusOK, view.States)
}

// stateDistrict is one district row in a state response.
type stateDistrict struct {
	model.DistrictRecord
	RiskCategory model.RiskCategory `json:"risk_category"`
	IssueType    model.IssueType    `json:"issue_type"`
}

// stateResponse is one state's rollup with its narrative insights and
// district rows, worst DEI first.
type stateResponse struct {
	aggregate.StateRollup
	Insights  []string        `json:"insights"`
	Districts []stateDistrict `json:"districts"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "state")

	group := s.stateGroup(name)
	if len(group) == 0 {
		writeError(w, http.StatusNotFound, "state not found")
		return
	}

	sum, err := aggregate.StateSummary(group)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "no dataset loaded")
		return
	}
	insights, err := aggregate.StateInsights(group)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "no dataset loaded")
		return
	}

	sorted := aggregate.SortByDEI(group, true)
	districts := make([]stateDistrict, 0, len(sorted))
	for _, rec := range sorted {
		districts = append(districts, stateDistrict{
			DistrictRecord: rec,
			RiskCategory:   classify.RiskCategory(rec),
			IssueType:      classify.IssueType(rec),
		})
	}

	writeJSON(w, http.StatusOK, stateResponse{
		StateRollup: aggregate.StateRollup{
			State:    group[0].State,
			Summary:  sum,
			Category: aggregate.CategorizeDEI(sum.MeanDEI),
			RiskMix:  aggregate.RiskCounts(group),
		},
		Insights:  insights,
		Districts: districts,
	})
}

// districtResponse is the full classification payload for one district.
type districtResponse struct {
	Record             model.DistrictRecord         `json:"record"`
	Badges             map[model.Metric]model.Badge `json:"badges"`
	RiskCategory       model.RiskCategory           `json:"risk_category"`
	IssueType          model.IssueType              `json:"issue_type"`
	Recommendation     model.Recommendation         `json:"recommendation"`
	DetailedSuggestion string                       `json:"detailed_suggestion"`
	SimpleSuggestion   string                       `json:"simple_suggestion"`
	Intervention       model.Intervention           `json:"intervention"`
}

func (s *Server) handleDistrict(w http.ResponseWriter, r *http.Request) {
	stateName := chi.URLParam(r, "state")
	districtName := chi.URLParam(r, "district")

	group := s.stateGroup(stateName)
	if len(group) == 0 {
		writeError(w, http.StatusNotFound, "state not found")
		return
	}

	var rec *model.DistrictRecord
	for i := range group {
		if strings.EqualFold(group[i].District, districtName) {
			rec = &group[i]
			break
		}
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "district not found")
		return
	}

	badges := make(map[model.Metric]model.Badge, len(model.Metrics))
	for _, m := range model.Metrics {
		badges[m] = classify.BadgeFor(*rec, m)
	}

	writeJSON(w, http.StatusOK, districtResponse{
		Record:             *rec,
		Badges:             badges,
		RiskCategory:       classify.RiskCategory(*rec),
		IssueType:          classify.IssueType(*rec),
		Recommendation:     classify.Recommend(*rec),
		DetailedSuggestion: classify.DetailedSuggestion(classify.IssueType(*rec)),
		SimpleSuggestion:   classify.SimpleSuggestion(classify.IssueType(*rec)),
		Intervention:       classify.Intervention(*rec),
	})
}

func (s *Server) stateGroup(name string) []model.DistrictRecord {
	var group []model.DistrictRecord
	for _, rec := range s.snapshot() {
		if strings.EqualFold(rec.State, name) {
			group = append(group, rec)
		}
	}
	return group
}
