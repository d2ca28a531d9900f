package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	httpContracts "github.com/boadinoel/fsri/internal/http"

	"github.com/boadinoel/fsri/internal/application"
	"github.com/boadinoel/fsri/internal/persistence"
	"github.com/boadinoel/fsri/internal/rules"
)

// ScoreService is the slice of the scoring pipeline the handlers need.
type ScoreService interface {
	Score(ctx context.Context, req application.Request) (application.ScoringResult, error)
	Signals(ctx context.Context, req application.Request) (application.SignalsResult, error)
}

// ReloadRecorder receives rule reload outcomes for metrics.
type ReloadRecorder interface {
	RecordReload(ok bool, ruleCount int)
}

// Handlers manages all HTTP endpoint handlers
type Handlers struct {
	service   ScoreService
	store     *rules.Store
	repo      *persistence.Repository
	apiKey    string
	rulesFile string
	reloads   ReloadRecorder
	wsClients ClientGauge
	startedAt time.Time
}

// Options configures the handler set. Repo and Reloads may be nil.
type Options struct {
	Service   ScoreService
	Store     *rules.Store
	Repo      *persistence.Repository
	APIKey    string
	RulesFile string
	Reloads   ReloadRecorder
}

// NewHandlers creates a new handlers instance
func NewHandlers(opts Options) *Handlers {
	return &Handlers{
		service:   opts.Service,
		store:     opts.Store,
		repo:      opts.Repo,
		apiKey:    opts.APIKey,
		rulesFile: opts.RulesFile,
		reloads:   opts.Reloads,
		startedAt: time.Now().UTC(),
	}
}

// writeJSON writes JSON response with proper error handling
func (h *Handlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, `{"error":"json_encoding_failed"}`, http.StatusInternalServerError)
	}
}

// writeError writes standardized error response
func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	requestID := r.Context().Value("request_id")
	if requestID == nil {
		requestID = "unknown"
	}

	errorResp := httpContracts.ErrorResponse{
		Error:     http.StatusText(status),
		Message:   message,
		Code:      code,
		RequestID: requestID.(string),
		Timestamp: time.Now().UTC(),
	}

	h.writeJSON(w, status, errorResp)
}

// authorized checks the ARGENTIS_API_KEY header against the configured key.
// An unset key disables all admin endpoints.
func (h *Handlers) authorized(r *http.Request) bool {
	return h.apiKey != "" && r.Header.Get("ARGENTIS_API_KEY") == h.apiKey
}

// NotFound handles 404 responses
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	h.writeError(w, r, http.StatusNotFound, "endpoint_not_found",
		"The requested endpoint does not exist")
}
