package handlers

import (
	"net/http"
	"time"

	httpContracts "github.com/boadinoel/fsri/internal/http"
)

// Status handles GET /status
func (h *Handlers) Status(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, httpContracts.StatusResponse{
		OK:   true,
		Time: time.Now().UTC(),
	})
}

// Health handles GET /health with component checks
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{
		"rules": "ok",
	}
	ruleCount := 0
	if h.store != nil {
		ruleCount = h.store.Len()
	} else {
		checks["rules"] = "not_loaded"
	}

	if h.repo != nil && h.repo.Scores != nil {
		checks["database"] = "ok"
	} else {
		checks["database"] = "disabled"
	}

	status := "healthy"
	if checks["rules"] != "ok" {
		status = "degraded"
	}

	h.writeJSON(w, http.StatusOK, httpContracts.HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Checks:    checks,
		RuleCount: ruleCount,
		UptimeSec: time.Since(h.startedAt).Seconds(),
	})
}
