package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	httpContracts "github.com/boadinoel/fsri/internal/http"

	"github.com/boadinoel/fsri/internal/persistence"
)

// LogDecision handles POST /log-decision
func (h *Handlers) LogDecision(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		h.writeError(w, r, http.StatusUnauthorized, "invalid_api_key", "Invalid API key")
		return
	}

	var req httpContracts.DecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}
	if req.Crop == "" || req.Action == "" {
		h.writeError(w, r, http.StatusBadRequest, "missing_fields",
			"crop and action are required")
		return
	}
	if req.Region == "" {
		req.Region = "US"
	}

	if h.repo == nil || h.repo.Decisions == nil {
		h.writeError(w, r, http.StatusServiceUnavailable, "persistence_disabled",
			"Decision logging requires a configured database")
		return
	}

	decision := persistence.Decision{
		Crop:      req.Crop,
		Region:    req.Region,
		FSRI:      req.FSRI,
		Drivers:   req.Drivers,
		Action:    req.Action,
		Notes:     req.Notes,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.repo.Decisions.Insert(r.Context(), decision); err != nil {
		log.Error().Err(err).Msg("Decision insert failed")
		h.writeError(w, r, http.StatusInternalServerError, "insert_failed",
			"Failed to log decision")
		return
	}

	h.writeJSON(w, http.StatusOK, httpContracts.DecisionResponse{
		Status:    "logged",
		Timestamp: time.Now().UTC(),
	})
}
