package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	httpContracts "github.com/boadinoel/fsri/internal/http"
)

// Reload handles POST /admin/actions/reload. A non-empty body is parsed
// as the new rule document; an empty body re-reads the configured rules
// file. Rejection leaves the active document untouched.
func (h *Handlers) Reload(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		h.writeError(w, r, http.StatusUnauthorized, "invalid_api_key", "Invalid API key")
		return
	}
	if h.store == nil {
		h.writeError(w, r, http.StatusInternalServerError, "rules_unavailable",
			"Rule store is not configured")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, "body_read_failed", err.Error())
		return
	}

	var count int
	if len(body) > 0 {
		count, err = h.store.ReloadBytes(body)
	} else {
		count, err = h.store.ReloadFile(h.rulesFile)
	}

	if err != nil {
		if h.reloads != nil {
			h.reloads.RecordReload(false, 0)
		}
		log.Warn().Err(err).Msg("Rule reload rejected")
		h.writeJSON(w, http.StatusBadRequest, httpContracts.ReloadResponse{
			Status:    "rejected",
			Error:     err.Error(),
			Timestamp: time.Now().UTC(),
		})
		return
	}

	if h.reloads != nil {
		h.reloads.RecordReload(true, count)
	}
	log.Info().Int("rules", count).Msg("Rule document reloaded")
	h.writeJSON(w, http.StatusOK, httpContracts.ReloadResponse{
		Status:    "ok",
		RuleCount: count,
		Timestamp: time.Now().UTC(),
	})
}
