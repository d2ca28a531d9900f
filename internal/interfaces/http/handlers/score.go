package handlers

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/boadinoel/fsri/internal/application"
)

var (
	fsriCrops    = map[string]bool{"corn": true, "srw_wheat": true}
	signalsCrops = map[string]bool{"corn": true, "srw_wheat": true, "poultry": true}
)

// requestFromQuery builds a scoring request from the shared query params.
func requestFromQuery(r *http.Request) application.Request {
	q := r.URL.Query()

	region := q.Get("region")
	if region == "" {
		region = "US"
	}
	state := q.Get("state")
	if state == "" {
		state = "IL"
	}

	return application.Request{
		Crop:       strings.ToLower(q.Get("crop")),
		Region:     region,
		State:      strings.ToUpper(state),
		ExportFlag: q.Get("export_flag") == "true",
		CountyFIPS: q.Get("county_fips"),
		Persona:    q.Get("persona"),
	}
}

// FSRI handles GET /fsri
func (h *Handlers) FSRI(w http.ResponseWriter, r *http.Request) {
	req := requestFromQuery(r)
	if !fsriCrops[req.Crop] {
		h.writeError(w, r, http.StatusBadRequest, "invalid_crop",
			"Invalid crop. Must be 'corn' or 'srw_wheat'")
		return
	}

	result, err := h.service.Score(r.Context(), req)
	if err != nil {
		log.Error().Err(err).Str("crop", req.Crop).Str("region", req.Region).
			Msg("Scoring failed")
		h.writeError(w, r, http.StatusInternalServerError, "scoring_failed",
			"Error calculating FSRI: "+err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

// Signals handles GET /signals
func (h *Handlers) Signals(w http.ResponseWriter, r *http.Request) {
	req := requestFromQuery(r)
	if !signalsCrops[req.Crop] {
		h.writeError(w, r, http.StatusBadRequest, "invalid_crop",
			"Invalid crop. Must be 'corn', 'srw_wheat', or 'poultry'")
		return
	}

	result, err := h.service.Signals(r.Context(), req)
	if err != nil {
		log.Error().Err(err).Str("crop", req.Crop).Str("region", req.Region).
			Msg("Signals failed")
		h.writeError(w, r, http.StatusInternalServerError, "signals_failed",
			"Error generating signals: "+err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}
