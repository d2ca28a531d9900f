package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	httpContracts "github.com/boadinoel/fsri/internal/http"
)

// Export handles GET /export, returning daily score history as CSV
// wrapped in a JSON envelope.
func (h *Handlers) Export(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	crop := strings.ToLower(q.Get("crop"))
	if crop == "" {
		h.writeError(w, r, http.StatusBadRequest, "missing_crop", "crop is required")
		return
	}
	region := q.Get("region")
	if region == "" {
		region = "US"
	}
	days := 30
	if d := q.Get("days"); d != "" {
		parsed, err := strconv.Atoi(d)
		if err != nil || parsed <= 0 {
			h.writeError(w, r, http.StatusBadRequest, "invalid_days",
				"days must be a positive integer")
			return
		}
		days = parsed
	}

	if h.repo == nil || h.repo.Scores == nil {
		h.writeError(w, r, http.StatusServiceUnavailable, "persistence_disabled",
			"Export requires a configured database")
		return
	}

	scores, err := h.repo.Scores.RangeDaily(r.Context(), crop, region, days)
	if err != nil {
		log.Error().Err(err).Str("crop", crop).Msg("Score range query failed")
		h.writeError(w, r, http.StatusInternalServerError, "query_failed",
			"Failed to query daily scores")
		return
	}

	var sb strings.Builder
	sb.WriteString("date,crop,region,fsri,production,movement,policy,biosecurity\n")
	for _, s := range scores {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%.1f,%.1f,%.1f,%.1f,%.1f\n",
			s.Date, s.Crop, s.Region, s.FSRI,
			s.Production, s.Movement, s.Policy, s.Biosecurity))
	}

	h.writeJSON(w, http.StatusOK, httpContracts.ExportResponse{
		CSVData:     sb.String(),
		Rows:        len(scores),
		GeneratedAt: time.Now().UTC(),
	})
}
