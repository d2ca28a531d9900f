// Package production scores production risk from forecast heat-humidity
// stress and NASS crop-condition ratings.
package production

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/boadinoel/fsri/internal/adapters/geo"
	"github.com/boadinoel/fsri/internal/domain/pillar"
	"github.com/boadinoel/fsri/internal/infrastructure/fetch"
)

const (
	openMeteoURL = "https://api.open-meteo.com/v1/forecast"
	nassURL      = "https://quickstats.nass.usda.gov/api/api_GET/"

	// Heat-humidity stress hour: T>=32C and RH>=50%.
	stressTempC = 32.0
	stressRH    = 50.0

	// Baseline %Good+Excellent when NASS is unavailable.
	baselineGEX = 60.0
)

// Scorer computes the production pillar sub-score.
type Scorer struct {
	client  *fetch.Client
	nassKey string

	mu        sync.Mutex
	nassCache map[string]float64 // weekly condition lookups are cached per crop+state
}

// New builds a production scorer. nassKey may be empty; condition then
// falls back to the baseline.
func New(client *fetch.Client, nassKey string) *Scorer {
	return &Scorer{client: client, nassKey: nassKey, nassCache: make(map[string]float64)}
}

type hourlyForecast struct {
	Hourly struct {
		Temperature []*float64 `json:"temperature_2m"`
		Humidity    []*float64 `json:"relative_humidity_2m"`
	} `json:"hourly"`
}

// Score computes PR = clip(50 - 12*cond_z + 40*(stress_hours/84)).
// Upstream outages degrade to a baseline score rather than failing the
// request; fusion still sees all four pillars.
func (s *Scorer) Score(ctx context.Context, crop, state string) pillar.Score {
	lat, lon := geo.StateCoords(state)

	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("hourly", "temperature_2m,relative_humidity_2m")
	params.Set("forecast_days", "7")
	params.Set("timezone", "UTC")

	var forecast hourlyForecast
	if err := s.client.GetJSON(ctx, openMeteoURL, params, &forecast); err != nil {
		log.Warn().Err(err).Str("state", state).Msg("production: weather fetch failed, using baseline")
		return pillar.WithAge(pillar.Production, 50.0, 24*time.Hour,
			"Weather data unavailable - using default").AsFallback()
	}
	if len(forecast.Hourly.Temperature) == 0 {
		return pillar.WithAge(pillar.Production, 50.0, 24*time.Hour,
			"Weather data unavailable - using default").AsFallback()
	}

	stressHours, first72 := StressHours(forecast.Hourly.Temperature, forecast.Hourly.Humidity)

	gex := s.conditionGEX(ctx, crop, state)
	condGEX := gex
	if gex < 0 {
		condGEX = baselineGEX
	}

	score := RiskScore(condGEX, stressHours)

	var drivers []string
	if stressHours > 20 {
		drivers = append(drivers, fmt.Sprintf("High heat-humidity stress: %d hours forecast", stressHours))
	}
	if score > 60 {
		drivers = append(drivers, "Elevated production risk conditions")
	}
	if abs(stressHours-first72) >= 10 {
		drivers = append(drivers, "High PR uncertainty (72h vs 7d divergence)")
	}
	if gex < 0 {
		drivers = append(drivers, "NASS crop condition unavailable (baseline)")
	} else {
		drivers = append(drivers, fmt.Sprintf("NASS %%G+E: %.0f%%", condGEX))
	}
	if len(drivers) == 0 {
		drivers = append(drivers, "Normal production conditions")
	}

	return pillar.WithAge(pillar.Production, score, time.Hour, drivers...)
}

// StressHours counts forecast hours meeting the heat-humidity stress
// condition over up to 7 days, and over the first 72 hours separately.
func StressHours(temps, hums []*float64) (total, first72 int) {
	n := len(temps)
	if len(hums) < n {
		n = len(hums)
	}
	if n > 168 {
		n = 168
	}
	for i := 0; i < n; i++ {
		if temps[i] == nil || hums[i] == nil {
			continue
		}
		if *temps[i] >= stressTempC && *hums[i] >= stressRH {
			total++
			if i < 72 {
				first72++
			}
		}
	}
	return total, first72
}

// RiskScore applies the production formula for a given %G+E condition and
// stress-hour count.
func RiskScore(condGEX float64, stressHours int) float64 {
	condZ := (condGEX - baselineGEX) / 10.0
	raw := 50 - 12*condZ + 40*(float64(stressHours)/84.0)
	return round1(clip(raw))
}

type nassResponse struct {
	Data []struct {
		Value      string `json:"Value"`
		WeekEnding string `json:"week_ending"`
	} `json:"data"`
}

// conditionGEX returns %Good+Excellent for the latest week, or -1 when the
// rating is unavailable.
func (s *Scorer) conditionGEX(ctx context.Context, crop, state string) float64 {
	if s.nassKey == "" {
		return -1
	}
	cacheKey := crop + ":" + state
	s.mu.Lock()
	if gex, ok := s.nassCache[cacheKey]; ok {
		s.mu.Unlock()
		return gex
	}
	s.mu.Unlock()

	good := s.conditionPct(ctx, crop, state, "GOOD")
	excellent := s.conditionPct(ctx, crop, state, "EXCELLENT")
	if good < 0 && excellent < 0 {
		return -1
	}
	gex := 0.0
	if good > 0 {
		gex += good
	}
	if excellent > 0 {
		gex += excellent
	}

	s.mu.Lock()
	s.nassCache[cacheKey] = gex
	s.mu.Unlock()
	return gex
}

func (s *Scorer) conditionPct(ctx context.Context, crop, state, cond string) float64 {
	year := time.Now().UTC().Year()

	params := url.Values{}
	params.Set("key", s.nassKey)
	params.Set("source_desc", "SURVEY")
	params.Set("commodity_desc", nassCommodity(crop))
	params.Set("statisticcat_desc", "CONDITION")
	params.Set("condition_cat_desc", cond)
	params.Set("state_alpha", state)
	params.Set("agg_level_desc", "STATE")
	params.Set("year", strconv.Itoa(year))
	params.Set("format", "JSON")

	var resp nassResponse
	if err := s.client.GetJSON(ctx, nassURL, params, &resp); err != nil || len(resp.Data) == 0 {
		// Fall back to a two-year window when the current year has no rows.
		params.Del("year")
		params.Set("year__GE", strconv.Itoa(year-1))
		params.Set("year__LE", strconv.Itoa(year))
		resp = nassResponse{}
		if err := s.client.GetJSON(ctx, nassURL, params, &resp); err != nil || len(resp.Data) == 0 {
			return -1
		}
	}

	latest := resp.Data[0]
	for _, rec := range resp.Data[1:] {
		if rec.WeekEnding > latest.WeekEnding {
			latest = rec
		}
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(latest.Value, ",", ""), 64)
	if err != nil {
		return -1
	}
	return v
}

func nassCommodity(crop string) string {
	switch crop {
	case "corn":
		return "CORN"
	case "srw_wheat":
		return "WHEAT"
	}
	return strings.ToUpper(crop)
}

func clip(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
