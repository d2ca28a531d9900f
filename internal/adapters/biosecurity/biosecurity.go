// Package biosecurity scores outbreak risk from HPAI county records and
// short-range weather conduciveness.
package biosecurity

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/boadinoel/fsri/internal/adapters/geo"
	"github.com/boadinoel/fsri/internal/domain/pillar"
	"github.com/boadinoel/fsri/internal/infrastructure/fetch"
)

const openMeteoURL = "https://api.open-meteo.com/v1/forecast"

// Outbreak recency window.
const recentWindow = 30 * 24 * time.Hour

// Conducive-weather condition over the next 72h: at least 6 hours with
// 2<=T<=20C and RH>=60%. 4-5 hours counts as borderline.
const (
	conduciveMinHours  = 6
	borderlineMinHours = 4
)

// Scorer computes the biosecurity pillar sub-score.
type Scorer struct {
	client    *fetch.Client
	outbreaks []Outbreak
	now       func() time.Time
}

// New builds a biosecurity scorer over a loaded outbreak set.
func New(client *fetch.Client, outbreaks []Outbreak) *Scorer {
	return &Scorer{client: client, outbreaks: outbreaks, now: time.Now}
}

type hourlyForecast struct {
	Hourly struct {
		Temperature []*float64 `json:"temperature_2m"`
		Humidity    []*float64 `json:"relative_humidity_2m"`
	} `json:"hourly"`
}

// Score classifies outbreak proximity: same county with conducive weather
// is high risk (70), same county or same state without is moderate (40),
// otherwise 0. Non-susceptible commodities always score 0.
func (s *Scorer) Score(ctx context.Context, countyFIPS, crop string) pillar.Score {
	if !susceptible(crop) {
		return pillar.WithAge(pillar.Biosecurity, 0.0, 0, "No biosecurity risk for this crop")
	}
	if len(s.outbreaks) == 0 {
		return pillar.WithAge(pillar.Biosecurity, 0.0, 24*time.Hour, "No HPAI outbreak data available")
	}

	cutoff := s.now().UTC().Add(-recentWindow)
	var recent []Outbreak
	for _, o := range s.outbreaks {
		if o.FirstSeen.After(cutoff) {
			recent = append(recent, o)
		}
	}
	if len(recent) == 0 {
		return pillar.WithAge(pillar.Biosecurity, 0.0, 12*time.Hour, "No recent HPAI outbreaks detected")
	}

	if countyFIPS != "" {
		inCounty := false
		for _, o := range recent {
			if o.CountyFIPS == countyFIPS {
				inCounty = true
				break
			}
		}
		if inCounty {
			conducive, borderline := s.conduciveForecast(ctx, countyFIPS)
			if conducive {
				return pillar.WithAge(pillar.Biosecurity, 70.0, 12*time.Hour,
					"HPAI outbreak in county with conducive weather (next 72h)")
			}
			drivers := []string{"HPAI outbreak in county (weather not conducive)"}
			if borderline {
				drivers = append(drivers, "BR uncertainty (weather near threshold)")
			}
			return pillar.WithAge(pillar.Biosecurity, 40.0, 12*time.Hour, drivers...)
		}

		prefix := countyFIPS
		if len(prefix) > 2 {
			prefix = prefix[:2]
		}
		for _, o := range recent {
			if len(o.CountyFIPS) >= 2 && o.CountyFIPS[:2] == prefix {
				return pillar.WithAge(pillar.Biosecurity, 40.0, 12*time.Hour,
					"HPAI outbreaks detected in state")
			}
		}
	}

	return pillar.WithAge(pillar.Biosecurity, 40.0, 12*time.Hour, "HPAI outbreaks detected in region")
}

func susceptible(crop string) bool {
	switch crop {
	case "poultry", "corn", "srw_wheat":
		return true
	}
	return false
}

func (s *Scorer) conduciveForecast(ctx context.Context, countyFIPS string) (conducive, borderline bool) {
	prefix := countyFIPS
	if len(prefix) > 2 {
		prefix = prefix[:2]
	}
	state := geo.StateFromFIPSPrefix(prefix)
	if state == "" {
		state = "IL"
	}
	lat, lon := geo.StateCoords(state)

	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("hourly", "temperature_2m,relative_humidity_2m")
	params.Set("forecast_days", "3")
	params.Set("timezone", "UTC")

	var forecast hourlyForecast
	if err := s.client.GetJSON(ctx, openMeteoURL, params, &forecast); err != nil {
		log.Debug().Err(err).Msg("biosecurity: weather fetch failed")
		return false, false
	}

	hits := ConduciveHours(forecast.Hourly.Temperature, forecast.Hourly.Humidity)
	return hits >= conduciveMinHours, hits >= borderlineMinHours && hits < conduciveMinHours
}

// ConduciveHours counts forecast hours (up to 72) favorable to HPAI spread.
func ConduciveHours(temps, hums []*float64) int {
	n := len(temps)
	if len(hums) < n {
		n = len(hums)
	}
	if n > 72 {
		n = 72
	}
	hits := 0
	for i := 0; i < n; i++ {
		if temps[i] == nil || hums[i] == nil {
			continue
		}
		if *temps[i] >= 2.0 && *temps[i] <= 20.0 && *hums[i] >= 60.0 {
			hits++
		}
	}
	return hits
}
