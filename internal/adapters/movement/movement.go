// Package movement scores waterway movement risk from USGS river gauge
// heights.
package movement

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/boadinoel/fsri/internal/domain/pillar"
	"github.com/boadinoel/fsri/internal/infrastructure/fetch"
)

const usgsURL = "https://waterservices.usgs.gov/nwis/iv"

// Scorer computes the movement pillar sub-score from a gauge table.
type Scorer struct {
	client *fetch.Client
	gauges []Gauge
}

// New builds a movement scorer over the given gauge table.
func New(client *fetch.Client, gauges []Gauge) *Scorer {
	return &Scorer{client: client, gauges: gauges}
}

type usgsResponse struct {
	Value struct {
		TimeSeries []struct {
			Values []struct {
				Value []struct {
					Value string `json:"value"`
				} `json:"value"`
			} `json:"values"`
		} `json:"timeSeries"`
	} `json:"value"`
}

// Score averages per-site risk across the gauges that answered. Robust to
// missing gauges: failures are skipped and the remainder averaged. When no
// gauge answers the score is 0 with an undatable reading, which fusion
// treats as very stale.
func (s *Scorer) Score(ctx context.Context, region string) pillar.Score {
	var (
		risks    []float64
		drivers  []string
		ageMin   = 0
		used     int
		critical bool
	)

	for _, g := range s.gauges {
		height, ok := s.gaugeHeight(ctx, g.SiteID)
		if !ok {
			continue
		}
		risk := SiteRisk(height, g.LowThreshold, g.HighThreshold)
		if height <= g.LowThreshold {
			critical = true
			drivers = append(drivers, fmt.Sprintf("%s: critically low at %vft", g.DisplayName(), height))
		}
		risks = append(risks, risk)
		if gaugeAssumedAgeMin > ageMin {
			ageMin = gaugeAssumedAgeMin
		}
		used++
	}

	if used == 0 {
		return pillar.Undated(pillar.Movement, 0, "river gauges unavailable").AsFallback()
	}

	score := Aggregate(risks)

	if dispersion(risks) > 0.05 && !critical {
		drivers = append(drivers, "High MR uncertainty (gauge dispersion)")
	}
	if score >= 40 && !critical {
		drivers = append(drivers, "low river stage limiting barge loads")
	}
	if used < len(s.gauges) {
		drivers = append(drivers, fmt.Sprintf("movement based on %d/%d gauges", used, len(s.gauges)))
	}
	if len(drivers) == 0 {
		drivers = append(drivers, "Normal waterway conditions")
	}

	return pillar.WithAge(pillar.Movement, score, time.Duration(ageMin)*time.Minute, drivers...)
}

// Instantaneous readings are typically a couple of hours behind.
const gaugeAssumedAgeMin = 120

// SiteRisk maps a gauge height to per-site risk in [0,1]: 1 at or below the
// low threshold, 0 at or above the high threshold, linear in between.
func SiteRisk(height, low, high float64) float64 {
	switch {
	case height <= low:
		return 1.0
	case height >= high:
		return 0.0
	default:
		return (high - height) / (high - low)
	}
}

// Aggregate converts per-site risks to the MR sub-score.
func Aggregate(risks []float64) float64 {
	if len(risks) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range risks {
		sum += r
	}
	return math.Round(100*sum/float64(len(risks))*10) / 10
}

func dispersion(risks []float64) float64 {
	if len(risks) == 0 {
		return 0
	}
	mean := 0.0
	for _, r := range risks {
		mean += r
	}
	mean /= float64(len(risks))
	variance := 0.0
	for _, r := range risks {
		variance += (r - mean) * (r - mean)
	}
	return variance / float64(len(risks))
}

func (s *Scorer) gaugeHeight(ctx context.Context, siteID string) (float64, bool) {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("sites", siteID)
	params.Set("parameterCd", "00065") // gauge height, feet
	params.Set("siteStatus", "active")

	var resp usgsResponse
	if err := s.client.GetJSON(ctx, usgsURL, params, &resp); err != nil {
		log.Debug().Err(err).Str("site", siteID).Msg("movement: gauge fetch failed")
		return 0, false
	}
	if len(resp.Value.TimeSeries) == 0 {
		return 0, false
	}
	ts := resp.Value.TimeSeries[0]
	if len(ts.Values) == 0 || len(ts.Values[0].Value) == 0 {
		return 0, false
	}
	points := ts.Values[0].Value
	height, err := strconv.ParseFloat(points[len(points)-1].Value, 64)
	if err != nil {
		return 0, false
	}
	return height, true
}

// DisplayName renders a gauge name for driver strings.
func (g Gauge) DisplayName() string {
	words := strings.Split(g.Name, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
