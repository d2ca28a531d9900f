// Package fusion combines the four pillar sub-scores into the composite
// FSRI index and derives a confidence label from input freshness.
package fusion

import (
	"fmt"
	"math"
	"time"

	"github.com/boadinoel/fsri/internal/domain/pillar"
)

// Fixed weight allocation. Sums to 1.0 by construction; ValidateWeights
// guards against edits that break that.
var weights = map[pillar.Pillar]float64{
	pillar.Production:  0.40,
	pillar.Movement:    0.35,
	pillar.Policy:      0.05,
	pillar.Biosecurity: 0.20,
}

// Freshness thresholds for the confidence label.
const (
	highConfidenceMaxAge   = 6 * time.Hour
	mediumConfidenceMaxAge = 24 * time.Hour
)

// Confidence is the qualitative freshness label attached to a composite.
type Confidence string

const (
	ConfidenceHigh   Confidence = "High"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceLow    Confidence = "Low"
)

// Result is the fused composite index with its inputs' attribution.
type Result struct {
	FSRI       float64                   `json:"fsri"`
	SubScores  map[pillar.Pillar]float64 `json:"subScores"`
	Drivers    []string                  `json:"drivers"`
	Confidence Confidence                `json:"confidence"`
}

// MissingPillarError reports a pillar the caller failed to supply. Fusing
// without it would silently zero 20-40% of the weighted sum, so the whole
// request fails instead.
type MissingPillarError struct {
	Pillar pillar.Pillar
}

func (e *MissingPillarError) Error() string {
	return fmt.Sprintf("fusion: missing required pillar %q", e.Pillar)
}

// Weight returns the fixed weight for a pillar.
func Weight(p pillar.Pillar) float64 {
	return weights[p]
}

// ValidateWeights checks the weight table sums to 1.0 within tolerance.
func ValidateWeights() error {
	sum := 0.0
	for _, p := range pillar.All() {
		sum += weights[p]
	}
	if math.Abs(sum-1.0) > 0.001 {
		return fmt.Errorf("fusion: weights sum to %.3f, expected 1.000", sum)
	}
	return nil
}

// Fuse computes the composite index from exactly four pillar scores.
// Pure function: no side effects, deterministic for identical inputs.
func Fuse(scores map[pillar.Pillar]pillar.Score) (Result, error) {
	for _, p := range pillar.All() {
		if _, ok := scores[p]; !ok {
			return Result{}, &MissingPillarError{Pillar: p}
		}
	}

	sum := 0.0
	subScores := make(map[pillar.Pillar]float64, len(weights))
	var drivers []string
	for _, p := range pillar.All() {
		s := scores[p]
		sum += weights[p] * s.Value
		subScores[p] = round1(s.Value)
		drivers = append(drivers, s.Drivers...)
	}

	return Result{
		FSRI:       round1(clip(sum)),
		SubScores:  subScores,
		Drivers:    drivers,
		Confidence: confidence(scores),
	}, nil
}

// confidence maps the worst input freshness to a label. Undated pillars are
// treated as very stale: one caps the label at Medium, two or more force
// Low, since undated data must never be reported as High confidence.
func confidence(scores map[pillar.Pillar]pillar.Score) Confidence {
	undated := 0
	var maxAge time.Duration
	for _, p := range pillar.All() {
		s := scores[p]
		if !s.AgeKnown {
			undated++
			continue
		}
		if s.DataAge > maxAge {
			maxAge = s.DataAge
		}
	}

	if undated >= 2 {
		return ConfidenceLow
	}

	var c Confidence
	switch {
	case maxAge < highConfidenceMaxAge:
		c = ConfidenceHigh
	case maxAge < mediumConfidenceMaxAge:
		c = ConfidenceMedium
	default:
		c = ConfidenceLow
	}
	if undated == 1 && c == ConfidenceHigh {
		c = ConfidenceMedium
	}
	return c
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
