// Package calibration maps the movement pillar's sub-score to a 7-day
// disruption-event probability via a fixed logistic transform.
package calibration

import "math"

// Logistic parameters. Fixed by design: this is a parameterless
// calibration, not a learned model.
const (
	slope  = 0.08
	center = 50.0
)

// EventEstimate is the calibrated probability with its banded reasoning.
type EventEstimate struct {
	P      float64 `json:"p"`
	Reason string  `json:"reason"`
}

// MovementEvent computes p = 1/(1+exp(-0.08*(MR-50))) and selects the
// reason band. p is strictly increasing in MR and band severity is
// non-decreasing in p.
func MovementEvent(mr float64) EventEstimate {
	p := 1.0 / (1.0 + math.Exp(-slope*(mr-center)))
	return EventEstimate{P: p, Reason: reason(p)}
}

func reason(p float64) string {
	switch {
	case p >= 0.75:
		return "Disruption likely given current MR calibration"
	case p >= 0.5:
		return "Elevated disruption chance from MR calibration"
	case p >= 0.25:
		return "Some disruption potential"
	default:
		return "Minimal disruption expected"
	}
}
