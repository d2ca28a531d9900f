package calibration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMovementEvent_Midpoint(t *testing.T) {
	est := MovementEvent(50)
	assert.Equal(t, 0.5, est.P)
}

func TestMovementEvent_StrictlyMonotonic(t *testing.T) {
	prev := MovementEvent(0)
	for mr := 0.5; mr <= 100; mr += 0.5 {
		cur := MovementEvent(mr)
		assert.Greater(t, cur.P, prev.P, "p must strictly increase at MR=%v", mr)
		prev = cur
	}
}

func TestMovementEvent_Extremes(t *testing.T) {
	low := MovementEvent(0)
	assert.Less(t, low.P, 0.02)
	assert.Equal(t, "Minimal disruption expected", low.Reason)

	high := MovementEvent(100)
	assert.Greater(t, high.P, 0.98)
	assert.Equal(t, "Disruption likely given current MR calibration", high.Reason)
}

func TestMovementEvent_ReasonBandsMonotone(t *testing.T) {
	severity := map[string]int{
		"Minimal disruption expected":                     0,
		"Some disruption potential":                       1,
		"Elevated disruption chance from MR calibration":  2,
		"Disruption likely given current MR calibration":  3,
	}

	prev := -1
	for mr := 0.0; mr <= 100; mr++ {
		est := MovementEvent(mr)
		rank, ok := severity[est.Reason]
		assert.True(t, ok, "unknown reason %q", est.Reason)
		assert.GreaterOrEqual(t, rank, prev, "severity must not decrease at MR=%v", mr)
		prev = rank
	}
}
