package production

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fp(vs ...float64) []*float64 {
	out := make([]*float64, len(vs))
	for i := range vs {
		v := vs[i]
		out[i] = &v
	}
	return out
}

func TestStressHours(t *testing.T) {
	temps := fp(35, 33, 20, 32, 31)
	hums := fp(60, 40, 80, 50, 90)

	// Hours 0 and 3 meet T>=32 && RH>=50.
	total, first72 := StressHours(temps, hums)
	assert.Equal(t, 2, total)
	assert.Equal(t, 2, first72)
}

func TestStressHours_NilReadings(t *testing.T) {
	temps := []*float64{nil, fp(35)[0]}
	hums := []*float64{fp(60)[0], nil}

	total, _ := StressHours(temps, hums)
	assert.Equal(t, 0, total)
}

func TestStressHours_CapsAtSevenDays(t *testing.T) {
	temps := make([]*float64, 200)
	hums := make([]*float64, 200)
	v := 40.0
	h := 80.0
	for i := range temps {
		temps[i] = &v
		hums[i] = &h
	}

	total, first72 := StressHours(temps, hums)
	assert.Equal(t, 168, total)
	assert.Equal(t, 72, first72)
}

func TestRiskScore(t *testing.T) {
	// Baseline condition, no stress: PR = 50.
	assert.Equal(t, 50.0, RiskScore(60, 0))

	// Strong condition (80% G+E) pulls risk down 24 points.
	assert.Equal(t, 26.0, RiskScore(80, 0))

	// Full-week stress adds 40 points.
	assert.Equal(t, 90.0, RiskScore(60, 84))

	// Clipped at the range ends.
	assert.Equal(t, 0.0, RiskScore(110, 0))
	assert.Equal(t, 100.0, RiskScore(10, 84))
}
