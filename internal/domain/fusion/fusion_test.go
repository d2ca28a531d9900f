package fusion

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boadinoel/fsri/internal/domain/pillar"
)

func fresh(values map[pillar.Pillar]float64) map[pillar.Pillar]pillar.Score {
	scores := make(map[pillar.Pillar]pillar.Score, len(values))
	for p, v := range values {
		scores[p] = pillar.WithAge(p, v, time.Hour)
	}
	return scores
}

func TestFuse_WeightedSum(t *testing.T) {
	cases := []struct {
		name   string
		values map[pillar.Pillar]float64
		want   float64
	}{
		{"production only", map[pillar.Pillar]float64{
			pillar.Production: 100, pillar.Movement: 0, pillar.Policy: 0, pillar.Biosecurity: 0,
		}, 40.0},
		{"all zero", map[pillar.Pillar]float64{
			pillar.Production: 0, pillar.Movement: 0, pillar.Policy: 0, pillar.Biosecurity: 0,
		}, 0.0},
		{"all max", map[pillar.Pillar]float64{
			pillar.Production: 100, pillar.Movement: 100, pillar.Policy: 100, pillar.Biosecurity: 100,
		}, 100.0},
		{"movement only", map[pillar.Pillar]float64{
			pillar.Production: 0, pillar.Movement: 100, pillar.Policy: 0, pillar.Biosecurity: 0,
		}, 35.0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := Fuse(fresh(tc.values))
			require.NoError(t, err)
			assert.Equal(t, tc.want, result.FSRI)
		})
	}
}

func TestFuse_ClipProperty(t *testing.T) {
	grid := []float64{0, 12.5, 33.3, 50, 77.7, 100}
	for _, pr := range grid {
		for _, mr := range grid {
			for _, br := range grid {
				result, err := Fuse(fresh(map[pillar.Pillar]float64{
					pillar.Production: pr, pillar.Movement: mr,
					pillar.Policy: 100 - pr, pillar.Biosecurity: br,
				}))
				require.NoError(t, err)
				assert.GreaterOrEqual(t, result.FSRI, 0.0)
				assert.LessOrEqual(t, result.FSRI, 100.0)
			}
		}
	}
}

func TestFuse_MissingPillar(t *testing.T) {
	scores := fresh(map[pillar.Pillar]float64{
		pillar.Production: 50, pillar.Movement: 50, pillar.Policy: 0,
	})

	_, err := Fuse(scores)
	require.Error(t, err)

	var missing *MissingPillarError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, pillar.Biosecurity, missing.Pillar)
}

func TestFuse_DriverOrder(t *testing.T) {
	scores := map[pillar.Pillar]pillar.Score{
		pillar.Production:  pillar.WithAge(pillar.Production, 10, time.Hour, "heat stress"),
		pillar.Movement:    pillar.WithAge(pillar.Movement, 60, time.Hour, "low river stage", "gauge dispersion"),
		pillar.Policy:      pillar.WithAge(pillar.Policy, 0, time.Hour, "no export restrictions"),
		pillar.Biosecurity: pillar.WithAge(pillar.Biosecurity, 0, time.Hour, "no outbreaks"),
	}

	result, err := Fuse(scores)
	require.NoError(t, err)

	// Concatenation in fixed pillar order, no sorting or dedup.
	assert.Equal(t, []string{
		"heat stress", "low river stage", "gauge dispersion",
		"no export restrictions", "no outbreaks",
	}, result.Drivers)
}

func TestConfidence_Thresholds(t *testing.T) {
	ages := func(age time.Duration) map[pillar.Pillar]pillar.Score {
		scores := make(map[pillar.Pillar]pillar.Score)
		for _, p := range pillar.All() {
			scores[p] = pillar.WithAge(p, 50, age)
		}
		return scores
	}

	cases := []struct {
		age  time.Duration
		want Confidence
	}{
		{3 * time.Hour, ConfidenceHigh},
		{10 * time.Hour, ConfidenceMedium},
		{30 * time.Hour, ConfidenceLow},
	}
	for _, tc := range cases {
		result, err := Fuse(ages(tc.age))
		require.NoError(t, err)
		assert.Equal(t, tc.want, result.Confidence, "max age %s", tc.age)
	}
}

func TestConfidence_UndatedPillars(t *testing.T) {
	scores := map[pillar.Pillar]pillar.Score{
		pillar.Production:  pillar.WithAge(pillar.Production, 50, time.Hour),
		pillar.Movement:    pillar.Undated(pillar.Movement, 0),
		pillar.Policy:      pillar.WithAge(pillar.Policy, 0, time.Hour),
		pillar.Biosecurity: pillar.WithAge(pillar.Biosecurity, 0, time.Hour),
	}

	// One undated pillar beside three fresh ones caps confidence at Medium.
	result, err := Fuse(scores)
	require.NoError(t, err)
	assert.Equal(t, ConfidenceMedium, result.Confidence)

	// A second undated pillar forces Low.
	scores[pillar.Policy] = pillar.Undated(pillar.Policy, 0)
	result, err = Fuse(scores)
	require.NoError(t, err)
	assert.Equal(t, ConfidenceLow, result.Confidence)
}

func TestValidateWeights(t *testing.T) {
	require.NoError(t, ValidateWeights())

	sum := 0.0
	for _, p := range pillar.All() {
		sum += Weight(p)
	}
	assert.InDelta(t, 1.0, sum, 0.0001)
}
