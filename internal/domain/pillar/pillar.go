// Package pillar defines the four risk dimensions and the per-request
// sub-score value each one produces.
package pillar

import "time"

// Pillar identifies one of the four independent risk dimensions.
type Pillar string

const (
	Production  Pillar = "production"
	Movement    Pillar = "movement"
	Policy      Pillar = "policy"
	Biosecurity Pillar = "biosecurity"
)

// All returns the pillars in declaration order. Driver concatenation and
// fusion iterate in exactly this order.
func All() [4]Pillar {
	return [4]Pillar{Production, Movement, Policy, Biosecurity}
}

// Parse maps a string to a Pillar, reporting whether it is one of the four
// recognized values.
func Parse(s string) (Pillar, bool) {
	switch Pillar(s) {
	case Production, Movement, Policy, Biosecurity:
		return Pillar(s), true
	}
	return "", false
}

// Score is a single pillar's sub-score for one request. Values are in
// [0,100]. AgeKnown is false when the adapter could not date its data at
// all; fusion treats such a pillar as very stale.
type Score struct {
	Pillar   Pillar
	Value    float64
	Drivers  []string
	DataAge  time.Duration
	AgeKnown bool
	// Fallback is set when the adapter substituted baseline data after
	// an upstream outage.
	Fallback bool
}

// WithAge builds a Score with a known data age.
func WithAge(p Pillar, value float64, age time.Duration, drivers ...string) Score {
	return Score{Pillar: p, Value: value, Drivers: drivers, DataAge: age, AgeKnown: true}
}

// Undated builds a Score whose data could not be dated.
func Undated(p Pillar, value float64, drivers ...string) Score {
	return Score{Pillar: p, Value: value, Drivers: drivers}
}

// AsFallback marks the score as built from substitute data.
func (s Score) AsFallback() Score {
	s.Fallback = true
	return s
}
