// Package forecast projects the composite index forward with a
// one-dimensional constant-velocity filter.
package forecast

// Horizons holds the projected index at the three reporting horizons. The
// labels denote calendar offsets; the filter itself just runs three
// discrete prediction steps.
type Horizons struct {
	D5  float64 `json:"d5"`
	D15 float64 `json:"d15"`
	D30 float64 `json:"d30"`
}

// Project runs the filter from [fsri, 0]. With zero velocity the transition
// [[1,1],[0,1]] leaves the position untouched, so d5 == d15 == d30 == fsri
// exactly; that identity is the contract a future velocity-aware caller
// builds on.
func Project(fsri float64) Horizons {
	return ProjectWithVelocity(fsri, 0)
}

// ProjectWithVelocity runs the filter from [fsri, velocity]. The prior
// velocity is an explicit value passed by the caller, never state retained
// here across requests.
func ProjectWithVelocity(fsri, velocity float64) Horizons {
	pos := fsri
	var out [3]float64
	for i := range out {
		// position' = position + velocity; velocity' = velocity
		pos += velocity
		out[i] = clip(pos)
	}
	return Horizons{D5: out[0], D15: out[1], D30: out[2]}
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
