package forecast

import "testing"

func TestProject_ZeroVelocityIdentity(t *testing.T) {
	for _, v := range []float64{0, 0.1, 17.3, 42.0, 63.2, 99.9, 100} {
		h := Project(v)
		if h.D5 != v || h.D15 != v || h.D30 != v {
			t.Errorf("Project(%v) = %+v, expected all horizons exactly %v", v, h, v)
		}
	}
}

func TestProjectWithVelocity_Drift(t *testing.T) {
	h := ProjectWithVelocity(50, 2)
	if h.D5 != 52 || h.D15 != 54 || h.D30 != 56 {
		t.Errorf("expected 52/54/56, got %+v", h)
	}
}

func TestProjectWithVelocity_ClipsToRange(t *testing.T) {
	h := ProjectWithVelocity(95, 10)
	if h.D5 != 100 || h.D15 != 100 || h.D30 != 100 {
		t.Errorf("expected all horizons clipped to 100, got %+v", h)
	}

	h = ProjectWithVelocity(5, -10)
	if h.D5 != 0 || h.D15 != 0 || h.D30 != 0 {
		t.Errorf("expected all horizons clipped to 0, got %+v", h)
	}
}
