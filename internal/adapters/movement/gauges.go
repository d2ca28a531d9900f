package movement

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Gauge is one monitored river gauge with its low/high water thresholds in
// feet.
type Gauge struct {
	Name          string  `yaml:"name"`
	SiteID        string  `yaml:"site_id"`
	LowThreshold  float64 `yaml:"low_threshold"`
	HighThreshold float64 `yaml:"high_threshold"`
}

type gaugeFile struct {
	Gauges []Gauge `yaml:"gauges"`
}

// LoadGauges reads a gauge table from a YAML file and validates it.
func LoadGauges(path string) ([]Gauge, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("movement: read gauge config %s: %w", path, err)
	}
	var f gaugeFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("movement: parse gauge config: %w", err)
	}
	if len(f.Gauges) == 0 {
		return nil, fmt.Errorf("movement: gauge config %s defines no gauges", path)
	}
	for i, g := range f.Gauges {
		if g.SiteID == "" {
			return nil, fmt.Errorf("movement: gauge %d (%s) missing site_id", i, g.Name)
		}
		if g.HighThreshold <= g.LowThreshold {
			return nil, fmt.Errorf("movement: gauge %d (%s): high_threshold must exceed low_threshold", i, g.Name)
		}
	}
	return f.Gauges, nil
}

// DefaultGauges returns the built-in Mississippi/Ohio/Illinois gauge table.
func DefaultGauges() []Gauge {
	return []Gauge{
		{Name: "mississippi_baton_rouge", SiteID: "07374000", LowThreshold: 5.0, HighThreshold: 10.0},
		{Name: "ohio_cairo", SiteID: "03612500", LowThreshold: 5.0, HighThreshold: 10.0},
		{Name: "mississippi_memphis", SiteID: "07032000", LowThreshold: 5.0, HighThreshold: 10.0},
		{Name: "illinois_river_peoria", SiteID: "05567500", LowThreshold: 8.0, HighThreshold: 15.0},
	}
}
