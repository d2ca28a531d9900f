package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/boadinoel/fsri/internal/domain/pillar"
)

// Recommendation is one triggered action set for a persona, ordered in the
// output by descending triggering pillar score.
type Recommendation struct {
	Persona string   `json:"persona"`
	Do      []string `json:"do"`
	Why     string   `json:"why"`
	Notify  []string `json:"notify,omitempty"`
}

// Match evaluates the document's rules for a commodity/region against the
// fused sub-scores. persona filters to a single audience when non-empty.
// The document and sub-scores are read-only; the caller is expected to pass
// a single snapshot (see Store).
func Match(doc *Document, commodity, region string, subScores map[pillar.Pillar]float64, weatherConducive bool, persona string) []Recommendation {
	matched := doc.Rules(Key(commodity, region))
	if len(matched) == 0 {
		return nil
	}
	personaFilter := strings.ToLower(persona)

	type hit struct {
		score float64
		rec   Recommendation
	}
	var hits []hit
	for _, r := range matched {
		if personaFilter != "" && r.Persona != personaFilter {
			continue
		}
		if r.When.Weather == WeatherConducive && !weatherConducive {
			continue
		}
		score := subScores[r.When.Pillar]
		if score < r.When.Threshold {
			continue
		}
		hits = append(hits, hit{
			score: score,
			rec: Recommendation{
				Persona: r.Persona,
				Do:      r.Do,
				Why:     fmt.Sprintf("%s>=%d", r.When.Pillar, int(r.When.Threshold)),
				Notify:  r.Notify,
			},
		})
	}

	// Highest triggering pillar score first; stable sort keeps document
	// declaration order on ties.
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})

	out := make([]Recommendation, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.rec)
	}
	return out
}
