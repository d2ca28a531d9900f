// Package policy scores policy risk from the export-restriction flag.
package policy

import "github.com/boadinoel/fsri/internal/domain/pillar"

// Scorer computes the policy pillar sub-score. Policy data is manual and
// therefore always current.
type Scorer struct{}

// New builds a policy scorer.
func New() *Scorer {
	return &Scorer{}
}

// Score returns 70 when export restrictions are in effect, otherwise 0.
func (s *Scorer) Score(exportFlag bool) pillar.Score {
	if exportFlag {
		return pillar.WithAge(pillar.Policy, 70.0, 0, "Export restrictions in effect")
	}
	return pillar.WithAge(pillar.Policy, 0.0, 0, "No export restrictions")
}
