// Package application orchestrates one scoring request: pillar adapters →
// fusion → forecast → event probability → action matching.
package application

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/boadinoel/fsri/internal/domain/calibration"
	"github.com/boadinoel/fsri/internal/domain/forecast"
	"github.com/boadinoel/fsri/internal/domain/fusion"
	"github.com/boadinoel/fsri/internal/domain/pillar"
	"github.com/boadinoel/fsri/internal/persistence"
	"github.com/boadinoel/fsri/internal/rules"
	"github.com/boadinoel/fsri/internal/stream"
)

// ProductionScorer supplies the production pillar sub-score.
type ProductionScorer interface {
	Score(ctx context.Context, crop, state string) pillar.Score
}

// MovementScorer supplies the movement pillar sub-score.
type MovementScorer interface {
	Score(ctx context.Context, region string) pillar.Score
}

// PolicyScorer supplies the policy pillar sub-score.
type PolicyScorer interface {
	Score(exportFlag bool) pillar.Score
}

// BiosecurityScorer supplies the biosecurity pillar sub-score.
type BiosecurityScorer interface {
	Score(ctx context.Context, countyFIPS, crop string) pillar.Score
}

// Observer receives pipeline timing and degradation signals. Methods may
// be called concurrently. The metrics registry implements it.
type Observer interface {
	ScoringObserved(crop, region string, duration time.Duration)
	AdapterObserved(pillar string, duration time.Duration)
	AdapterFallback(pillar string)
	RecommendationsMatched(persona string, count int)
}

// Scorers bundles the four pillar adapters.
type Scorers struct {
	Production  ProductionScorer
	Movement    MovementScorer
	Policy      PolicyScorer
	Biosecurity BiosecurityScorer
}

// Request carries one scoring invocation's parameters. State, ExportFlag
// and CountyFIPS feed only the upstream pillar scorers, never the core.
type Request struct {
	Crop       string
	Region     string
	State      string
	ExportFlag bool
	CountyFIPS string
	Persona    string
}

// ScoringResult is the /fsri response shape.
type ScoringResult struct {
	FSRI          float64                   `json:"fsri"`
	SubScores     map[pillar.Pillar]float64 `json:"subScores"`
	Drivers       []string                  `json:"drivers"`
	Timestamp     time.Time                 `json:"timestamp"`
	Confidence    fusion.Confidence         `json:"confidence"`
	Horizons      forecast.Horizons         `json:"horizons"`
	MovementEvent calibration.EventEstimate `json:"movement_event_7d"`
	Freshness     map[pillar.Pillar]float64 `json:"freshness"`
	LatencyMS     map[pillar.Pillar]float64 `json:"latency_ms"`
}

// SignalsResult adds the matched persona actions to a scoring result.
type SignalsResult struct {
	ScoringResult
	Actions []rules.Recommendation `json:"actions"`
}

// Pipeline wires the scorers, the rule store, and the optional side-effect
// sinks.
type Pipeline struct {
	scorers   Scorers
	rules     *rules.Store
	repo      *persistence.Repository
	publisher *stream.Publisher
	observer  Observer
	now       func() time.Time
}

// NewPipeline builds the request pipeline. repo and publisher may be nil.
func NewPipeline(scorers Scorers, ruleStore *rules.Store, repo *persistence.Repository, publisher *stream.Publisher) *Pipeline {
	return &Pipeline{
		scorers:   scorers,
		rules:     ruleStore,
		repo:      repo,
		publisher: publisher,
		now:       time.Now,
	}
}

// Rules exposes the rule store for the admin reload path.
func (p *Pipeline) Rules() *rules.Store {
	return p.rules
}

// Repository exposes the persistence handle, nil when disabled.
func (p *Pipeline) Repository() *persistence.Repository {
	return p.repo
}

// SetObserver attaches an optional metrics observer.
func (p *Pipeline) SetObserver(obs Observer) {
	p.observer = obs
}

// Score runs the four adapters and fuses their outputs. The daily-score
// upsert and event publish are fire-and-forget; they never delay or fail
// the response.
func (p *Pipeline) Score(ctx context.Context, req Request) (ScoringResult, error) {
	started := time.Now()
	scores := make(map[pillar.Pillar]pillar.Score, 4)
	latency := make(map[pillar.Pillar]float64, 4)

	// Poultry has no crop-condition series; production reuses corn.
	prodCrop := req.Crop
	if prodCrop == "poultry" {
		prodCrop = "corn"
	}

	timed := func(pl pillar.Pillar, f func() pillar.Score) {
		start := time.Now()
		scores[pl] = f()
		elapsed := time.Since(start)
		latency[pl] = float64(elapsed.Microseconds()) / 1000.0
		if p.observer != nil {
			p.observer.AdapterObserved(string(pl), elapsed)
			if scores[pl].Fallback {
				p.observer.AdapterFallback(string(pl))
			}
		}
	}
	timed(pillar.Production, func() pillar.Score { return p.scorers.Production.Score(ctx, prodCrop, req.State) })
	timed(pillar.Movement, func() pillar.Score { return p.scorers.Movement.Score(ctx, req.Region) })
	timed(pillar.Policy, func() pillar.Score { return p.scorers.Policy.Score(req.ExportFlag) })
	timed(pillar.Biosecurity, func() pillar.Score { return p.scorers.Biosecurity.Score(ctx, req.CountyFIPS, req.Crop) })

	composite, err := fusion.Fuse(scores)
	if err != nil {
		return ScoringResult{}, err
	}

	result := ScoringResult{
		FSRI:          composite.FSRI,
		SubScores:     composite.SubScores,
		Drivers:       composite.Drivers,
		Timestamp:     p.now().UTC(),
		Confidence:    composite.Confidence,
		Horizons:      forecast.Project(composite.FSRI),
		MovementEvent: calibration.MovementEvent(scores[pillar.Movement].Value),
		Freshness:     freshnessHours(scores),
		LatencyMS:     latency,
	}

	if p.observer != nil {
		p.observer.ScoringObserved(req.Crop, req.Region, time.Since(started))
	}
	p.persistAsync(req, result)
	return result, nil
}

// Signals computes a score then matches the active rule document against
// it. The weather-conducive flag is derived from the fused drivers, the
// same signal the biosecurity scorer emits.
func (p *Pipeline) Signals(ctx context.Context, req Request) (SignalsResult, error) {
	score, err := p.Score(ctx, req)
	if err != nil {
		return SignalsResult{}, err
	}

	conducive := false
	for _, d := range score.Drivers {
		if strings.Contains(strings.ToLower(d), "conducive weather") {
			conducive = true
			break
		}
	}

	actions := p.rules.Match(req.Crop, req.Region, score.SubScores, conducive, req.Persona)
	if actions == nil {
		actions = []rules.Recommendation{}
	}
	if p.observer != nil && len(actions) > 0 {
		perPersona := make(map[string]int, len(actions))
		for _, a := range actions {
			perPersona[a.Persona]++
		}
		for persona, n := range perPersona {
			p.observer.RecommendationsMatched(persona, n)
		}
	}
	return SignalsResult{ScoringResult: score, Actions: actions}, nil
}

// freshnessHours reports each pillar's data age in hours. Undated pillars
// are omitted, matching the adapters' "no age to report" contract.
func freshnessHours(scores map[pillar.Pillar]pillar.Score) map[pillar.Pillar]float64 {
	out := make(map[pillar.Pillar]float64, len(scores))
	for p, s := range scores {
		if s.AgeKnown {
			out[p] = s.DataAge.Hours()
		}
	}
	return out
}

func (p *Pipeline) persistAsync(req Request, result ScoringResult) {
	if p.repo == nil && p.publisher == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if p.repo != nil && p.repo.Scores != nil {
			err := p.repo.Scores.UpsertDaily(ctx, persistence.DailyScore{
				Date:        result.Timestamp.Format("2006-01-02"),
				Crop:        req.Crop,
				Region:      req.Region,
				Production:  result.SubScores[pillar.Production],
				Movement:    result.SubScores[pillar.Movement],
				Policy:      result.SubScores[pillar.Policy],
				Biosecurity: result.SubScores[pillar.Biosecurity],
				FSRI:        result.FSRI,
				Drivers:     result.Drivers,
			})
			if err != nil {
				log.Warn().Err(err).Str("crop", req.Crop).Str("region", req.Region).Msg("daily score upsert failed")
			}
		}
		if err := p.publisher.Publish(ctx, rules.Key(req.Crop, req.Region), result); err != nil {
			log.Warn().Err(err).Msg("score event publish failed")
		}
	}()
}
