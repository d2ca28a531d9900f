package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boadinoel/fsri/internal/domain/fusion"
	"github.com/boadinoel/fsri/internal/domain/pillar"
	"github.com/boadinoel/fsri/internal/rules"
)

type stubProduction struct{ score pillar.Score }

func (s stubProduction) Score(ctx context.Context, crop, state string) pillar.Score { return s.score }

type stubMovement struct{ score pillar.Score }

func (s stubMovement) Score(ctx context.Context, region string) pillar.Score { return s.score }

type stubPolicy struct{ score pillar.Score }

func (s stubPolicy) Score(exportFlag bool) pillar.Score { return s.score }

type stubBiosecurity struct{ score pillar.Score }

func (s stubBiosecurity) Score(ctx context.Context, countyFIPS, crop string) pillar.Score {
	return s.score
}

func stubScorers(pr, mr, por, br pillar.Score) Scorers {
	return Scorers{
		Production:  stubProduction{pr},
		Movement:    stubMovement{mr},
		Policy:      stubPolicy{por},
		Biosecurity: stubBiosecurity{br},
	}
}

func testStore(t *testing.T) *rules.Store {
	t.Helper()
	doc, err := rules.ParseDocument([]byte(`
corn.us:
  - persona: traders
    when: {pillar: movement, threshold: 60}
    do: ["hedge basis"]
poultry.us:
  - persona: operators
    when: {pillar: biosecurity, threshold: 40, weather: conducive}
    do: ["tighten SOPs"]
`))
	require.NoError(t, err)
	return rules.NewStore(doc)
}

func TestPipeline_Score(t *testing.T) {
	scorers := stubScorers(
		pillar.WithAge(pillar.Production, 20.0, time.Hour, "Mild heat"),
		pillar.WithAge(pillar.Movement, 62.0, time.Hour, "Low river levels"),
		pillar.WithAge(pillar.Policy, 0.0, 0),
		pillar.WithAge(pillar.Biosecurity, 0.0, time.Hour),
	)
	p := NewPipeline(scorers, testStore(t), nil, nil)

	result, err := p.Score(context.Background(), Request{Crop: "corn", Region: "US"})
	require.NoError(t, err)

	// 0.40*20 + 0.35*62 = 29.7
	assert.Equal(t, 29.7, result.FSRI)
	assert.Equal(t, 62.0, result.SubScores[pillar.Movement])
	assert.Equal(t, fusion.ConfidenceHigh, result.Confidence)
	assert.Equal(t, []string{"Mild heat", "Low river levels"}, result.Drivers)

	// Zero-velocity forecast: all horizons equal the composite.
	assert.Equal(t, result.FSRI, result.Horizons.D5)
	assert.Equal(t, result.FSRI, result.Horizons.D15)
	assert.Equal(t, result.FSRI, result.Horizons.D30)

	// MR=62 puts the event probability above the midpoint.
	assert.Greater(t, result.MovementEvent.P, 0.5)

	assert.InDelta(t, 1.0, result.Freshness[pillar.Movement], 1e-9)
	assert.Contains(t, result.LatencyMS, pillar.Production)
}

func TestPipeline_SignalsTriggersActions(t *testing.T) {
	scorers := stubScorers(
		pillar.WithAge(pillar.Production, 20.0, time.Hour),
		pillar.WithAge(pillar.Movement, 62.0, time.Hour),
		pillar.WithAge(pillar.Policy, 0.0, 0),
		pillar.WithAge(pillar.Biosecurity, 0.0, time.Hour),
	)
	p := NewPipeline(scorers, testStore(t), nil, nil)

	result, err := p.Signals(context.Background(), Request{Crop: "corn", Region: "US", Persona: "traders"})
	require.NoError(t, err)
	require.Len(t, result.Actions, 1)
	assert.Equal(t, "traders", result.Actions[0].Persona)
	assert.Equal(t, "movement>=60", result.Actions[0].Why)
}

func TestPipeline_SignalsDerivesConduciveFlag(t *testing.T) {
	biosecurity := pillar.WithAge(pillar.Biosecurity, 70.0, 12*time.Hour,
		"HPAI outbreak in county with conducive weather (next 72h)")
	scorers := stubScorers(
		pillar.WithAge(pillar.Production, 0.0, time.Hour),
		pillar.WithAge(pillar.Movement, 0.0, time.Hour),
		pillar.WithAge(pillar.Policy, 0.0, 0),
		biosecurity,
	)
	p := NewPipeline(scorers, testStore(t), nil, nil)

	result, err := p.Signals(context.Background(), Request{Crop: "poultry", Region: "US", Persona: "operators"})
	require.NoError(t, err)
	require.Len(t, result.Actions, 1)
	assert.Equal(t, "biosecurity>=40", result.Actions[0].Why)

	// Same scores without the conducive driver: the weather-gated rule
	// stays silent.
	scorers.Biosecurity = stubBiosecurity{pillar.WithAge(pillar.Biosecurity, 70.0, 12*time.Hour,
		"HPAI outbreak in county (weather not conducive)")}
	p = NewPipeline(scorers, testStore(t), nil, nil)
	result, err = p.Signals(context.Background(), Request{Crop: "poultry", Region: "US", Persona: "operators"})
	require.NoError(t, err)
	assert.Empty(t, result.Actions)
}

type recordingObserver struct {
	scoringRuns     int
	adapterCalls    map[string]int
	fallbacks       map[string]int
	recommendations map[string]int
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{
		adapterCalls:    map[string]int{},
		fallbacks:       map[string]int{},
		recommendations: map[string]int{},
	}
}

func (o *recordingObserver) ScoringObserved(crop, region string, d time.Duration) { o.scoringRuns++ }
func (o *recordingObserver) AdapterObserved(pillar string, d time.Duration)       { o.adapterCalls[pillar]++ }
func (o *recordingObserver) AdapterFallback(pillar string)                        { o.fallbacks[pillar]++ }
func (o *recordingObserver) RecommendationsMatched(persona string, count int) {
	o.recommendations[persona] += count
}

func TestPipeline_ObserverSeesRunAndAdapters(t *testing.T) {
	scorers := stubScorers(
		pillar.WithAge(pillar.Production, 50.0, 24*time.Hour, "Weather data unavailable - using default").AsFallback(),
		pillar.WithAge(pillar.Movement, 62.0, time.Hour),
		pillar.WithAge(pillar.Policy, 0.0, 0),
		pillar.WithAge(pillar.Biosecurity, 0.0, time.Hour),
	)
	p := NewPipeline(scorers, testStore(t), nil, nil)
	obs := newRecordingObserver()
	p.SetObserver(obs)

	result, err := p.Signals(context.Background(), Request{Crop: "corn", Region: "US", Persona: "traders"})
	require.NoError(t, err)
	require.Len(t, result.Actions, 1)

	assert.Equal(t, 1, obs.scoringRuns)
	for _, pl := range pillar.All() {
		assert.Equal(t, 1, obs.adapterCalls[string(pl)], "adapter %s", pl)
	}
	assert.Equal(t, 1, obs.fallbacks[string(pillar.Production)])
	assert.Empty(t, obs.fallbacks[string(pillar.Movement)])
	assert.Equal(t, 1, obs.recommendations["traders"])
}

func TestPipeline_NoObserverIsFine(t *testing.T) {
	scorers := stubScorers(
		pillar.WithAge(pillar.Production, 20.0, time.Hour),
		pillar.WithAge(pillar.Movement, 62.0, time.Hour),
		pillar.WithAge(pillar.Policy, 0.0, 0),
		pillar.WithAge(pillar.Biosecurity, 0.0, time.Hour),
	)
	p := NewPipeline(scorers, testStore(t), nil, nil)

	_, err := p.Score(context.Background(), Request{Crop: "corn", Region: "US"})
	require.NoError(t, err)
}

func TestPipeline_SignalsUnknownMarket(t *testing.T) {
	scorers := stubScorers(
		pillar.WithAge(pillar.Production, 90.0, time.Hour),
		pillar.WithAge(pillar.Movement, 90.0, time.Hour),
		pillar.WithAge(pillar.Policy, 70.0, 0),
		pillar.WithAge(pillar.Biosecurity, 70.0, time.Hour),
	)
	p := NewPipeline(scorers, testStore(t), nil, nil)

	result, err := p.Signals(context.Background(), Request{Crop: "soybeans", Region: "BR"})
	require.NoError(t, err)
	assert.NotNil(t, result.Actions)
	assert.Empty(t, result.Actions)
}
