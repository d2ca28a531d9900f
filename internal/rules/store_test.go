package rules

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boadinoel/fsri/internal/domain/pillar"
)

const oldDoc = `
corn.us:
  - persona: traders
    when: {pillar: movement, threshold: 60}
    do: ["old action"]
`

const newDoc = `
corn.us:
  - persona: traders
    when: {pillar: movement, threshold: 60}
    do: ["new action"]
  - persona: procurement
    when: {pillar: production, threshold: 50}
    do: ["new coverage"]
`

func TestStore_ReloadSwapsDocument(t *testing.T) {
	store := NewStore(mustParse(t, oldDoc))
	require.Equal(t, 1, store.Len())

	count, err := store.ReloadBytes([]byte(newDoc))
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, 2, store.Len())

	subScores := map[pillar.Pillar]float64{pillar.Movement: 70}
	recs := store.Match("corn", "us", subScores, false, "traders")
	require.Len(t, recs, 1)
	assert.Equal(t, []string{"new action"}, recs[0].Do)
}

func TestStore_RejectedReloadKeepsActive(t *testing.T) {
	store := NewStore(mustParse(t, oldDoc))

	// Malformed document: missing 'do' on the rule.
	_, err := store.ReloadBytes([]byte(`
corn.us:
  - persona: traders
    when: {pillar: movement, threshold: 60}
`))
	require.Error(t, err)

	// The previously active document is untouched.
	assert.Equal(t, 1, store.Len())
	subScores := map[pillar.Pillar]float64{pillar.Movement: 70}
	recs := store.Match("corn", "us", subScores, false, "traders")
	require.Len(t, recs, 1)
	assert.Equal(t, []string{"old action"}, recs[0].Do)
}

func TestStore_EmptyStore(t *testing.T) {
	store := NewStore(nil)
	assert.Equal(t, 0, store.Len())
	assert.Empty(t, store.Match("corn", "us", map[pillar.Pillar]float64{pillar.Movement: 90}, false, ""))
}

// Readers racing a reload must each observe either the fully-old or
// fully-new document, never a mixture. Run with -race.
func TestStore_ConcurrentReloadVisibility(t *testing.T) {
	store := NewStore(mustParse(t, oldDoc))
	subScores := map[pillar.Pillar]float64{pillar.Movement: 70, pillar.Production: 60}

	var wg sync.WaitGroup
	stop := make(chan struct{})

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				recs := store.Match("corn", "us", subScores, false, "traders")
				if len(recs) != 1 {
					t.Errorf("expected exactly one traders recommendation, got %d", len(recs))
					return
				}
				action := recs[0].Do[0]
				if action != "old action" && action != "new action" {
					t.Errorf("observed mixed document state: %q", action)
					return
				}
			}
		}()
	}

	for i := 0; i < 200; i++ {
		doc := oldDoc
		if i%2 == 0 {
			doc = newDoc
		}
		_, err := store.ReloadBytes([]byte(doc))
		if err != nil {
			t.Errorf("reload failed: %v", err)
			break
		}
	}
	close(stop)
	wg.Wait()
}
