package rules

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boadinoel/fsri/internal/domain/pillar"
)

const sampleDoc = `
corn.us:
  - persona: traders
    when: {pillar: movement, threshold: 60}
    do: ["hedge basis", "book barge capacity early"]
    notify: ["desk"]
  - persona: procurement
    when: {pillar: production, threshold: 55}
    do: ["increase forward coverage"]
poultry.us:
  - persona: operators
    when: {pillar: biosecurity, threshold: 40, weather: conducive}
    do: ["tighten SOPs"]
`

func TestParseDocument_Valid(t *testing.T) {
	doc, err := ParseDocument([]byte(sampleDoc))
	require.NoError(t, err)
	assert.Equal(t, 3, doc.Len())
	assert.Equal(t, []string{"corn.us", "poultry.us"}, doc.Keys())

	rules := doc.Rules("corn.us")
	require.Len(t, rules, 2)
	assert.Equal(t, "traders", rules[0].Persona)
	assert.Equal(t, pillar.Movement, rules[0].When.Pillar)
	assert.Equal(t, 60.0, rules[0].When.Threshold)
	assert.Equal(t, []string{"desk"}, rules[0].Notify)
}

func TestParseDocument_NormalizesCase(t *testing.T) {
	doc, err := ParseDocument([]byte(`
Corn.US:
  - persona: Traders
    when: {pillar: movement, threshold: 60}
    do: ["act"]
`))
	require.NoError(t, err)
	rules := doc.Rules("corn.us")
	require.Len(t, rules, 1)
	assert.Equal(t, "traders", rules[0].Persona)
}

func TestParseDocument_RejectsDuplicateNormalizedKeys(t *testing.T) {
	doc, err := ParseDocument([]byte(`
Corn.US:
  - persona: traders
    when: {pillar: movement, threshold: 60}
    do: ["act"]
corn.us:
  - persona: operators
    when: {pillar: production, threshold: 50}
    do: ["act"]
`))
	require.Error(t, err)
	assert.Nil(t, doc)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, -1, verr.RuleIndex)
	assert.Contains(t, verr.Detail, "duplicate")
}

func TestParseDocument_Rejections(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"key without dot", `
corn:
  - persona: traders
    when: {pillar: movement, threshold: 60}
    do: ["act"]
`},
		{"empty persona", `
corn.us:
  - persona: ""
    when: {pillar: movement, threshold: 60}
    do: ["act"]
`},
		{"unknown pillar", `
corn.us:
  - persona: traders
    when: {pillar: weather, threshold: 60}
    do: ["act"]
`},
		{"missing threshold", `
corn.us:
  - persona: traders
    when: {pillar: movement}
    do: ["act"]
`},
		{"missing do", `
corn.us:
  - persona: traders
    when: {pillar: movement, threshold: 60}
`},
		{"bad weather flag", `
corn.us:
  - persona: traders
    when: {pillar: movement, threshold: 60, weather: stormy}
    do: ["act"]
`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc, err := ParseDocument([]byte(tc.doc))
			require.Error(t, err)
			assert.Nil(t, doc)
		})
	}
}

func TestParseDocument_ErrorLocatesEntry(t *testing.T) {
	_, err := ParseDocument([]byte(`
corn.us:
  - persona: traders
    when: {pillar: movement, threshold: 60}
    do: ["act"]
  - persona: traders
    when: {pillar: movement, threshold: 70}
`))
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "corn.us", verr.Key)
	assert.Equal(t, 1, verr.RuleIndex)
	assert.Contains(t, verr.Error(), "'do'")
}

func TestKey(t *testing.T) {
	assert.Equal(t, "corn.us", Key("Corn", "US"))
	assert.Equal(t, "srw_wheat.us", Key("srw_wheat", "us"))
}
