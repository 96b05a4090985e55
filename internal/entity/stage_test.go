package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStageLegacySpellings(t *testing.T) {
	cases := map[string]StageKey{
		"Gagné":          StageWon,
		"gagne":          StageWon,
		"GAGNÉ":          StageWon,
		"Perdu":          StageLost,
		"RDV 1 planifié": StageRV1Planned,
		"rdv1-planifié":  StageRV1Planned,
		"RV1 annulé":     StageRV1Canceled,
		"Non qualifié":   StageNotQualified,
		"Nouveau lead":   StageNew,
		"Appel répondu":  StageCallAnswered,
	}
	for raw, want := range cases {
		assert.Equal(t, want, NormalizeStage(raw), "raw label %q", raw)
	}
}

func TestNormalizeStageIsTotal(t *testing.T) {
	assert.Equal(t, StageUnmapped, NormalizeStage("something nobody ever used"))
	assert.Equal(t, StageUnmapped, NormalizeStage(""))
	assert.Equal(t, StageUnmapped, NormalizeStage("   "))
}

func TestNormalizeStageIsIdempotent(t *testing.T) {
	for _, key := range canonicalKeys {
		assert.Equal(t, key, NormalizeStage(string(key)))
	}
	// A second pass over an already-normalized value changes nothing.
	once := NormalizeStage("RDV1 planifié")
	assert.Equal(t, once, NormalizeStage(string(once)))
}

func TestStageCatalogResolvesWonDynamically(t *testing.T) {
	catalog := NewStageCatalog([]Stage{
		{ID: "s1", Label: "Signé chez le notaire", IsActive: true, IsWon: true},
		{ID: "s2", Label: "RV1 planifié", IsActive: true},
	})

	won := catalog.WonLabels()
	assert.Contains(t, won, "Signé chez le notaire")
	assert.Contains(t, won, "Gagné")
	assert.Contains(t, won, string(StageWon))
	assert.NotContains(t, won, "RV1 planifié")
}

func TestStageCatalogLabelsIncludeLegacyAndCanonical(t *testing.T) {
	catalog := NewStageCatalog(nil)

	labels := catalog.Labels(StageRV1Planned)
	assert.Contains(t, labels, "RV1_PLANNED")
	assert.Contains(t, labels, "RDV1 planifié")
	assert.NotContains(t, labels, "RV1 honoré")
}
