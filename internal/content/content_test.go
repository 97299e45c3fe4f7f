package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statlive/matchview-ui/internal/models"
)

func TestLookupReference(t *testing.T) {
	for id := 1; id <= 4; id++ {
		ref, ok := LookupReference(id)
		require.True(t, ok, "reference %d must exist", id)
		assert.Equal(t, id, ref.ID)
		assert.NotEmpty(t, ref.Text)
		assert.NotEmpty(t, ref.URL)
	}

	_, ok := LookupReference(99)
	assert.False(t, ok)
	_, ok = LookupReference(0)
	assert.False(t, ok)
}

func TestStatExplainers(t *testing.T) {
	for _, key := range models.StatOrder() {
		e := StatExplainer(key)
		assert.NotEmpty(t, e.Title, "explainer title for %q", key)
		assert.NotEmpty(t, e.Body, "explainer body for %q", key)
		for _, id := range e.References {
			_, ok := LookupReference(id)
			assert.True(t, ok, "explainer for %q cites unknown reference %d", key, id)
		}
	}

	// Unknown keys fall back instead of failing
	e := StatExplainer(models.StatKey("throwins"))
	assert.Equal(t, "throwins", e.Title)
	assert.NotEmpty(t, e.Body)
}

func TestMethodologySectionsOrder(t *testing.T) {
	sections := MethodologySections()
	require.Len(t, sections, 2)
	assert.Equal(t, "sensor", sections[0].Key)
	assert.Equal(t, "camera", sections[1].Key)
	for _, s := range sections {
		assert.NotEmpty(t, s.Section.Title)
		assert.NotEmpty(t, s.Section.Body)
	}
}

func TestStandaloneExplainerReferences(t *testing.T) {
	for _, id := range append(RedCardReferences, GoalReferences...) {
		_, ok := LookupReference(id)
		assert.True(t, ok, "standalone explainer cites unknown reference %d", id)
	}
}

func TestHighlightBanner(t *testing.T) {
	b := HighlightBanner()
	assert.Equal(t, "Occasion dangereuse !", b.Title)
	assert.Equal(t, "Tir cadré de l'OM, la possession monte à 62%", b.Message)
}
