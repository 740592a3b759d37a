package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	t.Run("should classify consult tools", func(t *testing.T) {
		for _, name := range []string{
			"consult_mana_expert",
			"consult_card_evaluation_expert",
			"consult_meta_expert",
			"consult_synergy_expert",
			"consult_sideboard_expert",
		} {
			kind, err := Classify(name)
			require.NoError(t, err, name)
			assert.Equal(t, KindConsult, kind, name)
		}
	})

	t.Run("should classify action tools", func(t *testing.T) {
		kind, err := Classify(ToolRecommendCards)
		require.NoError(t, err)
		assert.Equal(t, KindRecommend, kind)

		kind, err = Classify(ToolSetStrategicSettings)
		require.NoError(t, err)
		assert.Equal(t, KindSettings, kind)
	})

	t.Run("should reject unknown tool names", func(t *testing.T) {
		_, err := Classify("consult_pricing_expert")
		assert.Error(t, err)

		_, err = Classify("delete_deck")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unknown tool")
	})
}

func TestExpertID(t *testing.T) {
	t.Run("should map tool name to expert id", func(t *testing.T) {
		id, err := ExpertID("consult_mana_expert")
		require.NoError(t, err)
		assert.Equal(t, "mana_expert", id)
	})

	t.Run("should reject non-consult tools", func(t *testing.T) {
		_, err := ExpertID(ToolRecommendCards)
		assert.Error(t, err)
	})

	t.Run("should reject unknown domains", func(t *testing.T) {
		_, err := ExpertID("consult_banana_expert")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unknown expert domain")
	})
}

func TestSpecs(t *testing.T) {
	specs := Specs()

	t.Run("should include every expert domain plus both action tools", func(t *testing.T) {
		assert.Len(t, specs, len(ExpertDomains)+2)

		names := map[string]bool{}
		for _, spec := range specs {
			names[spec.Name] = true
			assert.NotEmpty(t, spec.Description, spec.Name)
			assert.NotNil(t, spec.InputSchema, spec.Name)
		}
		assert.True(t, names[ToolRecommendCards])
		assert.True(t, names[ToolSetStrategicSettings])
		assert.True(t, names["consult_card_evaluation_expert"])
	})

	t.Run("should keep a stable order", func(t *testing.T) {
		again := Specs()
		for i := range specs {
			assert.Equal(t, specs[i].Name, again[i].Name)
		}
	})
}
