package cards

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLegalityIn(t *testing.T) {
	card := Card{
		ID:   "bolt-1",
		Name: "Lightning Bolt",
		Legalities: map[string]Legality{
			"modern":  LegalityLegal,
			"legacy":  LegalityLegal,
			"vintage": LegalityRestricted,
			"pioneer": LegalityBanned,
		},
	}

	t.Run("should report the recorded legality", func(t *testing.T) {
		assert.Equal(t, LegalityLegal, card.LegalityIn("modern"))
		assert.Equal(t, LegalityRestricted, card.LegalityIn("vintage"))
		assert.Equal(t, LegalityBanned, card.LegalityIn("pioneer"))
	})

	t.Run("should treat missing entries as not legal", func(t *testing.T) {
		assert.Equal(t, LegalityNotLegal, card.LegalityIn("standard"))
	})

	t.Run("should treat an empty format as legal", func(t *testing.T) {
		assert.Equal(t, LegalityLegal, card.LegalityIn(""))
	})

	t.Run("should handle cards with no legality map", func(t *testing.T) {
		bare := Card{ID: "x", Name: "X"}
		assert.Equal(t, LegalityNotLegal, bare.LegalityIn("modern"))
		assert.Equal(t, LegalityLegal, bare.LegalityIn(""))
	})
}
