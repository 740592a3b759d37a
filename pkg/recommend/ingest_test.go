package recommend

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() zerolog.Logger {
	return zerolog.New(os.Stdout).Level(zerolog.Disabled)
}

func TestParseCandidates(t *testing.T) {
	t.Run("should parse a well-formed input", func(t *testing.T) {
		candidates, board, err := ParseCandidates(map[string]interface{}{
			"cards": []interface{}{
				map[string]interface{}{"name": "Lightning Bolt", "quantity": float64(4), "reason": "removal"},
				map[string]interface{}{"name": "Mountain", "quantity": float64(18)},
			},
			"board": "mainboard",
		}, testLogger())

		require.NoError(t, err)
		assert.Equal(t, BoardMainboard, board)
		require.Len(t, candidates, 2)
		assert.Equal(t, Candidate{Name: "Lightning Bolt", Quantity: 4, Reason: "removal"}, candidates[0])
		assert.Equal(t, Candidate{Name: "Mountain", Quantity: 18}, candidates[1])
	})

	t.Run("should repair a stringified cards payload with a trailing comma", func(t *testing.T) {
		candidates, board, err := ParseCandidates(map[string]interface{}{
			"cards": `[{"name": "Lightning Bolt", "quantity": 4},]`,
			"board": "sideboard",
		}, testLogger())

		require.NoError(t, err)
		assert.Equal(t, BoardSideboard, board)
		require.Len(t, candidates, 1)
		assert.Equal(t, "Lightning Bolt", candidates[0].Name)
		assert.Equal(t, 4, candidates[0].Quantity)
	})

	t.Run("should repair a trailing comma inside an object", func(t *testing.T) {
		candidates, _, err := ParseCandidates(map[string]interface{}{
			"cards": `[{"name": "Shock", "quantity": 2,}]`,
			"board": "staging",
		}, testLogger())

		require.NoError(t, err)
		require.Len(t, candidates, 1)
		assert.Equal(t, "Shock", candidates[0].Name)
	})

	t.Run("should reject an unparseable stringified payload", func(t *testing.T) {
		_, _, err := ParseCandidates(map[string]interface{}{
			"cards": `not json at all`,
			"board": "mainboard",
		}, testLogger())

		assert.Error(t, err)
	})

	t.Run("should reject an unknown board", func(t *testing.T) {
		_, _, err := ParseCandidates(map[string]interface{}{
			"cards": []interface{}{map[string]interface{}{"name": "Shock", "quantity": float64(1)}},
			"board": "maybeboard",
		}, testLogger())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown board")
	})

	t.Run("should reject a missing cards field", func(t *testing.T) {
		_, _, err := ParseCandidates(map[string]interface{}{
			"board": "mainboard",
		}, testLogger())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing cards")
	})

	t.Run("should reject an empty cards list", func(t *testing.T) {
		_, _, err := ParseCandidates(map[string]interface{}{
			"cards": []interface{}{},
			"board": "mainboard",
		}, testLogger())

		assert.Error(t, err)
	})

	t.Run("should reject a card entry without a name", func(t *testing.T) {
		_, _, err := ParseCandidates(map[string]interface{}{
			"cards": []interface{}{map[string]interface{}{"quantity": float64(2)}},
			"board": "mainboard",
		}, testLogger())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no name")
	})
}

func TestParseBoard(t *testing.T) {
	for _, valid := range []string{"mainboard", "sideboard", "staging"} {
		board, err := ParseBoard(valid)
		require.NoError(t, err)
		assert.Equal(t, Board(valid), board)
	}

	_, err := ParseBoard("commander")
	assert.Error(t, err)
}
