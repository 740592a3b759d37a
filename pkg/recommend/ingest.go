package recommend

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/rs/zerolog"
)

// trailingDelim matches a comma left dangling before a closing bracket
// or brace, the most common way models break their own JSON.
var trailingDelim = regexp.MustCompile(`,\s*([\]}])`)

// ParseCandidates extracts the candidate list and target board from a
// recommend_cards tool input. The declared schema says cards is an
// array, but models occasionally emit it as a stringified JSON blob;
// that fallback is repaired and accepted here, with a warning, since
// it is the model violating its contract rather than a user error.
func ParseCandidates(input map[string]interface{}, logger zerolog.Logger) ([]Candidate, Board, error) {
	boardRaw, _ := input["board"].(string)
	board, err := ParseBoard(boardRaw)
	if err != nil {
		return nil, "", err
	}

	var candidates []Candidate

	switch cardsField := input["cards"].(type) {
	case []interface{}:
		candidates, err = decodeCandidates(cardsField)
		if err != nil {
			return nil, "", err
		}

	case string:
		logger.Warn().
			Str("board", string(board)).
			Msg("Model emitted cards as a JSON string instead of an array, repairing")
		repaired := trailingDelim.ReplaceAllString(cardsField, "$1")
		if err := json.Unmarshal([]byte(repaired), &candidates); err != nil {
			return nil, "", fmt.Errorf("failed to parse stringified cards payload: %w", err)
		}

	case nil:
		return nil, "", fmt.Errorf("missing cards field")

	default:
		return nil, "", fmt.Errorf("unexpected cards field type %T", cardsField)
	}

	if len(candidates) == 0 {
		return nil, "", fmt.Errorf("empty cards list")
	}

	return candidates, board, nil
}

// decodeCandidates converts decoded-JSON card entries into Candidates.
func decodeCandidates(raw []interface{}) ([]Candidate, error) {
	candidates := make([]Candidate, 0, len(raw))

	for i, entry := range raw {
		m, ok := entry.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("card entry %d is not an object", i)
		}

		name, _ := m["name"].(string)
		if name == "" {
			return nil, fmt.Errorf("card entry %d has no name", i)
		}

		candidate := Candidate{Name: name}

		switch q := m["quantity"].(type) {
		case float64:
			candidate.Quantity = int(q)
		case int:
			candidate.Quantity = q
		case json.Number:
			if n, err := q.Int64(); err == nil {
				candidate.Quantity = int(n)
			}
		}

		if reason, ok := m["reason"].(string); ok {
			candidate.Reason = reason
		}

		candidates = append(candidates, candidate)
	}

	return candidates, nil
}
