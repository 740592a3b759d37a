// Package tools declares the static catalog of tools the orchestrator
// exposes to the model: one consult tool per expert domain plus the
// two action tools (recommend_cards, set_strategic_settings).
package tools

import (
	"fmt"
	"strings"

	"github.com/marlowe/brewmind/pkg/agent"
)

// Action tool names.
const (
	ToolRecommendCards       = "recommend_cards"
	ToolSetStrategicSettings = "set_strategic_settings"
	consultPrefix            = "consult_"
	ExpertCardEvaluation     = "card_evaluation_expert"
)

// Kind is the closed set of tool categories the executor dispatches
// on. An unrecognized tool name is a contract violation, not a user
// error.
type Kind int

const (
	KindConsult Kind = iota
	KindRecommend
	KindSettings
)

// ExpertDomains lists the specialist agents reachable through consult
// tools, keyed by expert id (tool name = "consult_" + id).
var ExpertDomains = map[string]string{
	"mana_expert":            "Mana base and curve analysis: land counts, color sources, curve shape.",
	"card_evaluation_expert": "Individual card quality, upgrades, and alternatives for the current deck.",
	"meta_expert":            "Metagame positioning and matchup analysis for the chosen format.",
	"synergy_expert":         "Card interactions, combos, and engine consistency within the deck.",
	"sideboard_expert":       "Sideboard construction and swap plans against expected matchups.",
}

// Classify maps a tool name to its kind. The mapping is a pure
// function with no fallback.
func Classify(name string) (Kind, error) {
	switch name {
	case ToolRecommendCards:
		return KindRecommend, nil
	case ToolSetStrategicSettings:
		return KindSettings, nil
	}
	if _, err := ExpertID(name); err == nil {
		return KindConsult, nil
	}
	return 0, fmt.Errorf("unknown tool: %s", name)
}

// ExpertID maps a consult tool name to its expert identifier
// (consult_mana_expert -> mana_expert).
func ExpertID(toolName string) (string, error) {
	if !strings.HasPrefix(toolName, consultPrefix) {
		return "", fmt.Errorf("not a consult tool: %s", toolName)
	}
	id := strings.TrimPrefix(toolName, consultPrefix)
	if _, ok := ExpertDomains[id]; !ok {
		return "", fmt.Errorf("unknown expert domain: %s", id)
	}
	return id, nil
}

// Specs returns the full static tool catalog. The returned slice is
// freshly allocated; the underlying schema maps are shared and must be
// treated as read-only.
func Specs() []agent.ToolSpec {
	specs := make([]agent.ToolSpec, 0, len(ExpertDomains)+2)

	// Deterministic order keeps request bodies stable across runs.
	for _, id := range []string{
		"mana_expert",
		"card_evaluation_expert",
		"meta_expert",
		"synergy_expert",
		"sideboard_expert",
	} {
		specs = append(specs, agent.ToolSpec{
			Name:        consultPrefix + id,
			Description: ExpertDomains[id],
			InputSchema: consultSchema(),
		})
	}

	specs = append(specs, agent.ToolSpec{
		Name:        ToolRecommendCards,
		Description: "Recommend specific cards for the deck. Each card is validated against the card database and format legality before being accepted.",
		InputSchema: recommendSchema(),
	})

	specs = append(specs, agent.ToolSpec{
		Name:        ToolSetStrategicSettings,
		Description: "Update the brew's strategic settings. Settings set here take effect for the rest of this conversation turn.",
		InputSchema: settingsSchema(),
	})

	return specs
}

func consultSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"question": map[string]interface{}{
				"type":        "string",
				"description": "The question to put to the expert.",
			},
			"focus_areas": map[string]interface{}{
				"type":        "array",
				"items":       map[string]interface{}{"type": "string"},
				"description": "Optional aspects to concentrate the analysis on.",
			},
			"cards_to_analyze": map[string]interface{}{
				"type":        "array",
				"items":       map[string]interface{}{"type": "string"},
				"description": "Optional card names the expert should examine.",
			},
			"matchups_of_interest": map[string]interface{}{
				"type":        "array",
				"items":       map[string]interface{}{"type": "string"},
				"description": "Optional opposing decks or archetypes to consider.",
			},
		},
		"required": []string{"question"},
	}
}

func recommendSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"cards": map[string]interface{}{
				"type": "array",
				"items": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"name":     map[string]interface{}{"type": "string"},
						"quantity": map[string]interface{}{"type": "integer"},
						"reason":   map[string]interface{}{"type": "string"},
					},
					"required": []string{"name", "quantity"},
				},
				"description": "Cards to add, with quantities and reasons.",
			},
			"board": map[string]interface{}{
				"type":        "string",
				"enum":        []string{"mainboard", "sideboard", "staging"},
				"description": "Which board the cards belong to.",
			},
		},
		"required": []string{"cards", "board"},
	}
}

func settingsSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"format": map[string]interface{}{
				"type":        "string",
				"description": "Constructed format, e.g. standard, modern, commander.",
			},
			"archetype": map[string]interface{}{
				"type": "string",
				"enum": []string{"aggro", "control", "midrange", "combo", "tempo", "ramp"},
			},
			"colors": map[string]interface{}{
				"type": "array",
				"items": map[string]interface{}{
					"type": "string",
					"enum": []string{"W", "U", "B", "R", "G", "C"},
				},
			},
		},
	}
}
