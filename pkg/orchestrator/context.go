package orchestrator

import (
	"fmt"
	"strings"
)

// ChatTurn is one prior exchange in the brew conversation.
type ChatTurn struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// DeckStats summarizes the current list. Computed by the deck layer;
// consumed here read-only for prompt context.
type DeckStats struct {
	TotalCards       int            `json:"total_cards"`
	LandCount        int            `json:"land_count"`
	AverageManaValue float64        `json:"average_mana_value"`
	ColorCounts      map[string]int `json:"color_counts,omitempty"`
}

// BrewContext is everything the caller knows about the brew when it
// asks a question: strategy, deck contents and statistics, recent
// conversation, and the question itself.
type BrewContext struct {
	BrewName        string     `json:"brew_name,omitempty"`
	Format          string     `json:"format,omitempty"`
	Archetype       string     `json:"archetype,omitempty"`
	Colors          []string   `json:"colors,omitempty"`
	StrategySummary string     `json:"strategy_summary,omitempty"`
	DeckCards       []string   `json:"deck_cards,omitempty"`
	Stats           *DeckStats `json:"stats,omitempty"`
	MissingPieces   []string   `json:"missing_pieces,omitempty"`
	RecentTurns     []ChatTurn `json:"recent_turns,omitempty"`
	Question        string     `json:"question"`
}

// Summary serializes the shared brew state for prompts. The question
// and chat history are excluded; they are threaded separately.
func (c *BrewContext) Summary() string {
	var b strings.Builder

	if c.BrewName != "" {
		fmt.Fprintf(&b, "Brew: %s\n", c.BrewName)
	}
	if c.Format != "" {
		fmt.Fprintf(&b, "Format: %s\n", c.Format)
	}
	if c.Archetype != "" {
		fmt.Fprintf(&b, "Archetype: %s\n", c.Archetype)
	}
	if len(c.Colors) > 0 {
		fmt.Fprintf(&b, "Colors: %s\n", strings.Join(c.Colors, ""))
	}
	if c.StrategySummary != "" {
		fmt.Fprintf(&b, "Strategy: %s\n", c.StrategySummary)
	}

	if c.Stats != nil {
		fmt.Fprintf(&b, "Deck: %d cards (%d lands), average mana value %.2f\n",
			c.Stats.TotalCards, c.Stats.LandCount, c.Stats.AverageManaValue)
	}

	if len(c.DeckCards) > 0 {
		b.WriteString("Current list:\n")
		for _, name := range c.DeckCards {
			fmt.Fprintf(&b, "- %s\n", name)
		}
	}

	if len(c.MissingPieces) > 0 {
		b.WriteString("Missing pieces:\n")
		for _, piece := range c.MissingPieces {
			fmt.Fprintf(&b, "- %s\n", piece)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// initialPrompt builds the first user message: brew summary, recent
// conversation, then the question.
func (c *BrewContext) initialPrompt() string {
	var b strings.Builder

	if summary := c.Summary(); summary != "" {
		b.WriteString("# Brew Context\n\n")
		b.WriteString(summary)
		b.WriteString("\n\n")
	}

	if len(c.RecentTurns) > 0 {
		b.WriteString("# Recent Conversation\n\n")
		for _, turn := range c.RecentTurns {
			fmt.Fprintf(&b, "%s: %s\n", turn.Role, turn.Content)
		}
		b.WriteString("\n")
	}

	b.WriteString("# Question\n\n")
	b.WriteString(c.Question)

	return b.String()
}
