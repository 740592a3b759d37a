// Package experts executes consult tool calls against independently
// configured specialist agents. A consultation is a single-turn call
// with no tool access, so delegation depth is bounded at one level.
package experts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/marlowe/brewmind/pkg/agent"
	"github.com/marlowe/brewmind/pkg/cards"
	"github.com/marlowe/brewmind/pkg/registry"
	"github.com/marlowe/brewmind/pkg/tools"
)

// similarLimit bounds the number of alternatives pulled from the card
// store per analyzed card during prompt enrichment.
const similarLimit = 3

// Consultant resolves and runs specialist agents on behalf of the
// orchestrator.
type Consultant struct {
	client   *agent.Client
	registry registry.Registry
	store    cards.Store
	logger   zerolog.Logger
}

// Config holds consultant construction parameters.
type Config struct {
	Client   *agent.Client
	Registry registry.Registry
	Store    cards.Store
	Logger   zerolog.Logger
}

// NewConsultant creates a consultant.
func NewConsultant(cfg Config) (*Consultant, error) {
	if cfg.Client == nil {
		return nil, fmt.Errorf("agent client is required")
	}
	if cfg.Registry == nil {
		return nil, fmt.Errorf("agent registry is required")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("card store is required")
	}

	return &Consultant{
		client:   cfg.Client,
		registry: cfg.Registry,
		store:    cfg.Store,
		logger:   cfg.Logger,
	}, nil
}

// Params carries one consultation request.
type Params struct {
	RunID          string
	ToolName       string
	Input          map[string]interface{}
	ContextSummary string   // serialized brew context from the orchestrator
	DeckCards      []string // current deck card names, for enrichment
}

// Consult executes one consult tool call. A missing or disabled expert
// degrades to a natural-language fallback string rather than an error,
// so the orchestrator's synthesis is never blocked by an absent
// specialist. Only an unrecognized tool name fails: that is a contract
// violation, not a runtime condition.
func (c *Consultant) Consult(ctx context.Context, p Params) (string, error) {
	expertID, err := tools.ExpertID(p.ToolName)
	if err != nil {
		return "", err
	}

	logger := c.logger.With().
		Str("run_id", p.RunID).
		Str("expert", expertID).
		Logger()

	cfg, err := c.registry.Lookup(ctx, expertID)
	if errors.Is(err, registry.ErrAgentNotFound) {
		logger.Info().Msg("Expert not configured, returning fallback")
		return fallbackMessage(expertID), nil
	}
	if err != nil {
		logger.Warn().Err(err).Msg("Expert lookup failed, returning fallback")
		return fallbackMessage(expertID), nil
	}
	if !cfg.Enabled {
		logger.Info().Msg("Expert disabled, returning fallback")
		return fallbackMessage(expertID), nil
	}

	prompt := c.buildPrompt(ctx, expertID, p)

	result, err := c.client.Run(ctx, agent.RunParams{
		RunID: p.RunID,
		Agent: *cfg,
		Messages: []agent.Message{
			{Role: "user", Content: prompt},
		},
		// No tools: sub-agents answer in one turn and never recurse.
	})
	if err != nil {
		logger.Error().Err(err).Msg("Expert consultation failed, returning fallback")
		return fallbackMessage(expertID), nil
	}

	return result.Content, nil
}

// buildPrompt assembles the expert prompt: shared context, structured
// focus fields, an optional real-data enrichment block, then the
// question.
func (c *Consultant) buildPrompt(ctx context.Context, expertID string, p Params) string {
	var b strings.Builder

	if p.ContextSummary != "" {
		b.WriteString("# Current Brew\n\n")
		b.WriteString(p.ContextSummary)
		b.WriteString("\n\n")
	}

	writeFocusList(&b, "Focus areas", p.Input["focus_areas"])
	writeFocusList(&b, "Cards to analyze", p.Input["cards_to_analyze"])
	writeFocusList(&b, "Matchups of interest", p.Input["matchups_of_interest"])

	// The card evaluation expert gets real card data spliced in so it
	// reasons about alternatives that actually exist.
	if expertID == tools.ExpertCardEvaluation {
		if enrichment := c.cardData(ctx, p); enrichment != "" {
			b.WriteString("# Card Database\n\n")
			b.WriteString(enrichment)
			b.WriteString("\n")
		}
	}

	question, _ := p.Input["question"].(string)
	b.WriteString("# Question\n\n")
	b.WriteString(question)

	return b.String()
}

// cardData looks up the deck's cards (or the explicitly requested
// ones) plus near-duplicate and upgrade candidates. Enrichment is best
// effort: store failures degrade to a thinner prompt.
func (c *Consultant) cardData(ctx context.Context, p Params) string {
	names := stringList(p.Input["cards_to_analyze"])
	if len(names) == 0 {
		names = p.DeckCards
	}
	if len(names) == 0 {
		return ""
	}

	var b strings.Builder

	for _, name := range names {
		card, err := c.store.FindByName(ctx, name)
		if err != nil {
			c.logger.Warn().Str("card", name).Err(err).Msg("Enrichment lookup failed")
			continue
		}

		fmt.Fprintf(&b, "- %s | %s | %s | $%.2f\n", card.Name, card.ManaCost, card.TypeLine, card.PriceUSD)

		similar, err := c.store.SimilarCards(ctx, card.Name, similarLimit)
		if err != nil {
			c.logger.Warn().Str("card", name).Err(err).Msg("Similar-card lookup failed")
			continue
		}
		for _, alt := range similar {
			fmt.Fprintf(&b, "  alternative: %s | %s | %s | $%.2f\n", alt.Name, alt.ManaCost, alt.TypeLine, alt.PriceUSD)
		}
	}

	return b.String()
}

// fallbackMessage is what the orchestrator sees when a specialist is
// unavailable.
func fallbackMessage(expertID string) string {
	domain := strings.ReplaceAll(strings.TrimSuffix(expertID, "_expert"), "_", " ")
	return fmt.Sprintf("The %s specialist is currently unavailable. Answer from your own knowledge and note that a dedicated %s analysis was not performed.", domain, domain)
}

// writeFocusList renders an optional string-array focus field as a
// markdown list.
func writeFocusList(b *strings.Builder, title string, raw interface{}) {
	items := stringList(raw)
	if len(items) == 0 {
		return
	}

	b.WriteString("# ")
	b.WriteString(title)
	b.WriteString("\n\n")
	for _, item := range items {
		b.WriteString("- ")
		b.WriteString(item)
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

// stringList coerces a decoded-JSON array field into a string slice.
func stringList(raw interface{}) []string {
	switch list := raw.(type) {
	case []string:
		return list
	case []interface{}:
		out := make([]string, 0, len(list))
		for _, v := range list {
			if s, ok := v.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
