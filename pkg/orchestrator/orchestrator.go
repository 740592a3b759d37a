// Package orchestrator is the engine's entry point: one top-level
// agent answers a brew question, delegating sub-questions to
// specialist agents and invoking card-recommendation and settings
// actions through the same tool-call channel.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"

	"github.com/marlowe/brewmind/pkg/agent"
	"github.com/marlowe/brewmind/pkg/experts"
	"github.com/marlowe/brewmind/pkg/recommend"
	"github.com/marlowe/brewmind/pkg/registry"
	"github.com/marlowe/brewmind/pkg/tools"
)

// AgentName is the registry key of the top-level agent.
const AgentName = "orchestrator"

// ErrOrchestratorUnavailable is returned when the orchestrator agent
// is absent from the registry or disabled. There is no silent fallback
// at this level: the caller must know the feature is off.
var ErrOrchestratorUnavailable = errors.New("orchestrator agent is not configured or is disabled")

// Orchestrator wires the tool-call client, the expert consultant and
// the recommendation validator into one ask() surface.
type Orchestrator struct {
	client     *agent.Client
	registry   registry.Registry
	consultant *experts.Consultant
	validator  *recommend.Validator
	logger     zerolog.Logger
}

// Config holds orchestrator construction parameters.
type Config struct {
	Client     *agent.Client
	Registry   registry.Registry
	Consultant *experts.Consultant
	Validator  *recommend.Validator
	Logger     zerolog.Logger
}

// New creates an orchestrator.
func New(cfg Config) (*Orchestrator, error) {
	if cfg.Client == nil {
		return nil, fmt.Errorf("agent client is required")
	}
	if cfg.Registry == nil {
		return nil, fmt.Errorf("agent registry is required")
	}
	if cfg.Consultant == nil {
		return nil, fmt.Errorf("expert consultant is required")
	}
	if cfg.Validator == nil {
		return nil, fmt.Errorf("recommendation validator is required")
	}

	return &Orchestrator{
		client:     cfg.Client,
		registry:   cfg.Registry,
		consultant: cfg.Consultant,
		validator:  cfg.Validator,
		logger:     cfg.Logger,
	}, nil
}

// Options tunes one Ask call.
type Options struct {
	// RunID correlates logs and usage records; generated when empty.
	RunID string
}

// Response is the complete outcome of one orchestration: the final
// synthesized text plus every side effect accumulated along the way.
type Response struct {
	Content          string                                       `json:"content"`
	Model            string                                       `json:"model"`
	Provider         string                                       `json:"provider"`
	ExpertsConsulted []string                                     `json:"experts_consulted"`
	Recommended      map[recommend.Board][]recommend.ResolvedCard `json:"recommended_cards"`
	Rejected         []recommend.Rejection                        `json:"rejected_cards,omitempty"`
	Settings         *StrategicSettings                           `json:"strategic_settings,omitempty"`
}

// Ask answers a brew question. It resolves the orchestrator agent,
// runs the bounded tool-call loop with a fresh RunState, and assembles
// the response from the final text plus the accumulated state. On any
// error the partial RunState is discarded and only the error returned.
func (o *Orchestrator) Ask(ctx context.Context, brew BrewContext, opts Options) (*Response, error) {
	cfg, err := o.registry.Lookup(ctx, AgentName)
	if errors.Is(err, registry.ErrAgentNotFound) {
		return nil, ErrOrchestratorUnavailable
	}
	if err != nil {
		return nil, fmt.Errorf("orchestrator lookup failed: %w", err)
	}
	if !cfg.Enabled {
		return nil, ErrOrchestratorUnavailable
	}

	runID := opts.RunID
	if runID == "" {
		runID, err = gonanoid.New()
		if err != nil {
			return nil, fmt.Errorf("failed to generate run id: %w", err)
		}
	}

	logger := o.logger.With().Str("run_id", runID).Logger()
	logger.Info().
		Str("model", cfg.Model).
		Str("provider", cfg.Provider).
		Str("format", brew.Format).
		Msg("Orchestration started")

	state := NewRunState()

	result, err := o.client.Run(ctx, agent.RunParams{
		RunID: runID,
		Agent: *cfg,
		Messages: []agent.Message{
			{Role: "user", Content: brew.initialPrompt()},
		},
		Tools: tools.Specs(),
		Executor: func(ctx context.Context, call agent.ToolCall) (string, error) {
			return o.execute(ctx, runID, call, &brew, state)
		},
	})
	if err != nil {
		logger.Error().Err(err).Msg("Orchestration failed")
		return nil, err
	}

	logger.Info().
		Int("turns", result.Turns).
		Strs("experts", state.ExpertsConsulted).
		Msg("Orchestration completed")

	return &Response{
		Content:          result.Content,
		Model:            cfg.Model,
		Provider:         cfg.Provider,
		ExpertsConsulted: state.ExpertsConsulted,
		Recommended:      state.Recommended,
		Rejected:         state.Rejected,
		Settings:         state.Settings,
	}, nil
}

// execute routes one tool call: consult tools go to the expert
// consultant, action tools to the validator and settings handler. The
// RunState is mutated append-only, in the order calls arrive.
func (o *Orchestrator) execute(ctx context.Context, runID string, call agent.ToolCall, brew *BrewContext, state *RunState) (string, error) {
	kind, err := tools.Classify(call.Name)
	if err != nil {
		o.logger.Error().Str("tool", call.Name).Msg("Model requested a tool outside the catalog")
		return "", err
	}

	switch kind {
	case tools.KindConsult:
		if err := tools.ValidateInput(call.Name, call.Input); err != nil {
			return "", err
		}
		expertID, err := tools.ExpertID(call.Name)
		if err != nil {
			return "", err
		}
		state.RecordExpert(expertID)
		return o.consultant.Consult(ctx, experts.Params{
			RunID:          runID,
			ToolName:       call.Name,
			Input:          call.Input,
			ContextSummary: brew.Summary(),
			DeckCards:      brew.DeckCards,
		})

	case tools.KindSettings:
		if err := tools.ValidateInput(call.Name, call.Input); err != nil {
			return "", err
		}
		return o.applySettings(call.Input, state), nil

	case tools.KindRecommend:
		return o.applyRecommendation(ctx, call.Input, brew, state)
	}

	return "", fmt.Errorf("unhandled tool kind for %s", call.Name)
}

// applySettings merges provided fields into the run's settings record.
// Settings set here are visible to later tool calls in the same run,
// in particular as the effective format for legality checks.
func (o *Orchestrator) applySettings(input map[string]interface{}, state *RunState) string {
	format, _ := input["format"].(string)
	archetype, _ := input["archetype"].(string)
	colors := stringList(input["colors"])

	state.MergeSettings(format, archetype, colors)

	parts := []string{}
	if format != "" {
		parts = append(parts, "format="+format)
	}
	if archetype != "" {
		parts = append(parts, "archetype="+archetype)
	}
	if len(colors) > 0 {
		parts = append(parts, "colors="+strings.Join(colors, ""))
	}
	if len(parts) == 0 {
		return "No settings provided; nothing changed."
	}
	return "Strategic settings updated: " + strings.Join(parts, ", ")
}

// applyRecommendation validates proposed cards against the card store
// under the effective format and merges the survivors into the run's
// board state. The tool result separates ADDED from REJECTED so the
// model can correct its final answer.
func (o *Orchestrator) applyRecommendation(ctx context.Context, input map[string]interface{}, brew *BrewContext, state *RunState) (string, error) {
	candidates, board, err := recommend.ParseCandidates(input, o.logger)
	if err != nil {
		return "", err
	}

	format := state.EffectiveFormat(brew.Format)

	resolved, rejections, err := o.validator.Validate(ctx, candidates, format)
	if err != nil {
		return "", err
	}

	state.MergeRecommendations(board, resolved)
	state.Rejected = append(state.Rejected, rejections...)

	return recommendationResult(board, resolved, rejections, format), nil
}

// recommendationResult renders the tool result the model sees.
func recommendationResult(board recommend.Board, resolved []recommend.ResolvedCard, rejections []recommend.Rejection, format string) string {
	var b strings.Builder

	if len(resolved) > 0 {
		added := make([]string, 0, len(resolved))
		for _, card := range resolved {
			added = append(added, fmt.Sprintf("%dx %s", card.Quantity, card.Name))
		}
		fmt.Fprintf(&b, "ADDED to %s: %s\n", board, strings.Join(added, ", "))
	}

	for _, rejection := range rejections {
		switch rejection.Reason {
		case recommend.RejectedNotFound:
			fmt.Fprintf(&b, "REJECTED: %q (no such card found)\n", rejection.Name)
		case recommend.RejectedBanned:
			fmt.Fprintf(&b, "REJECTED: %q (banned in %s)\n", rejection.Name, format)
		case recommend.RejectedNotLegal:
			fmt.Fprintf(&b, "REJECTED: %q (not legal in %s)\n", rejection.Name, format)
		}
	}

	if b.Len() == 0 {
		return "No cards were added."
	}
	return strings.TrimRight(b.String(), "\n")
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
