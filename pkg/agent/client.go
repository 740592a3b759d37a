package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/marlowe/brewmind/pkg/registry"
	"github.com/marlowe/brewmind/pkg/usage"
)

// DefaultMaxTurns bounds the tool-call loop. One settings update, one
// consultation per expert domain, and a few batched recommendation
// calls all fit comfortably under ten rounds; a model that needs more
// is looping, not working.
const DefaultMaxTurns = 10

// DefaultMaxRetries bounds transport-level retries per model call.
const DefaultMaxRetries = 3

// ErrMaxTurns is returned when the model keeps requesting tools past
// the turn ceiling. It signals a runaway tool-call pattern, distinct
// from transport failures.
var ErrMaxTurns = errors.New("max tool-call turns exceeded")

// Executor runs one tool call and returns its result text. A returned
// error is fed back to the model as the tool result rather than
// failing the run.
type Executor func(ctx context.Context, call ToolCall) (string, error)

// RunParams describes one bounded multi-turn run.
type RunParams struct {
	RunID    string
	Agent    registry.AgentConfig
	Messages []Message
	Tools    []ToolSpec
	Executor Executor
}

// RunResult is the outcome of a completed run.
type RunResult struct {
	Content   string
	Turns     int
	ToolCalls []ToolCall
	Usage     TokenUsage
}

// Client drives the bounded multi-turn tool-call loop against any
// vendor. It is vendor-blind: all wire differences live behind
// LLMProvider.
type Client struct {
	factory    ProviderCreator
	recorder   usage.Recorder
	logger     zerolog.Logger
	maxTurns   int
	maxRetries int
}

// ClientConfig holds Client construction parameters.
type ClientConfig struct {
	Factory    ProviderCreator
	Recorder   usage.Recorder
	Logger     zerolog.Logger
	MaxTurns   int
	MaxRetries int
}

// NewClient creates a tool-call client.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.Factory == nil {
		return nil, fmt.Errorf("provider factory is required")
	}

	recorder := cfg.Recorder
	if recorder == nil {
		recorder = usage.NopRecorder{}
	}

	maxTurns := cfg.MaxTurns
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}

	return &Client{
		factory:    cfg.Factory,
		recorder:   recorder,
		logger:     cfg.Logger,
		maxTurns:   maxTurns,
		maxRetries: maxRetries,
	}, nil
}

// MaxTurns returns the configured turn ceiling.
func (c *Client) MaxTurns() int {
	return c.maxTurns
}

// Run executes the loop: send a request, parse the response, execute
// any requested tools through params.Executor, append the results, and
// repeat until the model answers in text or the turn ceiling is hit.
// Tool calls within one turn are executed in request order so the
// merge of their side effects is deterministic.
func (c *Client) Run(ctx context.Context, params RunParams) (*RunResult, error) {
	provider, err := c.factory.NewProvider(params.Agent.Provider)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider: %w", err)
	}

	logger := c.logger.With().
		Str("run_id", params.RunID).
		Str("agent", params.Agent.Name).
		Str("provider", provider.Provider()).
		Logger()

	messages := make([]Message, len(params.Messages))
	copy(messages, params.Messages)

	allToolCalls := []ToolCall{}
	totalUsage := TokenUsage{}

	for turn := 0; turn < c.maxTurns; turn++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		response, err := c.callWithRetry(ctx, provider, Request{
			Model:        params.Agent.Model,
			Messages:     messages,
			Tools:        params.Tools,
			Temperature:  params.Agent.Temperature,
			MaxTokens:    params.Agent.MaxTokens,
			SystemPrompt: params.Agent.SystemPrompt,
		})
		if err != nil {
			return nil, err
		}

		totalUsage.Add(response.Usage)
		c.recordUsage(ctx, params, provider, response.Usage)

		// Final text, no tool use requested
		if len(response.ToolCalls) == 0 {
			return &RunResult{
				Content:   response.Content,
				Turns:     turn + 1,
				ToolCalls: allToolCalls,
				Usage:     totalUsage,
			}, nil
		}

		if params.Executor == nil {
			return nil, fmt.Errorf("model requested tool %q but no executor is configured", response.ToolCalls[0].Name)
		}

		logger.Debug().
			Int("turn", turn+1).
			Int("tool_calls", len(response.ToolCalls)).
			Msg("Executing tool calls")

		// Execute in the order the model returned them
		toolResults := make([]ToolResult, 0, len(response.ToolCalls))
		for _, call := range response.ToolCalls {
			output, err := params.Executor(ctx, call)
			result := ToolResult{ToolCallID: call.ID, Content: output}
			if err != nil {
				result.Content = err.Error()
				result.IsError = true
				logger.Warn().Str("tool", call.Name).Err(err).Msg("Tool execution failed")
			}
			toolResults = append(toolResults, result)
		}

		// Replay the assistant's tool-use turn, then feed back results
		messages = append(messages, Message{
			Role:      "assistant",
			Content:   response.Content,
			ToolCalls: response.ToolCalls,
		})
		for _, result := range toolResults {
			messages = append(messages, Message{
				Role:       "tool",
				Content:    result.Content,
				ToolCallID: result.ToolCallID,
			})
		}

		allToolCalls = append(allToolCalls, response.ToolCalls...)
	}

	logger.Error().Int("max_turns", c.maxTurns).Msg("Tool-call turn ceiling exceeded")
	return nil, fmt.Errorf("%w after %d turns", ErrMaxTurns, c.maxTurns)
}

// callWithRetry wraps one provider call with exponential backoff on
// transient transport errors. The loop above never retries; this is
// the transport layer's concern.
func (c *Client) callWithRetry(ctx context.Context, provider LLMProvider, request Request) (*Response, error) {
	var lastErr error

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		response, err := provider.Call(ctx, request)
		if err == nil {
			return response, nil
		}

		lastErr = err

		if !IsRetryableError(err) {
			return nil, err
		}

		if attempt == c.maxRetries-1 {
			break
		}

		// Exponential backoff: 1s, 2s, 4s
		delay := time.Duration(1000*(1<<attempt)) * time.Millisecond
		c.logger.Info().
			Int("attempt", attempt+1).
			Dur("delay", delay).
			Msg("Retrying after transient error")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	return nil, fmt.Errorf("max retries (%d) exceeded: %w", c.maxRetries, lastErr)
}

// recordUsage forwards token usage to the sink. Fire and forget.
func (c *Client) recordUsage(ctx context.Context, params RunParams, provider LLMProvider, u *TokenUsage) {
	if u == nil {
		return
	}
	c.recorder.Record(ctx, usage.Sample{
		RunID:        params.RunID,
		AgentName:    params.Agent.Name,
		Provider:     provider.Provider(),
		Model:        params.Agent.Model,
		InputTokens:  u.InputTokens,
		OutputTokens: u.OutputTokens,
	})
}
