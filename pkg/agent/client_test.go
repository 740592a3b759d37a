package agent

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marlowe/brewmind/pkg/registry"
)

// scriptedProvider replays a fixed sequence of responses.
type scriptedProvider struct {
	responses []*Response
	errs      []error
	calls     int
	requests  []Request
}

func (p *scriptedProvider) Provider() string { return "scripted" }

func (p *scriptedProvider) Call(_ context.Context, request Request) (*Response, error) {
	p.requests = append(p.requests, request)
	i := p.calls
	p.calls++

	if i < len(p.errs) && p.errs[i] != nil {
		return nil, p.errs[i]
	}
	if i < len(p.responses) {
		return p.responses[i], nil
	}
	// Past the script: keep requesting tools forever.
	return &Response{
		ToolCalls: []ToolCall{{ID: fmt.Sprintf("call-%d", i), Name: "consult_mana_expert", Input: map[string]interface{}{"question": "again"}}},
	}, nil
}

type fakeFactory struct {
	provider LLMProvider
	err      error
}

func (f *fakeFactory) NewProvider(string) (LLMProvider, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.provider, nil
}

func testAgent() registry.AgentConfig {
	return registry.AgentConfig{
		Name:        "orchestrator",
		Provider:    "anthropic",
		Model:       "claude-sonnet-4-20250514",
		MaxTokens:   4096,
		Temperature: 0.7,
		Enabled:     true,
	}
}

func newTestClient(t *testing.T, provider LLMProvider) *Client {
	t.Helper()
	client, err := NewClient(ClientConfig{
		Factory: &fakeFactory{provider: provider},
		Logger:  zerolog.New(os.Stdout).Level(zerolog.Disabled),
	})
	require.NoError(t, err)
	return client
}

func TestNewClient(t *testing.T) {
	t.Run("should require a provider factory", func(t *testing.T) {
		_, err := NewClient(ClientConfig{})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "factory")
	})

	t.Run("should apply defaults", func(t *testing.T) {
		client, err := NewClient(ClientConfig{Factory: &fakeFactory{provider: &scriptedProvider{}}})
		require.NoError(t, err)
		assert.Equal(t, DefaultMaxTurns, client.MaxTurns())
	})
}

func TestClientRun(t *testing.T) {
	t.Run("should return final text after one round when no tools are requested", func(t *testing.T) {
		provider := &scriptedProvider{
			responses: []*Response{
				{Content: "Add more removal.", Usage: &TokenUsage{InputTokens: 10, OutputTokens: 5}},
			},
		}
		client := newTestClient(t, provider)

		result, err := client.Run(context.Background(), RunParams{
			RunID:    "run-1",
			Agent:    testAgent(),
			Messages: []Message{{Role: "user", Content: "what should I add?"}},
		})

		require.NoError(t, err)
		assert.Equal(t, "Add more removal.", result.Content)
		assert.Equal(t, 1, result.Turns)
		assert.Empty(t, result.ToolCalls)
		assert.Equal(t, 1, provider.calls)
	})

	t.Run("should execute tools then return final text", func(t *testing.T) {
		provider := &scriptedProvider{
			responses: []*Response{
				{ToolCalls: []ToolCall{{ID: "c1", Name: "consult_mana_expert", Input: map[string]interface{}{"question": "enough lands?"}}}},
				{Content: "You need two more lands."},
			},
		}
		client := newTestClient(t, provider)

		executed := []string{}
		result, err := client.Run(context.Background(), RunParams{
			RunID:    "run-2",
			Agent:    testAgent(),
			Messages: []Message{{Role: "user", Content: "check my mana"}},
			Executor: func(_ context.Context, call ToolCall) (string, error) {
				executed = append(executed, call.Name)
				return "23 lands is fine", nil
			},
		})

		require.NoError(t, err)
		assert.Equal(t, "You need two more lands.", result.Content)
		assert.Equal(t, 2, result.Turns)
		assert.Equal(t, []string{"consult_mana_expert"}, executed)
		assert.Len(t, result.ToolCalls, 1)

		// Second request must replay the tool-use turn plus the result
		second := provider.requests[1]
		require.Len(t, second.Messages, 3)
		assert.Equal(t, "assistant", second.Messages[1].Role)
		assert.Len(t, second.Messages[1].ToolCalls, 1)
		assert.Equal(t, "tool", second.Messages[2].Role)
		assert.Equal(t, "c1", second.Messages[2].ToolCallID)
		assert.Equal(t, "23 lands is fine", second.Messages[2].Content)
	})

	t.Run("should feed executor errors back as tool results", func(t *testing.T) {
		provider := &scriptedProvider{
			responses: []*Response{
				{ToolCalls: []ToolCall{{ID: "c1", Name: "recommend_cards", Input: map[string]interface{}{}}}},
				{Content: "understood"},
			},
		}
		client := newTestClient(t, provider)

		result, err := client.Run(context.Background(), RunParams{
			Agent:    testAgent(),
			Messages: []Message{{Role: "user", Content: "go"}},
			Executor: func(context.Context, ToolCall) (string, error) {
				return "", fmt.Errorf("missing cards field")
			},
		})

		require.NoError(t, err)
		assert.Equal(t, "understood", result.Content)
		assert.Equal(t, "missing cards field", provider.requests[1].Messages[2].Content)
	})

	t.Run("should fail with ErrMaxTurns at exactly the ceiling", func(t *testing.T) {
		provider := &scriptedProvider{} // always tool-use
		client, err := NewClient(ClientConfig{
			Factory:  &fakeFactory{provider: provider},
			Logger:   zerolog.New(os.Stdout).Level(zerolog.Disabled),
			MaxTurns: 4,
		})
		require.NoError(t, err)

		_, err = client.Run(context.Background(), RunParams{
			Agent:    testAgent(),
			Messages: []Message{{Role: "user", Content: "loop"}},
			Executor: func(context.Context, ToolCall) (string, error) {
				return "ok", nil
			},
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMaxTurns)
		assert.Equal(t, 4, provider.calls)
	})

	t.Run("should fail when the model requests tools without an executor", func(t *testing.T) {
		provider := &scriptedProvider{
			responses: []*Response{
				{ToolCalls: []ToolCall{{ID: "c1", Name: "recommend_cards"}}},
			},
		}
		client := newTestClient(t, provider)

		_, err := client.Run(context.Background(), RunParams{
			Agent:    testAgent(),
			Messages: []Message{{Role: "user", Content: "go"}},
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no executor")
	})

	t.Run("should not retry permanent errors", func(t *testing.T) {
		provider := &scriptedProvider{
			errs: []error{fmt.Errorf("invalid API key")},
		}
		client := newTestClient(t, provider)

		_, err := client.Run(context.Background(), RunParams{
			Agent:    testAgent(),
			Messages: []Message{{Role: "user", Content: "hi"}},
		})

		require.Error(t, err)
		assert.Equal(t, 1, provider.calls)
	})

	t.Run("should retry transient errors", func(t *testing.T) {
		provider := &scriptedProvider{
			errs: []error{fmt.Errorf("429 rate limit"), nil},
			responses: []*Response{
				nil,
				{Content: "done"},
			},
		}
		client := newTestClient(t, provider)

		result, err := client.Run(context.Background(), RunParams{
			Agent:    testAgent(),
			Messages: []Message{{Role: "user", Content: "hi"}},
		})

		require.NoError(t, err)
		assert.Equal(t, "done", result.Content)
		assert.Equal(t, 2, provider.calls)
	})

	t.Run("should propagate factory errors", func(t *testing.T) {
		client, err := NewClient(ClientConfig{
			Factory: &fakeFactory{err: fmt.Errorf("no API key configured for provider: anthropic")},
			Logger:  zerolog.New(os.Stdout).Level(zerolog.Disabled),
		})
		require.NoError(t, err)

		_, err = client.Run(context.Background(), RunParams{Agent: testAgent()})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create provider")
	})
}

func TestIsRetryableError(t *testing.T) {
	t.Run("should identify retryable errors", func(t *testing.T) {
		assert.True(t, IsRetryableError(fmt.Errorf("ECONNRESET")))
		assert.True(t, IsRetryableError(fmt.Errorf("ETIMEDOUT")))
		assert.True(t, IsRetryableError(fmt.Errorf("429 rate limit")))
		assert.True(t, IsRetryableError(fmt.Errorf("503 service unavailable")))
	})

	t.Run("should identify non-retryable errors", func(t *testing.T) {
		assert.False(t, IsRetryableError(fmt.Errorf("invalid API key")))
		assert.False(t, IsRetryableError(nil))
	})
}

func TestTokenUsageAdd(t *testing.T) {
	total := TokenUsage{}
	total.Add(&TokenUsage{InputTokens: 10, OutputTokens: 5})
	total.Add(&TokenUsage{InputTokens: 3, OutputTokens: 2})
	total.Add(nil)

	assert.Equal(t, 13, total.InputTokens)
	assert.Equal(t, 7, total.OutputTokens)
}
