package registry

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// ErrAgentNotFound is returned when no agent is configured under the
// requested name.
var ErrAgentNotFound = errors.New("agent not found")

// AgentConfig describes one named agent: which vendor and model it
// runs on, its prompt, and its sampling limits. The engine treats it
// as a read-only value for the duration of an orchestration call.
type AgentConfig struct {
	Name         string  `json:"name"`
	Provider     string  `json:"provider"` // "anthropic", "openai", "gemini"
	Model        string  `json:"model"`
	SystemPrompt string  `json:"system_prompt,omitempty"`
	MaxTokens    int     `json:"max_tokens,omitempty"`
	Temperature  float64 `json:"temperature,omitempty"`
	Enabled      bool    `json:"enabled"`
}

// Registry supplies agent configuration by name. Updates and
// persistence are owned elsewhere; this engine only reads.
type Registry interface {
	Lookup(ctx context.Context, name string) (*AgentConfig, error)
}

// StaticRegistry is a map-backed Registry, typically built from the
// loaded configuration file. Safe for concurrent lookups.
type StaticRegistry struct {
	agents map[string]AgentConfig
	mu     sync.RWMutex
}

// NewStaticRegistry creates a registry from a list of agent configs.
// Names are matched case-insensitively.
func NewStaticRegistry(agents []AgentConfig) *StaticRegistry {
	m := make(map[string]AgentConfig, len(agents))
	for _, a := range agents {
		m[strings.ToLower(a.Name)] = a
	}
	return &StaticRegistry{agents: m}
}

// Lookup returns the config registered under name, or ErrAgentNotFound.
func (r *StaticRegistry) Lookup(_ context.Context, name string) (*AgentConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cfg, ok := r.agents[strings.ToLower(name)]
	if !ok {
		return nil, ErrAgentNotFound
	}
	return &cfg, nil
}

// Put registers or replaces an agent config. Used by tests and by the
// config loader during startup wiring.
func (r *StaticRegistry) Put(cfg AgentConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.agents == nil {
		r.agents = make(map[string]AgentConfig)
	}
	r.agents[strings.ToLower(cfg.Name)] = cfg
}
