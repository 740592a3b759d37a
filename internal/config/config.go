// Package config loads and validates the engine configuration: vendor
// API keys, the agent roster that feeds the registry, loop bounds and
// logging.
package config

import (
	"github.com/marlowe/brewmind/pkg/registry"
)

// Config is the engine configuration.
type Config struct {
	// Providers maps vendor name to API key.
	Providers map[string]string `json:"providers" mapstructure:"providers"`

	// Agents is the roster served through the agent registry: the
	// orchestrator itself plus the expert specialists.
	Agents []registry.AgentConfig `json:"agents" mapstructure:"agents"`

	// Orchestration bounds the tool-call loop.
	Orchestration OrchestrationConfig `json:"orchestration" mapstructure:"orchestration"`

	// Logging configures the engine logger.
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
}

// OrchestrationConfig bounds the tool-call loop and its transport.
type OrchestrationConfig struct {
	MaxTurns   int `json:"max_turns" mapstructure:"max_turns"`
	MaxRetries int `json:"max_retries" mapstructure:"max_retries"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	Level     string `json:"level" mapstructure:"level"`
	File      string `json:"file" mapstructure:"file"`
	Console   bool   `json:"console" mapstructure:"console"`
	Pretty    bool   `json:"pretty" mapstructure:"pretty"`
	Redaction bool   `json:"redaction" mapstructure:"redaction"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Providers: map[string]string{},
		Orchestration: OrchestrationConfig{
			MaxTurns:   10,
			MaxRetries: 3,
		},
		Logging: LoggingConfig{
			Level:     "info",
			Console:   true,
			Pretty:    true,
			Redaction: true,
		},
	}
}

// Registry builds the static agent registry from the configured
// roster.
func (c *Config) Registry() *registry.StaticRegistry {
	return registry.NewStaticRegistry(c.Agents)
}
