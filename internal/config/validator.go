package config

import (
	"fmt"
)

var knownProviders = map[string]bool{
	"anthropic": true,
	"openai":    true,
	"gemini":    true,
}

// Validate checks a loaded configuration for contradictions before the
// engine is wired up from it.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	for vendor := range cfg.Providers {
		if !knownProviders[vendor] {
			return fmt.Errorf("unknown provider: %s", vendor)
		}
	}

	seen := map[string]bool{}
	for i, agent := range cfg.Agents {
		if agent.Name == "" {
			return fmt.Errorf("agent %d has no name", i)
		}
		if seen[agent.Name] {
			return fmt.Errorf("duplicate agent name: %s", agent.Name)
		}
		seen[agent.Name] = true

		if agent.Model == "" {
			return fmt.Errorf("agent %s has no model", agent.Name)
		}
		if !knownProviders[agent.Provider] {
			return fmt.Errorf("agent %s has unknown provider: %s", agent.Name, agent.Provider)
		}
		if _, ok := cfg.Providers[agent.Provider]; !ok {
			return fmt.Errorf("agent %s uses provider %s but no API key is configured for it", agent.Name, agent.Provider)
		}
		if agent.Temperature < 0 || agent.Temperature > 1 {
			return fmt.Errorf("agent %s temperature must be between 0 and 1", agent.Name)
		}
		if agent.MaxTokens < 0 {
			return fmt.Errorf("agent %s max tokens cannot be negative", agent.Name)
		}
	}

	if cfg.Orchestration.MaxTurns < 0 {
		return fmt.Errorf("max turns cannot be negative")
	}
	if cfg.Orchestration.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}

	return nil
}
