package agent

import (
	"context"
	"fmt"
)

// LLMProvider is the vendor-blind contract for one model call. An
// implementation translates the provider-agnostic Request into its
// vendor's wire shape, performs the call, and translates the reply
// back into a Response. It never special-cases callers.
type LLMProvider interface {
	// Call makes a single LLM API call.
	Call(ctx context.Context, request Request) (*Response, error)

	// Provider returns the vendor name.
	Provider() string
}

// ProviderCreator creates LLM providers by vendor name.
type ProviderCreator interface {
	NewProvider(vendor string) (LLMProvider, error)
}

// ProviderFactory creates providers from configured API keys, one key
// per vendor.
type ProviderFactory struct {
	apiKeys map[string]string
}

// NewProviderFactory creates a factory over the given vendor → API key
// map.
func NewProviderFactory(apiKeys map[string]string) *ProviderFactory {
	return &ProviderFactory{apiKeys: apiKeys}
}

// NewProvider creates a provider for the given vendor. An unknown
// vendor or a missing API key is a configuration error.
func (f *ProviderFactory) NewProvider(vendor string) (LLMProvider, error) {
	apiKey, ok := f.apiKeys[vendor]
	if !ok || apiKey == "" {
		return nil, fmt.Errorf("no API key configured for provider: %s", vendor)
	}

	switch vendor {
	case "anthropic":
		return NewAnthropicProvider(apiKey), nil
	case "openai":
		return NewOpenAIProvider(apiKey), nil
	case "gemini":
		return NewGeminiProvider(apiKey)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", vendor)
	}
}
