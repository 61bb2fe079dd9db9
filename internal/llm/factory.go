package llm

import (
	"fmt"
	"sort"
)

// Provider describes an OpenAI-compatible chat completion service.
type Provider struct {
	Endpoint string
	// KeyEnv is the environment variable conventionally holding the API key.
	KeyEnv string
}

// Providers lists the supported services by name.
var Providers = map[string]Provider{
	"openrouter": {Endpoint: "https://openrouter.ai/api/v1/chat/completions", KeyEnv: "OPENROUTER_API_KEY"},
	"groq":       {Endpoint: "https://api.groq.com/openai/v1/chat/completions", KeyEnv: "GROQ_API_KEY"},
	"openai":     {Endpoint: "https://api.openai.com/v1/chat/completions", KeyEnv: "OPENAI_API_KEY"},
}

// LookupProvider returns the provider registered under name.
func LookupProvider(name string) (Provider, error) {
	p, ok := Providers[name]
	if !ok {
		return Provider{}, fmt.Errorf("unsupported LLM provider: %q (supported: %v)", name, ProviderNames())
	}
	return p, nil
}

// ProviderNames returns the registered provider names in sorted order.
func ProviderNames() []string {
	names := make([]string, 0, len(Providers))
	for name := range Providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewClient returns a client for the named provider. A non-empty endpoint
// overrides the provider's default URL, in which case the provider name may
// be anything.
func NewClient(provider, endpoint, apiKey, model string, opts ...Option) (*CompletionClient, error) {
	if endpoint == "" {
		p, err := LookupProvider(provider)
		if err != nil {
			return nil, err
		}
		endpoint = p.Endpoint
	}
	return NewCompletionClient(endpoint, apiKey, model, opts...), nil
}
