package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name         string
		provider     string
		endpoint     string
		wantEndpoint string
		wantErr      bool
	}{
		{name: "openrouter", provider: "openrouter", wantEndpoint: "https://openrouter.ai/api/v1/chat/completions"},
		{name: "groq", provider: "groq", wantEndpoint: "https://api.groq.com/openai/v1/chat/completions"},
		{name: "openai", provider: "openai", wantEndpoint: "https://api.openai.com/v1/chat/completions"},
		{name: "endpoint override", provider: "custom", endpoint: "http://localhost:8080/v1/chat/completions", wantEndpoint: "http://localhost:8080/v1/chat/completions"},
		{name: "unknown provider", provider: "anthropic", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.provider, tt.endpoint, "key", "model")
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantEndpoint, client.Endpoint())
			assert.Equal(t, "model", client.Model())
		})
	}
}

func TestProviderNames(t *testing.T) {
	assert.Equal(t, []string{"groq", "openai", "openrouter"}, ProviderNames())
}
