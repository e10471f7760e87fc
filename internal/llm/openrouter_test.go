package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpenRouterProvider(t *testing.T) {
	tests := []struct {
		name    string
		s       Settings
		wantErr bool
	}{
		{"valid", Settings{APIKey: "sk-or-test", Model: "google/gemini-2.0-flash-exp"}, false},
		{"empty api key", Settings{Model: "google/gemini-2.0-flash-exp"}, true},
		{"custom base url", Settings{APIKey: "sk-or-test", Model: "x", BaseURL: "https://custom.example/v1"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewOpenRouterProvider(tt.s)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.s.Model, p.ModelID())
			assert.Equal(t, ProviderOpenRouter, p.ProviderName())
		})
	}
}

// Model IDs are vendor-qualified and must reach the API unchanged.
func TestOpenRouterProvider_ModelPassThrough(t *testing.T) {
	var gotModel string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotModel, _ = body["model"].(string)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion(`{"summary":"ok"}`, "stop"))
	}))
	t.Cleanup(server.Close)

	p, err := NewOpenRouterProvider(Settings{APIKey: "sk-or-test", Model: "anthropic/claude-3-haiku", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = p.Generate(context.Background(), UserRequest("sys", "go", commentarySchema(), 128))
	require.NoError(t, err)
	assert.Equal(t, "anthropic/claude-3-haiku", gotModel)
}
