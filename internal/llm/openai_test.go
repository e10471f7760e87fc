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

func newTestOpenAIProvider(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return newOpenAICompatible(ProviderOpenAI, Settings{APIKey: "test-key", Model: "gpt-4o-mini", BaseURL: server.URL + "/v1"})
}

func chatCompletion(content, finish string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1234567890,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 25, "total_tokens": 65},
	}
}

func TestOpenAIProvider_HappyPath(t *testing.T) {
	var body map[string]any
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion(`{"summary":"Reliable"}`, "stop"))
	})

	resp, err := p.Generate(context.Background(), UserRequest("You assess candidates.", "Assess.", commentarySchema(), 256))
	require.NoError(t, err)

	assert.JSONEq(t, `{"summary":"Reliable"}`, string(resp.Content))
	assert.Equal(t, 40, resp.Usage.InputTokens)
	assert.Equal(t, 25, resp.Usage.OutputTokens)
	assert.Equal(t, "end", resp.StopReason)

	msgs, ok := body["messages"].([]any)
	require.True(t, ok)
	assert.Len(t, msgs, 2)
	format, ok := body["response_format"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "json_schema", format["type"])
}

func TestOpenAIProvider_SchemaViolation(t *testing.T) {
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion(`{"verdict":"ok"}`, "stop"))
	})

	_, err := p.Generate(context.Background(), UserRequest("", "Assess.", commentarySchema(), 256))
	var inv *ErrInvalidResponse
	assert.ErrorAs(t, err, &inv)
}

func TestOpenAIProvider_Truncated(t *testing.T) {
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion(`{"summary":"Rel`, "length"))
	})

	_, err := p.Generate(context.Background(), UserRequest("", "Assess.", commentarySchema(), 8))
	var maxTok *ErrMaxTokensExceeded
	assert.ErrorAs(t, err, &maxTok)
}

func TestOpenAIProvider_ErrorStatus(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		rateLimit bool
	}{
		{"rate limit", http.StatusTooManyRequests, true},
		{"server error", http.StatusInternalServerError, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(map[string]any{
					"error": map[string]any{"type": "server_error", "message": "nope"},
				})
			})
			_, err := p.Generate(context.Background(), UserRequest("", "test", nil, 100))
			require.Error(t, err)
			if tt.rateLimit {
				var rl *ErrRateLimit
				assert.ErrorAs(t, err, &rl)
			} else {
				var unavail *ErrProviderUnavailable
				assert.ErrorAs(t, err, &unavail)
			}
		})
	}
}

func TestNewOpenAIProvider(t *testing.T) {
	_, err := NewOpenAIProvider(Settings{Model: "gpt-4o"})
	assert.Error(t, err)

	p, err := NewOpenAIProvider(Settings{APIKey: "sk-test", Model: "gpt-4o", BaseURL: "https://proxy.example/v1"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", p.ModelID())
	assert.Equal(t, ProviderOpenAI, p.ProviderName())
}

func TestNewOpenRouterProvider_ViaOpenAIHelpers(t *testing.T) {
	_, err := NewOpenRouterProvider(Settings{Model: "google/gemini-2.0-flash-001"})
	assert.Error(t, err)

	p, err := NewOpenRouterProvider(Settings{APIKey: "sk-or-test", Model: "anthropic/claude-3-haiku"})
	require.NoError(t, err)
	assert.Equal(t, "anthropic/claude-3-haiku", p.ModelID())
	assert.Equal(t, ProviderOpenRouter, p.ProviderName())
}
