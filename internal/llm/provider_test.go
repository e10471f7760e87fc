package llm

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/ethiq/internal/store"
)

func TestMockProvider_ReturnsCannedResponses(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"a":1}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockResponse{Content: json.RawMessage(`{"b":2}`)},
	)

	resp, err := mock.Generate(context.Background(), UserRequest("sys", "first", nil, 0))
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(resp.Content))
	assert.Equal(t, 10, resp.Usage.InputTokens)
	assert.Equal(t, "end", resp.StopReason)

	resp, err = mock.Generate(context.Background(), UserRequest("", "second", nil, 0))
	require.NoError(t, err)
	assert.JSONEq(t, `{"b":2}`, string(resp.Content))

	assert.Equal(t, 2, mock.CallCount())
	assert.Equal(t, "sys", mock.Calls[0].System)
	assert.Equal(t, "second", mock.Calls[1].Messages[0].Content)
}

func TestMockProvider_Errors(t *testing.T) {
	_, err := NewMockProvider().Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavail)

	mock := NewMockProvider(MockResponse{Err: &ErrRateLimit{}})
	_, err = mock.Generate(context.Background(), Request{})
	var rl *ErrRateLimit
	assert.ErrorAs(t, err, &rl)

	mock.AddResponse(MockResponse{Content: json.RawMessage(`{"summary":1}`)})
	_, err = mock.Generate(context.Background(), Request{Schema: commentarySchema()})
	var inv *ErrInvalidResponse
	assert.ErrorAs(t, err, &inv)
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, PurposeUnknown, PurposeFrom(ctx))
	assert.Equal(t, PurposeCommentary, PurposeFrom(WithPurpose(ctx, PurposeCommentary)))
}

func TestConfig_Validate(t *testing.T) {
	withKey := func(provider string) Config {
		cfg := DefaultConfig()
		cfg.Provider = provider
		s := cfg.Providers[provider]
		s.APIKey = "sk-test"
		cfg.Providers[provider] = s
		return cfg
	}
	bare := func(provider string) Config {
		cfg := DefaultConfig()
		cfg.Provider = provider
		return cfg
	}

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"anthropic without key", bare(ProviderAnthropic), true},
		{"anthropic with key", withKey(ProviderAnthropic), false},
		{"openai with key", withKey(ProviderOpenAI), false},
		{"gemini without key", bare(ProviderGemini), true},
		{"openrouter with key", withKey(ProviderOpenRouter), false},
		{"mock needs no key", bare(ProviderMock), false},
		{"unknown provider", bare("watsonx"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("ETHIQ_LLM_PROVIDER", "openai")
	t.Setenv("ETHIQ_OPENAI_API_KEY", "sk-env")
	t.Setenv("ETHIQ_OPENAI_MODEL", "gpt-4.1-mini")
	t.Setenv("ETHIQ_LLM_TIMEOUT", "5s")

	cfg := ConfigFromEnv()
	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, Settings{APIKey: "sk-env", Model: "gpt-4.1-mini"}, cfg.Selected())
	assert.Equal(t, "5s", cfg.Timeout.String())
	assert.NoError(t, cfg.Validate())
}

func TestDiscoverConfig(t *testing.T) {
	for _, ev := range envVars {
		t.Setenv(ev.vendorKey, "")
	}
	_, ok := DiscoverConfig()
	assert.False(t, ok)

	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	t.Setenv("OPENROUTER_API_KEY", "sk-or")
	cfg, ok := DiscoverConfig()
	require.True(t, ok)
	assert.Equal(t, ProviderAnthropic, cfg.Provider)
	assert.Equal(t, "sk-ant", cfg.Selected().APIKey)
}

func TestNewProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = ProviderMock
	p, err := NewProvider(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, ProviderMock, NameOf(p))

	cfg.Provider = ProviderOpenRouter
	cfg.Providers[ProviderOpenRouter] = Settings{APIKey: "sk-or", Model: "google/gemini-2.0-flash-001"}
	p, err = NewProvider(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenRouter, NameOf(p))
	assert.Equal(t, "google/gemini-2.0-flash-001", p.ModelID())

	cfg.Provider = ProviderAnthropic
	_, err = NewProvider(context.Background(), cfg, nil)
	assert.Error(t, err)

	cfg.Provider = "watsonx"
	_, err = NewProvider(context.Background(), cfg, nil)
	assert.Error(t, err)
}

func TestLoggingProvider_RecordsEvents(t *testing.T) {
	st, err := store.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "ethiq.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"summary":"Steady"}`), Usage: Usage{InputTokens: 12, OutputTokens: 4}},
		MockResponse{Err: errors.New("boom")},
	)
	p := WithLogging(mock, st.EventRepo())
	ctx := WithPurpose(context.Background(), PurposeCommentary)

	_, err = p.Generate(ctx, UserRequest("Be brief.", "Assess.", commentarySchema(), 64))
	require.NoError(t, err)
	_, err = p.Generate(ctx, UserRequest("", "Again.", nil, 64))
	require.Error(t, err)

	events, err := st.EventRepo().QueryLLMEvents(context.Background(), store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 2)

	var ok, failed store.LLMEvent
	for _, ev := range events {
		if ev.Success {
			ok = ev
		} else {
			failed = ev
		}
	}
	assert.Equal(t, ProviderMock, ok.Provider)
	assert.Equal(t, "commentary", ok.Purpose)
	assert.Equal(t, 12, ok.InputTokens)
	assert.Contains(t, ok.RequestBody, "[system]\nBe brief.")
	assert.Contains(t, ok.RequestBody, "[schema: test-commentary]")
	assert.JSONEq(t, `{"summary":"Steady"}`, ok.ResponseBody)
	assert.Equal(t, "boom", failed.ErrorMessage)
}

func TestWithLogging_NilRepo(t *testing.T) {
	mock := NewMockProvider()
	assert.Same(t, mock, WithLogging(mock, nil))
}

func TestEstimateCost(t *testing.T) {
	cost, ok := EstimateCost("gpt-4o-mini", 1_000_000, 1_000_000)
	require.True(t, ok)
	assert.InDelta(t, 0.75, cost, 1e-9)

	_, ok = EstimateCost("google/gemini-2.0-flash-001", 10, 10)
	assert.True(t, ok)

	_, ok = EstimateCost("mock", 10, 10)
	assert.False(t, ok)
}
