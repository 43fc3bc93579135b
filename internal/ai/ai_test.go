package ai

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"mockview_backend/internal/config"
	"mockview_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := map[string]string{
		`{"a": 1}`:                    `{"a": 1}`,
		"```json\n{\"a\": 1}\n```":    `{"a": 1}`,
		"```\n[\"Go\", \"SQL\"]\n```": `["Go", "SQL"]`,
		"  `{\"a\": 1}`  ":            `{"a": 1}`,
	}
	for in, want := range tests {
		assert.Equal(t, want, ExtractJSON(in), in)
	}
}

func TestDecodeJSON(t *testing.T) {
	var out map[string]any
	require.NoError(t, DecodeJSON("```json\n{\"score\": 70}\n```", &out))
	assert.Equal(t, float64(70), out["score"])

	assert.Error(t, DecodeJSON("not json", &out))
}

func TestCoerceFloat(t *testing.T) {
	assert.Equal(t, 70.0, CoerceFloat(70.0))
	assert.Equal(t, 5.0, CoerceFloat(5))
	assert.Equal(t, 85.5, CoerceFloat("85.5"))
	assert.Equal(t, 70.0, CoerceFloat(" 70% "))
	assert.Equal(t, 42.0, CoerceFloat(json.Number("42")))
	assert.True(t, math.IsNaN(CoerceFloat("high")))
	assert.True(t, math.IsNaN(CoerceFloat("")))
	assert.True(t, math.IsNaN(CoerceFloat(nil)))
}

func TestCoerceString(t *testing.T) {
	assert.Equal(t, "ok", CoerceString("  ok "))
	assert.Equal(t, "", CoerceString(nil))
	assert.Equal(t, "12", CoerceString(12))
}

func TestNewGenerator(t *testing.T) {
	ctx := context.Background()

	g, err := NewGenerator(ctx, config.AIConfig{Provider: "gemini"})
	require.NoError(t, err)
	assert.IsType(t, Disabled{}, g)

	g, err = NewGenerator(ctx, config.AIConfig{Provider: "none", APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, Disabled{}, g)

	g, err = NewGenerator(ctx, config.AIConfig{Provider: "OpenAI", APIKey: "k", Model: "gpt-4o-mini"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", g.Model())

	_, err = NewGenerator(ctx, config.AIConfig{Provider: "unknown", APIKey: "k"})
	assert.Error(t, err)
}

func TestDisabled(t *testing.T) {
	_, err := Disabled{}.Generate(context.Background(), "hi")
	assert.ErrorIs(t, err, util.ErrAIUnavailable)
	_, err = Disabled{}.GenerateJSON(context.Background(), "hi")
	assert.ErrorIs(t, err, util.ErrAIUnavailable)
}

func TestOpenAIGenerator(t *testing.T) {
	var got chatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": " {\"score\": 80} "}}]}`))
	}))
	defer srv.Close()

	g := NewOpenAIGenerator(config.AIConfig{BaseURL: srv.URL + "/v1/", APIKey: "secret", Model: "test-model"})

	out, err := g.GenerateJSON(context.Background(), "score this")
	require.NoError(t, err)
	assert.Equal(t, `{"score": 80}`, out)
	assert.Equal(t, "test-model", got.Model)
	require.NotNil(t, got.ResponseFormat)
	assert.Equal(t, "json_object", got.ResponseFormat.Type)
	assert.Equal(t, []chatMessage{{Role: "user", Content: "score this"}}, got.Messages)

	_, err = g.Generate(context.Background(), "plain")
	require.NoError(t, err)
	assert.Nil(t, got.ResponseFormat)

	_, err = g.Generate(context.Background(), "   ")
	assert.Error(t, err)
}

func TestOpenAIGeneratorErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"http error", http.StatusTooManyRequests, `{"error": {"message": "slow down"}}`},
		{"api error", http.StatusOK, `{"error": {"message": "bad key"}}`},
		{"no choices", http.StatusOK, `{"choices": []}`},
		{"empty content", http.StatusOK, `{"choices": [{"message": {"role": "assistant", "content": "  "}}]}`},
		{"invalid body", http.StatusOK, `<html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			g := NewOpenAIGenerator(config.AIConfig{BaseURL: srv.URL, APIKey: "k"})
			_, err := g.Generate(context.Background(), "hi")
			assert.Error(t, err)
		})
	}
}
