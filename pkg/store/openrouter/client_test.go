package openrouter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	ctx := context.Background()

	t.Run("ReturnsCompletionText", func(t *testing.T) {
		var captured chatRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/chat/completions", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

			_ = json.NewEncoder(w).Encode(map[string]any{
				"choices": []map[string]any{
					{"message": map[string]any{"content": `[{"$limit": 1}]`}},
				},
			})
		}))
		defer server.Close()

		client := NewClient(Settings{APIKey: "test-key", BaseURL: server.URL})
		got, err := client.Generate(ctx, GenerateRequest{
			Model:       "test-model",
			Prompt:      "give me a pipeline",
			Temperature: 0.1,
		})
		require.NoError(t, err)
		assert.Equal(t, `[{"$limit": 1}]`, got)
		assert.Equal(t, "test-model", captured.Model)
		assert.Equal(t, 0.1, captured.Temperature)
		require.Len(t, captured.Messages, 1)
		assert.Equal(t, "user", captured.Messages[0].Role)
	})

	t.Run("NonOKStatus", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "quota exceeded", http.StatusTooManyRequests)
		}))
		defer server.Close()

		client := NewClient(Settings{APIKey: "test-key", BaseURL: server.URL})
		_, err := client.Generate(ctx, GenerateRequest{Model: "test-model", Prompt: "x"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "429")
	})

	t.Run("EmbeddedAPIError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"message": "invalid api key", "code": 401},
			})
		}))
		defer server.Close()

		client := NewClient(Settings{APIKey: "bad", BaseURL: server.URL})
		_, err := client.Generate(ctx, GenerateRequest{Model: "test-model", Prompt: "x"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid api key")
	})

	t.Run("NoChoices", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
		}))
		defer server.Close()

		client := NewClient(Settings{APIKey: "test-key", BaseURL: server.URL})
		_, err := client.Generate(ctx, GenerateRequest{Model: "test-model", Prompt: "x"})
		assert.Error(t, err)
	})
}

func TestPing(t *testing.T) {
	ctx := context.Background()

	t.Run("ReachableEvenWhenUnauthorized", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/models", r.URL.Path)
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		client := NewClient(Settings{APIKey: "bad", BaseURL: server.URL})
		assert.NoError(t, client.Ping(ctx))
	})

	t.Run("ServerError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		client := NewClient(Settings{APIKey: "test-key", BaseURL: server.URL})
		assert.Error(t, client.Ping(ctx))
	})

	t.Run("Unreachable", func(t *testing.T) {
		client := NewClient(Settings{APIKey: "test-key", BaseURL: "http://127.0.0.1:1"})
		assert.Error(t, client.Ping(ctx))
	})
}
