package suggest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planclan/internal/common/errors"
)

func geminiSuccessBody(t *testing.T, payload string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"candidates": []map[string]interface{}{
			{
				"content": map[string]interface{}{
					"parts": []map[string]string{{"text": payload}},
				},
			},
		},
	})
	require.NoError(t, err)
	return body
}

func TestGeminiClient_GenerateSuggestion(t *testing.T) {
	t.Run("sends prompt with enforced schema and returns payload", func(t *testing.T) {
		var captured geminiRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1beta/models/gemini-2.0-flash:generateContent", r.URL.Path)
			assert.Equal(t, "test-key", r.URL.Query().Get("key"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

			w.Write(geminiSuccessBody(t, `{"suggestedTime": "Sep 5, 2026, 2:00 PM"}`))
		}))
		defer server.Close()

		client := NewGeminiClient(server.URL, "test-key", "gemini-2.0-flash")
		raw, err := client.GenerateSuggestion(context.Background(), "find a time")
		require.NoError(t, err)
		assert.JSONEq(t, `{"suggestedTime": "Sep 5, 2026, 2:00 PM"}`, string(raw))

		require.Len(t, captured.Contents, 1)
		assert.Equal(t, "find a time", captured.Contents[0].Parts[0].Text)
		assert.Equal(t, "application/json", captured.GenerationConfig.ResponseMimeType)

		schema := captured.GenerationConfig.ResponseSchema
		required, ok := schema["required"].([]interface{})
		require.True(t, ok)
		assert.Contains(t, required, "suggestedTime")
		assert.Contains(t, required, "suggestedTitle")
	})

	t.Run("api error surfaces its message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error": {"code": 429, "message": "Quota exceeded"}}`))
		}))
		defer server.Close()

		client := NewGeminiClient(server.URL, "test-key", "gemini-2.0-flash")
		_, err := client.GenerateSuggestion(context.Background(), "find a time")

		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrTypeBackend))
		assert.Contains(t, err.Error(), "Quota exceeded")
	})

	t.Run("unreachable server is a backend error", func(t *testing.T) {
		client := NewGeminiClient("http://127.0.0.1:1", "test-key", "gemini-2.0-flash")
		_, err := client.GenerateSuggestion(context.Background(), "find a time")

		assert.True(t, errors.IsType(err, errors.ErrTypeBackend))
	})

	t.Run("empty candidate list is a shape error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"candidates": []}`))
		}))
		defer server.Close()

		client := NewGeminiClient(server.URL, "test-key", "gemini-2.0-flash")
		_, err := client.GenerateSuggestion(context.Background(), "find a time")

		assert.True(t, errors.IsType(err, errors.ErrTypeBadResponse))
	})

	t.Run("non-JSON body is a shape error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>gateway error</html>"))
		}))
		defer server.Close()

		client := NewGeminiClient(server.URL, "test-key", "gemini-2.0-flash")
		_, err := client.GenerateSuggestion(context.Background(), "find a time")

		assert.True(t, errors.IsType(err, errors.ErrTypeBadResponse))
	})
}
