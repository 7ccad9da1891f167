package chatgpt

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCreateChatCompletion(t *testing.T) {
	var (
		got        map[string]any
		path, auth string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"ok\":true}"}}],"usage":{"total_tokens":42}}`))
	}))
	defer srv.Close()

	client, err := NewClient("key", srv.URL+"/", time.Second)
	require.NoError(t, err)

	resp, err := client.CreateChatCompletion(context.Background(), ChatCompletionRequest{
		Model:          "gpt-4o-mini",
		Messages:       []Message{{Role: "user", Content: "hi"}},
		MaxTokens:      1500,
		ResponseFormat: JSONObject,
	})
	require.NoError(t, err)
	require.Equal(t, "/chat/completions", path)
	require.Equal(t, "Bearer key", auth)

	content, ok := resp.FirstContent()
	require.True(t, ok)
	require.Equal(t, `{"ok":true}`, content)
	require.Equal(t, 42, resp.Usage.TotalTokens)
	require.Equal(t, "gpt-4o-mini", got["model"])
	require.EqualValues(t, 1500, got["max_tokens"])
	require.Equal(t, map[string]any{"type": "json_object"}, got["response_format"])
	temp, hasTemp := got["temperature"]
	require.True(t, hasTemp)
	require.EqualValues(t, 0, temp)
}

func TestCreateChatCompletionStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client, err := NewClient("key", srv.URL, time.Second)
	require.NoError(t, err)
	_, err = client.CreateChatCompletion(context.Background(), ChatCompletionRequest{Model: "m"})
	require.ErrorContains(t, err, "status=429")
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient("  ", "", 0)
	require.Error(t, err)
}

func TestFirstContentEmpty(t *testing.T) {
	_, ok := ChatCompletionResponse{}.FirstContent()
	require.False(t, ok)
}
