package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketlens/internal/adapters/config"
	"marketlens/pkg/errors"
	"marketlens/pkg/logger"
)

func testConfig(serverURL string) config.AIConfig {
	return config.AIConfig{
		APIKey:       "test-key",
		BaseURL:      serverURL,
		Model:        "gpt-4o",
		Timeout:      2 * time.Second,
		MaxTokens:    1000,
		Temperature:  0.7,
		ReqPerMinute: 6000,
		Burst:        10,
	}
}

func TestGenerate_SendsSystemAndUserMessages(t *testing.T) {
	var gotReq apiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Write([]byte(`{
			"id":"cmpl-1","model":"gpt-4o",
			"choices":[{"index":0,"message":{"role":"assistant","content":"[SECTION]Technical Summary[SECTION]flat"},"finish_reason":"stop"}],
			"usage":{"prompt_tokens":120,"completion_tokens":40,"total_tokens":160}
		}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL), logger.Get())
	text, err := client.Generate(context.Background(), "You are a technical analyst.", "Analyze EURUSD.")

	require.NoError(t, err)
	assert.Equal(t, "[SECTION]Technical Summary[SECTION]flat", text)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Equal(t, "You are a technical analyst.", gotReq.Messages[0].Content)
	assert.Equal(t, "user", gotReq.Messages[1].Role)
	assert.Equal(t, "gpt-4o", gotReq.Model)
	assert.InDelta(t, 0.7, gotReq.Temperature, 1e-9)
	assert.Equal(t, 1000, gotReq.MaxTokens)
}

func TestGenerate_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"cmpl-2","model":"gpt-4o","choices":[]}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL), logger.Get())
	_, err := client.Generate(context.Background(), "persona", "prompt")

	assert.True(t, errors.Is(err, errors.ErrGenerationFailed))
}

func TestChat_APIErrorSurfacesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"quota exceeded","type":"insufficient_quota"}}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL), logger.Get())
	_, err := client.Chat(context.Background(), ChatRequest{Messages: []Message{{Role: RoleUser, Content: "hi"}}})

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrExternal))
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestChat_MissingAPIKey(t *testing.T) {
	cfg := testConfig("http://localhost:0")
	cfg.APIKey = ""
	client := NewClient(cfg, logger.Get())

	_, err := client.Chat(context.Background(), ChatRequest{})

	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}
