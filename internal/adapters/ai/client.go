package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"golang.org/x/time/rate"

	"marketlens/internal/adapters/config"
	"marketlens/internal/metrics"
	"marketlens/pkg/errors"
	"marketlens/pkg/logger"
)

// Client is the chat-completions adapter for the analysis generator.
// The response body is treated as opaque free text; section parsing is
// the caller's concern.
type Client struct {
	cfg        config.AIConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *logger.Logger
}

// NewClient creates an OpenAI-compatible chat client from configuration.
func NewClient(cfg config.AIConfig, log *logger.Logger) *Client {
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	rps := cfg.ReqPerMinute / 60.0
	if rps <= 0 {
		rps = 1
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
		log:        log,
	}
}

// Wire types, OpenAI chat completions format.

type apiRequest struct {
	Model       string       `json:"model"`
	Messages    []apiMessage `json:"messages"`
	Temperature float64      `json:"temperature"`
	MaxTokens   int          `json:"max_tokens,omitempty"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type apiResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index        int        `json:"index"`
		Message      apiMessage `json:"message"`
		FinishReason string     `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// Chat sends a chat completion request.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if c.cfg.APIKey == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "openai API key not configured")
	}

	// Wait for rate limiter
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(errors.ErrRateLimitExceeded, err.Error())
	}

	apiReq := apiRequest{
		Model:       req.Model,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if apiReq.Model == "" {
		apiReq.Model = c.cfg.Model
	}
	for _, msg := range req.Messages {
		apiReq.Messages = append(apiReq.Messages, apiMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	body, err := json.Marshal(apiReq)
	if err != nil {
		return nil, errors.Wrap(err, "marshal chat request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "create HTTP request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		metrics.AICalls.WithLabelValues(apiReq.Model, "error").Inc()
		return nil, errors.Wrap(err, "send chat request")
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read chat response")
	}

	if resp.StatusCode != http.StatusOK {
		metrics.AICalls.WithLabelValues(apiReq.Model, "error").Inc()
		var errResp struct {
			Error struct {
				Message string `json:"message"`
				Type    string `json:"type"`
			} `json:"error"`
		}
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error.Message != "" {
			return nil, errors.Wrapf(errors.ErrExternal, "chat API error (%d): %s - %s",
				resp.StatusCode, errResp.Error.Type, errResp.Error.Message)
		}
		return nil, errors.Wrapf(errors.ErrExternal, "chat API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var apiResp apiResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, errors.Wrap(err, "unmarshal chat response")
	}

	chatResp := &ChatResponse{
		ID:    apiResp.ID,
		Model: apiResp.Model,
		Usage: Usage{
			PromptTokens:     apiResp.Usage.PromptTokens,
			CompletionTokens: apiResp.Usage.CompletionTokens,
			TotalTokens:      apiResp.Usage.TotalTokens,
		},
	}
	for _, choice := range apiResp.Choices {
		chatResp.Choices = append(chatResp.Choices, Choice{
			Index: choice.Index,
			Message: Message{
				Role:    MessageRole(choice.Message.Role),
				Content: choice.Message.Content,
			},
			FinishReason: choice.FinishReason,
		})
	}

	metrics.AICalls.WithLabelValues(chatResp.Model, "success").Inc()
	metrics.AITokens.WithLabelValues(chatResp.Model, "input").Add(float64(chatResp.Usage.PromptTokens))
	metrics.AITokens.WithLabelValues(chatResp.Model, "output").Add(float64(chatResp.Usage.CompletionTokens))

	return chatResp, nil
}

// Generate runs a single system+user exchange and returns the text body.
func (c *Client) Generate(ctx context.Context, systemPersona, userPrompt string) (string, error) {
	resp, err := c.Chat(ctx, ChatRequest{
		Messages: []Message{
			{Role: RoleSystem, Content: systemPersona},
			{Role: RoleUser, Content: userPrompt},
		},
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.Wrap(errors.ErrGenerationFailed, "chat response contained no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
