package openai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/imroc/req/v3"
)

// Provider is the LLM port consumed by the AI service. The HTTP client
// below talks to the OpenAI chat-completions API; tests wire a mock.
type Provider interface {
	ChatCompletion(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

// Config for the OpenAI-compatible endpoint.
type Config struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
	Temp      float64
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Client is the HTTP implementation of Provider.
type Client struct {
	cfg  Config
	http *req.Client
}

func NewClient(cfg Config) *Client {
	return &Client{
		cfg: cfg,
		http: req.C().
			SetBaseURL(cfg.BaseURL).
			SetCommonBearerAuthToken(cfg.APIKey).
			SetTimeout(60 * time.Second),
	}
}

func (c *Client) ChatCompletion(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	body := chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userMessage},
		},
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temp,
	}

	var result chatResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(&body).
		SetSuccessResult(&result).
		SetErrorResult(&result).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("openai request: %w", err)
	}

	if resp.IsErrorState() {
		if result.Error != nil {
			return "", fmt.Errorf("openai api error: %s", result.Error.Message)
		}
		return "", fmt.Errorf("openai api error: status %d", resp.StatusCode)
	}

	if len(result.Choices) == 0 {
		return "", errors.New("openai api error: empty response")
	}

	return result.Choices[0].Message.Content, nil
}
