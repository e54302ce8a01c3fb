package client

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sony/gobreaker"

	"github.com/sarabsinghsaluja/moodboard-agent/internal/config"
)

// AnthropicClient analyzes images through the Anthropic messages API.
type AnthropicClient struct {
	retry   *retryablehttp.Client
	breaker *gobreaker.CircuitBreaker
	baseURL string
	apiKey  string
	model   string
	version string
}

type anthropicImageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type anthropicContentBlock struct {
	Type   string                `json:"type"`
	Text   string                `json:"text,omitempty"`
	Source *anthropicImageSource `json:"source,omitempty"`
}

type anthropicMessage struct {
	Role    string                  `json:"role"`
	Content []anthropicContentBlock `json:"content"`
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// NewAnthropicClient creates a vision client for the Anthropic messages API.
func NewAnthropicClient(cfg *config.AnthropicConfig, timeout time.Duration) *AnthropicClient {
	return &AnthropicClient{
		retry:   newRetryClient(timeout),
		breaker: newVisionBreaker("anthropic-vision"),
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		version: cfg.Version,
	}
}

// AnalyzeImage sends the image plus the analysis prompt and returns the raw
// JSON text of the model's reply.
func (c *AnthropicClient) AnalyzeImage(ctx context.Context, image []byte, mimeType string) (string, error) {
	reqBody := anthropicRequest{
		Model:     c.model,
		MaxTokens: 500,
		Messages: []anthropicMessage{
			{
				Role: "user",
				Content: []anthropicContentBlock{
					{
						Type: "image",
						Source: &anthropicImageSource{
							Type:      "base64",
							MediaType: mimeType,
							Data:      base64.StdEncoding.EncodeToString(image),
						},
					},
					{Type: "text", Text: AnalysisPrompt()},
				},
			},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bodyBytes)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-api-key", c.apiKey)
		req.Header.Set("anthropic-version", c.version)

		resp, err := c.retry.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to send request: %w", err)
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("vision API error (status %d): %s", resp.StatusCode, string(respBody))
		}

		var msgResp anthropicResponse
		if err := json.Unmarshal(respBody, &msgResp); err != nil {
			return nil, fmt.Errorf("failed to unmarshal response: %w", err)
		}

		if len(msgResp.Content) == 0 {
			return nil, fmt.Errorf("no content in response")
		}

		return msgResp.Content[0].Text, nil
	})
	if err != nil {
		return "", err
	}

	return result.(string), nil
}

// IsConfigured returns true if the client has valid configuration.
func (c *AnthropicClient) IsConfigured() bool {
	return c.apiKey != ""
}
