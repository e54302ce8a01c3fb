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

// OpenAIClient analyzes images through an OpenAI-compatible chat completions
// endpoint with vision support.
type OpenAIClient struct {
	retry   *retryablehttp.Client
	breaker *gobreaker.CircuitBreaker
	baseURL string
	apiKey  string
	model   string
}

type openAIContentPart struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL *struct {
		URL string `json:"url"`
	} `json:"image_url,omitempty"`
}

type openAIMessage struct {
	Role    string              `json:"role"`
	Content []openAIContentPart `json:"content"`
}

type openAIChatRequest struct {
	Model          string          `json:"model"`
	Messages       []openAIMessage `json:"messages"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *struct {
		Type string `json:"type"`
	} `json:"response_format,omitempty"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// NewOpenAIClient creates a vision client for an OpenAI-compatible API.
func NewOpenAIClient(cfg *config.OpenAIConfig, timeout time.Duration) *OpenAIClient {
	return &OpenAIClient{
		retry:   newRetryClient(timeout),
		breaker: newVisionBreaker("openai-vision"),
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}
}

// AnalyzeImage sends the image plus the analysis prompt and returns the raw
// JSON content of the model's reply.
func (c *OpenAIClient) AnalyzeImage(ctx context.Context, image []byte, mimeType string) (string, error) {
	dataURI := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(image))

	reqBody := openAIChatRequest{
		Model: c.model,
		Messages: []openAIMessage{
			{
				Role: "user",
				Content: []openAIContentPart{
					{Type: "text", Text: AnalysisPrompt()},
					{Type: "image_url", ImageURL: &struct {
						URL string `json:"url"`
					}{URL: dataURI}},
				},
			},
		},
		MaxTokens: 500,
		ResponseFormat: &struct {
			Type string `json:"type"`
		}{Type: "json_object"},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bodyBytes)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

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

		var chatResp openAIChatResponse
		if err := json.Unmarshal(respBody, &chatResp); err != nil {
			return nil, fmt.Errorf("failed to unmarshal response: %w", err)
		}

		if len(chatResp.Choices) == 0 {
			return nil, fmt.Errorf("no choices in response")
		}

		return chatResp.Choices[0].Message.Content, nil
	})
	if err != nil {
		return "", err
	}

	return result.(string), nil
}

// IsConfigured returns true if the client has valid configuration.
func (c *OpenAIClient) IsConfigured() bool {
	return c.apiKey != ""
}
