package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarabsinghsaluja/moodboard-agent/internal/config"
)

func TestOpenAIClient_AnalyzeImage(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": `{"primary_mood":"calm"}`}},
			},
		})
	}))
	defer srv.Close()

	c := NewOpenAIClient(&config.OpenAIConfig{
		APIKey:  "sk-test",
		BaseURL: srv.URL,
		Model:   "gpt-4o",
	}, 5*time.Second)
	require.True(t, c.IsConfigured())

	raw, err := c.AnalyzeImage(context.Background(), []byte("img"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, `{"primary_mood":"calm"}`, raw)

	assert.Equal(t, "/chat/completions", gotPath)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "gpt-4o", gotBody["model"])

	// The image travels inline as a data URI alongside the prompt
	messages := gotBody["messages"].([]interface{})
	content := messages[0].(map[string]interface{})["content"].([]interface{})
	require.Len(t, content, 2)
	image := content[1].(map[string]interface{})["image_url"].(map[string]interface{})
	assert.True(t, strings.HasPrefix(image["url"].(string), "data:image/png;base64,"))
}

func TestOpenAIClient_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "bad key"}}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient(&config.OpenAIConfig{APIKey: "sk-bad", BaseURL: srv.URL, Model: "gpt-4o"}, 5*time.Second)

	_, err := c.AnalyzeImage(context.Background(), []byte("img"), "image/png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestAnthropicClient_AnalyzeImage(t *testing.T) {
	var gotPath, gotKey, gotVersion string
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-api-key")
		gotVersion = r.Header.Get("anthropic-version")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"content": []map[string]string{
				{"type": "text", "text": `{"primary_mood":"dark"}`},
			},
		})
	}))
	defer srv.Close()

	c := NewAnthropicClient(&config.AnthropicConfig{
		APIKey:  "ak-test",
		BaseURL: srv.URL,
		Model:   "claude-3-5-sonnet-20241022",
		Version: "2023-06-01",
	}, 5*time.Second)
	require.True(t, c.IsConfigured())

	raw, err := c.AnalyzeImage(context.Background(), []byte("img"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, `{"primary_mood":"dark"}`, raw)

	assert.Equal(t, "/v1/messages", gotPath)
	assert.Equal(t, "ak-test", gotKey)
	assert.Equal(t, "2023-06-01", gotVersion)

	// Image block precedes the prompt block
	messages := gotBody["messages"].([]interface{})
	content := messages[0].(map[string]interface{})["content"].([]interface{})
	require.Len(t, content, 2)
	first := content[0].(map[string]interface{})
	assert.Equal(t, "image", first["type"])
	source := first["source"].(map[string]interface{})
	assert.Equal(t, "image/jpeg", source["media_type"])
}

func TestVisionClients_Unconfigured(t *testing.T) {
	openai := NewOpenAIClient(&config.OpenAIConfig{}, time.Second)
	assert.False(t, openai.IsConfigured())

	anthropic := NewAnthropicClient(&config.AnthropicConfig{}, time.Second)
	assert.False(t, anthropic.IsConfigured())
}

func TestAnalysisPromptListsAllMoods(t *testing.T) {
	prompt := AnalysisPrompt()
	for _, name := range []string{
		"calm", "energetic", "romantic", "dark", "melancholic",
		"joyful", "mysterious", "aggressive", "dreamy", "uplifting",
	} {
		assert.Contains(t, prompt, name)
	}
	assert.Contains(t, prompt, "primary_mood")
	assert.Contains(t, prompt, "secondary_moods")
}
