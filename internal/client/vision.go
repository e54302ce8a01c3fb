package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sony/gobreaker"

	"github.com/sarabsinghsaluja/moodboard-agent/internal/mood"
)

// VisionClient abstracts a vision model provider. AnalyzeImage returns the
// model's raw JSON verdict; decoding and mood validation happen in the
// analysis service.
type VisionClient interface {
	AnalyzeImage(ctx context.Context, image []byte, mimeType string) (string, error)
	IsConfigured() bool
}

// AnalysisPrompt builds the mood-detection prompt sent alongside the image.
func AnalysisPrompt() string {
	moodList := strings.Join(mood.Names(), ", ")

	return fmt.Sprintf(`Analyze this image and detect its emotional mood/atmosphere.

Available moods: %s

Analyze the image based on:
1. Colors (warm/cool tones, saturation, brightness)
2. Composition (balance, symmetry, chaos)
3. Subjects/content (people, nature, urban, abstract)
4. Lighting (bright, dark, dramatic, soft)
5. Overall atmosphere and feeling

Provide your response in this exact JSON format:
{
    "primary_mood": "mood_name",
    "secondary_moods": ["mood1", "mood2"],
    "confidence": 0.85,
    "reasoning": "Brief explanation of why you chose these moods",
    "visual_elements": {
        "dominant_colors": ["color1", "color2"],
        "brightness": "bright/medium/dark",
        "key_subjects": ["subject1", "subject2"]
    }
}

Only use moods from the provided list. Primary mood should be the strongest detected mood. Include 1-2 secondary moods if applicable.`, moodList)
}

// newRetryClient builds the retrying HTTP client shared by both providers.
func newRetryClient(timeout time.Duration) *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.Logger = nil
	client.HTTPClient.Timeout = timeout
	return client
}

// newVisionBreaker builds the circuit breaker guarding a vision provider.
func newVisionBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	})
}
