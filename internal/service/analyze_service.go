package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sarabsinghsaluja/moodboard-agent/internal/client"
	"github.com/sarabsinghsaluja/moodboard-agent/internal/model"
	"github.com/sarabsinghsaluja/moodboard-agent/internal/mood"
)

// ImageAnalyzer defines the interface for mood analysis of images.
type ImageAnalyzer interface {
	AnalyzeImage(ctx context.Context, image []byte, mimeType string) (*model.MoodAnalysis, error)
}

// AnalyzeService turns an uploaded image into a validated mood analysis using
// the configured vision provider.
type AnalyzeService struct {
	vision client.VisionClient
}

// NewAnalyzeService creates a new analysis service with a vision client.
func NewAnalyzeService(vision client.VisionClient) *AnalyzeService {
	return &AnalyzeService{
		vision: vision,
	}
}

// AnalyzeImage classifies the mood of an image. The provider's JSON verdict
// is decoded and normalized against the mood catalog: an unknown primary mood
// falls back to the default, unknown secondary moods are dropped.
func (s *AnalyzeService) AnalyzeImage(ctx context.Context, image []byte, mimeType string) (*model.MoodAnalysis, error) {
	// Use mock response if client is not configured
	if s.vision == nil || !s.vision.IsConfigured() {
		return s.analyzeMock(), nil
	}

	raw, err := s.vision.AnalyzeImage(ctx, image, mimeType)
	if err != nil {
		return nil, fmt.Errorf("vision analysis failed: %w", err)
	}

	analysis, err := parseAnalysis(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse vision response: %w", err)
	}

	return analysis, nil
}

// IsConfigured reports whether a real vision provider is wired in.
func (s *AnalyzeService) IsConfigured() bool {
	return s.vision != nil && s.vision.IsConfigured()
}

func parseAnalysis(raw string) (*model.MoodAnalysis, error) {
	var analysis model.MoodAnalysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		return nil, err
	}

	analysis.PrimaryMood = strings.ToLower(analysis.PrimaryMood)
	if !mood.Valid(analysis.PrimaryMood) {
		analysis.PrimaryMood = mood.DefaultMood
	}

	secondary := analysis.SecondaryMoods[:0]
	for _, name := range analysis.SecondaryMoods {
		name = strings.ToLower(name)
		if mood.Valid(name) {
			secondary = append(secondary, name)
		}
	}
	analysis.SecondaryMoods = secondary

	if analysis.Confidence < 0 {
		analysis.Confidence = 0
	}
	if analysis.Confidence > 1 {
		analysis.Confidence = 1
	}

	return &analysis, nil
}

// Mock implementation for development/testing
func (s *AnalyzeService) analyzeMock() *model.MoodAnalysis {
	return &model.MoodAnalysis{
		PrimaryMood:    "calm",
		SecondaryMoods: []string{"dreamy"},
		Confidence:     0.82,
		Reasoning:      "Soft lighting and muted colors suggest a peaceful, contemplative scene.",
		VisualElements: map[string]any{
			"dominant_colors": []string{"blue", "gray"},
			"brightness":      "medium",
			"key_subjects":    []string{"landscape"},
		},
	}
}
