package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sarabsinghsaluja/moodboard-agent/internal/model"
	"github.com/sarabsinghsaluja/moodboard-agent/internal/mood"
	"github.com/sarabsinghsaluja/moodboard-agent/internal/service"
	"github.com/sarabsinghsaluja/moodboard-agent/pkg/response"
)

type MoodHandler struct {
	analyzer *service.AnalyzeService
}

func NewMoodHandler(analyzer *service.AnalyzeService) *MoodHandler {
	return &MoodHandler{analyzer: analyzer}
}

// Analyze handles POST /mood: mood analysis only, no music matching.
func (h *MoodHandler) Analyze(c *fiber.Ctx) error {
	image, contentType, _, err := readImageFile(c)
	if err != nil {
		return writeError(c, err)
	}

	analysis, err := h.analyzer.AnalyzeImage(c.Context(), image, contentType)
	if err != nil {
		return response.AnalysisError(c, "Error analyzing image: "+err.Error())
	}

	return response.OK(c, analysis)
}

// List handles GET /moods: the full catalog with descriptions.
func (h *MoodHandler) List(c *fiber.Ctx) error {
	all := mood.All()
	moods := make([]model.MoodInfo, len(all))
	for i, m := range all {
		moods[i] = model.MoodInfo{
			Name:        m.Name,
			Description: mood.Description(m.Name),
			Energy:      m.Energy,
			Valence:     m.Valence,
			Genres:      m.Genres,
			Keywords:    m.Keywords,
		}
	}

	return response.OK(c, model.MoodsResponse{Moods: moods})
}
