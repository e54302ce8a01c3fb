package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/sarabsinghsaluja/moodboard-agent/internal/model"
	"github.com/sarabsinghsaluja/moodboard-agent/internal/mood"
	"github.com/sarabsinghsaluja/moodboard-agent/internal/service"
	"github.com/sarabsinghsaluja/moodboard-agent/pkg/response"
)

type RecommendHandler struct {
	matcher   *service.MatcherService
	validator *validator.Validate
}

func NewRecommendHandler(matcher *service.MatcherService, v *validator.Validate) *RecommendHandler {
	return &RecommendHandler{
		matcher:   matcher,
		validator: v,
	}
}

type recommendParams struct {
	Limit int `validate:"min=1,max=100"`
}

type playlistParams struct {
	Limit int `validate:"min=1,max=50"`
}

// Tracks handles GET /recommendations/:mood.
func (h *RecommendHandler) Tracks(c *fiber.Ctx) error {
	moodName := c.Params("mood")
	if !mood.Valid(moodName) {
		return response.NotFound(c, "Mood '"+moodName+"' not found. Use /moods to see available moods.")
	}

	params := recommendParams{Limit: c.QueryInt("limit", model.DefaultTrackLimit)}
	if err := h.validator.Struct(params); err != nil {
		return response.ValidationError(c, "limit must be between 1 and 100", nil)
	}

	recommendations, err := h.matcher.RecommendationsByMood(c.Context(), moodName, params.Limit)
	if err != nil {
		if errors.Is(err, service.ErrUnknownMood) {
			return response.NotFound(c, err.Error())
		}
		return response.AnalysisError(c, "Error getting recommendations: "+err.Error())
	}

	return response.OK(c, recommendations)
}

// Playlists handles GET /playlists/:mood.
func (h *RecommendHandler) Playlists(c *fiber.Ctx) error {
	moodName := c.Params("mood")
	if !mood.Valid(moodName) {
		return response.NotFound(c, "Mood '"+moodName+"' not found. Use /moods to see available moods.")
	}

	params := playlistParams{Limit: c.QueryInt("limit", 10)}
	if err := h.validator.Struct(params); err != nil {
		return response.ValidationError(c, "limit must be between 1 and 50", nil)
	}

	playlists, err := h.matcher.PlaylistsByMood(c.Context(), moodName, params.Limit)
	if err != nil {
		if errors.Is(err, service.ErrUnknownMood) {
			return response.NotFound(c, err.Error())
		}
		return response.AnalysisError(c, "Error searching playlists: "+err.Error())
	}

	return response.OK(c, model.PlaylistsResponse{
		Mood:      moodName,
		Playlists: playlists,
	})
}
