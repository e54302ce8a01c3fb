package handler

import (
	"errors"
	"io"
	"log"
	"mime/multipart"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/sarabsinghsaluja/moodboard-agent/internal/model"
	"github.com/sarabsinghsaluja/moodboard-agent/internal/service"
	"github.com/sarabsinghsaluja/moodboard-agent/pkg/response"
)

const maxUploadSize = 10 * 1024 * 1024 // 10MB

type AnalyzeHandler struct {
	analyzer  *service.AnalyzeService
	matcher   *service.MatcherService
	jobs      *service.JobService
	validator *validator.Validate
}

func NewAnalyzeHandler(analyzer *service.AnalyzeService, matcher *service.MatcherService, jobs *service.JobService, v *validator.Validate) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzer:  analyzer,
		matcher:   matcher,
		jobs:      jobs,
		validator: v,
	}
}

// requestError is a rejection raised by the shared request helpers. The
// handler converts it into the response envelope exactly once; the helpers
// themselves never write to the context.
type requestError struct {
	validation bool
	message    string
	details    map[string]interface{}
}

func (e *requestError) Error() string { return e.message }

func validationErr(message string, details map[string]interface{}) *requestError {
	return &requestError{validation: true, message: message, details: details}
}

func serviceErr(message string) *requestError {
	return &requestError{message: message}
}

// writeError renders a helper rejection into the error envelope.
func writeError(c *fiber.Ctx, err error) error {
	var re *requestError
	if errors.As(err, &re) && re.validation {
		return response.ValidationError(c, re.message, re.details)
	}
	return response.ServiceError(c, err.Error())
}

// readImageFile extracts and validates the uploaded image from the multipart
// form. Returns the raw bytes and the declared content type.
func readImageFile(c *fiber.Ctx) ([]byte, string, *multipart.FileHeader, error) {
	file, err := c.FormFile("file")
	if err != nil {
		return nil, "", nil, validationErr("File is required", nil)
	}

	if file.Size > maxUploadSize {
		return nil, "", nil, validationErr("File size exceeds 10MB limit", map[string]interface{}{
			"maxSize":  maxUploadSize,
			"fileSize": file.Size,
		})
	}

	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, "", nil, validationErr("File must be an image", map[string]interface{}{
			"contentType": contentType,
		})
	}

	f, err := file.Open()
	if err != nil {
		return nil, "", nil, serviceErr("Failed to open file")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", nil, serviceErr("Failed to read file")
	}

	return data, contentType, file, nil
}

func (h *AnalyzeHandler) params(c *fiber.Ctx) (*model.AnalyzeParams, error) {
	params := &model.AnalyzeParams{
		TrackLimit:       c.QueryInt("track_limit", model.DefaultTrackLimit),
		IncludePlaylists: c.QueryBool("include_playlists", false),
	}
	if err := h.validator.Struct(params); err != nil {
		return nil, validationErr("track_limit must be between 1 and 100", nil)
	}
	return params, nil
}

// Analyze handles POST /analyze: detect the image mood and return matching
// music in one synchronous round trip.
func (h *AnalyzeHandler) Analyze(c *fiber.Ctx) error {
	params, err := h.params(c)
	if err != nil {
		return writeError(c, err)
	}

	image, contentType, _, err := readImageFile(c)
	if err != nil {
		return writeError(c, err)
	}

	analysis, err := h.analyzer.AnalyzeImage(c.Context(), image, contentType)
	if err != nil {
		return response.AnalysisError(c, "Error analyzing image: "+err.Error())
	}

	recommendations, err := h.matcher.MultiMoodRecommendations(c.Context(), analysis.PrimaryMood, analysis.SecondaryMoods, params.TrackLimit)
	if err != nil {
		return response.AnalysisError(c, "Error getting recommendations: "+err.Error())
	}

	result := model.AnalyzeResponse{
		MoodAnalysis:         *analysis,
		MusicRecommendations: *recommendations,
	}

	if params.IncludePlaylists {
		playlists, err := h.matcher.PlaylistsByMood(c.Context(), analysis.PrimaryMood, 5)
		if err != nil {
			// Playlists are best-effort during full analysis
			log.Printf("Error fetching playlists: %v", err)
		} else {
			result.Playlists = playlists
		}
	}

	return response.OK(c, result)
}

// AnalyzeAsync handles POST /analyze/async: queue the analysis as a
// background job and return its ID.
func (h *AnalyzeHandler) AnalyzeAsync(c *fiber.Ctx) error {
	params, err := h.params(c)
	if err != nil {
		return writeError(c, err)
	}

	image, contentType, file, err := readImageFile(c)
	if err != nil {
		return writeError(c, err)
	}

	payload := &model.AnalyzeJobPayload{
		Filename:         file.Filename,
		ContentType:      contentType,
		Image:            image,
		TrackLimit:       params.TrackLimit,
		IncludePlaylists: params.IncludePlaylists,
	}

	result, err := h.jobs.StartAnalyze(c.Context(), payload)
	if err != nil {
		return response.ServiceError(c, err.Error())
	}

	return response.Accepted(c, result)
}

// Status handles GET /analyze/status/:jobId.
func (h *AnalyzeHandler) Status(c *fiber.Ctx) error {
	jobID := c.Params("jobId")
	if jobID == "" {
		return response.ValidationError(c, "Job ID is required", nil)
	}

	status, err := h.jobs.GetStatus(c.Context(), jobID)
	if err != nil {
		return response.NotFound(c, "Job not found")
	}

	return response.OK(c, status)
}

// Result handles GET /analyze/result/:jobId.
func (h *AnalyzeHandler) Result(c *fiber.Ctx) error {
	jobID := c.Params("jobId")
	if jobID == "" {
		return response.ValidationError(c, "Job ID is required", nil)
	}

	result, err := h.jobs.GetResult(c.Context(), jobID)
	if err != nil {
		return response.NotFound(c, err.Error())
	}

	return response.OK(c, result)
}

// Cancel handles POST /analyze/cancel/:jobId.
func (h *AnalyzeHandler) Cancel(c *fiber.Ctx) error {
	jobID := c.Params("jobId")
	if jobID == "" {
		return response.ValidationError(c, "Job ID is required", nil)
	}

	status, err := h.jobs.Cancel(c.Context(), jobID)
	if err != nil {
		return response.NotFound(c, err.Error())
	}

	return response.OK(c, status)
}
