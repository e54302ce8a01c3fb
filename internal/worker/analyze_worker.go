package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/hibiken/asynq"

	"github.com/sarabsinghsaluja/moodboard-agent/internal/model"
	"github.com/sarabsinghsaluja/moodboard-agent/internal/service"
	"github.com/sarabsinghsaluja/moodboard-agent/internal/websocket"
)

// AnalyzeWorker processes async analysis jobs: vision mood detection followed
// by music matching, with progress fanned out over the websocket hub.
type AnalyzeWorker struct {
	jobs     *service.JobService
	analyzer *service.AnalyzeService
	matcher  *service.MatcherService
	hub      *websocket.Hub
}

// NewAnalyzeWorker creates a new analysis worker.
func NewAnalyzeWorker(jobs *service.JobService, analyzer *service.AnalyzeService, matcher *service.MatcherService, hub *websocket.Hub) *AnalyzeWorker {
	return &AnalyzeWorker{
		jobs:     jobs,
		analyzer: analyzer,
		matcher:  matcher,
		hub:      hub,
	}
}

// ProcessTask handles an analyze task.
func (w *AnalyzeWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var taskPayload struct {
		JobID   string          `json:"jobId"`
		Payload json.RawMessage `json:"payload"`
	}

	if err := json.Unmarshal(t.Payload(), &taskPayload); err != nil {
		return fmt.Errorf("failed to unmarshal task payload: %w", err)
	}

	jobID := taskPayload.JobID
	log.Printf("Starting analysis job: %s", jobID)

	var payload model.AnalyzeJobPayload
	if err := json.Unmarshal(taskPayload.Payload, &payload); err != nil {
		w.failJob(ctx, jobID, "Invalid payload")
		return fmt.Errorf("failed to unmarshal analyze payload: %w", err)
	}

	if w.jobs.IsCanceled(ctx, jobID) {
		log.Printf("Analysis job %s canceled before start", jobID)
		return nil
	}

	// Step 1: mood analysis
	w.updateProgress(ctx, jobID, 20, "Analyzing image mood...")
	analysis, err := w.analyzer.AnalyzeImage(ctx, payload.Image, payload.ContentType)
	if err != nil {
		w.failJob(ctx, jobID, fmt.Sprintf("Mood analysis failed: %v", err))
		return err
	}

	// Step 2: music matching
	w.updateProgress(ctx, jobID, 60, "Matching music to mood...")
	recommendations, err := w.matcher.MultiMoodRecommendations(ctx, analysis.PrimaryMood, analysis.SecondaryMoods, payload.TrackLimit)
	if err != nil {
		w.failJob(ctx, jobID, fmt.Sprintf("Music matching failed: %v", err))
		return err
	}

	result := &model.AnalyzeResponse{
		MoodAnalysis:         *analysis,
		MusicRecommendations: *recommendations,
	}

	// Step 3: optional playlist search; failures drop playlists, not the job
	if payload.IncludePlaylists {
		w.updateProgress(ctx, jobID, 80, "Searching playlists...")
		playlists, err := w.matcher.PlaylistsByMood(ctx, analysis.PrimaryMood, 5)
		if err != nil {
			log.Printf("Playlist search failed for job %s: %v", jobID, err)
		} else {
			result.Playlists = playlists
		}
	}

	if err := w.jobs.CompleteJob(ctx, jobID, result); err != nil {
		w.failJob(ctx, jobID, "Failed to store result")
		return err
	}

	w.hub.BroadcastComplete(jobID, result)
	log.Printf("Analysis job completed: %s (%s)", jobID, analysis.PrimaryMood)
	return nil
}

func (w *AnalyzeWorker) updateProgress(ctx context.Context, jobID string, progress int, step string) {
	if err := w.jobs.UpdateJobProgress(ctx, jobID, progress, step); err != nil {
		log.Printf("Failed to update progress for job %s: %v", jobID, err)
	}
	w.hub.BroadcastProgress(jobID, progress, model.JobStatusRunning, step)
}

func (w *AnalyzeWorker) failJob(ctx context.Context, jobID, msg string) {
	if err := w.jobs.FailJob(ctx, jobID, msg); err != nil {
		log.Printf("Failed to mark job %s failed: %v", jobID, err)
	}
	w.hub.BroadcastError(jobID, "JOB_FAILED", msg)
}
