package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/sarabsinghsaluja/moodboard-agent/internal/model"
)

const (
	TaskTypeAnalyze = "analyze:process"

	jobRetention = 24 * time.Hour
)

// JobService manages async analysis jobs: redis-persisted job records plus an
// asynq queue feeding the worker.
type JobService struct {
	redis       *redis.Client
	asynqClient *asynq.Client
}

func NewJobService(redisClient *redis.Client, asynqClient *asynq.Client) *JobService {
	return &JobService{
		redis:       redisClient,
		asynqClient: asynqClient,
	}
}

// StartAnalyze queues a new analysis job.
func (s *JobService) StartAnalyze(ctx context.Context, payload *model.AnalyzeJobPayload) (*model.AnalyzeStartResponse, error) {
	jobID := uuid.New().String()
	now := time.Now()

	job := &model.Job{
		ID:        jobID,
		Type:      model.JobTypeAnalyze,
		Status:    model.JobStatusQueued,
		Progress:  0,
		CreatedAt: now,
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	job.Payload = payloadBytes

	if err := s.saveJob(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to save job: %w", err)
	}

	task, err := newAnalyzeTask(jobID, payloadBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	_, err = s.asynqClient.Enqueue(task,
		asynq.Queue("analyze"),
		asynq.MaxRetry(3),
		asynq.Retention(jobRetention),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to enqueue task: %w", err)
	}

	return &model.AnalyzeStartResponse{
		JobID:     jobID,
		Status:    model.JobStatusQueued,
		CreatedAt: now,
	}, nil
}

// GetStatus returns the current status of an analysis job.
func (s *JobService) GetStatus(ctx context.Context, jobID string) (*model.AnalyzeStatusResponse, error) {
	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	return &model.AnalyzeStatusResponse{
		JobID:       job.ID,
		Status:      job.Status,
		Progress:    job.Progress,
		CurrentStep: job.CurrentStep,
		Error:       job.Error,
		CreatedAt:   job.CreatedAt,
		StartedAt:   job.StartedAt,
		CompletedAt: job.CompletedAt,
		RetryCount:  job.RetryCount,
	}, nil
}

// GetResult returns the result of a completed analysis job.
func (s *JobService) GetResult(ctx context.Context, jobID string) (*model.AnalyzeResponse, error) {
	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if job.Status != model.JobStatusSucceeded {
		return nil, fmt.Errorf("job not completed")
	}

	var result model.AnalyzeResponse
	if err := json.Unmarshal(job.Result, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}

	return &result, nil
}

// Cancel cancels a queued or running analysis job.
func (s *JobService) Cancel(ctx context.Context, jobID string) (*model.AnalyzeStatusResponse, error) {
	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if job.Status == model.JobStatusSucceeded || job.Status == model.JobStatusFailed {
		return nil, fmt.Errorf("job already completed")
	}

	job.Status = model.JobStatusCanceled
	now := time.Now()
	job.CompletedAt = &now

	if err := s.saveJob(ctx, job); err != nil {
		return nil, err
	}

	return s.GetStatus(ctx, jobID)
}

// UpdateJobProgress updates job progress (called by worker).
func (s *JobService) UpdateJobProgress(ctx context.Context, jobID string, progress int, step string) error {
	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return err
	}

	job.Progress = progress
	job.CurrentStep = step

	if job.Status == model.JobStatusQueued {
		job.Status = model.JobStatusRunning
		now := time.Now()
		job.StartedAt = &now
	}

	return s.saveJob(ctx, job)
}

// CompleteJob marks a job as completed (called by worker).
func (s *JobService) CompleteJob(ctx context.Context, jobID string, result interface{}) error {
	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return err
	}

	resultBytes, err := json.Marshal(result)
	if err != nil {
		return err
	}

	job.Status = model.JobStatusSucceeded
	job.Progress = 100
	job.Result = resultBytes
	now := time.Now()
	job.CompletedAt = &now

	return s.saveJob(ctx, job)
}

// FailJob marks a job as failed (called by worker).
func (s *JobService) FailJob(ctx context.Context, jobID string, errMsg string) error {
	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return err
	}

	job.Status = model.JobStatusFailed
	job.Error = &errMsg
	now := time.Now()
	job.CompletedAt = &now

	return s.saveJob(ctx, job)
}

// IsCanceled reports whether the job was canceled by the user.
func (s *JobService) IsCanceled(ctx context.Context, jobID string) bool {
	job, err := s.getJob(ctx, jobID)
	return err == nil && job.Status == model.JobStatusCanceled
}

// Helper methods

func (s *JobService) saveJob(ctx context.Context, job *model.Job) error {
	type storedJob struct {
		model.Job
		Payload []byte `json:"payload,omitempty"`
		Result  []byte `json:"result,omitempty"`
	}

	data, err := json.Marshal(storedJob{Job: *job, Payload: job.Payload, Result: job.Result})
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, fmt.Sprintf("job:%s", job.ID), data, jobRetention).Err()
}

func (s *JobService) getJob(ctx context.Context, jobID string) (*model.Job, error) {
	data, err := s.redis.Get(ctx, fmt.Sprintf("job:%s", jobID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("job not found")
		}
		return nil, err
	}

	var stored struct {
		model.Job
		Payload []byte `json:"payload,omitempty"`
		Result  []byte `json:"result,omitempty"`
	}
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, err
	}

	job := stored.Job
	job.Payload = stored.Payload
	job.Result = stored.Result
	return &job, nil
}

func newAnalyzeTask(jobID string, payload []byte) (*asynq.Task, error) {
	taskPayload := map[string]interface{}{
		"jobId":   jobID,
		"payload": json.RawMessage(payload),
	}
	data, err := json.Marshal(taskPayload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeAnalyze, data), nil
}
