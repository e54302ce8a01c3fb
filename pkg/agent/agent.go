// Package agent implements the client side of the MoodBoard flow: capturing
// an image, submitting it to the backend for analysis, and tracking the
// request lifecycle so a UI can render exactly one state at a time.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/sarabsinghsaluja/moodboard-agent/internal/model"
)

// Phase is the current stage of the analysis lifecycle.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseAnalyzing Phase = "analyzing"
	PhaseSucceeded Phase = "succeeded"
	PhaseFailed    Phase = "failed"
)

// failureMessage is the single user-facing error shown for any failed
// analysis, regardless of the underlying cause.
const failureMessage = "Failed to analyze image"

// ErrInFlight is returned by Submit while a previous submission is still
// being analyzed.
var ErrInFlight = errors.New("analysis already in progress")

// ErrAnalyzing is returned by Reset while an analysis is in flight.
var ErrAnalyzing = errors.New("cannot reset while analyzing")

// Lifecycle is a snapshot of the client state. Result is non-nil only in
// PhaseSucceeded and Err is non-empty only in PhaseFailed.
type Lifecycle struct {
	Phase  Phase
	Result *model.AnalyzeResponse
	Err    string
}

// Config holds the agent's connection settings.
type Config struct {
	BaseURL          string
	Timeout          time.Duration
	TrackLimit       int
	IncludePlaylists bool
}

// Client submits images to the MoodBoard backend and tracks the lifecycle of
// the current request. All methods are safe for concurrent use.
type Client struct {
	cfg  Config
	http *http.Client

	mu     sync.Mutex
	phase  Phase
	result *model.AnalyzeResponse
	errMsg string
}

// NewClient creates a Client in PhaseIdle.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8000"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 90 * time.Second
	}
	if cfg.TrackLimit <= 0 {
		cfg.TrackLimit = model.DefaultTrackLimit
	}

	return &Client{
		cfg:   cfg,
		http:  &http.Client{Timeout: cfg.Timeout},
		phase: PhaseIdle,
	}
}

// State returns a snapshot of the current lifecycle.
func (c *Client) State() Lifecycle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Lifecycle{Phase: c.phase, Result: c.result, Err: c.errMsg}
}

// Submit uploads an image and blocks until the backend answers or ctx runs
// out. It moves the client to PhaseAnalyzing for the duration of the call and
// then to PhaseSucceeded or PhaseFailed. Submitting while a previous call is
// still in flight returns ErrInFlight and leaves the in-flight request
// untouched.
func (c *Client) Submit(ctx context.Context, filename string, image io.Reader, contentType string) (Lifecycle, error) {
	c.mu.Lock()
	if c.phase == PhaseAnalyzing {
		c.mu.Unlock()
		return Lifecycle{Phase: PhaseAnalyzing}, ErrInFlight
	}
	c.phase = PhaseAnalyzing
	c.result = nil
	c.errMsg = ""
	c.mu.Unlock()

	result, err := c.analyze(ctx, filename, image, contentType)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.phase = PhaseFailed
		c.errMsg = failureMessage
	} else {
		c.phase = PhaseSucceeded
		c.result = result
	}
	return Lifecycle{Phase: c.phase, Result: c.result, Err: c.errMsg}, err
}

// Reset returns the client to PhaseIdle, clearing any previous result or
// error. Resetting while an analysis is in flight is refused.
func (c *Client) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase == PhaseAnalyzing {
		return ErrAnalyzing
	}
	c.phase = PhaseIdle
	c.result = nil
	c.errMsg = ""
	return nil
}

func (c *Client) analyze(ctx context.Context, filename string, image io.Reader, contentType string) (*model.AnalyzeResponse, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := createImagePart(writer, filename, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}

	endpoint := c.cfg.BaseURL + "/analyze?" + url.Values{
		"track_limit":       {strconv.Itoa(c.cfg.TrackLimit)},
		"include_playlists": {strconv.FormatBool(c.cfg.IncludePlaylists)},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analyze request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("analyze request failed with status %d: %s", resp.StatusCode, string(data))
	}

	var result model.AnalyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode analyze response: %w", err)
	}
	return &result, nil
}

// createImagePart adds a form file part carrying the image's real content
// type. CreateFormFile would hardcode application/octet-stream, which the
// backend rejects.
func createImagePart(writer *multipart.Writer, filename, contentType string) (io.Writer, error) {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", contentType)
	return writer.CreatePart(header)
}
