package agent

import (
	"bytes"
	"context"
	"io"
)

// Session ties an upload capture to a lifecycle client so a caller can drive
// the whole pick-submit-reset flow through one object.
type Session struct {
	Capture Capture
	Client  *Client
}

// NewSession creates a session with a fresh client in PhaseIdle.
func NewSession(cfg Config) *Session {
	return &Session{Client: NewClient(cfg)}
}

// Pick validates and stores the image, then submits it for analysis. A
// non-image file returns ErrNotImage before any request is issued and leaves
// the lifecycle untouched.
func (s *Session) Pick(ctx context.Context, filename string, r io.Reader) (Lifecycle, error) {
	if err := s.Capture.Accept(filename, r); err != nil {
		return s.Client.State(), err
	}
	return s.Submit(ctx)
}

// Submit analyzes the currently captured image.
func (s *Session) Submit(ctx context.Context) (Lifecycle, error) {
	if !s.Capture.Selected() {
		return s.Client.State(), ErrNotImage
	}
	return s.Client.Submit(ctx, s.Capture.Filename(), bytes.NewReader(s.Capture.Bytes()), s.Capture.ContentType())
}

// State returns the current lifecycle snapshot.
func (s *Session) State() Lifecycle {
	return s.Client.State()
}

// Preview returns the data URI of the captured image, or "" when none is
// selected.
func (s *Session) Preview() string {
	return s.Capture.Preview()
}

// Reset returns the lifecycle to PhaseIdle and discards the captured image
// and its preview in one step.
func (s *Session) Reset() error {
	if err := s.Client.Reset(); err != nil {
		return err
	}
	s.Capture.Reset()
	return nil
}
