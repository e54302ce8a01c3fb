package agent

import (
	"encoding/base64"
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
)

// ErrNotImage is returned by Accept when the data is not a recognizable
// image format.
var ErrNotImage = errors.New("selected file is not an image")

// Capture holds the image a user has picked before it is submitted. It keeps
// the raw bytes plus a data URI preview a UI can show immediately.
type Capture struct {
	mu       sync.Mutex
	filename string
	mimeType string
	data     []byte
	preview  string
}

// Accept reads the file, verifies it is an image and stores it as the current
// selection, replacing any previous one. Detection sniffs the content first
// and falls back to the file extension for formats http.DetectContentType
// does not know.
func (s *Capture) Accept(filename string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	mimeType := detectImageType(filename, data)
	if mimeType == "" {
		return ErrNotImage
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.filename = filename
	s.mimeType = mimeType
	s.data = data
	s.preview = "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
	return nil
}

// Selected reports whether an image is currently held.
func (s *Capture) Selected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data != nil
}

// Filename returns the name of the selected image.
func (s *Capture) Filename() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filename
}

// ContentType returns the detected MIME type of the selected image.
func (s *Capture) ContentType() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mimeType
}

// Bytes returns the raw image data of the selected image.
func (s *Capture) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data
}

// Preview returns a base64 data URI of the selected image, or "" when
// nothing is selected.
func (s *Capture) Preview() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.preview
}

// Reset drops the current selection.
func (s *Capture) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filename = ""
	s.mimeType = ""
	s.data = nil
	s.preview = ""
}

func detectImageType(filename string, data []byte) string {
	sniffed := http.DetectContentType(data)
	if strings.HasPrefix(sniffed, "image/") {
		return sniffed
	}

	byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename)))
	if strings.HasPrefix(byExt, "image/") {
		return byExt
	}
	return ""
}
