package agent

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngHeader is the magic prefix http.DetectContentType keys on.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestCaptureAcceptPNG(t *testing.T) {
	var c Capture
	data := append(append([]byte(nil), pngHeader...), make([]byte, 64)...)

	require.NoError(t, c.Accept("photo.png", bytes.NewReader(data)))
	assert.True(t, c.Selected())
	assert.Equal(t, "photo.png", c.Filename())
	assert.Equal(t, "image/png", c.ContentType())
	assert.Equal(t, data, c.Bytes())
	assert.True(t, strings.HasPrefix(c.Preview(), "data:image/png;base64,"), c.Preview())
}

func TestCaptureRejectsNonImage(t *testing.T) {
	var c Capture

	err := c.Accept("notes.txt", strings.NewReader("just some text"))
	assert.ErrorIs(t, err, ErrNotImage)
	assert.False(t, c.Selected())
	assert.Empty(t, c.Preview())
}

func TestCaptureExtensionFallback(t *testing.T) {
	var c Capture

	// Content sniffing cannot identify this payload, the extension can.
	err := c.Accept("drawing.svg", strings.NewReader("not xml at all"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(c.ContentType(), "image/svg+xml"), c.ContentType())
}

func TestCaptureReplacesSelection(t *testing.T) {
	var c Capture

	require.NoError(t, c.Accept("a.png", bytes.NewReader(pngHeader)))
	first := c.Preview()

	jpeg := []byte{0xff, 0xd8, 0xff, 0xe0, 0, 0, 0, 0}
	require.NoError(t, c.Accept("b.jpg", bytes.NewReader(jpeg)))
	assert.Equal(t, "b.jpg", c.Filename())
	assert.Equal(t, "image/jpeg", c.ContentType())
	assert.NotEqual(t, first, c.Preview())
}

func TestCaptureRejectionKeepsSelection(t *testing.T) {
	var c Capture

	require.NoError(t, c.Accept("a.png", bytes.NewReader(pngHeader)))
	require.Error(t, c.Accept("notes.txt", strings.NewReader("text")))

	// The previous image survives a failed pick
	assert.Equal(t, "a.png", c.Filename())
	assert.True(t, c.Selected())
}

func TestCaptureReset(t *testing.T) {
	var c Capture

	require.NoError(t, c.Accept("a.png", bytes.NewReader(pngHeader)))
	c.Reset()

	assert.False(t, c.Selected())
	assert.Empty(t, c.Filename())
	assert.Empty(t, c.ContentType())
	assert.Nil(t, c.Bytes())
	assert.Empty(t, c.Preview())
}
