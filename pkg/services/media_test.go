package services

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var uploadURL = regexp.MustCompile(`^/uploads/[0-9a-f-]{36}(\.[a-z0-9]+)?$`)

// 1x1 transparent PNG.
var tinyPNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89,
}

func TestMediaSaveUpload_KeepsLowercasedExtension(t *testing.T) {
	s := newTestServices(t)

	res, err := s.media.SaveUpload("Holiday.JPG", strings.NewReader("jpeg bytes"))
	require.NoError(t, err)
	assert.Regexp(t, uploadURL, res.URL)
	assert.True(t, strings.HasSuffix(res.URL, ".jpg"))

	stored, err := os.ReadFile(filepath.Join(s.ws.UploadsDir(), strings.TrimPrefix(res.URL, "/uploads/")))
	require.NoError(t, err)
	assert.Equal(t, "jpeg bytes", string(stored))
}

func TestMediaSaveUpload_UniqueNames(t *testing.T) {
	s := newTestServices(t)

	first, err := s.media.SaveUpload("a.png", bytes.NewReader(tinyPNG))
	require.NoError(t, err)
	second, err := s.media.SaveUpload("a.png", bytes.NewReader(tinyPNG))
	require.NoError(t, err)
	assert.NotEqual(t, first.URL, second.URL)
}

func TestMediaSaveUpload_SniffsMissingExtension(t *testing.T) {
	s := newTestServices(t)

	res, err := s.media.SaveUpload("clipboard", bytes.NewReader(tinyPNG))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(res.URL, ".png"), res.URL)

	stored, err := os.ReadFile(filepath.Join(s.ws.UploadsDir(), strings.TrimPrefix(res.URL, "/uploads/")))
	require.NoError(t, err)
	assert.Equal(t, tinyPNG, stored)
}

func TestMediaRemoveUploads(t *testing.T) {
	s := newTestServices(t)
	writeFile(t, filepath.Join(s.ws.UploadsDir(), "a.png"), "a")
	outside := filepath.Join(s.ws.Root, "keep.txt")
	writeFile(t, outside, "keep")

	n := s.media.RemoveUploads([]string{"/uploads/a.png", "/uploads/missing.png", "/uploads/../keep.txt"})
	assert.Equal(t, 2, n)
	assert.False(t, uploadExists(t, s.ws, "a.png"))
	assert.FileExists(t, outside)
}
