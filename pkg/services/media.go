package services

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"newspage/pkg/config"
	"newspage/pkg/logfields"
	"newspage/pkg/models"
)

// sniffLen is how much of an upload is inspected when its name has no extension.
const sniffLen = 3072

var safeExt = regexp.MustCompile(`^\.[a-z0-9]+$`)

// Media stores uploaded assets and removes the ones no article uses.
type Media struct {
	ws *Workspace
}

func NewMedia(ws *Workspace) *Media {
	return &Media{ws: ws}
}

// SaveUpload stores src under a fresh unique name that keeps the original
// extension, lowercased.
func (m *Media) SaveUpload(originalName string, src io.Reader) (models.UploadResult, error) {
	ext := strings.ToLower(filepath.Ext(filepath.Base(originalName)))
	if !safeExt.MatchString(ext) {
		head := make([]byte, sniffLen)
		n, err := io.ReadFull(src, head)
		if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
			return models.UploadResult{}, fmt.Errorf("read upload: %w", err)
		}
		head = head[:n]
		ext = mimetype.Detect(head).Extension()
		src = io.MultiReader(bytes.NewReader(head), src)
	}

	if err := os.MkdirAll(m.ws.UploadsDir(), 0o755); err != nil {
		return models.UploadResult{}, fmt.Errorf("create uploads directory: %w", err)
	}

	name := uuid.NewString() + ext
	dst, err := os.OpenFile(filepath.Join(m.ws.UploadsDir(), name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return models.UploadResult{}, fmt.Errorf("create upload: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		_ = os.Remove(dst.Name())
		return models.UploadResult{}, fmt.Errorf("write upload: %w", err)
	}
	if err := dst.Close(); err != nil {
		return models.UploadResult{}, fmt.Errorf("write upload: %w", err)
	}

	m.ws.recorder().IncUpload()
	m.ws.logger().Info("Stored upload", logfields.File(name))
	return models.UploadResult{URL: config.UploadsURLPrefix + name}, nil
}

// RemoveUploads deletes the given upload paths on a best-effort basis. It
// returns how many are gone afterwards; failures are only logged.
func (m *Media) RemoveUploads(refs []string) int {
	removed := 0
	for _, ref := range refs {
		full := SafeJoin(m.ws.UploadsDir(), "", strings.TrimPrefix(ref, config.UploadsURLPrefix))
		if full == "" {
			continue
		}
		if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
			m.ws.logger().Debug("Could not remove orphaned upload", logfields.Path(ref), logfields.Error(err))
			continue
		}
		removed++
	}
	m.ws.recorder().AddOrphansDeleted(removed)
	return removed
}
