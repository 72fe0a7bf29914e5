package services

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"newspage/pkg/apperr"
	"newspage/pkg/models"
)

// ErrInvalidEncoding is returned for article files that are not UTF-8 text.
var ErrInvalidEncoding = errors.New("article is not valid UTF-8")

const skeletonBody = "Write your article here...\n"

// SafeJoin joins target under root, returning "" when target would escape it.
func SafeJoin(root, sub, target string) string {
	cleanTarget := filepath.Clean(filepath.FromSlash(target))
	if cleanTarget == "." || filepath.IsAbs(cleanTarget) || cleanTarget == ".." ||
		strings.HasPrefix(cleanTarget, ".."+string(filepath.Separator)) {
		return ""
	}
	return filepath.Join(root, sub, cleanTarget)
}

// Store reads and writes article files in the workspace article directory.
type Store struct {
	ws *Workspace
}

func NewStore(ws *Workspace) *Store {
	return &Store{ws: ws}
}

func (s *Store) path(filename string) (string, error) {
	if filename == "" || strings.ContainsAny(filename, `/\`) {
		return "", apperr.Validation("invalid article filename %q", filename)
	}
	full := SafeJoin(s.ws.ArticlesDir(), "", filename)
	if full == "" {
		return "", apperr.Validation("invalid article filename %q", filename)
	}
	return full, nil
}

// ListFiles returns the article filenames, sorted lexicographically.
func (s *Store) ListFiles() ([]string, error) {
	entries, err := os.ReadDir(s.ws.ArticlesDir())
	if err != nil {
		return nil, apperr.StoreUnavailable(err, "read article directory")
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)
	return files, nil
}

// ReadRaw returns the full text of an article file.
func (s *Store) ReadRaw(filename string) (string, error) {
	full, err := s.path(filename)
	if err != nil {
		return "", err
	}
	content, err := os.ReadFile(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", apperr.NotFound("article file %q not found", filename)
		}
		return "", fmt.Errorf("read %s: %w", filename, err)
	}
	if !utf8.Valid(content) {
		return "", fmt.Errorf("read %s: %w", filename, ErrInvalidEncoding)
	}
	return string(content), nil
}

// ReadArticle loads an article and splits its metadata block from the body.
func (s *Store) ReadArticle(filename string) (models.Metadata, string, error) {
	content, err := s.ReadRaw(filename)
	if err != nil {
		return models.Metadata{}, "", err
	}
	meta, body := ParseMetadata(content)
	return meta, body, nil
}

// WriteRaw replaces the full text of an article file.
func (s *Store) WriteRaw(filename, content string) error {
	full, err := s.path(filename)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("create article directory: %w", err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filename, err)
	}
	return nil
}

// WriteArticle serializes metadata and body into filename.
func (s *Store) WriteArticle(filename string, meta models.Metadata, body string) error {
	return s.WriteRaw(filename, SerializeArticle(meta, body))
}

// CreateArticle writes a new article file and refuses to overwrite one.
func (s *Store) CreateArticle(filename, content string) error {
	full, err := s.path(filename)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("create article directory: %w", err)
	}

	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return apperr.AlreadyExists("article already exists: %s", filename)
		}
		return fmt.Errorf("create %s: %w", filename, err)
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", filename, err)
	}
	return f.Close()
}

// DeleteArticle removes an article file.
func (s *Store) DeleteArticle(filename string) error {
	full, err := s.path(filename)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return apperr.NotFound("article file %q not found", filename)
		}
		return fmt.Errorf("delete %s: %w", filename, err)
	}
	return nil
}

// GenerateSkeleton returns the full text of a new article.
func (s *Store) GenerateSkeleton(title, description string) string {
	meta := models.Metadata{
		ID:          Slugify(title),
		Title:       title,
		Date:        s.ws.Today(),
		Description: description,
	}
	return SerializeArticle(meta, "# "+title+"\n\n"+skeletonBody)
}
