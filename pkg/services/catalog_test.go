package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newspage/pkg/apperr"
)

func TestCatalogBuild_SortsByDateDescending(t *testing.T) {
	s := newTestServices(t)
	writeArticleFile(t, s.ws, "a.md", "---\nid: new-year\ndate: 2024-01-01\n---\n")
	writeArticleFile(t, s.ws, "b.md", "---\nid: spring\ndate: 2024-03-15\n---\n")
	writeArticleFile(t, s.ws, "c.md", "---\nid: eve\ndate: 2023-12-31\n---\n")

	articles, err := s.catalog.Build(context.Background())
	require.NoError(t, err)
	require.Len(t, articles, 3)

	var dates []string
	for _, a := range articles {
		dates = append(dates, a.Date)
	}
	assert.Equal(t, []string{"2024-03-15", "2024-01-01", "2023-12-31"}, dates)
}

func TestCatalogBuild_TiesKeepFilenameOrder(t *testing.T) {
	s := newTestServices(t)
	writeArticleFile(t, s.ws, "b.md", "---\nid: second\ndate: 2024-01-01\n---\n")
	writeArticleFile(t, s.ws, "a.md", "---\nid: first\ndate: 2024-01-01\n---\n")

	articles, err := s.catalog.Build(context.Background())
	require.NoError(t, err)
	require.Len(t, articles, 2)
	assert.Equal(t, "first", articles[0].ID)
	assert.Equal(t, "second", articles[1].ID)
}

func TestCatalogBuild_DefaultsForBodyOnlyArticle(t *testing.T) {
	s := newTestServices(t)
	writeArticleFile(t, s.ws, "My Post.md", "# Only a body\n")

	articles, err := s.catalog.Build(context.Background())
	require.NoError(t, err)
	require.Len(t, articles, 1)

	a := articles[0]
	assert.Equal(t, "my-post", a.ID)
	assert.Equal(t, "my-post", a.Title)
	assert.Equal(t, "2024-06-01", a.Date)
	assert.Equal(t, "", a.Description)
	assert.Empty(t, a.Thumbnail)
	assert.Equal(t, "My Post.md", a.Filename)
}

func TestCatalogBuild_NormalizesDates(t *testing.T) {
	s := newTestServices(t)
	writeArticleFile(t, s.ws, "a.md", "---\nid: ts\ndate: 2024-02-03T10:00:00Z\n---\n")
	writeArticleFile(t, s.ws, "b.md", "---\nid: junk\ndate: sometime soon\n---\n")

	articles, err := s.catalog.Build(context.Background())
	require.NoError(t, err)

	byID := map[string]string{}
	for _, a := range articles {
		byID[a.ID] = a.Date
	}
	assert.Equal(t, "2024-02-03", byID["ts"])
	assert.Equal(t, "2024-06-01", byID["junk"])
}

func TestCatalogBuild_SkipsUnreadableArticles(t *testing.T) {
	s := newTestServices(t)
	writeArticleFile(t, s.ws, "good.md", "---\nid: good\ndate: 2024-01-01\n---\n")
	require.NoError(t, os.WriteFile(filepath.Join(s.ws.ArticlesDir(), "bad.md"), []byte{0xff, 0xfe, 0xfd}, 0o644))

	articles, err := s.catalog.Build(context.Background())
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "good", articles[0].ID)
}

func TestCatalogBuild_IgnoresNonMarkdown(t *testing.T) {
	s := newTestServices(t)
	writeArticleFile(t, s.ws, "note.txt", "not an article")
	writeArticleFile(t, s.ws, "real.md", "body")
	require.NoError(t, os.MkdirAll(filepath.Join(s.ws.ArticlesDir(), "dir.md"), 0o755))

	articles, err := s.catalog.Build(context.Background())
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "real", articles[0].ID)
}

func TestCatalog_MissingDirectory(t *testing.T) {
	s := newTestServices(t)

	_, err := s.catalog.Build(context.Background())
	assert.True(t, apperr.IsKind(err, apperr.KindStoreUnavailable))

	articles, err := s.catalog.ListOrEmpty(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, articles)
	assert.Empty(t, articles)
}

func TestCatalogLookup_DuplicateIDsResolveToFirstFilename(t *testing.T) {
	s := newTestServices(t)
	writeArticleFile(t, s.ws, "b.md", "---\nid: dup\ndate: 2024-05-01\n---\n")
	writeArticleFile(t, s.ws, "a.md", "---\nid: dup\ndate: 2020-01-01\n---\n")

	a, err := s.catalog.Lookup(context.Background(), "dup")
	require.NoError(t, err)
	assert.Equal(t, "a.md", a.Filename)
}

func TestCatalogLookup_NotFound(t *testing.T) {
	s := newTestServices(t)
	writeArticleFile(t, s.ws, "a.md", "---\nid: a\n---\n")

	_, err := s.catalog.Lookup(context.Background(), "missing")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	empty := newTestServices(t)
	_, err = empty.catalog.Lookup(context.Background(), "anything")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
