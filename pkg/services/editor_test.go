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

func uploadExists(t *testing.T, ws *Workspace, name string) bool {
	t.Helper()
	_, err := os.Stat(filepath.Join(ws.UploadsDir(), name))
	return err == nil
}

func TestEditorDelete_SharedUploadSurvivesUntilLastReference(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t)
	writeFile(t, filepath.Join(s.ws.UploadsDir(), "x.png"), "shared")
	writeFile(t, filepath.Join(s.ws.UploadsDir(), "only.png"), "private")
	writeArticleFile(t, s.ws, "one.md", "---\nid: one\n---\n\n![shared](/uploads/x.png)\n\n![mine](/uploads/only.png)\n")
	writeArticleFile(t, s.ws, "two.md", "---\nid: two\n---\n\nSee ![again](/uploads/x.png).\n")

	res, err := s.editor.Delete(ctx, "one")
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, 1, res.DeletedImages)
	assert.True(t, uploadExists(t, s.ws, "x.png"))
	assert.False(t, uploadExists(t, s.ws, "only.png"))

	res, err = s.editor.Delete(ctx, "two")
	require.NoError(t, err)
	assert.Equal(t, 1, res.DeletedImages)
	assert.False(t, uploadExists(t, s.ws, "x.png"))
}

func TestEditorDelete_ThumbnailAndHTMLReferencesCount(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t)
	writeFile(t, filepath.Join(s.ws.UploadsDir(), "thumb.jpg"), "t")
	writeFile(t, filepath.Join(s.ws.UploadsDir(), "clip.mp4"), "v")
	writeArticleFile(t, s.ws, "gone.md", "---\nid: gone\nthumbnail: /uploads/thumb.jpg\n---\n\n<video src=\"/uploads/clip.mp4\"></video>\n")
	writeArticleFile(t, s.ws, "keeper.md", "---\nid: keeper\nthumbnail: /uploads/thumb.jpg\n---\n")

	res, err := s.editor.Delete(ctx, "gone")
	require.NoError(t, err)
	assert.Equal(t, 1, res.DeletedImages)
	assert.True(t, uploadExists(t, s.ws, "thumb.jpg"))
	assert.False(t, uploadExists(t, s.ws, "clip.mp4"))
}

func TestEditorDelete_MissingUploadIsNotAnError(t *testing.T) {
	s := newTestServices(t)
	writeArticleFile(t, s.ws, "a.md", "---\nid: a\n---\n![gone](/uploads/never-existed.png)\n")

	res, err := s.editor.Delete(context.Background(), "a")
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, 1, res.DeletedImages)
}

func TestEditorDelete_UnknownID(t *testing.T) {
	s := newTestServices(t)
	writeArticleFile(t, s.ws, "a.md", "---\nid: a\n---\n")

	_, err := s.editor.Delete(context.Background(), "b")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestEditorCreate(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t)

	id, err := s.editor.Create(ctx, "  Hello World ", "First post")
	require.NoError(t, err)
	assert.Equal(t, "hello-world", id)

	content, err := s.editor.Get(ctx, id)
	require.NoError(t, err)
	meta, body := ParseMetadata(content)
	assert.Equal(t, "hello-world", meta.ID)
	assert.Equal(t, "Hello World", meta.Title)
	assert.Equal(t, "2024-06-01", meta.Date)
	assert.Equal(t, "First post", meta.Description)
	assert.Contains(t, body, "# Hello World\n\nWrite your article here...")
}

func TestEditorCreate_Collision(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t)

	_, err := s.editor.Create(ctx, "Same Title", "")
	require.NoError(t, err)
	require.NoError(t, s.editor.Update(ctx, "same-title", "edited"))

	_, err = s.editor.Create(ctx, "Same  title!", "")
	assert.True(t, apperr.IsKind(err, apperr.KindAlreadyExists))

	content, err := s.store.ReadRaw("same-title.md")
	require.NoError(t, err)
	assert.Equal(t, "edited", content)
}

func TestEditorCreate_RequiresTitle(t *testing.T) {
	s := newTestServices(t)
	for _, title := range []string{"", "   ", "???"} {
		_, err := s.editor.Create(context.Background(), title, "")
		assert.True(t, apperr.IsKind(err, apperr.KindValidation), title)
	}
}

func TestEditorUpdate(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t)
	writeArticleFile(t, s.ws, "file-name.md", "---\nid: custom\n---\nold")

	require.NoError(t, s.editor.Update(ctx, "custom", "---\nid: custom\ntitle: New\n---\nnew"))
	content, err := s.store.ReadRaw("file-name.md")
	require.NoError(t, err)
	assert.Equal(t, "---\nid: custom\ntitle: New\n---\nnew", content)

	err = s.editor.Update(ctx, "missing", "x")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestEditorList_EmptyWhenStoreMissing(t *testing.T) {
	s := newTestServices(t)
	articles, err := s.editor.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, articles)
}
