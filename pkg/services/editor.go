package services

import (
	"context"
	"strings"

	"newspage/pkg/apperr"
	"newspage/pkg/logfields"
	"newspage/pkg/models"
)

// Mutation names reported to the metrics recorder.
const (
	opCreate = "create"
	opUpdate = "update"
	opDelete = "delete"
)

// Editor implements the article operations behind the editing API. Every
// method works against the store synchronously and returns apperr errors.
type Editor struct {
	ws      *Workspace
	store   *Store
	catalog *Catalog
	media   *Media
}

func NewEditor(ws *Workspace, store *Store, catalog *Catalog, media *Media) *Editor {
	return &Editor{ws: ws, store: store, catalog: catalog, media: media}
}

// List returns the catalog, or an empty list when the store is unreadable.
func (e *Editor) List(ctx context.Context) ([]models.Article, error) {
	return e.catalog.ListOrEmpty(ctx)
}

// Get returns the full text of the article with the given id.
func (e *Editor) Get(ctx context.Context, id string) (string, error) {
	article, err := e.catalog.Lookup(ctx, id)
	if err != nil {
		return "", err
	}
	return e.store.ReadRaw(article.Filename)
}

// Update replaces the full text of an existing article.
func (e *Editor) Update(ctx context.Context, id, content string) error {
	article, err := e.catalog.Lookup(ctx, id)
	if err != nil {
		return err
	}
	if err := e.store.WriteRaw(article.Filename, content); err != nil {
		return err
	}
	e.ws.recorder().IncArticleMutation(opUpdate)
	e.ws.logger().Info("Article updated", logfields.ArticleID(id), logfields.File(article.Filename))
	return nil
}

// Create writes a skeleton article for title and returns its id. An existing
// file with the same slug is never overwritten.
func (e *Editor) Create(_ context.Context, title, description string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", apperr.Validation("title required")
	}
	id := Slugify(title)
	if id == "" {
		return "", apperr.Validation("title must contain letters or digits")
	}

	filename := id + ".md"
	if err := e.store.CreateArticle(filename, e.store.GenerateSkeleton(title, strings.TrimSpace(description))); err != nil {
		return "", err
	}
	e.ws.recorder().IncArticleMutation(opCreate)
	e.ws.logger().Info("Article created", logfields.ArticleID(id), logfields.File(filename))
	return id, nil
}

// Delete removes an article together with the uploads only it referenced.
func (e *Editor) Delete(ctx context.Context, id string) (models.DeleteResult, error) {
	article, err := e.catalog.Lookup(ctx, id)
	if err != nil {
		return models.DeleteResult{}, err
	}
	content, err := e.store.ReadRaw(article.Filename)
	if err != nil {
		return models.DeleteResult{}, err
	}

	inUse, err := e.referencedElsewhere(article.Filename)
	if err != nil {
		return models.DeleteResult{}, err
	}
	var orphans []string
	for _, ref := range UploadReferences(content) {
		if _, ok := inUse[ref]; !ok {
			orphans = append(orphans, ref)
		}
	}

	if err := e.store.DeleteArticle(article.Filename); err != nil {
		return models.DeleteResult{}, err
	}
	deleted := e.media.RemoveUploads(orphans)

	e.ws.recorder().IncArticleMutation(opDelete)
	e.ws.logger().Info("Article deleted",
		logfields.ArticleID(id),
		logfields.File(article.Filename),
		logfields.Count(deleted))
	return models.DeleteResult{OK: true, DeletedImages: deleted}, nil
}

// referencedElsewhere collects the upload references of every article file
// other than filename, read fresh from disk.
func (e *Editor) referencedElsewhere(filename string) (map[string]struct{}, error) {
	files, err := e.store.ListFiles()
	if err != nil {
		return nil, err
	}
	refs := make(map[string]struct{})
	for _, name := range files {
		if name == filename {
			continue
		}
		content, err := e.store.ReadRaw(name)
		if err != nil {
			e.ws.logger().Warn("Skipping unreadable article during reference scan", logfields.File(name), logfields.Error(err))
			continue
		}
		for _, ref := range UploadReferences(content) {
			refs[ref] = struct{}{}
		}
	}
	return refs, nil
}
