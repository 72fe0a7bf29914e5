package services

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"newspage/pkg/apperr"
	"newspage/pkg/logfields"
	"newspage/pkg/models"
)

const dateLayout = "2006-01-02"

// dateLayouts are the date-like forms normalized to YYYY-MM-DD.
var dateLayouts = []string{
	dateLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05Z07:00",
}

// Catalog derives the presentation-ordered article list from the store.
// It holds no state between calls.
type Catalog struct {
	ws    *Workspace
	store *Store
}

func NewCatalog(ws *Workspace, store *Store) *Catalog {
	return &Catalog{ws: ws, store: store}
}

// Build returns every readable article sorted by date descending. Articles
// that fail to parse are logged and left out.
func (c *Catalog) Build(ctx context.Context) ([]models.Article, error) {
	articles, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].Date > articles[j].Date
	})
	return articles, nil
}

// ListOrEmpty is Build with an unavailable store treated as zero articles.
func (c *Catalog) ListOrEmpty(ctx context.Context) ([]models.Article, error) {
	articles, err := c.Build(ctx)
	if apperr.IsKind(err, apperr.KindStoreUnavailable) {
		c.ws.logger().Warn("Article store unavailable, listing no articles", logfields.Error(err))
		return []models.Article{}, nil
	}
	return articles, err
}

// Lookup resolves id to its article. Ids are not unique on disk; the first
// match in filename order wins.
func (c *Catalog) Lookup(ctx context.Context, id string) (models.Article, error) {
	articles, err := c.load(ctx)
	if err != nil && !apperr.IsKind(err, apperr.KindStoreUnavailable) {
		return models.Article{}, err
	}
	for _, a := range articles {
		if a.ID == id {
			return a, nil
		}
	}
	return models.Article{}, apperr.NotFound("article %q not found", id)
}

// load parses every file concurrently and returns the survivors in filename
// order. A failing file never cancels its siblings.
func (c *Catalog) load(ctx context.Context) ([]models.Article, error) {
	files, err := c.store.ListFiles()
	if err != nil {
		return nil, err
	}

	results := make([]*models.Article, len(files))
	var g errgroup.Group
	if c.ws.Concurrency > 0 {
		g.SetLimit(c.ws.Concurrency)
	}
	for i, name := range files {
		i, name := i, name
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			article, err := c.parse(name)
			if err != nil {
				c.ws.logger().Warn("Skipping unreadable article", logfields.File(name), logfields.Error(err))
				return nil
			}
			results[i] = &article
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	articles := make([]models.Article, 0, len(results))
	for _, a := range results {
		if a != nil {
			articles = append(articles, *a)
		}
	}
	return articles, nil
}

func (c *Catalog) parse(filename string) (models.Article, error) {
	meta, _, err := c.store.ReadArticle(filename)
	if err != nil {
		return models.Article{}, err
	}

	id := meta.ID
	if id == "" {
		id = Slugify(strings.TrimSuffix(filename, filepath.Ext(filename)))
	}
	title := meta.Title
	if title == "" {
		title = id
	}
	return models.Article{
		ID:          id,
		Title:       title,
		Date:        c.normalizeDate(meta.Date),
		Description: meta.Description,
		Thumbnail:   meta.Thumbnail,
		Filename:    filename,
	}, nil
}

// normalizeDate maps a date-like value to YYYY-MM-DD and anything else to today.
func (c *Catalog) normalizeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return c.ws.Today()
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC().Format(dateLayout)
		}
	}
	return c.ws.Today()
}
