package cli

import (
	"context"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"newspage/pkg/apperr"
	"newspage/pkg/config"
	"newspage/pkg/logfields"
)

// ArticlesCmd lists, adds and removes articles.
type ArticlesCmd struct {
	Action    string `arg:"" enum:"refresh,add,remove" help:"refresh, add or remove"`
	ArticleID string `arg:"" optional:"" name:"article-id" help:"Article id (add: used as the title; remove: id or filename)"`
}

func (a *ArticlesCmd) Run(g *Global, _ *CLI) error {
	ctx := context.Background()
	switch a.Action {
	case "refresh":
		return refreshArticles(ctx, g)
	case "add":
		return addArticle(ctx, g, a.ArticleID)
	case "remove":
		return removeArticle(ctx, g, a.ArticleID)
	default:
		return apperr.Validation("unknown action: %s (use refresh | add | remove)", a.Action)
	}
}

func refreshArticles(ctx context.Context, g *Global) error {
	articles, err := newApp(g, nil).catalog.Build(ctx)
	if err != nil {
		return err
	}
	g.printf("Refreshed %d article(s):\n", len(articles))
	for _, a := range articles {
		g.printf("  [%s] %s  (%s)\n", a.Date, a.Title, a.Filename)
	}
	return nil
}

// titleFromID turns a slug-like id into a readable title.
func titleFromID(id string) string {
	if !strings.Contains(id, "-") {
		return id
	}
	return cases.Title(language.Und).String(strings.ReplaceAll(id, "-", " "))
}

func addArticle(ctx context.Context, g *Global, articleID string) error {
	title := titleFromID(strings.TrimSpace(articleID))
	if title == "" {
		answer, err := g.prompter().ask("Article title: ")
		if err != nil {
			return err
		}
		title = answer
	}
	if title == "" {
		return apperr.Validation("title cannot be empty")
	}

	id, err := newApp(g, nil).editor.Create(ctx, title, "")
	if err != nil {
		return err
	}
	g.printf("Created: %s/%s.md\n", config.ArticlesDir, id)
	return nil
}

func removeArticle(_ context.Context, g *Global, articleID string) error {
	if articleID == "" {
		return apperr.Validation("usage: newspage articles remove <article-id>")
	}

	a := newApp(g, nil)
	files, err := a.store.ListFiles()
	if err != nil {
		return err
	}

	matched := ""
	for _, f := range files {
		if f == articleID+".md" || f == articleID {
			matched = f
			break
		}
		meta, _, err := a.store.ReadArticle(f)
		if err != nil {
			g.Logger.Debug("Skipping unreadable article", logfields.File(f), logfields.Error(err))
			continue
		}
		if meta.ID == articleID {
			matched = f
			break
		}
	}
	if matched == "" {
		return apperr.NotFound("article not found: %s", articleID)
	}

	if err := a.store.DeleteArticle(matched); err != nil {
		return err
	}
	g.printf("Removed: %s/%s\n", config.ArticlesDir, matched)
	return nil
}
