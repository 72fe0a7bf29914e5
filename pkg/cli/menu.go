package cli

import (
	"context"
	"errors"
	"io"
)

// MenuCmd is the interactive menu shown when no command is given.
type MenuCmd struct{}

func (m *MenuCmd) Run(g *Global, _ *CLI) error {
	return menu(context.Background(), g)
}

const mainMenu = `
╔══════════════════════════════╗
║       NewsPage  CLI          ║
╠══════════════════════════════╣
║  1  Start dev server         ║
║  2  Build static site        ║
║  3  Manage articles          ║
║  4  Configure site           ║
║  0  Exit                     ║
╚══════════════════════════════╝
`

const articlesMenu = `
── Articles ──────────────────────
  1  List / refresh articles
  2  Add article
  3  Remove article
  0  Back
──────────────────────────────────
`

func menu(ctx context.Context, g *Global) error {
	p := g.prompter()
	g.printf("\nWelcome to NewsPage! No command specified, launching interactive mode.\n")

	for {
		g.printf("%s", mainMenu)
		choice, err := p.ask("Choice: ")
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			g.printf("\nStarting dev server… (Ctrl+C to stop)\n\n")
			return (&ServeCmd{}).Run(g, nil)
		case "2":
			path, err := p.ask("Output path [dist]: ")
			if err != nil {
				return ignoreEOF(err)
			}
			report(g, generate(ctx, g, pickOrDefault(path, "dist")))
		case "3":
			if err := articlesSubmenu(ctx, g); err != nil {
				return ignoreEOF(err)
			}
		case "4":
			if err := configure(g); err != nil {
				if errors.Is(err, io.EOF) {
					return nil
				}
				report(g, err)
			}
		case "0", "":
			g.printf("Bye!\n")
			return nil
		default:
			g.printf("Unknown choice %q.\n", choice)
		}
	}
}

func articlesSubmenu(ctx context.Context, g *Global) error {
	p := g.prompter()
	g.printf("%s", articlesMenu)
	choice, err := p.ask("Choice: ")
	if err != nil {
		return err
	}

	switch choice {
	case "1":
		report(g, refreshArticles(ctx, g))
	case "2":
		title, err := p.ask("Article title: ")
		if err != nil {
			return err
		}
		if title == "" {
			g.printf("Title cannot be empty.\n")
			return nil
		}
		report(g, addArticle(ctx, g, title))
	case "3":
		id, err := p.ask("Article id to remove: ")
		if err != nil {
			return err
		}
		if id == "" {
			g.printf("Id cannot be empty.\n")
			return nil
		}
		report(g, removeArticle(ctx, g, id))
	case "0":
	default:
		g.printf("Unknown choice.\n")
	}
	return nil
}

// report prints a failed menu action; the menu itself keeps running.
func report(g *Global, err error) {
	if err != nil {
		g.printf("✗ %v\n", err)
	}
}

func ignoreEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
