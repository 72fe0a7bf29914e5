package cli

import (
	"slices"
	"strings"

	json "github.com/goccy/go-json"

	"newspage/pkg/config"
	"newspage/pkg/models"
	"newspage/pkg/services"
)

// ConfigCmd walks through the site configuration and saves it.
type ConfigCmd struct{}

func (c *ConfigCmd) Run(g *Global, _ *CLI) error {
	return configure(g)
}

func configure(g *Global) error {
	ws := newApp(g, nil).ws
	current := services.LoadSiteConfig(ws)
	p := g.prompter()

	g.printf("\n── NewsPage Config Wizard ──\n")
	g.printf("Press Enter to keep the current value.\n\n")

	title, err := p.ask("Site title [" + current.Title + "]: ")
	if err != nil {
		return err
	}
	description, err := p.ask("Site description [" + current.Description + "]: ")
	if err != nil {
		return err
	}

	themes := services.InstalledThemes(ws)
	theme := current.Theme
	answer, err := p.ask("Theme (" + strings.Join(themes, " | ") + ") [" + current.Theme + "]: ")
	if err != nil {
		return err
	}
	switch {
	case slices.Contains(themes, answer):
		theme = answer
	case answer != "":
		g.printf("Unknown theme %q, keeping %q.\n", answer, current.Theme)
	}

	cfg := models.SiteConfig{
		Title:       pickOrDefault(title, current.Title),
		Description: pickOrDefault(description, current.Description),
		Theme:       theme,
	}
	if err := services.SaveSiteConfig(ws, cfg); err != nil {
		return err
	}

	out, _ := json.MarshalIndent(cfg, "", "  ")
	g.printf("\n✓ Config saved to %s\n%s\n", config.SiteConfigFile, out)
	return nil
}
