// Package cli implements the newspage commands.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/alecthomas/kong"

	"newspage/pkg/config"
	"newspage/pkg/metrics"
	"newspage/pkg/services"
)

// Global is the state shared by every command.
type Global struct {
	Logger   *slog.Logger
	Settings *config.Settings
	In       io.Reader
	Out      io.Writer

	prompt *prompter
}

// CLI is the command tree. Running without a command opens the menu.
type CLI struct {
	Settings string           `short:"s" help:"Settings file (.yaml, .yml or .toml)" default:"newspage.yaml" type:"path"`
	Verbose  bool             `short:"v" help:"Enable debug logging"`
	Version  kong.VersionFlag `name:"version" help:"Show version and exit"`

	Generate GenerateCmd `cmd:"" help:"Generate the static site into <path>"`
	Articles ArticlesCmd `cmd:"" help:"Manage articles (refresh, add, remove)"`
	Serve    ServeCmd    `cmd:"" help:"Serve the site and the editor on the dev server"`
	Config   ConfigCmd   `cmd:"" help:"Interactive site configuration wizard (saves newspage.config.json)"`
	Menu     MenuCmd     `cmd:"" default:"1" hidden:"" help:"Interactive menu"`
}

// LogLevel resolves the logging level from the flags and settings.
func (c *CLI) LogLevel(s *config.Settings) slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	var level slog.Level
	if s == nil || level.UnmarshalText([]byte(s.LogLevel)) != nil {
		return slog.LevelInfo
	}
	return level
}

func (g *Global) prompter() *prompter {
	if g.prompt == nil {
		g.prompt = &prompter{in: bufio.NewReader(g.In), out: g.Out}
	}
	return g.prompt
}

func (g *Global) printf(format string, args ...any) {
	fmt.Fprintf(g.Out, format, args...)
}

// app is the set of services a command works with, all bound to one workspace.
type app struct {
	ws      *services.Workspace
	store   *services.Store
	catalog *services.Catalog
	builder *services.Builder
	media   *services.Media
	editor  *services.Editor
}

func newApp(g *Global, rec metrics.Recorder) *app {
	ws := services.NewWorkspace(g.Settings, g.Logger)
	if rec != nil {
		ws.Recorder = rec
	}
	store := services.NewStore(ws)
	catalog := services.NewCatalog(ws, store)
	media := services.NewMedia(ws)
	return &app{
		ws:      ws,
		store:   store,
		catalog: catalog,
		builder: services.NewBuilder(ws, catalog),
		media:   media,
		editor:  services.NewEditor(ws, store, catalog, media),
	}
}

type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// ask prints question and returns the trimmed answer. io.EOF is returned
// only when the input is exhausted before any text was read.
func (p *prompter) ask(question string) (string, error) {
	fmt.Fprint(p.out, question)
	line, err := p.in.ReadString('\n')
	line = strings.TrimSpace(line)
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return line, nil
}

func pickOrDefault(input, fallback string) string {
	if input != "" {
		return input
	}
	return fallback
}
