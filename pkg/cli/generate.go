package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"newspage/pkg/services"
)

// GenerateCmd writes the static site into a directory.
type GenerateCmd struct {
	Path string `arg:"" help:"Output directory" type:"path"`
}

func (g *GenerateCmd) Run(glob *Global, _ *CLI) error {
	return generate(context.Background(), glob, g.Path)
}

func generate(ctx context.Context, g *Global, path string) error {
	dest, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}
	g.printf("Generating site → %s\n", dest)

	a := newApp(g, nil)
	if err := a.builder.Build(ctx, dest, services.BuildOptions{}); err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	g.printf("Done.\n")
	return nil
}
