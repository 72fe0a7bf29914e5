package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"newspage/pkg/cli"
	"newspage/pkg/config"
)

var version = "dev"

func main() {
	var root cli.CLI
	kctx := kong.Parse(&root,
		kong.Name("newspage"),
		kong.Description("Generate and manage a dynamic, frontend-only news page"),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)

	settings, err := config.Load(root.Settings)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load settings:", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: root.LogLevel(settings)}))
	slog.SetDefault(logger)

	global := &cli.Global{
		Logger:   logger,
		Settings: settings,
		In:       os.Stdin,
		Out:      os.Stdout,
	}
	if err := kctx.Run(global, &root); err != nil {
		logger.Error("Command failed", "command", kctx.Command(), "error", err)
		os.Exit(1)
	}
}
