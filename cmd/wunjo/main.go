package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aldergate/wunjo/internal"
	pkgconfig "github.com/aldergate/wunjo/pkg/config"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
)

func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: "config/config.yaml",
		Value:       "config/config.yaml",
		Sources:     cli.EnvVars("APP_CONFIG_FILE"),
	}
}

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.Load(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func lintCmd(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.RunLint(ctx, internal.WithConfig(cfg))
}

func mcpCmd(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.RunMCP(ctx, internal.WithConfig(cfg))
}

func main() {
	cmd := &cli.Command{
		Name:  "wunjo",
		Usage: "Markdown blog content service with front-matter catalog, full-text search, and REST API",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the HTTP content service",
				Action: serve,
				Flags:  []cli.Flag{configFlag()},
			},
			{
				Name:   "lint",
				Usage:  "Lint every post in the content tree and exit non-zero on errors",
				Action: lintCmd,
				Flags:  []cli.Flag{configFlag()},
			},
			{
				Name:   "mcp",
				Usage:  "Serve MCP tools over stdio for LLM integration",
				Action: mcpCmd,
				Flags:  []cli.Flag{configFlag()},
			},
		},
		// Bare invocation behaves like `serve`.
		Action: serve,
		Flags:  []cli.Flag{configFlag()},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
