package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/siberianbearofficial/lint-gost-tex/internal"
	pkgconfig "github.com/siberianbearofficial/lint-gost-tex/pkg/config"
)

func loadOptions(cmd *cli.Command) ([]internal.Option, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	loaded, err := pkgconfig.LoadOptional(configPath, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if root := cmd.String("root"); root != "" {
		cfg.Document.Root = root
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
	}
	if loaded {
		opts = append(opts, internal.WithConfigPath(configPath))
	}
	return opts, nil
}

func runCheck(ctx context.Context, cmd *cli.Command) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}

	status, err := internal.Check(ctx, opts...)
	if err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	if status != 0 {
		return cli.Exit("", status)
	}
	return nil
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	if err := internal.Serve(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func runMCP(ctx context.Context, cmd *cli.Command) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	if err := internal.RunMCP(ctx, opts...); err != nil {
		return fmt.Errorf("mcp server error: %w", err)
	}
	return nil
}

func main() {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to config file",
			DefaultText: "config/config.yaml",
			Value:       "config/config.yaml",
			Sources:     cli.EnvVars("APP_CONFIG_FILE"),
		},
		&cli.StringFlag{
			Name:    "root",
			Aliases: []string{"r"},
			Usage:   "Path to the root .tex file (overrides config)",
			Sources: cli.EnvVars("APP_DOCUMENT_ROOT"),
		},
	}

	cmd := &cli.Command{
		Name:   "lint-gost-tex",
		Usage:  "GOST style linter for LaTeX documents: structure, references, lists, spelling",
		Action: runCheck,
		Flags:  flags,
		Commands: []*cli.Command{
			{
				Name:   "check",
				Usage:  "Lint the document once and exit with status 1 on issues",
				Action: runCheck,
				Flags:  flags,
			},
			{
				Name:   "serve",
				Usage:  "Run the HTTP API with live re-linting on file changes",
				Action: runServe,
				Flags:  flags,
			},
			{
				Name:   "mcp",
				Usage:  "Run the MCP server on stdin/stdout",
				Action: runMCP,
				Flags:  flags,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		if exitErr, ok := err.(cli.ExitCoder); ok {
			if msg := exitErr.Error(); msg != "" {
				fmt.Fprintln(os.Stderr, msg)
			}
			os.Exit(exitErr.ExitCode())
		}
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
