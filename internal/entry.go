// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/siberianbearofficial/lint-gost-tex/internal/api"
	"github.com/siberianbearofficial/lint-gost-tex/internal/history"
	"github.com/siberianbearofficial/lint-gost-tex/internal/issue"
	"github.com/siberianbearofficial/lint-gost-tex/internal/mcpserver"
	"github.com/siberianbearofficial/lint-gost-tex/internal/rules"
	"github.com/siberianbearofficial/lint-gost-tex/internal/runner"
	"github.com/siberianbearofficial/lint-gost-tex/internal/sse"
	"github.com/siberianbearofficial/lint-gost-tex/internal/watch"
)

func newApplication(opts ...Option) (*application, error) {
	app := &application{stdout: os.Stdout}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

func (a *application) logger() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: a.config.App.LogLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// baseDir is the directory all relative configuration paths resolve
// against: the config file's directory when a config file was used,
// otherwise the working directory.
func (a *application) baseDir() string {
	if a.configPath != "" {
		if abs, err := filepath.Abs(filepath.Dir(a.configPath)); err == nil {
			return abs
		}
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

func (a *application) newRunner(baseDir string) *runner.Runner {
	cfg := a.config
	return &runner.Runner{
		Root:       resolvePath(baseDir, cfg.Document.Root),
		Exclude:    cfg.Document.Exclude,
		BaseDir:    baseDir,
		ConfigPath: a.configPath,
		Rules:      buildRules(cfg, baseDir),
	}
}

// Check runs the linter once and prints every issue to stdout. The
// returned status is 0 for a clean document and 1 when issues were found.
func Check(ctx context.Context, opts ...Option) (int, error) {
	app, err := newApplication(opts...)
	if err != nil {
		return 0, err
	}
	logger := app.logger()

	baseDir := app.baseDir()
	r := app.newRunner(baseDir)

	result, err := r.Run(ctx)
	if err != nil {
		return 0, err
	}

	for _, iss := range result.Issues {
		fmt.Fprintln(app.stdout, issue.Format(iss, baseDir))
	}
	fmt.Fprintf(app.stdout, "%d issue(s) found.\n", len(result.Issues))

	logger.Info("check completed",
		slog.Int("files", result.FileCount),
		slog.Int("issues", len(result.Issues)),
		slog.Int64("duration_ms", result.Duration.Milliseconds()))

	if len(result.Issues) > 0 {
		return 1, nil
	}
	return 0, nil
}

// Serve starts the HTTP server with live re-linting: an fsnotify watcher
// re-runs the rules on .tex changes, results are persisted to the run
// history (when configured) and announced over SSE.
func Serve(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts...)
	if err != nil {
		return err
	}
	cfg := app.config
	logger := app.logger()

	baseDir := app.baseDir()
	r := app.newRunner(baseDir)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("document_root", r.Root),
		slog.String("history_path", cfg.History.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	var store history.Store
	if cfg.History.Path != "" {
		db, err := history.Open(resolvePath(baseDir, cfg.History.Path))
		if err != nil {
			return fmt.Errorf("init history: %w", err)
		}
		defer db.Close()
		store = db
	}

	broker := sse.NewBroker()
	defer broker.Close()

	svc := api.NewService(r, store, broker, logger)
	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, http.HandlerFunc(broker.ServeHTTP))

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	router.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	router.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	router.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: router,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Initial lint run so /api/issues has content immediately.
	g.Go(func() error {
		if _, _, err := svc.Lint(gCtx); err != nil {
			logger.Warn("initial lint failed", slog.String("error", err.Error()))
		}
		return nil
	})

	// Re-lint on .tex changes.
	g.Go(func() error {
		debounce := time.Duration(cfg.Watch.DebounceMS) * time.Millisecond
		watchRoot := filepath.Dir(r.Root)
		return watch.Watch(gCtx, watchRoot, debounce, logger, func() {
			if _, _, err := svc.Lint(gCtx); err != nil {
				logger.Warn("re-lint failed", slog.String("error", err.Error()))
			}
		})
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP starts the MCP server on stdin/stdout.
func RunMCP(_ context.Context, opts ...Option) error {
	app, err := newApplication(opts...)
	if err != nil {
		return err
	}
	logger := app.logger()

	baseDir := app.baseDir()
	r := app.newRunner(baseDir)

	logger.Info("MCP server starting", slog.String("document_root", r.Root))
	return mcpserver.New(r).ServeStdio()
}

// buildRules instantiates the rule set from the configuration. Dictionary
// paths are resolved against baseDir.
func buildRules(cfg *Config, baseDir string) []rules.Rule {
	rc := cfg.Rules
	sc := cfg.Spellcheck
	return []rules.Rule{
		rules.ImageWidth{RequiredWidth: rc.Images.RequiredWidth},
		rules.RefSpacing{Commands: rc.Refs.Commands},
		rules.LinkPunctuation{Commands: rc.Links.Commands},
		rules.TextStyle{Commands: rc.Styles.Commands},
		rules.CustomList{
			AllowedEnvs:           rc.Lists.AllowedEnvs,
			ListEnvs:              rc.Lists.ListEnvs,
			DisallowBeginOptional: rc.Lists.DisallowBeginOptional,
			DisallowItemOptional:  rc.Lists.DisallowItemOptional,
		},
		rules.NestedList{ListEnvs: rc.Lists.ListEnvs},
		rules.ListItemPunctuation{
			ListEnvs:        rc.Lists.ListEnvs,
			SkipCommands:    rc.ListItems.SkipCommands,
			TwoArgCommands:  rc.ListItems.TwoArgCommands,
			SentenceEndings: rc.ListItems.SentenceEndings,
			LastEnd:         rc.ListItems.LastEnd,
			NonLastEnd:      rc.ListItems.NonLastEnd,
		},
		rules.ListItemCase{
			ListEnvs:       rc.Lists.ListEnvs,
			SkipCommands:   rc.ListItems.SkipCommands,
			TwoArgCommands: rc.ListItems.TwoArgCommands,
		},
		rules.CaptionPunctuation{
			Commands:       rc.Captions.Commands,
			ForbidTrailing: rc.Captions.ForbidTrailing,
		},
		rules.IllustrationOrder{
			Envs:        rc.Illustrations.Envs,
			RefCommands: rc.Illustrations.RefCommands,
		},
		rules.Abbreviation{
			BannedWords:    rc.Abbrev.BannedWords,
			BannedPatterns: rc.Abbrev.BannedPatterns,
			AllowWords:     rc.Abbrev.AllowWords,
			SkipCommands:   rc.Abbrev.SkipCommands,
			TwoArgCommands: rc.Abbrev.TwoArgCommands,
		},
		rules.UnicodeChars{AllowedExtra: rc.Unicode.AllowedExtra},
		rules.Spellcheck{
			CustomDict:              resolvePath(baseDir, sc.CustomDict),
			ExtraRuDicts:            resolvePaths(baseDir, sc.ExtraRuDicts),
			ExtraEnDicts:            resolvePaths(baseDir, sc.ExtraEnDicts),
			IgnoreEnvs:              sc.IgnoreEnvs,
			SkipCommands:            sc.SkipCommands,
			KeepCommands:            sc.KeepCommands,
			MinWordLength:           sc.MinWordLength,
			IgnoreUppercaseAcronyms: sc.IgnoreUppercaseAcronyms,
		},
	}
}

func resolvePath(baseDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

func resolvePaths(baseDir string, paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, path := range paths {
		out = append(out, resolvePath(baseDir, path))
	}
	return out
}
