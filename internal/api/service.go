package api

import (
	"context"
	"log/slog"

	"github.com/siberianbearofficial/lint-gost-tex/internal/history"
	"github.com/siberianbearofficial/lint-gost-tex/internal/runner"
	"github.com/siberianbearofficial/lint-gost-tex/internal/sse"
)

// Service orchestrates lint runs for the HTTP surface: it runs the rules,
// records results to the history store (when configured), and announces
// runs over SSE.
type Service struct {
	runner  *runner.Runner
	history history.Store // nil when history is disabled
	broker  *sse.Broker
	logger  *slog.Logger
}

// NewService creates a Service. store may be nil to disable persistence
// and broker may be nil to disable event publishing.
func NewService(r *runner.Runner, store history.Store, broker *sse.Broker, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{runner: r, history: store, broker: broker, logger: logger}
}

// Latest returns the most recent run result, or nil before the first run.
func (s *Service) Latest() *runner.Result {
	return s.runner.Latest()
}

// Runner returns the underlying runner with its configured rule set.
func (s *Service) Runner() *runner.Runner {
	return s.runner
}

// History returns the history store, or nil when disabled.
func (s *Service) History() history.Store {
	return s.history
}

// Lint runs the rules once, records the run, and publishes SSE events.
// It returns the result together with the history run id (0 when history
// is disabled).
func (s *Service) Lint(ctx context.Context) (*runner.Result, int64, error) {
	if s.broker != nil {
		s.broker.PublishRunStarted()
	}

	result, err := s.runner.Run(ctx)
	if err != nil {
		return nil, 0, err
	}

	var runID int64
	if s.history != nil {
		runID, err = s.history.RecordRun(result.StartedAt, result.Duration, result.FileCount, result.Issues)
		if err != nil {
			s.logger.Warn("record run failed", slog.String("error", err.Error()))
			runID = 0
		}
	}

	if s.broker != nil {
		s.broker.PublishRunCompleted(runID, result.FileCount, len(result.Issues), result.Duration)
	}

	s.logger.Info("lint run completed",
		slog.Int("files", result.FileCount),
		slog.Int("issues", len(result.Issues)),
		slog.Int64("duration_ms", result.Duration.Milliseconds()))

	return result, runID, nil
}
