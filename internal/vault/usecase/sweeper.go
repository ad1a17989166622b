package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// SweeperConfig holds the background sweep configuration.
type SweeperConfig struct {
	// Schedule is a standard five field cron expression or a descriptor such as "@every 5m".
	Schedule string
	// Timeout bounds a single sweep run. Zero means unbounded.
	Timeout time.Duration
}

// Sweeper periodically deletes time-expired secrets.
type Sweeper struct {
	useCase  VaultUseCase
	schedule cron.Schedule
	timeout  time.Duration
	logger   *slog.Logger
}

// NewSweeper creates a Sweeper. Returns an error if the schedule cannot be parsed.
func NewSweeper(useCase VaultUseCase, config SweeperConfig, logger *slog.Logger) (*Sweeper, error) {
	schedule, err := cron.ParseStandard(config.Schedule)
	if err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", config.Schedule, err)
	}

	return &Sweeper{
		useCase:  useCase,
		schedule: schedule,
		timeout:  config.Timeout,
		logger:   logger,
	}, nil
}

// Start sweeps once immediately and then on every schedule activation until ctx is done
// or the schedule runs out. Returns nil in both cases.
func (s *Sweeper) Start(ctx context.Context) error {
	s.logger.Info("starting expired secret sweeper", slog.Duration("timeout", s.timeout))

	s.RunOnce(ctx)

	for {
		now := time.Now()
		next := s.schedule.Next(now)
		if next.IsZero() {
			s.logger.Warn("sweep schedule has no further activation, stopping sweeper")
			return nil
		}
		timer := time.NewTimer(next.Sub(now))

		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("stopping expired secret sweeper")
			return nil
		case <-timer.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single bounded sweep and logs the outcome.
func (s *Sweeper) RunOnce(ctx context.Context) {
	runCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	count, err := s.useCase.SweepExpired(runCtx)
	if err != nil {
		if ctx.Err() != nil && errors.Is(err, context.Canceled) {
			return
		}
		s.logger.Error("failed to sweep expired secrets", slog.Any("error", err))
		return
	}

	if count > 0 {
		s.logger.Info("swept expired secrets", slog.Int64("count", count))
	}
}
