package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"pmlbot/internal/domain"
)

// Scanner runs one scan cycle over all tracked users.
type Scanner interface {
	Scan(ctx context.Context) (*domain.ScanStats, error)
}

// LeaderboardPublisher republishes every team's leaderboard post.
type LeaderboardPublisher interface {
	Publish(ctx context.Context) (*domain.LeaderboardStats, error)
}

// Scheduler drives the bot: scan, publish leaderboards, wait, repeat.
// A cycle runs under the loop's own context with no extra deadline; a slow
// remote stalls the cycle, nothing more. Recoverable errors are absorbed
// inside the services; an error surfacing here means the store is gone and
// the process should stop.
type Scheduler struct {
	scanner   Scanner
	publisher LeaderboardPublisher
	interval  time.Duration
	logger    *slog.Logger
}

func NewScheduler(scanner Scanner, publisher LeaderboardPublisher, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		scanner:   scanner,
		publisher: publisher,
		interval:  interval,
		logger:    logger,
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started", "interval", s.interval)

	if err := s.runCycle(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			if err := s.runCycle(ctx); err != nil {
				return err
			}
		}
	}
}

func (s *Scheduler) runCycle(ctx context.Context) error {
	if _, err := s.scanner.Scan(ctx); err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	if _, err := s.publisher.Publish(ctx); err != nil {
		return fmt.Errorf("publish leaderboards: %w", err)
	}

	return nil
}
