package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"pmlbot/internal/domain"
)

type stubScanner struct {
	calls atomic.Int32
	err   error
}

func (s *stubScanner) Scan(context.Context) (*domain.ScanStats, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return &domain.ScanStats{}, nil
}

type stubPublisher struct {
	calls atomic.Int32
}

func (p *stubPublisher) Publish(context.Context) (*domain.LeaderboardStats, error) {
	p.calls.Add(1)
	return &domain.LeaderboardStats{}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestScheduler_RunsScanThenPublish(t *testing.T) {
	scanner := &stubScanner{}
	publisher := &stubPublisher{}
	sched := NewScheduler(scanner, publisher, time.Hour, testLogger())

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- sched.Start(ctx) }()

	// The first cycle runs immediately, before any tick.
	assert.Eventually(t, func() bool {
		return scanner.calls.Load() == 1 && publisher.calls.Load() == 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestScheduler_TicksAgain(t *testing.T) {
	scanner := &stubScanner{}
	publisher := &stubPublisher{}
	sched := NewScheduler(scanner, publisher, 10*time.Millisecond, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- sched.Start(ctx) }()

	assert.Eventually(t, func() bool {
		return scanner.calls.Load() >= 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}

type slowScanner struct {
	calls       atomic.Int32
	hadDeadline atomic.Bool
	delay       time.Duration
}

func (s *slowScanner) Scan(ctx context.Context) (*domain.ScanStats, error) {
	s.calls.Add(1)
	if _, ok := ctx.Deadline(); ok {
		s.hadDeadline.Store(true)
	}
	time.Sleep(s.delay)
	return &domain.ScanStats{}, nil
}

func TestScheduler_SlowCycleDoesNotAbort(t *testing.T) {
	// Cycles outlasting the tick interval stall the loop but never end it,
	// and no per-cycle deadline is imposed on the services.
	scanner := &slowScanner{delay: 30 * time.Millisecond}
	publisher := &stubPublisher{}
	sched := NewScheduler(scanner, publisher, 10*time.Millisecond, testLogger())

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- sched.Start(ctx) }()

	assert.Eventually(t, func() bool {
		return scanner.calls.Load() >= 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.False(t, scanner.hadDeadline.Load())
	assert.GreaterOrEqual(t, publisher.calls.Load(), int32(2))
}

func TestScheduler_ScanErrorStopsLoop(t *testing.T) {
	scanner := &stubScanner{err: errors.New("store unreachable")}
	publisher := &stubPublisher{}
	sched := NewScheduler(scanner, publisher, time.Hour, testLogger())

	err := sched.Start(context.Background())

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "store unreachable")
	assert.Equal(t, int32(0), publisher.calls.Load())
}
