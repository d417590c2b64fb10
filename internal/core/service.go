package core

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"listfilter/internal/metrics"
	"listfilter/internal/storage"
)

// Service runs the background work of the list filter service: pruning run
// history older than the retention window.
type Service struct {
	name       string
	runs       storage.RunStore
	interval   time.Duration
	retention  time.Duration
	logger     *slog.Logger
	mu         sync.RWMutex
	running    bool
	stopCh     chan struct{}
	stopOnce   sync.Once
	shutdownFn func(ctx context.Context) error
}

type ServiceConfig struct {
	Name       string
	Runs       storage.RunStore
	Interval   time.Duration
	Retention  time.Duration
	Logger     *slog.Logger
	ShutdownFn func(ctx context.Context) error
}

func NewService(config ServiceConfig) *Service {
	if config.Interval == 0 {
		config.Interval = time.Hour
	}
	if config.Retention == 0 {
		config.Retention = 30 * 24 * time.Hour
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &Service{
		name:       config.Name,
		runs:       config.Runs,
		interval:   config.Interval,
		retention:  config.Retention,
		logger:     config.Logger.With("service", config.Name),
		stopCh:     make(chan struct{}),
		shutdownFn: config.ShutdownFn,
	}
}

// Start blocks until ctx is cancelled or Stop is called, pruning once up
// front and then on every interval.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("service already running")
	}
	s.running = true
	s.mu.Unlock()

	defer s.markStopped()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.prune(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stopCh:
			return nil
		case <-ticker.C:
			s.prune(ctx)
		}
	}
}

func (s *Service) prune(ctx context.Context) {
	if s.runs == nil {
		return
	}

	removed, err := s.runs.DeleteOlderThan(ctx, s.retention)
	if err != nil {
		s.logger.Error("Failed to prune run history", "error", err)
		return
	}

	if removed > 0 {
		metrics.RunsPrunedTotal.Add(float64(removed))
		s.logger.Info("Pruned run history", "removed", removed, "retention", s.retention.String())
	}
}

// Stop ends the retention loop and runs the shutdown hook. It is safe to
// call more than once.
func (s *Service) Stop(ctx context.Context) error {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	s.mu.Lock()
	fn := s.shutdownFn
	s.shutdownFn = nil
	s.mu.Unlock()

	if fn != nil {
		if err := fn(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
	}

	return nil
}

func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

func (s *Service) Name() string {
	return s.name
}

func (s *Service) markStopped() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}
