package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"
)

// Sweeper runs Manager.Sweep on a timer. Lazy sweeps inside Register and
// Confirm already guarantee correctness; the timer only bounds how long
// expired accounts linger while the service receives no traffic.
type Sweeper struct {
	manager  *Manager
	interval time.Duration
	logger   *slog.Logger
}

func NewSweeper(manager *Manager, interval time.Duration, logger *slog.Logger) (*Sweeper, error) {
	if manager == nil {
		return nil, errors.New("manager is required")
	}
	if interval <= 0 {
		return nil, errors.New("sweep interval must be positive")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Sweeper{manager: manager, interval: interval, logger: logger}, nil
}

// Run sweeps until the context is cancelled.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if removed := s.manager.Sweep(ctx); removed > 0 {
				s.logger.InfoContext(ctx, "periodic sweep removed expired accounts", "removed", removed)
			}
		}
	}
}
