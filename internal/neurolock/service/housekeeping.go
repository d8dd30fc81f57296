package service

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/neurolock/neurolock/internal/neurolock/nonce"
	"github.com/neurolock/neurolock/internal/neurolock/store"
)

// HousekeepingService periodically reclaims unredeemed challenge records and
// ages out old audit captures.
type HousekeepingService struct {
	Store    store.Store
	Nonces   *nonce.Store
	Logger   *slog.Logger
	Interval time.Duration

	// Grace must match the verifier's policy so the sweeper never reclaims
	// a record a grace-window submission could still redeem.
	Grace time.Duration

	// Retention bounds how long capture rows and their images survive.
	// Zero disables capture pruning.
	Retention time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a new housekeeping service with the given
// interval. If interval is 0 or negative, defaults to 1 minute.
func NewHousekeepingService(st store.Store, nonces *nonce.Store, logger *slog.Logger, interval, grace, retention time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Minute
	}

	return &HousekeepingService{
		Store:     st,
		Nonces:    nonces,
		Logger:    logger,
		Interval:  interval,
		Grace:     grace,
		Retention: retention,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start begins the background worker. Call Stop() to shut it down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop gracefully shuts down the background worker.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

// cleanup runs the sweeps. Failures in one sweep never stop the others.
func (s *HousekeepingService) cleanup() {
	if removed := s.Nonces.Sweep(time.Now(), s.Grace); removed > 0 {
		s.Logger.Debug("swept abandoned challenges", "removed", removed)
	}

	if s.Retention <= 0 {
		return
	}

	cutoff := time.Now().UTC().Add(-s.Retention)
	paths, err := s.Store.Captures().DeleteCapturesBefore(context.Background(), cutoff)
	if err != nil {
		s.Logger.Error("failed to prune capture rows", "error", err)
		return
	}
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			s.Logger.Warn("failed to remove capture image", "error", err, "path", p)
		}
	}
	if len(paths) > 0 {
		s.Logger.Debug("pruned old captures", "removed", len(paths))
	}
}
