package core

import (
	"context"
	"time"

	"go.uber.org/zap"

	"investing-journal-go/internal/db"
)

// Sweeper reclaims staged uploads that were never committed or discarded:
// uploaded objects whose staging record has outlived the TTL are deleted
// from the store along with the record. Without it, an abandoned editing
// session that never calls discard leaks objects forever.
type Sweeper struct {
	stagedRepo db.StagedUploadRepository
	store      ObjectStore
	ttl        time.Duration
	interval   time.Duration
	logger     *zap.Logger
}

// NewSweeper creates a Sweeper.
func NewSweeper(sr db.StagedUploadRepository, store ObjectStore, ttl, interval time.Duration, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		stagedRepo: sr,
		store:      store,
		ttl:        ttl,
		interval:   interval,
		logger:     logger,
	}
}

// Run sweeps on a fixed interval until the context is cancelled. Sweep
// failures are logged and retried on the next tick, never fatal.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil {
				s.logger.Warn("staged upload sweep failed", zap.Error(err))
			}
		}
	}
}

// Sweep performs one reclamation pass.
func (s *Sweeper) Sweep(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-s.ttl)
	expired, err := s.stagedRepo.ListOlderThan(ctx, cutoff)
	if err != nil {
		return err
	}
	if len(expired) == 0 {
		return nil
	}

	keys := make([]string, 0, len(expired))
	for _, upload := range expired {
		keys = append(keys, upload.Key)
	}

	if err := s.store.DeleteMany(ctx, keys); err != nil {
		// Keep the staging records so the next pass retries these keys.
		return err
	}
	if err := s.stagedRepo.DeleteMany(ctx, keys); err != nil {
		return err
	}

	s.logger.Info("reclaimed abandoned staged uploads", zap.Int("count", len(keys)))
	return nil
}
