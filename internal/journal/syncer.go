package journal

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"trading-journal-go/internal/gateway"
	"trading-journal-go/internal/models"
)

const defaultSyncTimeout = 15 * time.Second

// Syncer pushes trade snapshots to the remote store in the background.
// Delivery is best effort: a failed push is logged and dropped, never retried,
// and concurrent pushes may land in any order.
type Syncer struct {
	store   gateway.TradeStore
	logger  *zap.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewSyncer creates a Syncer. A non-positive timeout falls back to 15s.
func NewSyncer(store gateway.TradeStore, logger *zap.Logger, timeout time.Duration) *Syncer {
	if timeout <= 0 {
		timeout = defaultSyncTimeout
	}
	return &Syncer{store: store, logger: logger.Named("sync"), timeout: timeout}
}

// Push schedules an overwrite of the remote trade list with trades and returns immediately.
// The caller must not modify trades afterwards.
func (s *Syncer) Push(trades []models.Trade) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		// Detached from the caller: the push outlives the mutation that triggered it.
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		if err := s.store.SaveTrades(ctx, trades); err != nil {
			s.logger.Warn("Background sync failed", zap.Int("trades", len(trades)), zap.Error(err))
			return
		}
		s.logger.Debug("Background sync complete", zap.Int("trades", len(trades)))
	}()
}

// Wait blocks until every scheduled push has finished.
func (s *Syncer) Wait() {
	s.wg.Wait()
}
