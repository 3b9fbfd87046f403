// Package journal holds the application session: the trade and payout lists,
// the mutations applied to them, and their persistence.
package journal

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"trading-journal-go/internal/analytics"
	"trading-journal-go/internal/gateway"
	"trading-journal-go/internal/ledger"
	"trading-journal-go/internal/logger"
	"trading-journal-go/internal/models"
	"trading-journal-go/internal/psychology"
)

// maxActivity bounds the in-memory activity feed.
const maxActivity = 100

var (
	ErrTradeNotFound = errors.New("trade not found")
	ErrNotConfirmed  = errors.New("payout removal was not confirmed")
	ErrNoRemote      = errors.New("no remote store configured")
)

// LocalStore is the on-device mirror of the session lists.
type LocalStore interface {
	LoadTrades(ctx context.Context) ([]models.Trade, error)
	SaveTrades(ctx context.Context, trades []models.Trade) error
	LoadPayouts(ctx context.Context) ([]models.PayoutRecord, error)
	SavePayouts(ctx context.Context, payouts []models.PayoutRecord) error
}

// Session owns the trade list and payout history for one user.
// Derived views are recomputed from a snapshot on every call.
type Session struct {
	mu       sync.RWMutex
	trades   []models.Trade
	payouts  []models.PayoutRecord
	activity []models.ActivityLog

	local  LocalStore
	remote gateway.TradeStore
	syncer *Syncer
	logger *zap.Logger

	now   func() time.Time
	newID func() string
}

// NewSession creates an empty session. local and remote may be nil, which
// disables the corresponding persistence.
func NewSession(log *zap.Logger, local LocalStore, remote gateway.TradeStore, syncTimeout time.Duration) *Session {
	s := &Session{
		trades:  []models.Trade{},
		payouts: []models.PayoutRecord{},
		local:   local,
		remote:  remote,
		logger:  log.Named("journal"),
		now:     time.Now,
		newID:   uuid.NewString,
	}
	if remote != nil {
		s.syncer = NewSyncer(remote, log, syncTimeout)
	}
	return s
}

// Load fills the session from the local cache and then the remote store.
// Non-empty remote data supersedes the cache. Unreadable sources are logged
// and skipped, leaving empty defaults.
func (s *Session) Load(ctx context.Context) {
	trades := []models.Trade{}
	payouts := []models.PayoutRecord{}

	if s.local != nil {
		if cached, err := s.local.LoadTrades(ctx); err != nil {
			s.logger.Warn("Ignoring unreadable cached trades", zap.Error(err))
		} else {
			trades = cached
		}
		if cached, err := s.local.LoadPayouts(ctx); err != nil {
			s.logger.Warn("Ignoring unreadable cached payouts", zap.Error(err))
		} else {
			payouts = cached
		}
	}

	fromRemote := false
	if s.remote != nil {
		remote, err := s.remote.FetchTrades(ctx)
		switch {
		case err != nil:
			s.logger.Warn("Remote trades unavailable, using local cache", zap.Error(err))
		case len(remote) > 0:
			trades = remote
			fromRemote = true
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.trades = trades
	s.payouts = payouts
	if fromRemote {
		s.saveLocalTrades(ctx)
	}
	s.logger.Info("Session loaded",
		zap.Int("trades", len(trades)),
		zap.Int("payouts", len(payouts)),
		zap.Bool("remote", fromRemote))
}

// Trades returns a copy of the trade list in insertion order.
func (s *Session) Trades() []models.Trade {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneTrades(s.trades)
}

// Payouts returns a copy of the payout history.
func (s *Session) Payouts() []models.PayoutRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.PayoutRecord{}, s.payouts...)
}

// Activity returns the activity feed, oldest first.
func (s *Session) Activity() []models.ActivityLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.ActivityLog{}, s.activity...)
}

// Trade returns the trade with id.
func (s *Session) Trade(id string) (models.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return models.Trade{}, fmt.Errorf("%w: %s", ErrTradeNotFound, id)
	}
	return s.trades[i], nil
}

// AddTrade assigns a fresh id to t, validates it and appends it.
func (s *Session) AddTrade(ctx context.Context, t models.Trade) (models.Trade, error) {
	t.ID = s.newID()
	t.Normalize()
	if err := t.Validate(); err != nil {
		return models.Trade{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.trades = append(s.trades, t)
	s.record(models.ActionTradeAdded, t.ID, fmt.Sprintf("Added %s %s trade on %s", t.Pair, t.Type, t.Date))
	s.logger.Info("Trade added", logger.Trade(t))
	s.tradesChanged(ctx)
	return t, nil
}

// UpdateTrade replaces the stored trade with the same id.
func (s *Session) UpdateTrade(ctx context.Context, t models.Trade) (models.Trade, error) {
	t.Normalize()
	if err := t.Validate(); err != nil {
		return models.Trade{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(t.ID)
	if i < 0 {
		return models.Trade{}, fmt.Errorf("%w: %s", ErrTradeNotFound, t.ID)
	}
	s.trades = cloneTrades(s.trades)
	s.trades[i] = t
	s.record(models.ActionTradeUpdated, t.ID, fmt.Sprintf("Updated %s trade on %s", t.Pair, t.Date))
	s.logger.Info("Trade updated", logger.Trade(t))
	s.tradesChanged(ctx)
	return t, nil
}

// DeleteTrade removes the trade with id. Deletion is immediate and irreversible.
func (s *Session) DeleteTrade(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrTradeNotFound, id)
	}
	removed := s.trades[i]
	next := make([]models.Trade, 0, len(s.trades)-1)
	next = append(next, s.trades[:i]...)
	s.trades = append(next, s.trades[i+1:]...)
	s.record(models.ActionTradeDeleted, id, fmt.Sprintf("Deleted %s trade on %s", removed.Pair, removed.Date))
	s.logger.Info("Trade deleted", logger.Trade(removed))
	s.tradesChanged(ctx)
	return nil
}

// AttachImage uploads an attachment and appends its URL to the trade's images.
func (s *Session) AttachImage(ctx context.Context, tradeID, filename string, body []byte) (string, error) {
	if s.remote == nil {
		return "", ErrNoRemote
	}
	if _, err := s.Trade(tradeID); err != nil {
		return "", err
	}

	url, err := s.remote.Upload(ctx, filename, body)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(tradeID)
	if i < 0 {
		// Deleted while the upload was in flight.
		return "", fmt.Errorf("%w: %s", ErrTradeNotFound, tradeID)
	}
	s.trades = cloneTrades(s.trades)
	s.trades[i].Images = append(append([]string{}, s.trades[i].Images...), url)
	s.record(models.ActionImageAttached, tradeID, fmt.Sprintf("Attached %s", filename))
	s.tradesChanged(ctx)
	return url, nil
}

// Ledger returns the current payout ledger summary.
func (s *Session) Ledger() ledger.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ledger.Summarize(s.trades, s.payouts)
}

// QuotePayout validates a withdrawal request without recording it.
func (s *Session) QuotePayout(amountText string) (ledger.Quote, error) {
	amount, err := ledger.ParseAmount(amountText)
	if err != nil {
		return ledger.Quote{}, err
	}
	return s.Ledger().Quote(amount)
}

// SubmitPayout records a withdrawal of amountText if it is within the allowed limit.
// The returned quote carries the advisory buffer warning.
func (s *Session) SubmitPayout(ctx context.Context, amountText string) (models.PayoutRecord, ledger.Quote, error) {
	amount, err := ledger.ParseAmount(amountText)
	if err != nil {
		return models.PayoutRecord{}, ledger.Quote{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	summary := ledger.Summarize(s.trades, s.payouts)
	payouts, record, quote, err := ledger.Submit(s.payouts, summary, amount, s.newID(), s.now().UTC())
	if err != nil {
		return models.PayoutRecord{}, ledger.Quote{}, err
	}
	s.payouts = payouts
	s.record(models.ActionPayoutCreated, record.ID, fmt.Sprintf("Withdrew %.2f", record.Amount))
	if quote.BufferWarning {
		s.logger.Warn("Payout leaves balance below safety buffer",
			logger.Payout(record),
			zap.Float64("resulting_balance", quote.ResultingBalance),
			zap.Float64("buffer", ledger.SafetyBuffer))
	} else {
		s.logger.Info("Payout recorded", logger.Payout(record))
	}
	s.saveLocalPayouts(ctx)
	return record, quote, nil
}

// RemovePayout deletes a payout record. confirmed must be true.
func (s *Session) RemovePayout(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return ErrNotConfirmed
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	payouts, removed, err := ledger.Remove(s.payouts, id)
	if err != nil {
		return err
	}
	s.payouts = payouts
	s.record(models.ActionPayoutRemoved, id, fmt.Sprintf("Removed payout of %.2f", removed.Amount))
	s.logger.Info("Payout removed", logger.Payout(removed))
	s.saveLocalPayouts(ctx)
	return nil
}

// View is every derived display computed from one snapshot.
type View struct {
	Analytics  analytics.Dashboard       `json:"analytics"`
	Psychology psychology.Breakdown      `json:"psychology"`
	FearGreed  psychology.FearGreedIndex `json:"fear_greed"`
	History    []psychology.HistoryPoint `json:"fear_greed_history"`
	Ledger     ledger.Summary            `json:"ledger"`
}

// Dashboard computes the full view relative to today.
func (s *Session) Dashboard(today time.Time) View {
	s.mu.RLock()
	trades, payouts := s.trades, s.payouts
	s.mu.RUnlock()

	return View{
		Analytics:  analytics.BuildDashboard(trades, today),
		Psychology: psychology.Analyze(trades),
		FearGreed:  psychology.FearGreed(trades),
		History:    psychology.FearGreedHistory(trades),
		Ledger:     ledger.Summarize(trades, payouts),
	}
}

// Close waits for in-flight background syncs.
func (s *Session) Close() {
	if s.syncer != nil {
		s.syncer.Wait()
	}
}

// The helpers below expect s.mu to be held.

func (s *Session) indexOf(id string) int {
	for i, t := range s.trades {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (s *Session) record(action models.ActivityAction, subject, message string) {
	s.activity = append(s.activity, models.ActivityLog{
		ID:      s.newID(),
		Action:  action,
		Subject: subject,
		Message: message,
		At:      s.now().UTC(),
	})
	if len(s.activity) > maxActivity {
		s.activity = append([]models.ActivityLog{}, s.activity[len(s.activity)-maxActivity:]...)
	}
}

func (s *Session) tradesChanged(ctx context.Context) {
	s.saveLocalTrades(ctx)
	if s.syncer != nil {
		s.syncer.Push(cloneTrades(s.trades))
	}
}

func (s *Session) saveLocalTrades(ctx context.Context) {
	if s.local == nil {
		return
	}
	if err := s.local.SaveTrades(ctx, s.trades); err != nil {
		s.logger.Error("Failed to mirror trades to local cache", zap.Error(err))
	}
}

func (s *Session) saveLocalPayouts(ctx context.Context) {
	if s.local == nil {
		return
	}
	if err := s.local.SavePayouts(ctx, s.payouts); err != nil {
		s.logger.Error("Failed to mirror payouts to local cache", zap.Error(err))
	}
}

func cloneTrades(trades []models.Trade) []models.Trade {
	return append(make([]models.Trade, 0, len(trades)), trades...)
}
