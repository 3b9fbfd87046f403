// Package ledger derives the withdrawable balance from the trade list and
// enforces the payout limit rules. Balances are always recomputed from the full
// payout history.
package ledger

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"trading-journal-go/internal/analytics"
	"trading-journal-go/internal/models"
)

const (
	// SafetyBuffer is the balance a withdrawal should not dip below. Advisory only.
	SafetyBuffer = 2000.0
	// WithdrawalCeiling caps any single payout.
	WithdrawalCeiling = 5000.0
	// LimitRatio is the share of the current balance that may be withdrawn at once.
	LimitRatio = 0.5
	// LimitEpsilon absorbs floating-point error when comparing against the limit.
	LimitEpsilon = 0.001

	// MilestoneTiers is the number of equal progress tiers above the buffer.
	MilestoneTiers = 5
	// MinDisplayValue is the smallest ceiling of the progress scale.
	MinDisplayValue = 2750.0
	// DisplayStep is the granularity the progress scale ceiling is rounded up to.
	DisplayStep = 250.0
)

var (
	ErrInvalidAmount     = errors.New("amount must be a number")
	ErrNonPositiveAmount = errors.New("amount must be greater than zero")
	ErrPayoutNotFound    = errors.New("payout not found")
)

// LimitError rejects a payout above the allowed limit.
type LimitError struct {
	Requested float64
	Limit     float64
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("requested %.2f exceeds allowed limit of %.2f", e.Requested, e.Limit)
}

// Milestones are the thresholds of the balance progress scale.
type Milestones struct {
	Buffer     float64   `json:"buffer"`
	MaxDisplay float64   `json:"max_display"`
	Step       float64   `json:"step"`
	Tiers      []float64 `json:"tiers"`
}

// Summary is the derived state of the ledger.
type Summary struct {
	TotalNetPnL    float64    `json:"total_net_pnl"`
	TotalPaidOut   float64    `json:"total_paid_out"`
	CurrentBalance float64    `json:"current_balance"`
	AllowedLimit   float64    `json:"allowed_limit"`
	Milestones     Milestones `json:"milestones"`
}

// Quote is the outcome of validating a payout request.
type Quote struct {
	Amount           float64 `json:"amount"`
	ResultingBalance float64 `json:"resulting_balance"`
	BufferWarning    bool    `json:"buffer_warning"`
}

// Summarize derives balance and limit from trades and payouts.
func Summarize(trades []models.Trade, payouts []models.PayoutRecord) Summary {
	s := Summary{TotalNetPnL: analytics.TotalNetPnL(trades)}
	for _, p := range payouts {
		s.TotalPaidOut += p.Amount
	}
	s.CurrentBalance = math.Max(0, s.TotalNetPnL-s.TotalPaidOut)
	s.AllowedLimit = AllowedLimit(s.CurrentBalance)
	s.Milestones = MilestonesFor(s.CurrentBalance)
	return s
}

// AllowedLimit is the lesser of half the balance and WithdrawalCeiling, and 0
// for a non-positive balance.
func AllowedLimit(balance float64) float64 {
	if balance <= 0 {
		return 0
	}
	return math.Min(balance*LimitRatio, WithdrawalCeiling)
}

// MilestonesFor builds the progress scale for balance: the buffer followed by
// MilestoneTiers equal steps up to the display ceiling.
func MilestonesFor(balance float64) Milestones {
	maxDisplay := math.Max(MinDisplayValue, math.Ceil(balance/DisplayStep)*DisplayStep)
	step := (maxDisplay - SafetyBuffer) / MilestoneTiers
	tiers := make([]float64, MilestoneTiers)
	for i := range tiers {
		tiers[i] = SafetyBuffer + step*float64(i+1)
	}
	return Milestones{Buffer: SafetyBuffer, MaxDisplay: maxDisplay, Step: step, Tiers: tiers}
}

// BufferBreach reports whether withdrawing amount would leave less than SafetyBuffer.
func (s Summary) BufferBreach(amount float64) bool {
	return s.CurrentBalance-amount < SafetyBuffer
}

// Quote validates amount against the limit without changing anything.
func (s Summary) Quote(amount float64) (Quote, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Quote{}, ErrInvalidAmount
	}
	if amount <= 0 {
		return Quote{}, ErrNonPositiveAmount
	}
	if amount > s.AllowedLimit+LimitEpsilon {
		return Quote{}, &LimitError{Requested: amount, Limit: s.AllowedLimit}
	}
	return Quote{
		Amount:           amount,
		ResultingBalance: s.CurrentBalance - amount,
		BufferWarning:    s.BufferBreach(amount),
	}, nil
}

// ParseAmount reads a user-entered amount such as "1,250.50" or "$300".
func ParseAmount(input string) (float64, error) {
	cleaned := strings.NewReplacer(",", "", "$", "", " ", "").Replace(strings.TrimSpace(input))
	if cleaned == "" {
		return 0, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, input)
	}
	amount, _ := d.Float64()
	return amount, nil
}

// Submit validates amount and returns a new history with the payout appended.
// The input slice is never modified; on error it is returned unchanged.
func Submit(payouts []models.PayoutRecord, s Summary, amount float64, id string, at time.Time) ([]models.PayoutRecord, models.PayoutRecord, Quote, error) {
	q, err := s.Quote(amount)
	if err != nil {
		return payouts, models.PayoutRecord{}, Quote{}, err
	}
	record := models.PayoutRecord{ID: id, Amount: amount, Date: at}
	out := make([]models.PayoutRecord, 0, len(payouts)+1)
	out = append(out, payouts...)
	out = append(out, record)
	return out, record, q, nil
}

// Remove returns a new history without the payout identified by id.
func Remove(payouts []models.PayoutRecord, id string) ([]models.PayoutRecord, models.PayoutRecord, error) {
	for i, p := range payouts {
		if p.ID != id {
			continue
		}
		out := make([]models.PayoutRecord, 0, len(payouts)-1)
		out = append(out, payouts[:i]...)
		out = append(out, payouts[i+1:]...)
		return out, p, nil
	}
	return payouts, models.PayoutRecord{}, fmt.Errorf("%w: %s", ErrPayoutNotFound, id)
}
