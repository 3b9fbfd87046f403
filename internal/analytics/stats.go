// Package analytics derives journal statistics from a snapshot of trades.
// Every function is pure and total: it never mutates its input and returns
// zeroed results for an empty list.
package analytics

import "trading-journal-go/internal/models"

// ProfitFactorCap is reported as the profit factor when there are winning trades
// but no losing ones. The true ratio is unbounded in that case.
const ProfitFactorCap = 3.0

// Stats holds aggregate statistics for a set of trades.
type Stats struct {
	TradeCount   int          `json:"trade_count"`
	Wins         int          `json:"wins"`
	Losses       int          `json:"losses"`
	Breakeven    int          `json:"breakeven"`
	GrossPnL     float64      `json:"gross_pnl"`
	NetPnL       float64      `json:"net_pnl"`
	TotalFees    float64      `json:"total_fees"`
	GrossProfit  float64      `json:"gross_profit"`
	GrossLoss    float64      `json:"gross_loss"` // absolute value
	WinRate      float64      `json:"win_rate"`
	ProfitFactor float64      `json:"profit_factor"`
	AverageWin   float64      `json:"average_win"`
	AverageLoss  float64      `json:"average_loss"`
	BestTrade    models.Trade `json:"best_trade"`
	WorstTrade   models.Trade `json:"worst_trade"`
	BestDay      DayStat      `json:"best_day"`
	WorstDay     DayStat      `json:"worst_day"`
	NewsDriven   int          `json:"news_driven"`
}

// Summarize computes the full statistics block for trades.
func Summarize(trades []models.Trade) Stats {
	s := Stats{TradeCount: len(trades)}
	for _, t := range trades {
		s.GrossPnL += t.PnL
		s.NetPnL += t.NetPnL()
		s.TotalFees += t.Fee
		switch {
		case t.IsWin():
			s.Wins++
			s.GrossProfit += t.PnL
		case t.IsLoss():
			s.Losses++
			s.GrossLoss -= t.PnL
		default:
			s.Breakeven++
		}
		if t.IsNewsDriven() {
			s.NewsDriven++
		}
	}

	s.WinRate = ratio(s.Wins, s.TradeCount)
	s.ProfitFactor = ProfitFactorFrom(s.GrossProfit, s.GrossLoss)
	if s.Wins > 0 {
		s.AverageWin = s.GrossProfit / float64(s.Wins)
	}
	if s.Losses > 0 {
		s.AverageLoss = -s.GrossLoss / float64(s.Losses)
	}
	s.BestTrade, _ = BestTrade(trades)
	s.WorstTrade, _ = WorstTrade(trades)

	days := DailyBreakdown(trades)
	s.BestDay, _ = BestDay(days)
	s.WorstDay, _ = WorstDay(days)
	return s
}

// TotalPnL sums gross P&L.
func TotalPnL(trades []models.Trade) float64 {
	var total float64
	for _, t := range trades {
		total += t.PnL
	}
	return total
}

// TotalNetPnL sums P&L after fees.
func TotalNetPnL(trades []models.Trade) float64 {
	var total float64
	for _, t := range trades {
		total += t.NetPnL()
	}
	return total
}

// WinRate is the share of trades with positive P&L. Breakeven trades count
// toward the denominator only. An empty list yields 0.
func WinRate(trades []models.Trade) float64 {
	wins := 0
	for _, t := range trades {
		if t.IsWin() {
			wins++
		}
	}
	return ratio(wins, len(trades))
}

// ProfitFactor is gross profit over absolute gross loss, with ProfitFactorCap
// standing in when there are wins but no losses and 0 when there are neither.
func ProfitFactor(trades []models.Trade) float64 {
	var profit, loss float64
	for _, t := range trades {
		if t.IsWin() {
			profit += t.PnL
		} else if t.IsLoss() {
			loss -= t.PnL
		}
	}
	return ProfitFactorFrom(profit, loss)
}

// AverageWin is the mean P&L of winning trades, 0 when there are none.
func AverageWin(trades []models.Trade) float64 {
	return Summarize(trades).AverageWin
}

// AverageLoss is the mean (negative) P&L of losing trades, 0 when there are none.
func AverageLoss(trades []models.Trade) float64 {
	return Summarize(trades).AverageLoss
}

// BestTrade returns the first trade with the highest P&L.
func BestTrade(trades []models.Trade) (models.Trade, bool) {
	return extremeTrade(trades, func(a, b float64) bool { return a > b })
}

// WorstTrade returns the first trade with the lowest P&L.
func WorstTrade(trades []models.Trade) (models.Trade, bool) {
	return extremeTrade(trades, func(a, b float64) bool { return a < b })
}

func extremeTrade(trades []models.Trade, better func(a, b float64) bool) (models.Trade, bool) {
	if len(trades) == 0 {
		return models.Trade{}, false
	}
	best := trades[0]
	for _, t := range trades[1:] {
		if better(t.PnL, best.PnL) {
			best = t
		}
	}
	return best, true
}

// ProfitFactorFrom applies the profit factor rule to precomputed gross profit and
// absolute gross loss.
func ProfitFactorFrom(profit, loss float64) float64 {
	if loss == 0 {
		if profit == 0 {
			return 0
		}
		return ProfitFactorCap
	}
	return profit / loss
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}
