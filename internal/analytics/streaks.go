package analytics

import (
	"sort"

	"trading-journal-go/internal/models"
)

// StreakStats describes consecutive win/loss runs in chronological order.
// Current is positive for an ongoing win streak and negative for a loss streak.
type StreakStats struct {
	LongestWin  int `json:"longest_win"`
	LongestLoss int `json:"longest_loss"`
	Current     int `json:"current"`
}

// Chronological returns a copy of trades ordered by date. Trades sharing a date
// keep their insertion order.
func Chronological(trades []models.Trade) []models.Trade {
	out := make([]models.Trade, len(trades))
	copy(out, trades)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// Streaks walks trades chronologically. Breakeven trades end any running streak.
func Streaks(trades []models.Trade) StreakStats {
	var s StreakStats
	for _, t := range Chronological(trades) {
		switch {
		case t.IsWin():
			if s.Current < 0 {
				s.Current = 0
			}
			s.Current++
			s.LongestWin = max(s.LongestWin, s.Current)
		case t.IsLoss():
			if s.Current > 0 {
				s.Current = 0
			}
			s.Current--
			s.LongestLoss = max(s.LongestLoss, -s.Current)
		default:
			s.Current = 0
		}
	}
	return s
}
