package analytics

import (
	"strings"

	"trading-journal-go/internal/models"
)

// UncategorizedStrategy is the bucket for trades without a strategy tag.
const UncategorizedStrategy = "Uncategorized"

// StrategyStat aggregates the trades sharing a strategy tag.
type StrategyStat struct {
	Name    string  `json:"name"`
	Trades  int     `json:"trades"`
	Wins    int     `json:"wins"`
	PnL     float64 `json:"pnl"`
	WinRate float64 `json:"win_rate"`
}

// Leaderboard ranks strategies by usage and by P&L. The two leaders may differ.
type Leaderboard struct {
	Strategies     []StrategyStat `json:"strategies"`
	MostUsed       StrategyStat   `json:"most_used"`
	MostProfitable StrategyStat   `json:"most_profitable"`
}

// StrategyLeaderboard groups trades by strategy in first-encountered order.
// Ties resolve to the strategy encountered first.
func StrategyLeaderboard(trades []models.Trade) Leaderboard {
	index := make(map[string]int)
	stats := make([]StrategyStat, 0)
	for _, t := range trades {
		name := strings.TrimSpace(t.Strategy)
		if name == "" {
			name = UncategorizedStrategy
		}
		i, ok := index[name]
		if !ok {
			i = len(stats)
			index[name] = i
			stats = append(stats, StrategyStat{Name: name})
		}
		stats[i].Trades++
		stats[i].PnL += t.PnL
		if t.IsWin() {
			stats[i].Wins++
		}
	}

	lb := Leaderboard{Strategies: stats}
	for i := range stats {
		stats[i].WinRate = ratio(stats[i].Wins, stats[i].Trades)
		if i == 0 || stats[i].Trades > lb.MostUsed.Trades {
			lb.MostUsed = stats[i]
		}
		if i == 0 || stats[i].PnL > lb.MostProfitable.PnL {
			lb.MostProfitable = stats[i]
		}
	}
	return lb
}
