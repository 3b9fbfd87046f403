package psychology

import (
	"math"

	"trading-journal-go/internal/analytics"
	"trading-journal-go/internal/models"
)

const (
	// MomentumWindow is how many of the most recent trades feed the momentum term.
	MomentumWindow = 10
	// MomentumScale is the summed P&L that moves momentum from neutral to its bound.
	MomentumScale = 2000.0

	winRateWeight  = 0.35
	pfWeight       = 0.35
	momentumWeight = 0.30

	neutralComponent = 0.5
	neutralScore     = 50
)

// Index labels.
const (
	LabelExtremeFear  = "Extreme Fear"
	LabelFear         = "Fear"
	LabelNeutral      = "Neutral"
	LabelGreed        = "Greed"
	LabelExtremeGreed = "Extreme Greed"
)

// FearGreedIndex is the composite 0-100 sentiment score and its inputs.
type FearGreedIndex struct {
	Score            int     `json:"score"`
	Label            string  `json:"label"`
	WinRate          float64 `json:"win_rate"`
	ProfitFactorNorm float64 `json:"profit_factor_norm"`
	Momentum         float64 `json:"momentum"`
}

// HistoryPoint is the index as of the end of one trading date.
type HistoryPoint struct {
	Date  string `json:"date"`
	Score int    `json:"score"`
	Label string `json:"label"`
}

// FearGreed computes the index over all trades. An empty list yields the
// neutral midpoint for every component and a score of 50.
func FearGreed(trades []models.Trade) FearGreedIndex {
	if len(trades) == 0 {
		return neutralIndex()
	}
	var acc accumulator
	ordered := analytics.Chronological(trades)
	for _, t := range ordered {
		acc.add(t)
	}
	return acc.index(ordered)
}

// FearGreedHistory returns one point per distinct trade date, ascending, each
// computed from every trade up to and including that date.
func FearGreedHistory(trades []models.Trade) []HistoryPoint {
	ordered := analytics.Chronological(trades)
	points := make([]HistoryPoint, 0)
	var acc accumulator
	for i, t := range ordered {
		acc.add(t)
		if i+1 < len(ordered) && ordered[i+1].Date == t.Date {
			continue
		}
		idx := acc.index(ordered[:i+1])
		points = append(points, HistoryPoint{Date: t.Date, Score: idx.Score, Label: idx.Label})
	}
	return points
}

// Label maps a score to its band. Upper bounds are inclusive.
func Label(score int) string {
	switch {
	case score <= 25:
		return LabelExtremeFear
	case score <= 45:
		return LabelFear
	case score <= 55:
		return LabelNeutral
	case score <= 75:
		return LabelGreed
	default:
		return LabelExtremeGreed
	}
}

type accumulator struct {
	count, wins  int
	profit, loss float64
}

func (a *accumulator) add(t models.Trade) {
	a.count++
	if t.IsWin() {
		a.wins++
		a.profit += t.PnL
	} else if t.IsLoss() {
		a.loss -= t.PnL
	}
}

// index scores the accumulated trades; ordered is the same trades in chronological order.
func (a *accumulator) index(ordered []models.Trade) FearGreedIndex {
	if a.count == 0 {
		return neutralIndex()
	}
	winRate := float64(a.wins) / float64(a.count)
	pf := analytics.ProfitFactorFrom(a.profit, a.loss)
	pfNorm := math.Min(pf, analytics.ProfitFactorCap) / analytics.ProfitFactorCap

	recent := ordered[max(0, len(ordered)-MomentumWindow):]
	momentum := clamp(analytics.TotalPnL(recent)/MomentumScale+0.5, 0, 1)

	raw := winRate*winRateWeight + pfNorm*pfWeight + momentum*momentumWeight
	score := int(clamp(math.Round(raw*100), 0, 100))
	return FearGreedIndex{
		Score:            score,
		Label:            Label(score),
		WinRate:          winRate,
		ProfitFactorNorm: pfNorm,
		Momentum:         momentum,
	}
}

func neutralIndex() FearGreedIndex {
	return FearGreedIndex{
		Score:            neutralScore,
		Label:            Label(neutralScore),
		WinRate:          neutralComponent,
		ProfitFactorNorm: neutralComponent,
		Momentum:         neutralComponent,
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
