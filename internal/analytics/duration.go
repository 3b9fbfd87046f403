package analytics

import "trading-journal-go/internal/models"

// DurationStats summarises time in trade, in seconds.
// Only trades carrying both an entry and an exit time contribute.
type DurationStats struct {
	Samples     int     `json:"samples"`
	Average     float64 `json:"average_seconds"`
	AverageWin  float64 `json:"average_win_seconds"`
	AverageLoss float64 `json:"average_loss_seconds"`
}

// Durations computes time-in-trade averages overall, for winners and for losers.
func Durations(trades []models.Trade) DurationStats {
	var (
		all, win, loss    int
		sum, sumWin, sumL int
	)
	for _, t := range trades {
		d, ok := t.DurationSeconds()
		if !ok {
			continue
		}
		all++
		sum += d
		if t.IsWin() {
			win++
			sumWin += d
		} else if t.IsLoss() {
			loss++
			sumL += d
		}
	}

	ds := DurationStats{Samples: all}
	if all > 0 {
		ds.Average = float64(sum) / float64(all)
	}
	if win > 0 {
		ds.AverageWin = float64(sumWin) / float64(win)
	}
	if loss > 0 {
		ds.AverageLoss = float64(sumL) / float64(loss)
	}
	return ds
}
