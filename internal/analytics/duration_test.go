package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"trading-journal-go/internal/models"
)

func timed(tr models.Trade, entry, exit string) models.Trade {
	tr.EntryTime, tr.ExitTime = entry, exit
	return tr
}

func TestDurations(t *testing.T) {
	trades := []models.Trade{
		timed(trade("1", "2026-10-01", 100, 0), "09:30:00", "09:40:00"), // 600
		timed(trade("2", "2026-10-01", -50, 0), "23:55:00", "00:05:00"), // 600 across midnight
		timed(trade("3", "2026-10-01", -20, 0), "10:00:00", "10:30:00"), // 1800
		timed(trade("4", "2026-10-01", 0, 0), "11:00:00", "11:01:00"),   // 60
		timed(trade("5", "2026-10-01", 75, 0), "12:00:00", ""),          // excluded
	}

	d := Durations(trades)

	assert.Equal(t, 4, d.Samples)
	assert.InDelta(t, 765.0, d.Average, 1e-9)
	assert.InDelta(t, 600.0, d.AverageWin, 1e-9)
	assert.InDelta(t, 1200.0, d.AverageLoss, 1e-9)
	assert.Equal(t, DurationStats{}, Durations(nil))
}
