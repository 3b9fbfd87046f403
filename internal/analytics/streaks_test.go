package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"trading-journal-go/internal/models"
)

func TestStreaks(t *testing.T) {
	trades := []models.Trade{
		trade("5", "2026-10-05", -10, 0),
		trade("1", "2026-10-01", 10, 0),
		trade("2", "2026-10-02", 10, 0),
		trade("3", "2026-10-02", 10, 0),
		trade("4", "2026-10-03", 0, 0),
		trade("6", "2026-10-06", -10, 0),
	}

	s := Streaks(trades)

	assert.Equal(t, 3, s.LongestWin)
	assert.Equal(t, 2, s.LongestLoss)
	assert.Equal(t, -2, s.Current)
	assert.Equal(t, StreakStats{}, Streaks(nil))
}

func TestStreaks_Runs(t *testing.T) {
	tests := []struct {
		name string
		pnls []float64
		want StreakStats
	}{
		{"empty", nil, StreakStats{}},
		{"all wins", []float64{1, 2, 3}, StreakStats{LongestWin: 3, Current: 3}},
		{"ends on losses", []float64{1, 1, -1, -1, -1}, StreakStats{LongestWin: 2, LongestLoss: 3, Current: -3}},
		{"breakeven resets", []float64{1, 1, 0, 1}, StreakStats{LongestWin: 2, Current: 1}},
		{"ends on breakeven", []float64{-1, 0}, StreakStats{LongestLoss: 1, Current: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trades := make([]models.Trade, len(tt.pnls))
			for i, pnl := range tt.pnls {
				trades[i] = trade(string(rune('a'+i)), "2026-10-01", pnl, 0)
			}
			assert.Equal(t, tt.want, Streaks(trades))
		})
	}
}

func TestStreaks_UsesDateOrder(t *testing.T) {
	// Inserted out of order: chronologically it is loss, win, win.
	trades := []models.Trade{
		trade("1", "2026-10-03", 5, 0),
		trade("2", "2026-10-01", -5, 0),
		trade("3", "2026-10-02", 5, 0),
	}

	assert.Equal(t, StreakStats{LongestWin: 2, LongestLoss: 1, Current: 2}, Streaks(trades))
}

func TestChronological_StableForSameDate(t *testing.T) {
	trades := []models.Trade{
		trade("b", "2026-10-02", 0, 0),
		trade("a1", "2026-10-01", 0, 0),
		trade("a2", "2026-10-01", 0, 0),
	}

	ordered := Chronological(trades)

	assert.Equal(t, []string{"a1", "a2", "b"}, []string{ordered[0].ID, ordered[1].ID, ordered[2].ID})
	assert.Equal(t, "b", trades[0].ID, "input is not reordered")
}
