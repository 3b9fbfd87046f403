package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"trading-journal-go/internal/models"
)

func TestFilters(t *testing.T) {
	trades := []models.Trade{
		trade("1", "2026-09-30", 10, 0),
		trade("2", "2026-10-01", 20, 0),
		trade("3", "2026-10-04", 30, 0),
		trade("4", "2026-10-05", 40, 0),
		trade("5", "2026-11-01", 50, 0),
	}

	assert.Len(t, FilterDay(trades, "2026-10-01"), 1)
	assert.Equal(t, 90.0, TotalPnL(FilterMonth(trades, "2026-10")))
	assert.Empty(t, FilterMonth(trades, "2025-10"))

	start := time.Date(2026, 9, 29, 0, 0, 0, 0, time.UTC)
	week := FilterWeek(trades, start) // 09-29 .. 10-05
	assert.Len(t, week, 4)

	rng := FilterRange(trades, time.Date(2026, 10, 4, 0, 0, 0, 0, time.UTC), time.Date(2026, 10, 4, 0, 0, 0, 0, time.UTC))
	require.Len(t, rng, 1)
	assert.Equal(t, "3", rng[0].ID)
}

func TestWeekStart(t *testing.T) {
	wed := time.Date(2026, 10, 14, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 10, 11, 0, 0, 0, 0, time.UTC), WeekStart(wed))

	sun := time.Date(2026, 10, 11, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 10, 11, 0, 0, 0, 0, time.UTC), WeekStart(sun))
}

func TestDailyBreakdown_BestAndWorstDay(t *testing.T) {
	trades := []models.Trade{
		trade("1", "2026-10-03", 100, 1),
		trade("2", "2026-10-01", 60, 0),
		trade("3", "2026-10-01", 40, 0),
		trade("4", "2026-10-02", -30, 0),
		trade("5", "2026-10-04", -30, 0),
	}

	days := DailyBreakdown(trades)
	require.Len(t, days, 4)
	assert.Equal(t, "2026-10-03", days[0].Date)
	assert.Equal(t, 2, days[1].Trades)
	assert.Equal(t, 99.0, days[0].NetPnL)

	best, ok := BestDay(days)
	require.True(t, ok)
	assert.Equal(t, "2026-10-03", best.Date, "tie on 100 resolves to first encountered day")

	worst, ok := WorstDay(days)
	require.True(t, ok)
	assert.Equal(t, "2026-10-02", worst.Date)

	_, ok = BestDay(nil)
	assert.False(t, ok)
}

func TestMonthlyBreakdown(t *testing.T) {
	trades := []models.Trade{
		trade("1", "2026-10-03", 100, 0),
		trade("2", "2026-09-01", -60, 0),
		trade("3", "2026-10-09", -50, 0),
	}

	months := MonthlyBreakdown(trades)
	require.Len(t, months, 2)
	assert.Equal(t, MonthStat{Month: "2026-10", Trades: 2, PnL: 50, NetPnL: 50, WinRate: 0.5}, months[0])
	assert.Equal(t, "2026-09", months[1].Month)
	assert.Empty(t, MonthlyBreakdown(nil))
}
