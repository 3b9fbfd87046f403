package analytics

import (
	"time"

	"trading-journal-go/internal/models"
)

// Dashboard bundles every view the journal renders from one trade snapshot.
type Dashboard struct {
	Overall    Stats         `json:"overall"`
	Today      Stats         `json:"today"`
	ThisWeek   Stats         `json:"this_week"`
	ThisMonth  Stats         `json:"this_month"`
	Daily      []DayStat     `json:"daily"`
	Monthly    []MonthStat   `json:"monthly"`
	Streaks    StreakStats   `json:"streaks"`
	Strategies Leaderboard   `json:"strategies"`
	Durations  DurationStats `json:"durations"`
	Activity   []DayCount    `json:"activity"`
}

// BuildDashboard computes the dashboard relative to today.
func BuildDashboard(trades []models.Trade, today time.Time) Dashboard {
	return Dashboard{
		Overall:    Summarize(trades),
		Today:      Summarize(FilterDay(trades, today.Format(models.DateLayout))),
		ThisWeek:   Summarize(FilterWeek(trades, WeekStart(today))),
		ThisMonth:  Summarize(FilterMonth(trades, today.Format("2006-01"))),
		Daily:      DailyBreakdown(trades),
		Monthly:    MonthlyBreakdown(trades),
		Streaks:    Streaks(trades),
		Strategies: StrategyLeaderboard(trades),
		Durations:  Durations(trades),
		Activity:   ActivityDensity(trades, today, ActivityWindowDays),
	}
}
