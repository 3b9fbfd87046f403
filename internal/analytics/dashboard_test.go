package analytics

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"trading-journal-go/internal/models"
)

func TestActivityDensity(t *testing.T) {
	today := time.Date(2026, 10, 18, 14, 0, 0, 0, time.UTC)
	trades := []models.Trade{
		trade("1", "2026-10-18", 1, 0),
		trade("2", "2026-10-18", 1, 0),
		trade("3", "2026-10-16", 1, 0),
		trade("4", "2026-09-01", 1, 0),
	}

	counts := ActivityDensity(trades, today, 3)

	require.Len(t, counts, 3)
	assert.Equal(t, []DayCount{
		{Date: "2026-10-16", Count: 1},
		{Date: "2026-10-17", Count: 0},
		{Date: "2026-10-18", Count: 2},
	}, counts)

	assert.Len(t, ActivityDensity(nil, today, ActivityWindowDays), ActivityWindowDays)
	assert.Len(t, ActivityDensity(trades, today, ActivityWindowDays), ActivityWindowDays)
	assert.Empty(t, ActivityDensity(trades, today, 0))
}

func TestBuildDashboard(t *testing.T) {
	today := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	trades := []models.Trade{
		withStrategy(trade("1", "2026-10-14", 100, 2), "ORB"),
		trade("2", "2026-10-12", -40, 1),
		trade("3", "2026-10-02", 25, 0),
		trade("4", "2026-09-20", 10, 0),
	}

	d := BuildDashboard(trades, today)

	assert.Equal(t, 4, d.Overall.TradeCount)
	assert.Equal(t, 1, d.Today.TradeCount)
	assert.Equal(t, 2, d.ThisWeek.TradeCount)
	assert.Equal(t, 3, d.ThisMonth.TradeCount)
	assert.Len(t, d.Activity, ActivityWindowDays)
	assert.Equal(t, "ORB", d.Strategies.MostProfitable.Name)
}

func TestBuildDashboard_WeekStartsOnSunday(t *testing.T) {
	trades := []models.Trade{
		trade("1", "2026-10-01", 450, 10),
		trade("2", "2026-10-12", -120, 0),
		trade("3", "2026-10-18", 200, 5),
	}
	today := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC) // a Sunday

	d := BuildDashboard(trades, today)

	assert.Equal(t, 3, d.Overall.TradeCount)
	assert.Equal(t, 1, d.Today.TradeCount)
	assert.Equal(t, 1, d.ThisWeek.TradeCount)
	assert.Equal(t, 3, d.ThisMonth.TradeCount)
	require.Len(t, d.Daily, 3)
	require.Len(t, d.Monthly, 1)
	assert.Equal(t, 1, d.Streaks.Current)
	assert.Len(t, d.Activity, ActivityWindowDays)
}

func TestBuildDashboard_EmptyJournalEncodesEmptyLists(t *testing.T) {
	d := BuildDashboard(nil, time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC))

	assert.NotNil(t, d.Daily)
	assert.NotNil(t, d.Monthly)
	assert.NotNil(t, d.Strategies.Strategies)

	data, err := json.Marshal(d)
	require.NoError(t, err)
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.JSONEq(t, `[]`, string(raw["daily"]))
	assert.JSONEq(t, `[]`, string(raw["monthly"]))

	var strategies struct {
		Strategies json.RawMessage `json:"strategies"`
	}
	require.NoError(t, json.Unmarshal(raw["strategies"], &strategies))
	assert.JSONEq(t, `[]`, string(strategies.Strategies))
}
