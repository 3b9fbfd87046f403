package analytics

import (
	"strings"
	"time"

	"trading-journal-go/internal/models"
)

// DayStat aggregates the trades of one calendar date.
type DayStat struct {
	Date   string  `json:"date"`
	Trades int     `json:"trades"`
	Wins   int     `json:"wins"`
	PnL    float64 `json:"pnl"`
	NetPnL float64 `json:"net_pnl"`
}

// MonthStat aggregates the trades of one calendar month (YYYY-MM).
type MonthStat struct {
	Month   string  `json:"month"`
	Trades  int     `json:"trades"`
	PnL     float64 `json:"pnl"`
	NetPnL  float64 `json:"net_pnl"`
	WinRate float64 `json:"win_rate"`
}

// FilterDay keeps trades dated exactly date (YYYY-MM-DD).
func FilterDay(trades []models.Trade, date string) []models.Trade {
	return filter(trades, func(t models.Trade) bool { return t.Date == date })
}

// FilterMonth keeps trades whose date falls in month (YYYY-MM).
func FilterMonth(trades []models.Trade, month string) []models.Trade {
	prefix := month + "-"
	return filter(trades, func(t models.Trade) bool { return strings.HasPrefix(t.Date, prefix) })
}

// FilterRange keeps trades dated within [from, to], both inclusive, compared by calendar date.
func FilterRange(trades []models.Trade, from, to time.Time) []models.Trade {
	lo, hi := from.Format(models.DateLayout), to.Format(models.DateLayout)
	return filter(trades, func(t models.Trade) bool {
		if _, ok := t.Day(); !ok {
			return false
		}
		return t.Date >= lo && t.Date <= hi
	})
}

// FilterWeek keeps trades within the seven days starting at start.
func FilterWeek(trades []models.Trade, start time.Time) []models.Trade {
	return FilterRange(trades, start, start.AddDate(0, 0, 6))
}

// WeekStart returns the Sunday that opens the calendar week containing day.
func WeekStart(day time.Time) time.Time {
	y, m, d := day.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	return midnight.AddDate(0, 0, -int(midnight.Weekday()))
}

// DailyBreakdown groups trades by date in first-encountered order.
func DailyBreakdown(trades []models.Trade) []DayStat {
	index := make(map[string]int)
	days := make([]DayStat, 0)
	for _, t := range trades {
		i, ok := index[t.Date]
		if !ok {
			i = len(days)
			index[t.Date] = i
			days = append(days, DayStat{Date: t.Date})
		}
		days[i].Trades++
		days[i].PnL += t.PnL
		days[i].NetPnL += t.NetPnL()
		if t.IsWin() {
			days[i].Wins++
		}
	}
	return days
}

// BestDay returns the first day with the highest summed P&L.
func BestDay(days []DayStat) (DayStat, bool) {
	return extremeDay(days, func(a, b float64) bool { return a > b })
}

// WorstDay returns the first day with the lowest summed P&L.
func WorstDay(days []DayStat) (DayStat, bool) {
	return extremeDay(days, func(a, b float64) bool { return a < b })
}

func extremeDay(days []DayStat, better func(a, b float64) bool) (DayStat, bool) {
	if len(days) == 0 {
		return DayStat{}, false
	}
	best := days[0]
	for _, d := range days[1:] {
		if better(d.PnL, best.PnL) {
			best = d
		}
	}
	return best, true
}

// MonthlyBreakdown groups trades by YYYY-MM in first-encountered order.
func MonthlyBreakdown(trades []models.Trade) []MonthStat {
	index := make(map[string]int)
	wins := make(map[string]int)
	months := make([]MonthStat, 0)
	for _, t := range trades {
		month := t.Date
		if len(month) >= 7 {
			month = month[:7]
		}
		i, ok := index[month]
		if !ok {
			i = len(months)
			index[month] = i
			months = append(months, MonthStat{Month: month})
		}
		months[i].Trades++
		months[i].PnL += t.PnL
		months[i].NetPnL += t.NetPnL()
		if t.IsWin() {
			wins[month]++
		}
	}
	for i := range months {
		months[i].WinRate = ratio(wins[months[i].Month], months[i].Trades)
	}
	return months
}

func filter(trades []models.Trade, keep func(models.Trade) bool) []models.Trade {
	out := make([]models.Trade, 0, len(trades))
	for _, t := range trades {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}
