package analytics

import (
	"time"

	"trading-journal-go/internal/models"
)

// ActivityWindowDays is the trailing window used by the dashboard heatmap.
const ActivityWindowDays = 30

// DayCount is the number of trades on one calendar date.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// ActivityDensity counts trades per day over the days ending at today (inclusive),
// oldest first. Days without trades are reported with a zero count.
func ActivityDensity(trades []models.Trade, today time.Time, days int) []DayCount {
	if days <= 0 {
		return []DayCount{}
	}
	counts := make(map[string]int, len(trades))
	for _, t := range trades {
		counts[t.Date]++
	}

	y, m, d := today.Date()
	end := time.Date(y, m, d, 0, 0, 0, 0, today.Location())
	out := make([]DayCount, 0, days)
	for i := days - 1; i >= 0; i-- {
		date := end.AddDate(0, 0, -i).Format(models.DateLayout)
		out = append(out, DayCount{Date: date, Count: counts[date]})
	}
	return out
}
