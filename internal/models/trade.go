package models

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// DateLayout is the calendar-date format used as the grouping key for trades.
const DateLayout = "2006-01-02"

// ErrInvalidTrade is wrapped by every Trade validation failure.
var ErrInvalidTrade = errors.New("invalid trade")

// Side is the direction of a position.
type Side string

const (
	SideLong  Side = "Long"
	SideShort Side = "Short"
)

// Trade represents one executed position in the journal.
type Trade struct {
	ID         string   `json:"id"`
	Date       string   `json:"date"`
	Pair       string   `json:"pair"`
	Type       Side     `json:"type"`
	PnL        float64  `json:"pnl"`
	Fee        float64  `json:"fee,omitempty"`
	EntryTime  string   `json:"entryTime,omitempty"`
	ExitTime   string   `json:"exitTime,omitempty"`
	EntryPrice *float64 `json:"entryPrice,omitempty"`
	ExitPrice  *float64 `json:"exitPrice,omitempty"`
	Size       string   `json:"size,omitempty"` // free text, mixed units
	Strategy   string   `json:"strategy,omitempty"`
	NewsEvent  string   `json:"newsEvent,omitempty"`
	Notes      string   `json:"notes,omitempty"`
	Images     []string `json:"images,omitempty"`
	Image      string   `json:"image,omitempty"` // legacy single attachment
}

// NetPnL returns the trade's profit after fees.
func (t Trade) NetPnL() float64 {
	return t.PnL - t.Fee
}

// IsWin reports whether the trade closed with a strictly positive gross P&L.
func (t Trade) IsWin() bool { return t.PnL > 0 }

// IsLoss reports whether the trade closed with a strictly negative gross P&L.
func (t Trade) IsLoss() bool { return t.PnL < 0 }

// IsNewsDriven reports whether the trade was flagged against a news event.
func (t Trade) IsNewsDriven() bool {
	return strings.TrimSpace(t.NewsEvent) != ""
}

// Attachments merges the legacy single image with the image list.
func (t Trade) Attachments() []string {
	out := make([]string, 0, len(t.Images)+1)
	if t.Image != "" {
		out = append(out, t.Image)
	}
	for _, img := range t.Images {
		if img != "" && img != t.Image {
			out = append(out, img)
		}
	}
	return out
}

// DurationSeconds returns the elapsed time between entry and exit.
// An exit earlier in the day than the entry is treated as crossing midnight.
// ok is false when either time is missing or malformed.
func (t Trade) DurationSeconds() (seconds int, ok bool) {
	entry, ok := ParseClock(t.EntryTime)
	if !ok {
		return 0, false
	}
	exit, ok := ParseClock(t.ExitTime)
	if !ok {
		return 0, false
	}
	d := exit - entry
	if d < 0 {
		d += 24 * 60 * 60
	}
	return d, true
}

// Day parses the trade's date. ok is false for malformed dates.
func (t Trade) Day() (time.Time, bool) {
	d, err := time.Parse(DateLayout, t.Date)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// Normalize trims free-text fields and upper-cases the pair.
func (t *Trade) Normalize() {
	t.ID = strings.TrimSpace(t.ID)
	t.Date = strings.TrimSpace(t.Date)
	t.Pair = strings.ToUpper(strings.TrimSpace(t.Pair))
	t.Strategy = strings.TrimSpace(t.Strategy)
	t.EntryTime = strings.TrimSpace(t.EntryTime)
	t.ExitTime = strings.TrimSpace(t.ExitTime)
}

// Validate checks required fields and formats.
func (t Trade) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidTrade)
	}
	if _, ok := t.Day(); !ok {
		return fmt.Errorf("%w: date %q is not YYYY-MM-DD", ErrInvalidTrade, t.Date)
	}
	if strings.TrimSpace(t.Pair) == "" {
		return fmt.Errorf("%w: pair is required", ErrInvalidTrade)
	}
	if t.Type != SideLong && t.Type != SideShort {
		return fmt.Errorf("%w: type must be %s or %s, got %q", ErrInvalidTrade, SideLong, SideShort, t.Type)
	}
	if math.IsNaN(t.PnL) || math.IsInf(t.PnL, 0) {
		return fmt.Errorf("%w: pnl must be a finite number", ErrInvalidTrade)
	}
	if t.Fee < 0 || math.IsNaN(t.Fee) || math.IsInf(t.Fee, 0) {
		return fmt.Errorf("%w: fee must be a non-negative number", ErrInvalidTrade)
	}
	if t.EntryTime != "" {
		if _, ok := ParseClock(t.EntryTime); !ok {
			return fmt.Errorf("%w: entryTime %q is not HH:MM:SS", ErrInvalidTrade, t.EntryTime)
		}
	}
	if t.ExitTime != "" {
		if _, ok := ParseClock(t.ExitTime); !ok {
			return fmt.Errorf("%w: exitTime %q is not HH:MM:SS", ErrInvalidTrade, t.ExitTime)
		}
	}
	return nil
}

// ParseClock converts an HH:MM:SS (or HH:MM) wall-clock string into seconds since midnight.
func ParseClock(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	for _, layout := range []string{"15:04:05", "15:04"} {
		if c, err := time.Parse(layout, s); err == nil {
			return c.Hour()*3600 + c.Minute()*60 + c.Second(), true
		}
	}
	return 0, false
}
