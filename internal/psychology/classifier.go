// Package psychology scores trader psychology from journal notes and results.
package psychology

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"trading-journal-go/internal/models"
)

// Emotion is the single psychological category assigned to a trade.
type Emotion string

const (
	EmotionFear        Emotion = "Fear"
	EmotionGreed       Emotion = "Greed"
	EmotionFOMO        Emotion = "FOMO"
	EmotionRevenge     Emotion = "Revenge"
	EmotionFlow        Emotion = "Flow"
	EmotionDisciplined Emotion = "Disciplined"
	EmotionNeutral     Emotion = "Neutral"
)

// Emotions lists every category in reporting order.
var Emotions = []Emotion{
	EmotionFear, EmotionGreed, EmotionFOMO, EmotionRevenge,
	EmotionFlow, EmotionDisciplined, EmotionNeutral,
}

// KeywordRule maps a lower-case substring of a note to a category.
type KeywordRule struct {
	Keyword string
	Emotion Emotion
}

// KeywordTable is scanned top to bottom and the first keyword found at the start
// of a word in the note decides the category. Order matters: "fear of missing
// out" must resolve to FOMO, not Fear. Keywords match as word prefixes, so
// "frustrat" covers "frustrated" while "flow" does not match "cashflow".
// Negation is not modelled: "didn't follow my plan" is still Disciplined.
var KeywordTable = []KeywordRule{
	{"fomo", EmotionFOMO},
	{"missing out", EmotionFOMO},
	{"missed out", EmotionFOMO},
	{"chasing", EmotionFOMO},
	{"chased", EmotionFOMO},
	{"jumped in", EmotionFOMO},
	{"late entry", EmotionFOMO},
	{"impulsive", EmotionFOMO},

	{"revenge", EmotionRevenge},
	{"tilt", EmotionRevenge},
	{"angry", EmotionRevenge},
	{"frustrat", EmotionRevenge},
	{"get it back", EmotionRevenge},
	{"make it back", EmotionRevenge},

	{"panic", EmotionFear},
	{"scared", EmotionFear},
	{"afraid", EmotionFear},
	{"fear", EmotionFear},
	{"nervous", EmotionFear},
	{"anxious", EmotionFear},
	{"hesitat", EmotionFear},
	{"early exit", EmotionFear},
	{"exited early", EmotionFear},
	{"cut it early", EmotionFear},

	{"greed", EmotionGreed},
	{"oversiz", EmotionGreed},
	{"overleverag", EmotionGreed},
	{"too big", EmotionGreed},
	{"held too long", EmotionGreed},
	{"didn't take profit", EmotionGreed},
	{"moved my target", EmotionGreed},

	{"flow", EmotionFlow},
	{"in the zone", EmotionFlow},
	{"effortless", EmotionFlow},
	{"calm", EmotionFlow},
	{"focused", EmotionFlow},
	{"confident", EmotionFlow},

	{"plan", EmotionDisciplined},
	{"patient", EmotionDisciplined},
	{"patience", EmotionDisciplined},
	{"disciplin", EmotionDisciplined},
	{"rules", EmotionDisciplined},
	{"stop loss", EmotionDisciplined},
	{"waited", EmotionDisciplined},
	{"setup", EmotionDisciplined},
}

// Classify assigns exactly one category to a note. Notes with no keyword are Neutral.
func Classify(notes string) Emotion {
	text := strings.ToLower(notes)
	if strings.TrimSpace(text) == "" {
		return EmotionNeutral
	}
	for _, rule := range KeywordTable {
		if containsWordPrefix(text, rule.Keyword) {
			return rule.Emotion
		}
	}
	return EmotionNeutral
}

// containsWordPrefix reports whether keyword occurs in text starting at a word boundary.
func containsWordPrefix(text, keyword string) bool {
	for from := 0; from <= len(text); {
		i := strings.Index(text[from:], keyword)
		if i < 0 {
			return false
		}
		i += from
		if i == 0 {
			return true
		}
		prev, _ := utf8.DecodeLastRuneInString(text[:i])
		if !unicode.IsLetter(prev) && !unicode.IsDigit(prev) {
			return true
		}
		from = i + 1
	}
	return false
}

// IsEmotional reports whether e is one of the negative-bias categories.
func IsEmotional(e Emotion) bool {
	switch e {
	case EmotionFear, EmotionGreed, EmotionFOMO, EmotionRevenge:
		return true
	}
	return false
}

// IsDisciplined reports whether e counts toward the discipline score.
func IsDisciplined(e Emotion) bool {
	return e == EmotionFlow || e == EmotionDisciplined
}

// CategoryStat aggregates the trades tagged with one category.
type CategoryStat struct {
	Emotion Emotion `json:"emotion"`
	Trades  int     `json:"trades"`
	PnL     float64 `json:"pnl"`
}

// Breakdown is the per-category view of a trade list.
type Breakdown struct {
	Categories      []CategoryStat `json:"categories"`
	EmotionalCost   float64        `json:"emotional_cost"`
	DisciplinedPnL  float64        `json:"disciplined_pnl"`
	DisciplineScore float64        `json:"discipline_score"` // percent of trades
}

// Analyze classifies every trade and aggregates the results. All categories are
// reported, in Emotions order, even when empty.
func Analyze(trades []models.Trade) Breakdown {
	index := make(map[Emotion]int, len(Emotions))
	b := Breakdown{Categories: make([]CategoryStat, len(Emotions))}
	for i, e := range Emotions {
		index[e] = i
		b.Categories[i].Emotion = e
	}

	disciplined := 0
	for _, t := range trades {
		e := Classify(t.Notes)
		c := &b.Categories[index[e]]
		c.Trades++
		c.PnL += t.PnL
		if IsEmotional(e) {
			b.EmotionalCost += t.PnL
		}
		if IsDisciplined(e) {
			b.DisciplinedPnL += t.PnL
			disciplined++
		}
	}
	if len(trades) > 0 {
		b.DisciplineScore = float64(disciplined) / float64(len(trades)) * 100
	}
	return b
}

// Category returns the stat for e.
func (b Breakdown) Category(e Emotion) CategoryStat {
	for _, c := range b.Categories {
		if c.Emotion == e {
			return c
		}
	}
	return CategoryStat{Emotion: e}
}
