package psychology

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"trading-journal-go/internal/models"
)

func TestClassify(t *testing.T) {
	testCases := []struct {
		notes    string
		expected Emotion
	}{
		{"I panicked and exited early", EmotionFear},
		{"followed my plan, stayed patient", EmotionDisciplined},
		{"Pure FOMO, chased the breakout", EmotionFOMO},
		{"fear of missing out again", EmotionFOMO},
		{"revenge trade after the morning loss", EmotionRevenge},
		{"Got greedy and held too long", EmotionGreed},
		{"was in the zone all session", EmotionFlow},
		{"bought the dip", EmotionNeutral},
		{"frustrated with the chop", EmotionRevenge},
		{"cashflow worries", EmotionNeutral},
		{"needed an explanation for the move", EmotionNeutral},
		{"(calm) entry", EmotionFlow},
		{"didn't follow my plan", EmotionDisciplined},
		{"", EmotionNeutral},
		{"   ", EmotionNeutral},
	}

	for _, tc := range testCases {
		t.Run(tc.notes, func(t *testing.T) {
			assert.Equal(t, tc.expected, Classify(tc.notes))
		})
	}
}

func TestClassify_Deterministic(t *testing.T) {
	note := "Nervous at the open but stuck to the plan"
	first := Classify(note)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, Classify(note))
	}
	assert.Equal(t, EmotionFear, first, "table order decides, not position in the note")
}

func TestKeywordTable_EveryRuleReachable(t *testing.T) {
	for _, rule := range KeywordTable {
		assert.Equal(t, strings.ToLower(rule.Keyword), rule.Keyword)
		assert.NotEqual(t, EmotionNeutral, rule.Emotion)
		assert.Equal(t, rule.Emotion, Classify(rule.Keyword), "keyword %q is shadowed by an earlier rule", rule.Keyword)
	}
}

func TestAnalyze(t *testing.T) {
	trades := []models.Trade{
		{ID: "1", PnL: -200, Notes: "panic sold"},
		{ID: "2", PnL: -50, Notes: "revenge"},
		{ID: "3", PnL: 300, Notes: "followed the plan"},
		{ID: "4", PnL: 120, Notes: "calm and focused"},
		{ID: "5", PnL: 10},
	}

	b := Analyze(trades)

	assert.Len(t, b.Categories, len(Emotions))
	assert.Equal(t, CategoryStat{Emotion: EmotionFear, Trades: 1, PnL: -200}, b.Category(EmotionFear))
	assert.Equal(t, 1, b.Category(EmotionNeutral).Trades)
	assert.Equal(t, 0, b.Category(EmotionGreed).Trades)
	assert.Equal(t, -250.0, b.EmotionalCost)
	assert.Equal(t, 420.0, b.DisciplinedPnL)
	assert.InDelta(t, 40.0, b.DisciplineScore, 1e-9)
}

func TestAnalyze_Empty(t *testing.T) {
	b := Analyze(nil)
	assert.Len(t, b.Categories, len(Emotions))
	assert.Equal(t, 0.0, b.DisciplineScore)
	assert.Equal(t, 0.0, b.EmotionalCost)
}
