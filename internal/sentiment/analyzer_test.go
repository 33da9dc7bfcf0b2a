package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/domain"
)

func TestAnalyzer_EmptyTextIsNeutral(t *testing.T) {
	a := NewAnalyzer(0.6)
	for _, text := range []string{"", "   ", "!!!", "?"} {
		v := a.Score(text)
		assert.Equal(t, domain.SentimentNeutral, v.Label, "text %q", text)
		assert.Zero(t, v.Magnitude)
		assert.False(t, v.IsNegative)
		assert.InDelta(t, 1.0, v.Distribution.Neutral, 1e-9)
	}
}

func TestAnalyzer_Labels(t *testing.T) {
	a := NewAnalyzer(0.6)
	tests := []struct {
		text string
		want domain.SentimentLabel
	}{
		{"This is broken!", domain.SentimentNegative},
		{"Still broken, I'm furious", domain.SentimentNegative},
		{"ok thanks", domain.SentimentPositive},
		{"Where do I find the settings page", domain.SentimentNeutral},
		{"This is not good", domain.SentimentNegative},
		{"not bad at all", domain.SentimentPositive},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, a.Score(tt.text).Label)
		})
	}
}

func TestAnalyzer_IsNegative(t *testing.T) {
	a := NewAnalyzer(0.6)

	assert.True(t, a.Score("This is broken!").IsNegative, "negative share above half")
	assert.True(t, a.Score("Still broken, I'm furious").IsNegative)
	assert.False(t, a.Score("ok thanks").IsNegative)
	assert.False(t, a.Score("How do I change my store theme?").IsNegative)
}

func TestAnalyzer_MagnitudeIsAbsCompound(t *testing.T) {
	a := NewAnalyzer(0.6)
	v := a.Score("Still broken, I'm furious")

	assert.Less(t, v.Compound, -0.6)
	assert.InDelta(t, -v.Compound, v.Magnitude, 1e-12)
	assert.GreaterOrEqual(t, v.Compound, -1.0)
}

func TestAnalyzer_DistributionSumsToOne(t *testing.T) {
	a := NewAnalyzer(0.6)
	texts := []string{
		"great support, thanks a lot!",
		"this is the WORST experience, totally useless",
		"my payment failed but support was helpful",
		"order 1234",
	}
	for _, text := range texts {
		d := a.Score(text).Distribution
		assert.InDelta(t, 1.0, d.Positive+d.Neutral+d.Negative, 1e-9, "text %q", text)
	}
}

func TestAnalyzer_Deterministic(t *testing.T) {
	a := NewAnalyzer(0.6)
	text := "I'm really frustrated, nothing works!!"
	assert.Equal(t, a.Score(text), a.Score(text))
}

func TestAnalyzer_EmphasisIncreasesMagnitude(t *testing.T) {
	a := NewAnalyzer(0.6)

	plain := a.Score("this is bad")
	boosted := a.Score("this is very bad")
	shouted := a.Score("this is BAD")
	exclaimed := a.Score("this is bad!!")

	assert.Greater(t, boosted.Magnitude, plain.Magnitude)
	assert.Greater(t, shouted.Magnitude, plain.Magnitude)
	assert.Greater(t, exclaimed.Magnitude, plain.Magnitude)
}

func TestAnalyzer_ButShiftsWeight(t *testing.T) {
	a := NewAnalyzer(0.6)
	v := a.Score("the app is good but checkout is broken")
	assert.Equal(t, domain.SentimentNegative, v.Label)
}

func TestAnalyzer_ThresholdControlsCompoundRule(t *testing.T) {
	// neutral filler keeps the negative share under half, leaving only the compound rule.
	text := "the order page and the cart page look bad"
	strict := NewAnalyzer(0.9).Score(text)
	lenient := NewAnalyzer(0.1).Score(text)

	assert.Equal(t, strict.Compound, lenient.Compound)
	assert.False(t, strict.IsNegative)
	assert.True(t, lenient.IsNegative)
}
