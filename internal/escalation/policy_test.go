package escalation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/domain"
	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/sentiment"
)

// scriptedScorer marks messages negative when they appear in the set.
type scriptedScorer map[string]bool

func (s scriptedScorer) Score(text string) domain.SentimentVerdict {
	if s[text] {
		return domain.SentimentVerdict{
			Label:        domain.SentimentNegative,
			Compound:     -0.8,
			Magnitude:    0.8,
			Distribution: domain.Distribution{Negative: 0.7, Neutral: 0.3},
			IsNegative:   true,
		}
	}
	return domain.SentimentVerdict{
		Label:        domain.SentimentPositive,
		Compound:     0.4,
		Magnitude:    0.4,
		Distribution: domain.Distribution{Positive: 0.6, Neutral: 0.4},
	}
}

func TestPolicy_ScenarioActions(t *testing.T) {
	p := NewPolicy(sentiment.NewAnalyzer(0.6), 2)

	messages := []string{"This is broken!", "Still broken, I'm furious", "ok thanks"}
	want := []domain.Action{domain.ActionOfferTicket, domain.ActionEscalate, domain.ActionContinue}

	for i, msg := range messages {
		d := p.Process(msg)
		assert.Equal(t, want[i], d.Action, "message %d", i)
	}
	assert.Equal(t, 2, p.NegativeCount())
}

func TestPolicy_OfferFiresOnlyOnFirstNegative(t *testing.T) {
	s := scriptedScorer{"bad": true}
	p := NewPolicy(s, 3)

	offers := 0
	for _, msg := range []string{"fine", "bad", "fine", "bad", "bad", "bad"} {
		if p.Process(msg).ShouldOfferTicket {
			offers++
		}
	}
	assert.Equal(t, 1, offers)
}

func TestPolicy_EscalateRecomputedEveryNegative(t *testing.T) {
	s := scriptedScorer{"bad": true}
	p := NewPolicy(s, 2)

	var escalations []bool
	for _, msg := range []string{"bad", "bad", "bad", "fine", "bad"} {
		escalations = append(escalations, p.Process(msg).ShouldEscalate)
	}
	assert.Equal(t, []bool{false, true, true, false, true}, escalations)
}

func TestPolicy_NegativeCountMonotonic(t *testing.T) {
	s := scriptedScorer{"bad": true}
	p := NewPolicy(s, 2)

	prev := 0
	for _, msg := range []string{"bad", "fine", "bad", "fine", "fine", "bad"} {
		d := p.Process(msg)
		delta := d.NegativeCount - prev
		if d.Verdict.IsNegative {
			assert.Equal(t, 1, delta)
		} else {
			assert.Equal(t, 0, delta)
		}
		prev = d.NegativeCount
	}
}

func TestPolicy_Messages(t *testing.T) {
	s := scriptedScorer{"bad": true}
	p := NewPolicy(s, 2)

	cont := p.Process("fine")
	assert.Nil(t, cont.Message)

	offer := p.Process("bad")
	require.NotNil(t, offer.Message)
	assert.Equal(t, OfferMessage, *offer.Message)

	esc := p.Process("bad")
	require.NotNil(t, esc.Message)
	assert.Equal(t, EscalateMessage, *esc.Message)
}

func TestPolicy_EscalationCountOneEscalatesImmediately(t *testing.T) {
	p := NewPolicy(scriptedScorer{"bad": true}, 1)
	d := p.Process("bad")

	assert.True(t, d.ShouldOfferTicket)
	assert.True(t, d.ShouldEscalate)
	assert.Equal(t, domain.ActionEscalate, d.Action)
}

func TestPolicy_StageIsMonotonic(t *testing.T) {
	p := NewPolicy(scriptedScorer{"bad": true}, 2)
	assert.Equal(t, StageNormal, p.Stage())

	p.Process("bad")
	assert.Equal(t, StageOffered, p.Stage())
	p.Process("fine")
	assert.Equal(t, StageOffered, p.Stage())
	p.Process("bad")
	assert.Equal(t, StageEscalated, p.Stage())
	p.Process("fine")
	assert.Equal(t, StageEscalated, p.Stage())
}

func TestPolicy_ResetIsIdempotent(t *testing.T) {
	p := NewPolicy(scriptedScorer{"bad": true}, 2)
	p.Process("bad")
	p.Process("bad")

	p.Reset()
	p.Reset()

	assert.Equal(t, 0, p.NegativeCount())
	assert.Equal(t, domain.Distribution{}, p.AverageSentiment())
	assert.Equal(t, StageNormal, p.Stage())
	assert.True(t, p.Process("bad").ShouldOfferTicket, "offer fires again after reset")
}

func TestPolicy_AverageSentiment(t *testing.T) {
	p := NewPolicy(scriptedScorer{"bad": true}, 2)
	assert.Equal(t, domain.Distribution{}, p.AverageSentiment())

	p.Process("bad")
	p.Process("fine")

	avg := p.AverageSentiment()
	assert.InDelta(t, 0.35, avg.Negative, 1e-9)
	assert.InDelta(t, 0.30, avg.Positive, 1e-9)
	assert.InDelta(t, 0.35, avg.Neutral, 1e-9)
}
