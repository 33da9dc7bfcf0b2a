// Package sentiment scores the emotional tone of chat messages offline.
//
// The scorer is lexicon based: each known word carries a valence, nearby
// intensifiers and negations adjust it, and the summed valence is squashed
// into a compound score in [-1, 1]. Scoring never fails; unknown or empty
// input is neutral.
package sentiment

import (
	"math"
	"strings"
	"unicode"

	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/domain"
)

const (
	// LabelThreshold is the compound magnitude separating neutral from polar labels.
	LabelThreshold = 0.05

	// NegativeShareThreshold flags a message whose negative share alone marks it negative.
	NegativeShareThreshold = 0.5

	normalizeAlpha   = 15.0
	capsIncrement    = 0.733
	negationScalar   = -0.74
	exclaimIncrement = 0.292
	maxExclaims      = 4
	butBefore        = 0.5
	butAfter         = 1.5
	lookback         = 3
)

// Analyzer is a stateless sentiment scorer safe for concurrent use.
type Analyzer struct {
	negativeThreshold float64
}

// NewAnalyzer builds an analyzer flagging compound scores at or below -negativeThreshold as negative.
func NewAnalyzer(negativeThreshold float64) *Analyzer {
	return &Analyzer{negativeThreshold: negativeThreshold}
}

// Score returns the verdict for text.
func (a *Analyzer) Score(text string) domain.SentimentVerdict {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return domain.NeutralVerdict()
	}

	valences := a.valences(tokens)
	var sum float64
	for _, v := range valences {
		sum += v
	}

	punct := punctuationEmphasis(text)
	if sum > 0 {
		sum += punct
	} else if sum < 0 {
		sum -= punct
	}
	compound := normalize(sum)

	dist := distribution(valences, punct)
	verdict := domain.SentimentVerdict{
		Label:        labelFor(compound),
		Compound:     compound,
		Magnitude:    math.Abs(compound),
		Distribution: dist,
	}
	verdict.IsNegative = compound <= -a.negativeThreshold || dist.Negative >= NegativeShareThreshold
	return verdict
}

type token struct {
	raw   string
	lower string
}

func tokenize(text string) []token {
	fields := strings.Fields(text)
	tokens := make([]token, 0, len(fields))
	for _, f := range fields {
		trimmed := strings.TrimFunc(f, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
		})
		trimmed = strings.Trim(trimmed, "'")
		if trimmed == "" {
			continue
		}
		tokens = append(tokens, token{raw: trimmed, lower: strings.ToLower(trimmed)})
	}
	return tokens
}

// valences returns one entry per token; zero marks a neutral word.
func (a *Analyzer) valences(tokens []token) []float64 {
	shouting := mixedCase(tokens)
	out := make([]float64, len(tokens))
	butIdx := -1

	for i, tok := range tokens {
		if tok.lower == "but" && butIdx < 0 {
			butIdx = i
		}
		if _, isBooster := boosters[tok.lower]; isBooster {
			continue
		}
		v, ok := lexicon[tok.lower]
		if !ok {
			continue
		}
		if shouting && isAllCaps(tok.raw) {
			if v > 0 {
				v += capsIncrement
			} else {
				v -= capsIncrement
			}
		}
		for back := 1; back <= lookback && i-back >= 0; back++ {
			prev := tokens[i-back].lower
			if b, ok := boosters[prev]; ok {
				scaled := b * (1 - 0.05*float64(back-1))
				if v < 0 {
					scaled = -scaled
				}
				v += scaled
			}
			if _, ok := negations[prev]; ok {
				v *= negationScalar
				break
			}
		}
		out[i] = v
	}

	if butIdx >= 0 {
		for i := range out {
			switch {
			case i < butIdx:
				out[i] *= butBefore
			case i > butIdx:
				out[i] *= butAfter
			}
		}
	}
	return out
}

// mixedCase reports whether some but not all words are upper case, so caps read as emphasis.
func mixedCase(tokens []token) bool {
	caps := 0
	for _, t := range tokens {
		if isAllCaps(t.raw) {
			caps++
		}
	}
	return caps > 0 && caps < len(tokens)
}

func isAllCaps(s string) bool {
	letters := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			letters++
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return letters > 1
}

func punctuationEmphasis(text string) float64 {
	n := strings.Count(text, "!")
	if n > maxExclaims {
		n = maxExclaims
	}
	return float64(n) * exclaimIncrement
}

func normalize(score float64) float64 {
	n := score / math.Sqrt(score*score+normalizeAlpha)
	switch {
	case n < -1:
		return -1
	case n > 1:
		return 1
	}
	return n
}

// distribution converts valences into positive/neutral/negative shares that sum to one.
func distribution(valences []float64, punct float64) domain.Distribution {
	var pos, neg, neu float64
	for _, v := range valences {
		switch {
		case v > 0:
			pos += v + 1
		case v < 0:
			neg += v - 1
		default:
			neu++
		}
	}
	if pos > math.Abs(neg) {
		pos += punct
	} else if pos < math.Abs(neg) {
		neg -= punct
	}

	total := pos + math.Abs(neg) + neu
	if total == 0 {
		return domain.Distribution{Neutral: 1}
	}
	return domain.Distribution{
		Positive: pos / total,
		Neutral:  neu / total,
		Negative: math.Abs(neg) / total,
	}
}

func labelFor(compound float64) domain.SentimentLabel {
	switch {
	case compound >= LabelThreshold:
		return domain.SentimentPositive
	case compound <= -LabelThreshold:
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}
