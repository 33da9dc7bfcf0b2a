package domain

// SentimentLabel is the coarse class of a verdict.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNeutral  SentimentLabel = "neutral"
	SentimentNegative SentimentLabel = "negative"
)

// Distribution splits a message's sentiment mass across the three classes.
type Distribution struct {
	Positive float64 `json:"positive"`
	Neutral  float64 `json:"neutral"`
	Negative float64 `json:"negative"`
}

// SentimentVerdict is the immutable result of scoring one message.
type SentimentVerdict struct {
	Label        SentimentLabel `json:"label"`
	Compound     float64        `json:"compound"`
	Magnitude    float64        `json:"score"`
	Distribution Distribution   `json:"all_scores"`
	IsNegative   bool           `json:"is_negative"`
}

// NeutralVerdict is returned for empty or unclassifiable input.
func NeutralVerdict() SentimentVerdict {
	return SentimentVerdict{
		Label:        SentimentNeutral,
		Distribution: Distribution{Neutral: 1},
	}
}
