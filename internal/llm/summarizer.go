package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/domain"
)

const (
	summaryTurns     = 10
	summaryTurnChars = 500
)

var (
	// ErrUnparsableSummary means the model reply carried no problem summary.
	ErrUnparsableSummary = errors.New("summary reply has no problem summary")
	errNoTurns           = errors.New("no conversation to summarize")
)

// Summarizer condenses a conversation into ticket narrative fields.
type Summarizer struct {
	client *Client
}

// NewSummarizer wraps client.
func NewSummarizer(client *Client) *Summarizer {
	return &Summarizer{client: client}
}

// Summarize asks the model for a structured summary of turns.
func (s *Summarizer) Summarize(ctx context.Context, turns []domain.Turn) (domain.Summary, error) {
	if len(turns) == 0 {
		return domain.Summary{}, errNoTurns
	}
	resp, err := s.client.generate(ctx, fmt.Sprintf(summaryPromptTemplate, FormatConversation(turns)), nil)
	if err != nil {
		return domain.Summary{}, err
	}
	text, _ := responseParts(resp)
	return ParseSummary(text)
}

// FormatConversation renders the last turns, each clipped, as "ROLE: content" blocks.
func FormatConversation(turns []domain.Turn) string {
	if len(turns) > summaryTurns {
		turns = turns[len(turns)-summaryTurns:]
	}
	blocks := make([]string, 0, len(turns))
	for _, t := range turns {
		blocks = append(blocks, fmt.Sprintf("%s: %s", strings.ToUpper(string(t.Role)), clip(t.Content, summaryTurnChars)))
	}
	return strings.Join(blocks, "\n\n")
}

var summaryHeadings = []struct {
	prefix string
	field  func(*domain.Summary) *string
}{
	{"problem summary:", func(s *domain.Summary) *string { return &s.ProblemSummary }},
	{"advice given:", func(s *domain.Summary) *string { return &s.AdviceGiven }},
	{"conversation summary:", func(s *domain.Summary) *string { return &s.ConversationSummary }},
}

// ParseSummary extracts the three labelled sections of a summary reply. Headings are
// matched case-insensitively at line start; continuation lines are joined with spaces.
func ParseSummary(reply string) (domain.Summary, error) {
	var (
		out     domain.Summary
		current *string
		parts   []string
	)
	flush := func() {
		if current != nil {
			*current = strings.TrimSpace(strings.Join(parts, " "))
		}
	}

	for _, line := range strings.Split(reply, "\n") {
		trimmed := strings.TrimSpace(line)
		// model replies often bold or number the headings
		stripped := strings.TrimLeft(trimmed, "*#0123456789. ")
		matched := false
		for _, h := range summaryHeadings {
			n := len(h.prefix)
			if len(stripped) < n || !strings.EqualFold(stripped[:n], h.prefix) {
				continue
			}
			flush()
			current = h.field(&out)
			parts = []string{strings.TrimSpace(strings.TrimLeft(stripped[n:], "* "))}
			matched = true
			break
		}
		if !matched && current != nil && trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	flush()

	if out.ProblemSummary == "" {
		return domain.Summary{}, ErrUnparsableSummary
	}
	return out, nil
}
