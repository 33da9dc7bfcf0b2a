// Package memory keeps a bounded, ordered log of conversation turns.
package memory

import "github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/domain"

// DefaultWindowSize is the number of user/assistant pairs retained.
const DefaultWindowSize = 10

// Conversation holds at most 2*window turns, dropping the oldest first.
// It is not safe for concurrent use; the owning session serializes access.
type Conversation struct {
	window int
	turns  []domain.Turn
}

// NewConversation creates an empty memory. A non-positive window selects DefaultWindowSize.
func NewConversation(window int) *Conversation {
	if window <= 0 {
		window = DefaultWindowSize
	}
	return &Conversation{window: window}
}

// Capacity is the maximum number of turns retained.
func (c *Conversation) Capacity() int {
	return c.window * 2
}

// Append adds a turn and trims the oldest entries beyond capacity.
func (c *Conversation) Append(role domain.Role, content string) {
	c.turns = append(c.turns, domain.Turn{Role: role, Content: content})
	if over := len(c.turns) - c.Capacity(); over > 0 {
		kept := make([]domain.Turn, c.Capacity())
		copy(kept, c.turns[over:])
		c.turns = kept
	}
}

// Snapshot returns a copy of the retained turns, oldest first.
func (c *Conversation) Snapshot() []domain.Turn {
	out := make([]domain.Turn, len(c.turns))
	copy(out, c.turns)
	return out
}

// Len reports the number of retained turns.
func (c *Conversation) Len() int {
	return len(c.turns)
}

// Clear drops every turn.
func (c *Conversation) Clear() {
	c.turns = nil
}
