package memory

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/domain"
)

func TestConversation_DefaultWindow(t *testing.T) {
	c := NewConversation(0)
	assert.Equal(t, 20, c.Capacity())
}

func TestConversation_AppendKeepsOrder(t *testing.T) {
	c := NewConversation(10)
	c.Append(domain.RoleUser, "hi")
	c.Append(domain.RoleAssistant, "hello")

	got := c.Snapshot()
	require.Len(t, got, 2)
	assert.Equal(t, domain.Turn{Role: domain.RoleUser, Content: "hi"}, got[0])
	assert.Equal(t, domain.Turn{Role: domain.RoleAssistant, Content: "hello"}, got[1])
}

func TestConversation_TrimsOldestFirst(t *testing.T) {
	c := NewConversation(2)
	for i := 0; i < 7; i++ {
		c.Append(domain.RoleUser, fmt.Sprintf("m%d", i))
		assert.LessOrEqual(t, c.Len(), 4)
	}

	got := c.Snapshot()
	require.Len(t, got, 4)
	for i, turn := range got {
		assert.Equal(t, fmt.Sprintf("m%d", i+3), turn.Content)
	}
}

func TestConversation_SnapshotIsCopy(t *testing.T) {
	c := NewConversation(10)
	c.Append(domain.RoleUser, "original")

	snap := c.Snapshot()
	snap[0].Content = "mutated"
	_ = append(snap, domain.Turn{Role: domain.RoleUser, Content: "extra"})

	assert.Equal(t, "original", c.Snapshot()[0].Content)
	assert.Equal(t, 1, c.Len())
}

func TestConversation_Clear(t *testing.T) {
	c := NewConversation(10)
	c.Append(domain.RoleUser, "a")
	c.Clear()
	c.Clear()

	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.Snapshot())
}
