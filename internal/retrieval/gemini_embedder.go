package retrieval

import (
	"context"

	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/llm"
)

// GeminiEmbedder embeds queries with the Gemini embedding model.
type GeminiEmbedder struct {
	client *llm.Client
}

// NewGeminiEmbedder wraps client.
func NewGeminiEmbedder(client *llm.Client) *GeminiEmbedder {
	return &GeminiEmbedder{client: client}
}

// Embed implements Embedder.
func (e *GeminiEmbedder) Embed(ctx context.Context, text string, dimension int) ([]float32, error) {
	return e.client.Embed(ctx, text, dimension)
}
