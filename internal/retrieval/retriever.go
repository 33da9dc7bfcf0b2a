// Package retrieval looks up knowledge-base passages for a user query and
// renders them as prompt context.
package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/domain"
)

// DefaultTopK is the number of passages retrieved per query.
const DefaultTopK = 3

// Embedder turns text into a query vector.
type Embedder interface {
	Embed(ctx context.Context, text string, dimension int) ([]float32, error)
}

// Index answers nearest-neighbour queries.
type Index interface {
	Query(ctx context.Context, vector []float32, topK int) ([]domain.KnowledgeMatch, error)
}

// VectorRetriever embeds the query and searches the index.
type VectorRetriever struct {
	embedder  Embedder
	index     Index
	topK      int
	dimension int
}

// NewVectorRetriever builds a retriever. A non-positive topK selects DefaultTopK.
func NewVectorRetriever(embedder Embedder, index Index, topK, dimension int) *VectorRetriever {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &VectorRetriever{embedder: embedder, index: index, topK: topK, dimension: dimension}
}

// RetrieveContext returns formatted context for query.
func (r *VectorRetriever) RetrieveContext(ctx context.Context, query string) (string, error) {
	vector, err := r.embedder.Embed(ctx, query, r.dimension)
	if err != nil {
		return "", fmt.Errorf("embed query: %w", err)
	}
	matches, err := r.index.Query(ctx, vector, r.topK)
	if err != nil {
		return "", err
	}
	return FormatContext(matches), nil
}

// FormatContext renders matches as numbered source blocks, or the placeholder when empty.
func FormatContext(matches []domain.KnowledgeMatch) string {
	if len(matches) == 0 {
		return domain.NoKnowledgeContext
	}
	parts := make([]string, 0, len(matches))
	for i, m := range matches {
		topic := m.Topic
		if topic == "" {
			topic = "General"
		}
		parts = append(parts, fmt.Sprintf("[Source %d] (Topic: %s)\n%s\n", i+1, topic, m.Text))
	}
	return strings.Join(parts, "\n")
}
