package retrieval

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/domain"
)

// PineconeIndex queries a single Pinecone index over its data-plane REST API.
type PineconeIndex struct {
	host      string
	apiKey    string
	namespace string
	http      *http.Client
}

// NewPineconeIndex builds a client for the index served at host
// (for example "https://support-kb-abc123.svc.us-east-1.pinecone.io").
func NewPineconeIndex(host, apiKey, namespace string, timeout time.Duration) *PineconeIndex {
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "https://" + host
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &PineconeIndex{
		host:      strings.TrimRight(host, "/"),
		apiKey:    apiKey,
		namespace: namespace,
		http:      &http.Client{Timeout: timeout},
	}
}

type queryRequest struct {
	Vector          []float32 `json:"vector"`
	TopK            int       `json:"topK"`
	IncludeMetadata bool      `json:"includeMetadata"`
	Namespace       string    `json:"namespace,omitempty"`
}

type queryResponse struct {
	Matches []struct {
		ID       string         `json:"id"`
		Score    float64        `json:"score"`
		Metadata map[string]any `json:"metadata"`
	} `json:"matches"`
}

// Query returns the topK nearest passages to vector.
func (p *PineconeIndex) Query(ctx context.Context, vector []float32, topK int) ([]domain.KnowledgeMatch, error) {
	body, err := json.Marshal(queryRequest{
		Vector:          vector,
		TopK:            topK,
		IncludeMetadata: true,
		Namespace:       p.namespace,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.host+"/query", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Api-Key", p.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pinecone query: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("pinecone query: status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var decoded queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode pinecone response: %w", err)
	}

	matches := make([]domain.KnowledgeMatch, 0, len(decoded.Matches))
	for _, m := range decoded.Matches {
		matches = append(matches, domain.KnowledgeMatch{
			ID:     m.ID,
			Score:  m.Score,
			Text:   metaString(m.Metadata, "text", ""),
			Topic:  metaString(m.Metadata, "topic", "General"),
			Source: metaString(m.Metadata, "source_url", "Unknown source"),
		})
	}
	return matches, nil
}

func metaString(meta map[string]any, key, fallback string) string {
	if v, ok := meta[key].(string); ok && v != "" {
		return v
	}
	return fallback
}
