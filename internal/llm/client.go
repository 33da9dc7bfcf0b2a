// Package llm adapts Google Gemini to the generation, confirmation and
// summarization roles of the support conversation core.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"

	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/config"
)

// ErrNotConfigured is returned when no API key is available.
var ErrNotConfigured = errors.New("gemini api key not configured")

// contentModel is the subset of *genai.Models used here.
type contentModel interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

// Client lazily creates the Gemini client on first use and is safe for concurrent use.
type Client struct {
	apiKey         string
	model          string
	embeddingModel string
	timeout        time.Duration

	mu     sync.Mutex
	models contentModel
}

// NewClient builds a client from configuration without touching the network.
func NewClient(cfg config.GeminiConfig) *Client {
	return &Client{
		apiKey:         cfg.APIKey,
		model:          cfg.Model,
		embeddingModel: cfg.EmbeddingModel,
		timeout:        cfg.Timeout(),
	}
}

func newClientWithModel(m contentModel, model string) *Client {
	return &Client{model: model, embeddingModel: model, timeout: 5 * time.Second, models: m}
}

// IsConfigured reports whether an API key is set.
func (c *Client) IsConfigured() bool {
	return c.apiKey != "" || c.models != nil
}

func (c *Client) contentModel(ctx context.Context) (contentModel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.models != nil {
		return c.models, nil
	}
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  c.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	c.models = client.Models
	return c.models, nil
}

// generate sends a single-prompt request and returns the raw response.
func (c *Client) generate(ctx context.Context, prompt string, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	models, err := c.contentModel(ctx)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := models.GenerateContent(ctx, c.model, genai.Text(prompt), cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}
	return resp, nil
}

// Embed returns the embedding vector for text, optionally truncated to dimension.
func (c *Client) Embed(ctx context.Context, text string, dimension int) ([]float32, error) {
	models, err := c.contentModel(ctx)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var cfg *genai.EmbedContentConfig
	if dimension > 0 {
		d := int32(dimension)
		cfg = &genai.EmbedContentConfig{OutputDimensionality: &d}
	}
	resp, err := models.EmbedContent(ctx, c.embeddingModel, genai.Text(text), cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini embedding failed: %w", err)
	}
	if resp == nil || len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil {
		return nil, errors.New("gemini returned no embedding")
	}
	return resp.Embeddings[0].Values, nil
}

// responseParts splits a response into its concatenated text and any function calls.
// Thought parts are skipped.
func responseParts(resp *genai.GenerateContentResponse) (string, []*genai.FunctionCall) {
	if resp == nil {
		return "", nil
	}
	var text strings.Builder
	var calls []*genai.FunctionCall
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			if part.FunctionCall != nil && part.FunctionCall.Name != "" {
				calls = append(calls, part.FunctionCall)
				continue
			}
			if part.Thought || part.Text == "" {
				continue
			}
			text.WriteString(part.Text)
		}
		// first candidate only
		break
	}
	return text.String(), calls
}
