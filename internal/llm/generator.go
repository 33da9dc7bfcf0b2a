package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/domain"
)

const (
	createTicketFunction = "create_support_ticket"

	historyTurns     = 4
	historyTurnChars = 150
)

var ticketTool = &genai.Tool{
	FunctionDeclarations: []*genai.FunctionDeclaration{{
		Name: createTicketFunction,
		Description: "Create a support ticket for the customer when they request help from a human agent, " +
			"want to escalate, or are frustrated with the automated support. Always use this when the " +
			"customer asks to speak to someone, create a ticket, or needs human assistance.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"problem_summary": {
					Type:        genai.TypeString,
					Description: "Brief summary of the customer's issue/problem",
				},
				"urgency": {
					Type:        genai.TypeString,
					Description: "Urgency level: low, medium, high, or urgent",
					Enum:        []string{"low", "medium", "high", "urgent"},
				},
			},
			Required: []string{"problem_summary"},
		},
	}},
}

// Generator produces support replies and may ask for a ticket through function calling.
type Generator struct {
	client *Client
}

// NewGenerator wraps client.
func NewGenerator(client *Client) *Generator {
	return &Generator{client: client}
}

// Generate answers query using the retrieved knowledge and recent history.
func (g *Generator) Generate(ctx context.Context, query, knowledge string, history []domain.Turn) (domain.Generation, error) {
	resp, err := g.client.generate(ctx, buildReplyPrompt(query, knowledge, history), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Tools:             []*genai.Tool{ticketTool},
	})
	if err != nil {
		return domain.Generation{}, err
	}
	return parseGeneration(resp)
}

// Confirm writes a short confirmation for a freshly created ticket.
func (g *Generator) Confirm(ctx context.Context, ticketID int64, problem string) (string, error) {
	prompt := fmt.Sprintf(`A support ticket has been successfully created with ID #%d for the issue: "%s".

Generate a brief, friendly confirmation message letting the customer know:
1. Their ticket #%d has been created
2. Our support team will contact them soon
3. They can continue chatting if they have other questions`, ticketID, problem, ticketID)

	resp, err := g.client.generate(ctx, prompt, nil)
	if err != nil {
		return "", err
	}
	text, _ := responseParts(resp)
	return strings.TrimSpace(text), nil
}

func parseGeneration(resp *genai.GenerateContentResponse) (domain.Generation, error) {
	text, calls := responseParts(resp)
	for _, call := range calls {
		if call.Name != createTicketFunction {
			continue
		}
		return domain.Generation{Intent: &domain.TicketIntent{
			ProblemSummary: stringArg(call.Args, "problem_summary"),
			UrgencyHint:    stringArg(call.Args, "urgency"),
		}}, nil
	}
	if strings.TrimSpace(text) == "" {
		return domain.Generation{}, fmt.Errorf("gemini returned an empty reply")
	}
	return domain.Generation{Text: text}, nil
}

func stringArg(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func buildReplyPrompt(query, knowledge string, history []domain.Turn) string {
	var b strings.Builder
	b.WriteString("# SHOPIFY KNOWLEDGE BASE\n")
	b.WriteString(knowledge)
	b.WriteString("\n\n")
	b.WriteString(formatHistory(history))
	b.WriteString("\n\n# CUSTOMER MESSAGE\n")
	b.WriteString(query)
	b.WriteString("\n\n# YOUR RESPONSE\nRespond following the guidelines above. Be helpful, empathetic, and actionable:")
	return b.String()
}

// formatHistory renders the last few turns, each clipped, for the reply prompt.
func formatHistory(history []domain.Turn) string {
	if len(history) == 0 {
		return ""
	}
	if len(history) > historyTurns {
		history = history[len(history)-historyTurns:]
	}
	lines := make([]string, 0, len(history)+1)
	lines = append(lines, "Previous conversation:")
	for _, turn := range history {
		lines = append(lines, fmt.Sprintf("%s: %s", roleLabel(turn.Role), clip(turn.Content, historyTurnChars)))
	}
	return strings.Join(lines, "\n")
}

func roleLabel(r domain.Role) string {
	if r == domain.RoleAssistant {
		return "Assistant"
	}
	return "User"
}

func clip(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
