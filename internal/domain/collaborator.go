package domain

// TicketIntent is the structured create-ticket request signalled by the generator.
type TicketIntent struct {
	ProblemSummary string
	UrgencyHint    string
}

// Generation is the result of asking the generator for a reply. Exactly one of
// Text or Intent is meaningful: when Intent is non-nil the reply text is ignored.
type Generation struct {
	Text   string
	Intent *TicketIntent
}

// HasIntent reports whether the generator asked for a ticket.
func (g Generation) HasIntent() bool {
	return g.Intent != nil
}

// Summary holds the ticket narrative fields derived from a conversation.
type Summary struct {
	ProblemSummary      string
	AdviceGiven         string
	ConversationSummary string
}

// KnowledgeMatch is a single retrieved knowledge-base passage.
type KnowledgeMatch struct {
	ID     string
	Score  float64
	Text   string
	Topic  string
	Source string
}

// NoKnowledgeContext stands in for retrieved context when nothing relevant was found.
const NoKnowledgeContext = "No relevant information found in the knowledge base."
