package service

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/config"
	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/escalation"
	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/memory"
)

// ErrSessionNotFound is returned for operations on an unknown session id.
var ErrSessionNotFound = errors.New("session not found")

// sessionState is everything a reset discards.
type sessionState struct {
	memory        *memory.Conversation
	policy        *escalation.Policy
	ticketOffered bool
	escalated     bool
	ticketIDs     []int64
}

// session serializes turns: every read or write of state happens under mu.
type session struct {
	id    string
	mu    sync.Mutex
	state *sessionState
}

// SessionRegistry owns per-session state keyed by id. Sessions never share mutable state.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*session
	scorer   escalation.Scorer
	cfg      config.EscalationConfig
}

// NewSessionRegistry builds a registry whose sessions score messages with scorer.
func NewSessionRegistry(scorer escalation.Scorer, cfg config.EscalationConfig) *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]*session),
		scorer:   scorer,
		cfg:      cfg,
	}
}

func (r *SessionRegistry) newState() *sessionState {
	return &sessionState{
		memory: memory.NewConversation(r.cfg.MemoryWindowSize),
		policy: escalation.NewPolicy(r.scorer, r.cfg.EscalationCount),
	}
}

// Start registers a session. An empty id is replaced by a generated one; starting an
// existing id is a no-op that returns it.
func (r *SessionRegistry) Start(id string) string {
	if id == "" {
		id = uuid.NewString()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		r.sessions[id] = &session{id: id, state: r.newState()}
	}
	return id
}

func (r *SessionRegistry) get(id string) (*session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// reset swaps in fresh state in one step, waiting for any in-flight turn.
func (r *SessionRegistry) reset(id string) error {
	s, err := r.get(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.state = r.newState()
	s.mu.Unlock()
	return nil
}

// End forgets a session.
func (r *SessionRegistry) End(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(r.sessions, id)
	return nil
}

// Len returns the number of live sessions.
func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
