package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/domain"
)

// ErrTicketNotFound is returned when no ticket matches the requested id.
var ErrTicketNotFound = errors.New("ticket not found")

const (
	defaultListLimit = 100
	maxListLimit     = 100
)

// TicketFilter narrows ticket listings.
type TicketFilter struct {
	Status    *domain.TicketStatus
	SessionID *string
	Limit     int
}

func (f TicketFilter) limit() int {
	if f.Limit <= 0 || f.Limit > maxListLimit {
		return defaultListLimit
	}
	return f.Limit
}

// TicketRepository encapsulates ticket persistence. Implementations assign the id
// and timestamps on Create.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	UpdateStatus(ctx context.Context, id int64, status domain.TicketStatus) (*domain.Ticket, error)
	MarkEmailSent(ctx context.Context, id int64, at time.Time) error
}

type postgresTicketRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresTicketRepository instantiates the pgx-backed repository.
func NewPostgresTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &postgresTicketRepository{pool: pool}
}

const pgTicketColumns = `id, created_at, updated_at, session_id, user_email, problem_summary,
               conversation_summary, advice_given, sentiment_score, sentiment_label,
               status, priority, source, email_sent_at`

func (r *postgresTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (session_id, user_email, problem_summary, conversation_summary, advice_given,
            sentiment_score, sentiment_label, status, priority, source)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		nullableString(ticket.SessionID),
		ticket.UserEmail,
		ticket.ProblemSummary,
		ticket.ConversationSummary,
		ticket.AdviceGiven,
		ticket.SentimentScore,
		ticket.SentimentLabel,
		ticket.Status,
		ticket.Priority,
		ticket.Source,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *postgresTicketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	query := `SELECT ` + pgTicketColumns + ` FROM tickets WHERE id=$1`
	ticket, err := scanPgTicket(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTicketNotFound
	}
	return ticket, err
}

func (r *postgresTicketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.SessionID != nil {
		args = append(args, *filter.SessionID)
		clauses = append(clauses, fmt.Sprintf("session_id=$%d", len(args)))
	}

	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY created_at DESC, id DESC LIMIT %d`,
		pgTicketColumns, strings.Join(clauses, " AND "), filter.limit())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanPgTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}

func (r *postgresTicketRepository) UpdateStatus(ctx context.Context, id int64, status domain.TicketStatus) (*domain.Ticket, error) {
	query := `UPDATE tickets SET status=$1, updated_at=NOW() WHERE id=$2 RETURNING ` + pgTicketColumns
	ticket, err := scanPgTicket(r.pool.QueryRow(ctx, query, status, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTicketNotFound
	}
	return ticket, err
}

func (r *postgresTicketRepository) MarkEmailSent(ctx context.Context, id int64, at time.Time) error {
	const query = `UPDATE tickets SET email_sent_at=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, at, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrTicketNotFound
	}
	return nil
}

func scanPgTicket(row pgx.Row) (*domain.Ticket, error) {
	var (
		ticket    domain.Ticket
		sessionID *string
		convo     *string
		advice    *string
		score     *float64
		label     *string
	)
	if err := row.Scan(
		&ticket.ID,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&sessionID,
		&ticket.UserEmail,
		&ticket.ProblemSummary,
		&convo,
		&advice,
		&score,
		&label,
		&ticket.Status,
		&ticket.Priority,
		&ticket.Source,
		&ticket.EmailSentAt,
	); err != nil {
		return nil, err
	}
	ticket.SessionID = deref(sessionID)
	ticket.ConversationSummary = deref(convo)
	ticket.AdviceGiven = deref(advice)
	if score != nil {
		ticket.SentimentScore = *score
	}
	ticket.SentimentLabel = domain.SentimentLabel(deref(label))
	return &ticket, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
