package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/domain"
)

// fixed-width so that text ordering matches time ordering
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type sqliteTicketRepository struct {
	db *sql.DB
}

// NewSQLiteTicketRepository instantiates the repository over an embedded database
// already migrated by persistence.OpenSQLite.
func NewSQLiteTicketRepository(db *sql.DB) TicketRepository {
	return &sqliteTicketRepository{db: db}
}

const sqliteTicketColumns = `id, created_at, updated_at, session_id, user_email, problem_summary,
	conversation_summary, advice_given, sentiment_score, sentiment_label,
	status, priority, source, email_sent_at`

func (r *sqliteTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO tickets (created_at, updated_at, session_id, user_email, problem_summary,
			conversation_summary, advice_given, sentiment_score, sentiment_label, status, priority, source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		now.Format(sqliteTimeLayout),
		now.Format(sqliteTimeLayout),
		nullableString(ticket.SessionID),
		ticket.UserEmail,
		ticket.ProblemSummary,
		ticket.ConversationSummary,
		ticket.AdviceGiven,
		ticket.SentimentScore,
		string(ticket.SentimentLabel),
		string(ticket.Status),
		string(ticket.Priority),
		string(ticket.Source),
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	ticket.ID = id
	ticket.CreatedAt = now
	ticket.UpdatedAt = now
	return nil
}

func (r *sqliteTicketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+sqliteTicketColumns+` FROM tickets WHERE id = ?`, id)
	ticket, err := scanSQLiteTicket(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTicketNotFound
	}
	return ticket, err
}

func (r *sqliteTicketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.Status != nil {
		clauses = append(clauses, "status = ?")
		args = append(args, string(*filter.Status))
	}
	if filter.SessionID != nil {
		clauses = append(clauses, "session_id = ?")
		args = append(args, *filter.SessionID)
	}
	args = append(args, filter.limit())

	query := `SELECT ` + sqliteTicketColumns + ` FROM tickets WHERE ` + strings.Join(clauses, " AND ") +
		` ORDER BY created_at DESC, id DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanSQLiteTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}

func (r *sqliteTicketRepository) UpdateStatus(ctx context.Context, id int64, status domain.TicketStatus) (*domain.Ticket, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE tickets SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC().Format(sqliteTimeLayout), id)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrTicketNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *sqliteTicketRepository) MarkEmailSent(ctx context.Context, id int64, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE tickets SET email_sent_at = ?, updated_at = ? WHERE id = ?`,
		at.UTC().Format(sqliteTimeLayout), time.Now().UTC().Format(sqliteTimeLayout), id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrTicketNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteTicket(row rowScanner) (*domain.Ticket, error) {
	var (
		ticket                domain.Ticket
		createdAt, updatedAt  string
		sessionID, userEmail  sql.NullString
		convo, advice, label  sql.NullString
		score                 sql.NullFloat64
		status, priority, src string
		emailSentAt           sql.NullString
	)
	if err := row.Scan(
		&ticket.ID,
		&createdAt,
		&updatedAt,
		&sessionID,
		&userEmail,
		&ticket.ProblemSummary,
		&convo,
		&advice,
		&score,
		&label,
		&status,
		&priority,
		&src,
		&emailSentAt,
	); err != nil {
		return nil, err
	}

	ticket.CreatedAt, _ = time.Parse(sqliteTimeLayout, createdAt)
	ticket.UpdatedAt, _ = time.Parse(sqliteTimeLayout, updatedAt)
	ticket.SessionID = sessionID.String
	if userEmail.Valid {
		email := userEmail.String
		ticket.UserEmail = &email
	}
	ticket.ConversationSummary = convo.String
	ticket.AdviceGiven = advice.String
	ticket.SentimentScore = score.Float64
	ticket.SentimentLabel = domain.SentimentLabel(label.String)
	ticket.Status = domain.TicketStatus(status)
	ticket.Priority = domain.TicketPriority(priority)
	ticket.Source = domain.TicketSource(src)
	if emailSentAt.Valid {
		if at, err := time.Parse(sqliteTimeLayout, emailSentAt.String); err == nil {
			ticket.EmailSentAt = &at
		}
	}
	return &ticket, nil
}
