// Package email delivers new-ticket notifications to the support inbox over SMTP.
package email

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"strings"

	"go.uber.org/zap"

	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/config"
	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/domain"
)

// ErrNotConfigured is returned when credentials or the support inbox are missing.
var ErrNotConfigured = errors.New("email notifier is not configured")

const subjectSummaryRunes = 50

type sendFunc func(ctx context.Context, addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Notifier sends one multipart message per ticket.
type Notifier struct {
	cfg    config.SMTPConfig
	send   sendFunc
	logger *zap.Logger
}

// NewNotifier builds a notifier that relays through cfg.Addr().
func NewNotifier(cfg config.SMTPConfig, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	n := &Notifier{cfg: cfg, logger: logger}
	n.send = n.deliver
	return n
}

// Configured reports whether Notify can attempt delivery.
func (n *Notifier) Configured() bool {
	return n.cfg.Host != "" && n.cfg.Username != "" && n.cfg.Password != "" && n.cfg.SupportEmail != ""
}

// Notify emails the support inbox about ticket.
func (n *Notifier) Notify(ctx context.Context, ticket *domain.Ticket) error {
	if !n.Configured() {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := n.compose(ticket)
	if err != nil {
		return err
	}

	from := n.sender()
	auth := smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	if err := n.send(ctx, n.cfg.Addr(), auth, from, []string{n.cfg.SupportEmail}, msg); err != nil {
		n.logger.Warn("ticket email failed", zap.Int64("ticket_id", ticket.ID), zap.Error(err))
		return fmt.Errorf("send ticket email: %w", err)
	}
	n.logger.Info("ticket email sent", zap.Int64("ticket_id", ticket.ID))
	return nil
}

// deliver runs one SMTP exchange bounded by ctx and the configured timeout.
// The connection deadline covers a relay that accepts but never answers.
func (n *Notifier) deliver(ctx context.Context, addr string, a smtp.Auth, from string, to []string, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, n.cfg.Timeout())
	defer cancel()

	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return err
	}
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return err
		}
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	c, err := smtp.NewClient(conn, host)
	if err != nil {
		return fmt.Errorf("greeting: %w", err)
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: host, MinVersion: tls.VersionTLS12}); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}
	if a != nil {
		if ok, _ := c.Extension("AUTH"); !ok {
			return errors.New("relay does not support AUTH")
		}
		if err := c.Auth(a); err != nil {
			return fmt.Errorf("auth: %w", err)
		}
	}
	if err := c.Mail(from); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return fmt.Errorf("rcpt %s: %w", rcpt, err)
		}
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("end body: %w", err)
	}
	return c.Quit()
}

func (n *Notifier) sender() string {
	if n.cfg.From != "" {
		return n.cfg.From
	}
	return n.cfg.Username
}

func (n *Notifier) compose(ticket *domain.Ticket) ([]byte, error) {
	view := newTicketView(ticket)

	var text, html bytes.Buffer
	if err := textBody.Execute(&text, view); err != nil {
		return nil, fmt.Errorf("render text body: %w", err)
	}
	if err := htmlBody.Execute(&html, view); err != nil {
		return nil, fmt.Errorf("render html body: %w", err)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, part := range []struct {
		contentType string
		content     []byte
	}{
		{"text/plain; charset=UTF-8", text.Bytes()},
		{"text/html; charset=UTF-8", html.Bytes()},
	} {
		w, err := mw.CreatePart(textproto.MIMEHeader{"Content-Type": {part.contentType}})
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(part.content); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	from := n.sender()
	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "To: %s\r\n", n.cfg.SupportEmail)
	fmt.Fprintf(&msg, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", Subject(ticket)))
	fmt.Fprintf(&msg, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", mw.Boundary())
	msg.Write(body.Bytes())
	return msg.Bytes(), nil
}

// Subject renders "[Support Ticket #id] <marker> <summary prefix>...".
func Subject(ticket *domain.Ticket) string {
	summary := []rune(ticket.ProblemSummary)
	if len(summary) > subjectSummaryRunes {
		summary = summary[:subjectSummaryRunes]
	}
	return fmt.Sprintf("[Support Ticket #%d] %s %s...", ticket.ID, priorityMarker(ticket.Priority), string(summary))
}

func priorityMarker(p domain.TicketPriority) string {
	switch p {
	case domain.TicketPriorityUrgent:
		return "🚨"
	case domain.TicketPriorityHigh:
		return "🔴"
	case domain.TicketPriorityMedium:
		return "🟡"
	case domain.TicketPriorityLow:
		return "🟢"
	}
	return "📝"
}

func priorityColor(p domain.TicketPriority) string {
	switch p {
	case domain.TicketPriorityUrgent:
		return "#dc3545"
	case domain.TicketPriorityHigh:
		return "#fd7e14"
	case domain.TicketPriorityMedium:
		return "#ffc107"
	case domain.TicketPriorityLow:
		return "#28a745"
	}
	return "#6c757d"
}

type ticketView struct {
	ID            int64
	Created       string
	PriorityUpper string
	Color         string
	Sentiment     string
	Score         string
	Problem       string
	Conversation  string
	Advice        string
}

func newTicketView(t *domain.Ticket) ticketView {
	v := ticketView{
		ID:            t.ID,
		Created:       "N/A",
		PriorityUpper: "N/A",
		Color:         priorityColor(t.Priority),
		Sentiment:     "N/A",
		Score:         "N/A",
		Problem:       t.ProblemSummary,
		Conversation:  t.ConversationSummary,
		Advice:        t.AdviceGiven,
	}
	if !t.CreatedAt.IsZero() {
		v.Created = t.CreatedAt.UTC().Format("2006-01-02 15:04") + " UTC"
	}
	if t.Priority != "" {
		v.PriorityUpper = strings.ToUpper(string(t.Priority))
	}
	if t.SentimentLabel != "" {
		v.Sentiment = string(t.SentimentLabel)
	}
	if t.SentimentScore != 0 {
		v.Score = fmt.Sprintf("%.2f", t.SentimentScore)
	}
	return v
}
