package email

import (
	"context"
	"errors"
	"net"
	"net/smtp"
	"net/textproto"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/config"
	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/domain"
)

func smtpConfig() config.SMTPConfig {
	return config.SMTPConfig{
		Host:         "smtp.example.com",
		Port:         587,
		Username:     "bot@example.com",
		Password:     "app-password",
		SupportEmail: "support@example.com",
	}
}

func sampleTicket() *domain.Ticket {
	return &domain.Ticket{
		ID:                  42,
		CreatedAt:           time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
		ProblemSummary:      "Checkout fails with a card declined error for every customer in the EU",
		ConversationSummary: "Merchant reports checkout failures.",
		SentimentScore:      0.8,
		SentimentLabel:      domain.SentimentNegative,
		Priority:            domain.TicketPriorityUrgent,
	}
}

func TestSubject(t *testing.T) {
	got := Subject(sampleTicket())
	assert.Equal(t, "[Support Ticket #42] 🚨 Checkout fails with a card declined error for ever...", got)

	short := &domain.Ticket{ID: 7, ProblemSummary: "Login", Priority: "unknown"}
	assert.Equal(t, "[Support Ticket #7] 📝 Login...", Subject(short))
}

func TestNotifyUnconfigured(t *testing.T) {
	cfg := smtpConfig()
	cfg.SupportEmail = ""
	n := NewNotifier(cfg, zap.NewNop())
	n.send = func(context.Context, string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("send must not be called")
		return nil
	}
	assert.ErrorIs(t, n.Notify(context.Background(), sampleTicket()), ErrNotConfigured)
}

func TestNotifySendsMultipartMessage(t *testing.T) {
	n := NewNotifier(smtpConfig(), zap.NewNop())

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg string
	n.send = func(_ context.Context, addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, string(msg)
		return nil
	}

	require.NoError(t, n.Notify(context.Background(), sampleTicket()))

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "bot@example.com", gotFrom)
	assert.Equal(t, []string{"support@example.com"}, gotTo)
	assert.Contains(t, gotMsg, "Content-Type: multipart/alternative")
	assert.Contains(t, gotMsg, "text/plain; charset=UTF-8")
	assert.Contains(t, gotMsg, "text/html; charset=UTF-8")
	assert.Contains(t, gotMsg, "New Support Ticket #42")
	assert.Contains(t, gotMsg, "Priority: URGENT")
	assert.Contains(t, gotMsg, "Sentiment: negative (Score: 0.80)")
	assert.Contains(t, gotMsg, "Created: 2026-03-01 09:30 UTC")
	assert.Contains(t, gotMsg, "No advice recorded")
	assert.True(t, strings.HasPrefix(gotMsg, "From: bot@example.com\r\n"))
}

func TestNotifyEscapesHTML(t *testing.T) {
	n := NewNotifier(smtpConfig(), nil)
	var gotMsg string
	n.send = func(_ context.Context, _ string, _ smtp.Auth, _ string, _ []string, msg []byte) error {
		gotMsg = string(msg)
		return nil
	}
	ticket := sampleTicket()
	ticket.ProblemSummary = "<script>alert(1)</script>"

	require.NoError(t, n.Notify(context.Background(), ticket))
	assert.Contains(t, gotMsg, "&lt;script&gt;")
}

func TestNotifyPropagatesSendError(t *testing.T) {
	n := NewNotifier(smtpConfig(), nil)
	relayErr := errors.New("535 auth failed")
	n.send = func(context.Context, string, smtp.Auth, string, []string, []byte) error { return relayErr }

	err := n.Notify(context.Background(), sampleTicket())
	assert.ErrorIs(t, err, relayErr)
}

func relayConfig(t *testing.T, ln net.Listener) config.SMTPConfig {
	t.Helper()
	host, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	p, err := strconv.Atoi(port)
	require.NoError(t, err)
	cfg := smtpConfig()
	cfg.Host = host
	cfg.Port = p
	cfg.TimeoutSeconds = 5
	return cfg
}

// serveRelay answers one SMTP session and reports the DATA payload.
func serveRelay(t *testing.T, ln net.Listener) <-chan string {
	t.Helper()
	bodies := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		tc := textproto.NewConn(conn)
		_ = tc.PrintfLine("220 relay ready")
		for {
			line, err := tc.ReadLine()
			if err != nil {
				return
			}
			verb := strings.ToUpper(strings.SplitN(line, " ", 2)[0])
			switch verb {
			case "EHLO", "HELO":
				_ = tc.PrintfLine("250-relay")
				_ = tc.PrintfLine("250 AUTH PLAIN")
			case "AUTH":
				_ = tc.PrintfLine("235 2.7.0 accepted")
			case "MAIL", "RCPT":
				_ = tc.PrintfLine("250 ok")
			case "DATA":
				_ = tc.PrintfLine("354 go ahead")
				body, err := tc.ReadDotBytes()
				if err != nil {
					return
				}
				bodies <- string(body)
				_ = tc.PrintfLine("250 queued")
			case "QUIT":
				_ = tc.PrintfLine("221 bye")
				return
			default:
				_ = tc.PrintfLine("502 unsupported")
			}
		}
	}()
	return bodies
}

func TestNotifyDeliversOverSMTP(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	bodies := serveRelay(t, ln)

	n := NewNotifier(relayConfig(t, ln), zap.NewNop())
	require.NoError(t, n.Notify(context.Background(), sampleTicket()))

	select {
	case body := <-bodies:
		assert.Contains(t, body, "To: support@example.com")
		assert.Contains(t, body, "New Support Ticket #42")
	case <-time.After(2 * time.Second):
		t.Fatal("relay never received the message")
	}
}

func TestNotifyGivesUpOnSilentRelay(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	held := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			held <- conn
		}
	}()
	defer func() {
		select {
		case conn := <-held:
			conn.Close()
		default:
		}
	}()

	n := NewNotifier(relayConfig(t, ln), zap.NewNop())
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	start := time.Now()
	err = n.Notify(ctx, sampleTicket())
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestNotifyHonoursConfiguredTimeout(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			time.Sleep(3 * time.Second)
			conn.Close()
		}
	}()

	cfg := relayConfig(t, ln)
	cfg.TimeoutSeconds = 1
	n := NewNotifier(cfg, zap.NewNop())

	start := time.Now()
	assert.Error(t, n.Notify(context.Background(), sampleTicket()))
	assert.Less(t, time.Since(start), 2500*time.Millisecond)
}
