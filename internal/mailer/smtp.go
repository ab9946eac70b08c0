package mailer

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/wneessen/go-mail"
)

// attachmentName is the fixed filename under which the invoice PDF travels.
const attachmentName = "factura.pdf"

const pdfContentType = mail.ContentType("application/pdf")

// SMTPMailer delivers email over a pool of reusable SMTP connections.
// Connections are created lazily, bounded by MaxConnections, and recycled
// after MaxMessages sends.
type SMTPMailer struct {
	cfg  Config
	log  zerolog.Logger
	pool chan *pooledConn
}

// pooledConn is one relay connection plus its message count. A slot in the
// pool channel may hold nil, meaning the connection must be (re)dialed.
type pooledConn struct {
	client *mail.Client
	sent   int
}

// NewSMTP creates the pooled SMTP transport. It never dials; the first send
// or an explicit Verify establishes connections.
func NewSMTP(cfg Config, log zerolog.Logger) *SMTPMailer {
	cfg = cfg.withDefaults()

	pool := make(chan *pooledConn, cfg.MaxConnections)
	for range cfg.MaxConnections {
		pool <- nil
	}

	return &SMTPMailer{
		cfg:  cfg,
		log:  log.With().Str("component", "mailer").Logger(),
		pool: pool,
	}
}

// Verify dials the relay once and closes the connection. It reports relay
// reachability without touching the pool.
func (m *SMTPMailer) Verify(ctx context.Context) error {
	client, err := m.newClient()
	if err != nil {
		return fmt.Errorf("create mail client: %w", err)
	}
	if err := client.DialWithContext(ctx); err != nil {
		return fmt.Errorf("dial %s:%d: %w", m.cfg.Host, m.cfg.Port, err)
	}
	return client.Close()
}

// Send transmits one email through a pooled connection and returns the
// terminal Outcome. It blocks while all connections are busy; callers have
// already been answered, so the implicit queueing is invisible to them.
func (m *SMTPMailer) Send(ctx context.Context, req SendRequest) Outcome {
	out := Outcome{Recipient: req.Recipient}

	msg, messageID, err := m.buildMessage(req)
	if err != nil {
		out.Err = err.Error()
		return out
	}

	conn, err := m.acquire(ctx)
	if err != nil {
		out.Err = err.Error()
		return out
	}

	if err := conn.client.Send(msg); err != nil {
		// Drop the connection; the next send redials.
		_ = conn.client.Close()
		m.release(nil)
		out.Err = fmt.Sprintf("smtp send to %s: %v", req.Recipient, err)
		return out
	}

	conn.sent++
	m.release(conn)

	out.Success = true
	out.MessageID = messageID
	return out
}

// Close drains the pool and closes every live connection.
func (m *SMTPMailer) Close() error {
	var firstErr error
	for range m.cfg.MaxConnections {
		select {
		case conn := <-m.pool:
			if conn != nil {
				if err := conn.client.Close(); err != nil && firstErr == nil {
					firstErr = err
				}
			}
		default:
			// Slot held by an in-flight send; abrupt termination is
			// acceptable because no in-flight work is durable.
		}
	}
	return firstErr
}

// acquire takes a pool slot, redialing when the slot is empty or the
// connection has reached its message budget.
func (m *SMTPMailer) acquire(ctx context.Context) (*pooledConn, error) {
	var conn *pooledConn
	select {
	case conn = <-m.pool:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if conn != nil && conn.sent >= m.cfg.MaxMessages {
		m.log.Debug().Int("sent", conn.sent).Msg("recycling connection at message budget")
		_ = conn.client.Close()
		conn = nil
	}

	if conn == nil {
		client, err := m.newClient()
		if err != nil {
			m.release(nil)
			return nil, fmt.Errorf("create mail client: %w", err)
		}
		if err := client.DialWithContext(ctx); err != nil {
			m.release(nil)
			return nil, fmt.Errorf("dial %s:%d: %w", m.cfg.Host, m.cfg.Port, err)
		}
		conn = &pooledConn{client: client}
	}

	return conn, nil
}

// release returns a slot to the pool. conn may be nil when the connection
// was discarded.
func (m *SMTPMailer) release(conn *pooledConn) {
	m.pool <- conn
}

func (m *SMTPMailer) newClient() (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(m.cfg.DialTimeout),
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}
	return mail.NewClient(m.cfg.Host, opts...)
}

// buildMessage composes the outgoing email: HTML body, generated Message-ID,
// and the decoded PDF attachment when one was supplied.
func (m *SMTPMailer) buildMessage(req SendRequest) (*mail.Msg, string, error) {
	msg := mail.NewMsg()

	if err := msg.FromFormat(m.cfg.FromName, m.cfg.Username); err != nil {
		return nil, "", fmt.Errorf("invalid from address %q: %w", m.cfg.Username, err)
	}
	if err := msg.To(req.Recipient); err != nil {
		return nil, "", fmt.Errorf("invalid recipient %q: %w", req.Recipient, err)
	}

	// SetMessageIDWithValue adds the angle brackets itself.
	messageID := fmt.Sprintf("%s@invoice-notifier", uuid.New().String())
	msg.SetMessageIDWithValue(messageID)

	msg.Subject(req.Subject)
	msg.SetBodyString(mail.TypeTextHTML, req.HTMLBody)

	if req.PDFBase64 != "" {
		pdf, err := base64.StdEncoding.DecodeString(req.PDFBase64)
		if err != nil {
			return nil, "", fmt.Errorf("decode pdf attachment: %w", err)
		}
		if err := msg.AttachReader(attachmentName, bytes.NewReader(pdf),
			mail.WithFileContentType(pdfContentType)); err != nil {
			return nil, "", fmt.Errorf("attach %s: %w", attachmentName, err)
		}
	}

	return msg, messageID, nil
}
