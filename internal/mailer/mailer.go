// Package mailer owns the outbound delivery transport: a pooled, reusable
// SMTP channel to the mail relay.
package mailer

import (
	"context"
	"time"
)

// Config holds connection parameters for the SMTP transport.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	// FromName is the display name used on the From header; the address
	// itself is Username.
	FromName string
	// MaxConnections bounds concurrent relay connections.
	MaxConnections int
	// MaxMessages bounds how many messages a single connection carries
	// before it is closed and redialed.
	MaxMessages int
	DialTimeout time.Duration
}

// withDefaults fills zero values with the pool defaults.
func (c Config) withDefaults() Config {
	if c.Port <= 0 {
		c.Port = 587
	}
	if c.MaxConnections <= 0 {
		c.MaxConnections = 5
	}
	if c.MaxMessages <= 0 {
		c.MaxMessages = 100
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = 10 * time.Second
	}
	return c
}

// SendRequest is one composed email handed to the transport.
type SendRequest struct {
	Recipient string
	Subject   string
	HTMLBody  string
	// PDFBase64 is the optional invoice attachment. Empty means the email
	// is sent without an attachment; that is not an error.
	PDFBase64 string
}

// Outcome is the terminal record of a delivery attempt. It is consumed only
// by logging and metrics; the HTTP caller has already been answered by the
// time it exists.
type Outcome struct {
	Success   bool
	MessageID string
	Err       string
	Recipient string
}

// Mailer is the delivery transport boundary. Isolating it behind an
// interface keeps the transport mockable and leaves room to layer retry or
// failure recording on top without touching the renderer or validator.
type Mailer interface {
	// Send transmits one email. Failures are terminal: they are reported in
	// the Outcome, never as an error, because no caller remains to observe
	// them.
	Send(ctx context.Context, req SendRequest) Outcome
	// Verify performs a liveness check against the relay. Callers log a
	// negative result; an unreachable relay must not stop the process.
	Verify(ctx context.Context) error
	// Close releases pooled connections. Best effort at shutdown.
	Close() error
}
