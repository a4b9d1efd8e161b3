// Jester Report - Daily Rating Statistics Mailer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jester-report

package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"github.com/tomtom215/jester-report/internal/config"
	"github.com/tomtom215/jester-report/internal/logging"
	"github.com/tomtom215/jester-report/internal/metrics"
)

// defaultTimeout applies when the configuration leaves the timeout unset.
const defaultTimeout = 30 * time.Second

// Transport delivers a message to all of its recipients.
type Transport interface {
	Send(ctx context.Context, msg *Message) error
}

// SMTPTransport implements Transport against an SMTP relay.
type SMTPTransport struct {
	host     string
	port     int
	username string
	password string
	useTLS   bool
	timeout  time.Duration

	// tlsConfig overrides the STARTTLS configuration (tests).
	tlsConfig *tls.Config
}

// NewSMTPTransport creates a transport from the mail configuration.
func NewSMTPTransport(cfg *config.MailConfig) *SMTPTransport {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &SMTPTransport{
		host:     cfg.Host,
		port:     cfg.Port,
		username: cfg.Username,
		password: cfg.Password,
		useTLS:   cfg.UseTLS,
		timeout:  timeout,
	}
}

// Addr returns the relay address.
func (t *SMTPTransport) Addr() string {
	return net.JoinHostPort(t.host, strconv.Itoa(t.port))
}

// Send delivers msg in a single SMTP session with one RCPT per recipient.
func (t *SMTPTransport) Send(ctx context.Context, msg *Message) error {
	if len(msg.To) == 0 {
		return &DeliveryError{Code: CodeRecipientRejected, Err: errors.New("message has no recipients")}
	}

	body, err := msg.Bytes()
	if err != nil {
		return &DeliveryError{Code: CodeUnknown, Err: err}
	}

	start := time.Now()
	err = t.sendSMTP(ctx, msg.From, msg.To, body)
	metrics.RecordMailSend(time.Since(start))

	if err != nil {
		return err
	}

	logging.Ctx(ctx).Debug().
		Str("relay", t.Addr()).
		Int("recipients", len(msg.To)).
		Dur("duration", time.Since(start)).
		Msg("SMTP session completed")
	return nil
}

// sendSMTP runs the SMTP conversation. The deadline covers the whole session.
func (t *SMTPTransport) sendSMTP(ctx context.Context, from string, to []string, body []byte) error {
	deadline := time.Now().Add(t.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	dialer := &net.Dialer{Timeout: t.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", t.Addr())
	if err != nil {
		return newDeliveryError(CodeConnectionFailed, fmt.Errorf("failed to connect to SMTP server: %w", err))
	}
	defer func() { _ = conn.Close() }() //nolint:errcheck // Best effort cleanup

	if err := conn.SetDeadline(deadline); err != nil {
		return newDeliveryError(CodeConnectionFailed, fmt.Errorf("failed to set SMTP deadline: %w", err))
	}
	// Cancelling ctx aborts a session blocked on the relay.
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	client, err := smtp.NewClient(conn, t.host)
	if err != nil {
		return t.sessionError(ctx, CodeConnectionFailed, fmt.Errorf("failed to create SMTP client: %w", err))
	}
	defer func() { _ = client.Close() }() //nolint:errcheck // Best effort cleanup

	if t.useTLS {
		tlsConfig := t.tlsConfig
		if tlsConfig == nil {
			tlsConfig = &tls.Config{
				ServerName: t.host,
				MinVersion: tls.VersionTLS12,
			}
		}
		if err := client.StartTLS(tlsConfig); err != nil {
			return t.sessionError(ctx, CodeConnectionFailed, fmt.Errorf("failed to start TLS: %w", err))
		}
	}

	if t.username != "" {
		auth := smtp.PlainAuth("", t.username, t.password, t.host)
		if err := client.Auth(auth); err != nil {
			return t.sessionError(ctx, CodeAuthFailed, fmt.Errorf("SMTP authentication failed: %w", err))
		}
	}

	if err := client.Mail(from); err != nil {
		return t.sessionError(ctx, classifySenderError(err), fmt.Errorf("failed to set sender: %w", err))
	}

	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return t.sessionError(ctx, CodeRecipientRejected, fmt.Errorf("recipient %s rejected: %w", rcpt, err))
		}
	}

	writer, err := client.Data()
	if err != nil {
		return t.sessionError(ctx, classifyEmailError(err), fmt.Errorf("failed to start message: %w", err))
	}
	if _, err := writer.Write(body); err != nil {
		return t.sessionError(ctx, classifyEmailError(err), fmt.Errorf("failed to write message: %w", err))
	}
	if err := writer.Close(); err != nil {
		return t.sessionError(ctx, classifyEmailError(err), fmt.Errorf("failed to close message: %w", err))
	}

	// The relay accepted the message; a failed QUIT does not undo that.
	if err := client.Quit(); err != nil {
		logging.Ctx(ctx).Debug().Err(err).Msg("SMTP QUIT failed after message was accepted")
	}
	return nil
}

// sessionError builds the DeliveryError for a failure after dialing. A
// session torn down by context cancellation reports the context error.
func (t *SMTPTransport) sessionError(ctx context.Context, code string, err error) *DeliveryError {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return newDeliveryError(CodeTimeout, fmt.Errorf("%w (%w)", ctxErr, err))
	}
	return newDeliveryError(code, err)
}
