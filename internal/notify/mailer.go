package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/ortelius/obsolescence-backend/config"
)

const smtpDialTimeout = 10 * time.Second

// Mailer delivers an HTML message to a list of recipients
type Mailer interface {
	Send(ctx context.Context, recipients []string, subject, htmlBody string) error
}

// SMTPMailer sends mail through the configured SMTP relay
type SMTPMailer struct {
	cfg config.SMTPConfig
}

// NewSMTPMailer creates a mailer for the given relay settings
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) from() string {
	if m.cfg.SenderName == "" {
		return m.cfg.Sender
	}
	return fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", m.cfg.SenderName), m.cfg.Sender)
}

func (m *SMTPMailer) message(recipients []string, subject, htmlBody string) []byte {
	return []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		m.from(), strings.Join(recipients, ", "), mime.QEncoding.Encode("utf-8", subject), htmlBody,
	))
}

// Send opens a connection to the relay, upgrades it with STARTTLS when
// configured, authenticates when credentials are set and delivers the message.
func (m *SMTPMailer) Send(ctx context.Context, recipients []string, subject, htmlBody string) error {
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))

	dialer := &net.Dialer{Timeout: smtpDialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	deadline := time.Now().Add(smtpDialTimeout * 3)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetDeadline(deadline)

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		conn.Close()
		return err
	}
	defer client.Close()

	if m.cfg.UseTLS {
		if err := client.StartTLS(&tls.Config{ServerName: m.cfg.Host, MinVersion: tls.VersionTLS12}); err != nil {
			return err
		}
	}

	if m.cfg.User != "" && m.cfg.Password != "" {
		if err := client.Auth(smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)); err != nil {
			return err
		}
	}

	if err := client.Mail(m.cfg.Sender); err != nil {
		return err
	}
	for _, rcpt := range recipients {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(m.message(recipients, subject, htmlBody)); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}
