package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"strings"

	"gopkg.in/gomail.v2"
)

// SMTPConfig configures the SMTP mailer.
type SMTPConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	Encryption string // "ssl", "starttls" or empty for opportunistic STARTTLS
}

// SMTPMailer sends messages with gomail.
type SMTPMailer struct {
	cfg    SMTPConfig
	dialer *gomail.Dialer
	logger *slog.Logger
}

// NewSMTPMailer validates cfg and prepares a dialer. No connection is made until Send.
func NewSMTPMailer(cfg SMTPConfig, logger *slog.Logger) (*SMTPMailer, error) {
	if cfg.Host == "" || cfg.Port == 0 || cfg.From == "" {
		return nil, fmt.Errorf("SMTP host, port, and sender email must be configured")
	}
	if logger == nil {
		logger = slog.Default()
	}

	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	switch strings.ToLower(cfg.Encryption) {
	case "ssl":
		dialer.SSL = true
		dialer.TLSConfig = &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12}
	case "tls", "starttls":
		dialer.TLSConfig = &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12}
	}

	return &SMTPMailer{cfg: cfg, dialer: dialer, logger: logger}, nil
}

func (s *SMTPMailer) newMessage(msg Message) *gomail.Message {
	m := gomail.NewMessage()
	if msg.FromName != "" {
		m.SetAddressHeader("From", s.cfg.From, msg.FromName)
	} else {
		m.SetHeader("From", s.cfg.From)
	}
	m.SetHeader("To", msg.To...)
	if msg.ReplyTo != "" {
		m.SetHeader("Reply-To", msg.ReplyTo)
	}
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)
	return m
}

// Send delivers msg, giving up when ctx is done.
func (s *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := msg.validate(); err != nil {
		return err
	}

	m := s.newMessage(msg)

	done := make(chan error, 1)
	go func() {
		done <- s.dialer.DialAndSend(m)
	}()

	select {
	case <-ctx.Done():
		s.logger.Warn("email sending cancelled", "to", msg.To, "subject", msg.Subject, "error", ctx.Err())
		return fmt.Errorf("email sending cancelled or timed out: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			s.logger.Error("failed to send email", "to", msg.To, "subject", msg.Subject, "error", err)
			return fmt.Errorf("failed to send email: %w", err)
		}
	}

	s.logger.Info("email sent", "to", msg.To, "subject", msg.Subject)
	return nil
}

// LogMailer writes messages to the log instead of sending them. It stands in
// for SMTP in development.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer returns a Mailer that only logs.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMailer{logger: logger}
}

func (l *LogMailer) Send(ctx context.Context, msg Message) error {
	if err := msg.validate(); err != nil {
		return err
	}
	l.logger.InfoContext(ctx, "email not sent (log mailer)",
		"to", msg.To, "reply_to", msg.ReplyTo, "subject", msg.Subject, "bytes", len(msg.HTML))
	return nil
}
