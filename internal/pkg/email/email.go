package email

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

	"github.com/rs/zerolog"
)

// Sender delivers a transactional HTML email
type Sender interface {
	Send(ctx context.Context, to, subject, html string) error
}

// SMTPConfig holds configuration for SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	UseTLS    bool
}

// SMTPSender implements Sender over SMTP
type SMTPSender struct {
	config SMTPConfig
	logger zerolog.Logger
}

// NewSMTPSender creates a new SMTPSender
func NewSMTPSender(config SMTPConfig, logger zerolog.Logger) *SMTPSender {
	return &SMTPSender{
		config: config,
		logger: logger,
	}
}

// Configured reports whether SMTP credentials are present
func (s *SMTPSender) Configured() bool {
	return s.config.Username != "" && s.config.Password != ""
}

// Send sends an HTML email. Without SMTP credentials the message is only
// logged so local setups keep working.
func (s *SMTPSender) Send(ctx context.Context, to, subject, html string) error {
	if to == "" {
		return fmt.Errorf("email recipient is empty")
	}
	if !s.Configured() {
		s.logger.Warn().
			Str("toEmail", to).
			Str("subject", subject).
			Msg("SMTP credentials not configured - email not sent")
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	message := buildMessage(s.config.FromName, s.config.FromEmail, to, subject, html)
	if err := s.deliver(ctx, to, message); err != nil {
		s.logger.Error().Err(err).Str("toEmail", to).Msg("Failed to send email")
		return err
	}

	s.logger.Debug().Str("toEmail", to).Str("subject", subject).Msg("Email sent")
	return nil
}

// buildMessage renders headers and body in a fixed order
func buildMessage(fromName, fromEmail, to, subject, htmlBody string) []byte {
	headers := [][2]string{
		{"From", fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("UTF-8", fromName), fromEmail)},
		{"To", to},
		{"Subject", mime.QEncoding.Encode("UTF-8", subject)},
		{"MIME-Version", "1.0"},
		{"Content-Type", "text/html; charset=UTF-8"},
	}

	var b strings.Builder
	for _, h := range headers {
		b.WriteString(h[0])
		b.WriteString(": ")
		b.WriteString(h[1])
		b.WriteString("\r\n")
	}
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return []byte(b.String())
}

func (s *SMTPSender) deliver(ctx context.Context, to string, message []byte) error {
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	serverAddress := net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))

	if !s.config.UseTLS {
		if err := smtp.SendMail(serverAddress, auth, s.config.FromEmail, []string{to}, message); err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	}

	dialer := &net.Dialer{Timeout: 10 * time.Second}
	if deadline, ok := ctx.Deadline(); ok {
		dialer.Deadline = deadline
	}
	conn, err := tls.DialWithDialer(dialer, "tcp", serverAddress, &tls.Config{ServerName: s.config.Host})
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Quit()

	if err = client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}
	if err = client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write(message); err != nil {
		return fmt.Errorf("failed to write email message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}
	return nil
}
