package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/noah-isme/mcu-dashboard-api/pkg/config"
)

// Mailer sends MCU expiry reminder messages over authenticated SMTP.
type Mailer struct {
	host     string
	port     int
	from     string
	password string
	timeout  time.Duration
}

// New constructs a Mailer from configuration.
func New(cfg config.SMTPConfig) *Mailer {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Mailer{
		host:     cfg.Host,
		port:     cfg.Port,
		from:     cfg.From,
		password: cfg.Password,
		timeout:  timeout,
	}
}

// Configured reports whether the transport has enough settings to send.
func (m *Mailer) Configured() bool {
	return m.host != "" && m.from != ""
}

// SendReminder delivers an expiry reminder to a single recipient.
func (m *Mailer) SendReminder(ctx context.Context, to, employeeName string, expiredDate time.Time, mcuYear int) error {
	if !m.Configured() {
		return fmt.Errorf("smtp transport not configured")
	}
	if to == "" {
		return fmt.Errorf("recipient address required")
	}

	subject := fmt.Sprintf("MCU Expired Reminder - %s", employeeName)
	body := fmt.Sprintf(
		"Dear %s,\r\n\r\nYour MCU (Medical Check Up) for year %d will expire on %s.\r\nPlease update your MCU soon.\r\n\r\nRegards,\r\nHSE Team\r\n",
		employeeName, mcuYear, expiredDate.Format("2006-01-02"))

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s\r\n", m.from))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	return m.send(ctx, to, msg.String())
}

func (m *Mailer) send(ctx context.Context, to, msg string) error {
	addr := net.JoinHostPort(m.host, fmt.Sprintf("%d", m.port))

	dialer := &net.Dialer{Timeout: m.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial smtp: %w", err)
	}

	client, err := smtp.NewClient(conn, m.host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close() //nolint:errcheck

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: m.host}); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}

	if m.password != "" {
		auth := smtp.PlainAuth("", m.from, m.password, m.host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(m.from); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write([]byte(msg)); err != nil {
		_ = w.Close()
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close data: %w", err)
	}
	return client.Quit()
}
