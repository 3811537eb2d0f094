// File path: internal/notify/notify.go

// Package notify delivers outbound email. Generation treats delivery as
// fire-and-forget: a send failure is logged, never propagated into batch
// results.
package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"os"
	"strings"
	"time"

	"github.com/belriyad/docgen/internal/common"
)

// sendTimeout bounds one SMTP delivery when the caller's context carries no
// deadline of its own. A hung server must not pin the sending goroutine.
const sendTimeout = 30 * time.Second

// Message is one outbound notification.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers notifications.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// NewSenderFromEnv returns an SMTP sender when SMTP_HOST is configured and a
// log-only sender otherwise.
func NewSenderFromEnv() Sender {
	host := strings.TrimSpace(os.Getenv("SMTP_HOST"))
	if host == "" {
		common.Logger().Info("notify: SMTP_HOST not set; using log sender")
		return &LogSender{}
	}
	port := strings.TrimSpace(os.Getenv("SMTP_PORT"))
	if port == "" {
		port = "587"
	}
	return &SMTPSender{
		addr:     host + ":" + port,
		host:     host,
		username: strings.TrimSpace(os.Getenv("SMTP_USERNAME")),
		password: os.Getenv("SMTP_PASSWORD"),
		from:     strings.TrimSpace(os.Getenv("SMTP_FROM")),
	}
}

// LogSender records the notification in the log and drops it.
type LogSender struct{}

func (l *LogSender) Send(ctx context.Context, msg Message) error {
	common.Logger().Info("notify: message logged (no SMTP configured)",
		"to", msg.To, "subject", msg.Subject)
	return nil
}

// SMTPSender delivers mail over authenticated SMTP.
type SMTPSender struct {
	addr     string
	host     string
	username string
	password string
	from     string
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if strings.TrimSpace(msg.To) == "" {
		return fmt.Errorf("notify: recipient required")
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, sendTimeout)
		defer cancel()
	}
	from := s.from
	if from == "" {
		from = s.username
	}
	payload := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		from, msg.To, msg.Subject, msg.Body)

	conn, err := (&net.Dialer{}).DialContext(ctx, "tcp", s.addr)
	if err != nil {
		return fmt.Errorf("notify: dial smtp: %w", err)
	}
	defer conn.Close()
	// Closing the connection on context expiry unblocks any read or write
	// inside the SMTP conversation below.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		return fmt.Errorf("notify: smtp handshake: %w", err)
	}
	defer client.Close()
	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: s.host}); err != nil {
			return fmt.Errorf("notify: starttls: %w", err)
		}
	}
	if s.username != "" {
		if ok, _ := client.Extension("AUTH"); ok {
			auth := smtp.PlainAuth("", s.username, s.password, s.host)
			if err := client.Auth(auth); err != nil {
				return fmt.Errorf("notify: smtp auth: %w", err)
			}
		}
	}
	if err := client.Mail(from); err != nil {
		return fmt.Errorf("notify: mail from: %w", err)
	}
	if err := client.Rcpt(msg.To); err != nil {
		return fmt.Errorf("notify: rcpt to: %w", err)
	}
	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("notify: smtp data: %w", err)
	}
	if _, err := writer.Write([]byte(payload)); err != nil {
		return fmt.Errorf("notify: write message: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("notify: finish message: %w", err)
	}
	return client.Quit()
}
