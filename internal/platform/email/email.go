package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pts/internal/domain/notifications"
	"pts/internal/platform/config"
)

type noopMailer struct{}

func (noopMailer) Send(ctx context.Context, to, subject, body string) error {
	return nil
}

type smtpMailer struct {
	host     string
	port     int
	user     string
	password string
	useTLS   bool
	from     string
	log      *zap.Logger
}

// New returns a mailer that delivers through SMTP, or a no-op mailer when email is disabled.
func New(cfg config.Config, log *zap.Logger) notifications.Mailer {
	if !cfg.EmailEnabled || cfg.SMTPHost == "" {
		return noopMailer{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &smtpMailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		useTLS:   cfg.SMTPUseTLS,
		from:     cfg.EmailFrom,
		log:      log,
	}
}

func (s *smtpMailer) Send(ctx context.Context, to, subject, body string) error {
	if strings.TrimSpace(to) == "" {
		return nil
	}
	addr := net.JoinHostPort(s.host, fmt.Sprint(s.port))
	msg := buildMessage(s.from, to, subject, body, time.Now())

	dialer := net.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial smtp %s: %w", addr, err)
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		return err
	}
	defer client.Close()

	if s.useTLS {
		if err := client.StartTLS(&tls.Config{ServerName: s.host}); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}
	if s.user != "" {
		if err := client.Auth(smtp.PlainAuth("", s.user, s.password, s.host)); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(s.from); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	s.log.Debug("mail sent", zap.String("to", to))
	return client.Quit()
}

// buildMessage renders a plain text UTF-8 message. The subject is Q-encoded since it is usually Thai.
func buildMessage(from, to, subject, body string, now time.Time) []byte {
	domain := "localhost"
	if at := strings.LastIndex(from, "@"); at >= 0 && at < len(from)-1 {
		domain = from[at+1:]
	}
	headers := []string{
		"From: " + from,
		"To: " + to,
		"Subject: " + mime.QEncoding.Encode("utf-8", subject),
		"Date: " + now.Format(time.RFC1123Z),
		fmt.Sprintf("Message-ID: <%s@%s>", uuid.NewString(), domain),
		"MIME-Version: 1.0",
		`Content-Type: text/plain; charset="UTF-8"`,
		"Content-Transfer-Encoding: 8bit",
		"",
	}
	return []byte(strings.Join(headers, "\r\n") + "\r\n" + body)
}
