// Package delivery sends the rendered digest by email.
package delivery

import (
	"errors"
	"fmt"
	"mime"
	"net/smtp"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ErrNotConfigured is returned when SMTP credentials are missing.
var ErrNotConfigured = errors.New("email delivery not configured")

// MailerConfig holds configuration for the SMTP mailer. Credentials come
// from the environment in the binaries, never from the plan file.
type MailerConfig struct {
	// Host is the SMTP server host (default: smtp.gmail.com).
	Host string

	// Port is the SMTP server port (default: 587, STARTTLS).
	Port int

	// Username is the sending account.
	Username string

	// Password is the account app password.
	Password string

	// Logger for mailer operations.
	Logger zerolog.Logger
}

// Mailer sends HTML digests over SMTP with STARTTLS.
type Mailer struct {
	host     string
	port     int
	username string
	password string
	logger   zerolog.Logger

	// send is swappable for tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewMailer creates an SMTP mailer.
func NewMailer(cfg MailerConfig) *Mailer {
	host := cfg.Host
	if host == "" {
		host = "smtp.gmail.com"
	}
	port := cfg.Port
	if port == 0 {
		port = 587
	}

	return &Mailer{
		host:     host,
		port:     port,
		username: cfg.Username,
		password: cfg.Password,
		logger:   cfg.Logger,
		send:     smtp.SendMail,
	}
}

// Configured reports whether credentials are present.
func (m *Mailer) Configured() bool {
	return m.username != "" && m.password != ""
}

// SendHTML delivers an HTML body to the recipient. An empty subject gets
// the dated default.
func (m *Mailer) SendHTML(to, subject, htmlBody string) error {
	if !m.Configured() {
		return ErrNotConfigured
	}
	if subject == "" {
		subject = fmt.Sprintf("Fly cheap, stay cheap — your deals %s", time.Now().Format("2006-01-02"))
	}

	msg := m.buildMessage(to, subject, htmlBody)
	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	auth := smtp.PlainAuth("", m.username, m.password, m.host)

	if err := m.send(addr, auth, m.username, []string{to}, msg); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}

	m.logger.Info().Str("to", to).Msg("digest email sent")
	return nil
}

func (m *Mailer) buildMessage(to, subject, htmlBody string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.username)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return []byte(b.String())
}
