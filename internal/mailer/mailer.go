// Package mailer sends notification emails over SMTP.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPMailer sends plain-text mail through a single SMTP server. Callers
// treat sends as fire-and-forget; this type only reports the error.
type SMTPMailer struct {
	addr string
	auth smtp.Auth
	from string
}

// NewSMTPMailer configures a mailer for host:port. username may be empty for
// unauthenticated servers.
func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	m := &SMTPMailer{
		addr: fmt.Sprintf("%s:%d", host, port),
		from: from,
	}
	if username != "" {
		m.auth = smtp.PlainAuth("", username, password, host)
	}
	return m
}

// Send delivers one message to a single recipient.
func (m *SMTPMailer) Send(to, subject, body string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)

	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{to}, []byte(b.String())); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
