// Package mailer delivers contact-form messages through an SMTP relay.
package mailer

import (
	"fmt"
	"net/smtp"
	"os"
)

type Mailer interface {
	Send(subject, body string) error
}

// SMTPMailer sends plain-text mail with STARTTLS on the standard
// submission port.
type SMTPMailer struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	FromName string
	To       string
}

// NewFromEnv builds the mailer from SMTP_* / EMAIL_* environment
// variables, defaulting to Gmail's submission endpoint.
func NewFromEnv() *SMTPMailer {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		host = "smtp.gmail.com"
	}
	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587"
	}
	from := os.Getenv("EMAIL_FROM")
	return &SMTPMailer{
		Host:     host,
		Port:     port,
		Username: from,
		Password: os.Getenv("EMAIL_PASS"),
		From:     from,
		FromName: "Formulario Web",
		To:       os.Getenv("EMAIL_TO"),
	}
}

func (m *SMTPMailer) Send(subject, body string) error {
	if m.From == "" || m.To == "" {
		return fmt.Errorf("mailer: EMAIL_FROM / EMAIL_TO not configured")
	}

	msg := fmt.Sprintf("From: %s <%s>\r\n", m.FromName, m.From) +
		fmt.Sprintf("To: %s\r\n", m.To) +
		fmt.Sprintf("Subject: %s\r\n", subject) +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/plain; charset=\"utf-8\"\r\n" +
		"\r\n" + body

	addr := m.Host + ":" + m.Port
	auth := smtp.PlainAuth("", m.Username, m.Password, m.Host)
	// smtp.SendMail negotiates STARTTLS when the server advertises it.
	return smtp.SendMail(addr, auth, m.From, []string{m.To}, []byte(msg))
}
