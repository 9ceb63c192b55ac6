// Package mailer delivers system emails over SMTP: stock alert
// notifications and login verification codes. Delivery is best-effort;
// callers run Send* in a goroutine and log failures.
package mailer

import (
	"errors"
	"fmt"
	"net/smtp"
	"os"
	"strings"
	"time"
)

type Mailer struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	FromName string
}

// NewFromEnv builds a Mailer from SMTP_* environment variables.
func NewFromEnv() *Mailer {
	m := &Mailer{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     os.Getenv("SMTP_PORT"),
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("SMTP_FROM"),
		FromName: os.Getenv("SMTP_FROM_NAME"),
	}
	if m.Port == "" {
		m.Port = "587"
	}
	if m.From == "" {
		m.From = m.Username
	}
	if m.FromName == "" {
		m.FromName = "Smart Inventory"
	}
	return m
}

// Send delivers a single HTML email to the given recipients.
func (m *Mailer) Send(to []string, subject, htmlBody string) error {
	if len(to) == 0 {
		return nil
	}
	if m.Host == "" || m.Username == "" {
		return errors.New("mailer: SMTP not configured")
	}

	from := fmt.Sprintf("%s <%s>", m.FromName, m.From)

	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + strings.Join(to, ", ") + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)

	addr := m.Host + ":" + m.Port
	auth := smtp.PlainAuth("", m.Username, m.Password, m.Host)
	return smtp.SendMail(addr, auth, m.From, to, []byte(b.String()))
}

// SendStockAlert notifies the configured recipients about a new alert.
func (m *Mailer) SendStockAlert(recipients []string, productName string, severity string, stock int) error {
	subject := fmt.Sprintf("[Inventory Alert] %s Stock for %s", severity, productName)
	body := fmt.Sprintf(`
		<h2>Inventory Alert</h2>
		<p><b>Product:</b> %s</p>
		<p><b>Severity:</b> %s</p>
		<p><b>Remaining Stock:</b> %d</p>
		<p>Please check your Inventory Dashboard for more details.</p>
	`, productName, severity, stock)
	return m.Send(recipients, subject, body)
}

// SendVerificationCode emails a login or password-reset code.
func (m *Mailer) SendVerificationCode(to, fullName, code string, ttl time.Duration) error {
	if fullName == "" {
		fullName = "User"
	}
	subject := "Smart Inventory - Verification Code"
	body := fmt.Sprintf(`
		<h2>Verification Code</h2>
		<p>Hello <strong>%s</strong>,</p>
		<p>Your verification code is:</p>
		<h3>%s</h3>
		<p>This code will expire in %d minutes.</p>
		<p>If you did not request this, you can safely ignore this email.</p>
	`, fullName, code, int(ttl.Minutes()))
	return m.Send([]string{to}, subject, body)
}
