// Package services provides external service integrations and technical concerns like notifications and tokens
package services

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"
)

// NotificationService delivers rendered notifications via push and email
type NotificationService interface {
	SendPush(deviceTarget, title, body string) error
	SendEmail(email, subject, message string) error
}

// NotificationServiceImpl implements NotificationService
type NotificationServiceImpl struct {
	pushProvider  PushProvider
	emailProvider EmailProvider
}

// PushProvider interface for mobile push delivery
type PushProvider interface {
	SendPush(deviceTarget, title, body string) error
}

// EmailProvider interface for email sending
type EmailProvider interface {
	SendEmail(email, subject, message string) error
}

// NewNotificationService creates a new notification service
func NewNotificationService(pushProvider PushProvider, emailProvider EmailProvider) NotificationService {
	return &NotificationServiceImpl{
		pushProvider:  pushProvider,
		emailProvider: emailProvider,
	}
}

// SendPush sends a push notification to the given device target
func (s *NotificationServiceImpl) SendPush(deviceTarget, title, body string) error {
	if s.pushProvider == nil {
		return fmt.Errorf("push provider not configured")
	}

	if deviceTarget == "" {
		return fmt.Errorf("empty push target")
	}

	return s.pushProvider.SendPush(deviceTarget, title, body)
}

// SendEmail sends an email to the specified email address
func (s *NotificationServiceImpl) SendEmail(email, subject, message string) error {
	if s.emailProvider == nil {
		return fmt.Errorf("email provider not configured")
	}

	if len(email) == 0 || !strings.Contains(email, "@") {
		return fmt.Errorf("invalid email address: %s", email)
	}

	return s.emailProvider.SendEmail(email, subject, message)
}

type MockPushProvider struct{}

func NewMockPushProvider() PushProvider {
	return &MockPushProvider{}
}

func (p *MockPushProvider) SendPush(deviceTarget, title, body string) error {
	log.Printf("Push sent to %s [%s]: %s", deviceTarget, title, body)
	return nil
}

type MockEmailProvider struct{}

func NewMockEmailProvider() EmailProvider {
	return &MockEmailProvider{}
}

func (p *MockEmailProvider) SendEmail(email, subject, message string) error {
	log.Printf("Email sent to %s [%s]: %s", email, subject, message)
	return nil
}

// SMTPEmailProvider sends mail through a plain SMTP relay
type SMTPEmailProvider struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewSMTPEmailProvider(host string, port int, username, password, from string) EmailProvider {
	return &SMTPEmailProvider{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (p *SMTPEmailProvider) SendEmail(email, subject, message string) error {
	addr := fmt.Sprintf("%s:%d", p.host, p.port)

	var auth smtp.Auth
	if p.username != "" {
		auth = smtp.PlainAuth("", p.username, p.password, p.host)
	}

	msg := buildEmailMessage(p.from, email, subject, message)
	if err := smtp.SendMail(addr, auth, p.from, []string{email}, msg); err != nil {
		return fmt.Errorf("smtp send to %s failed: %w", email, err)
	}
	return nil
}

func buildEmailMessage(from, to, subject, body string) []byte {
	headers := []string{
		"From: " + from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		`Content-Type: text/plain; charset="UTF-8"`,
	}
	return []byte(strings.Join(headers, "\r\n") + "\r\n\r\n" + body)
}
