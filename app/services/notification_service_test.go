// Package services provides external service integrations and technical concerns like notifications and tokens
package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingEmailProvider struct {
	to      string
	subject string
	message string
}

func (p *recordingEmailProvider) SendEmail(email, subject, message string) error {
	p.to = email
	p.subject = subject
	p.message = message
	return nil
}

func TestSendEmailValidatesAddress(t *testing.T) {
	provider := &recordingEmailProvider{}
	svc := NewNotificationService(NewMockPushProvider(), provider)

	require.Error(t, svc.SendEmail("", "Hola", "cuerpo"))
	require.Error(t, svc.SendEmail("no-at-sign", "Hola", "cuerpo"))
	assert.Empty(t, provider.to)

	require.NoError(t, svc.SendEmail("laura@example.com", "Hola", "cuerpo"))
	assert.Equal(t, "laura@example.com", provider.to)
}

func TestSendEmailWithoutProvider(t *testing.T) {
	svc := NewNotificationService(NewMockPushProvider(), nil)
	require.Error(t, svc.SendEmail("laura@example.com", "Hola", "cuerpo"))
}

func TestSendPushRequiresTarget(t *testing.T) {
	svc := NewNotificationService(NewMockPushProvider(), NewMockEmailProvider())
	require.Error(t, svc.SendPush("", "Hola", "cuerpo"))
}

func TestBuildEmailMessage(t *testing.T) {
	msg := string(buildEmailMessage("no-reply@zyromarketplace.com", "laura@example.com", "Cuenta aprobada", "Tu cuenta ha sido aprobada."))

	headers, body, found := strings.Cut(msg, "\r\n\r\n")
	require.True(t, found, "headers and body are separated by a blank line")
	assert.Contains(t, headers, "From: no-reply@zyromarketplace.com")
	assert.Contains(t, headers, "To: laura@example.com")
	assert.Contains(t, headers, "Subject: Cuenta aprobada")
	assert.Contains(t, headers, `charset="UTF-8"`)
	assert.Equal(t, "Tu cuenta ha sido aprobada.", body)
}
