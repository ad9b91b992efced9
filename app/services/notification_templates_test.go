// Package services provides external service integrations and technical concerns like notifications and tokens
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zyromarketplace/zyro-backend/models"
)

func TestRenderNotification(t *testing.T) {
	tests := []struct {
		name         string
		event        models.NotificationEvent
		params       map[string]string
		wantTitle    string
		bodyContains []string
	}{
		{
			name:         "request approved",
			event:        models.EventRequestApproved,
			params:       map[string]string{"campaign_title": "Cena para dos"},
			wantTitle:    "¡Colaboración Aprobada!",
			bodyContains: []string{"Cena para dos", "aprobada"},
		},
		{
			name:         "request submitted names the influencer",
			event:        models.EventRequestSubmitted,
			params:       map[string]string{"campaign_title": "Brunch", "influencer_name": "Laura"},
			wantTitle:    "Nueva solicitud de colaboración",
			bodyContains: []string{"Laura", "Brunch"},
		},
		{
			name:         "request rejected",
			event:        models.EventRequestRejected,
			params:       map[string]string{"campaign_title": "Brunch"},
			wantTitle:    "Solicitud rechazada",
			bodyContains: []string{"Brunch"},
		},
		{
			name:         "company told about approval",
			event:        models.EventRequestApprovedCompany,
			params:       map[string]string{"campaign_title": "Brunch", "influencer_name": "Laura"},
			wantTitle:    "Colaboración confirmada",
			bodyContains: []string{"Laura", "Brunch", "aprobada"},
		},
		{
			name:         "company told about cancellation",
			event:        models.EventRequestCancelledCompany,
			params:       map[string]string{"campaign_title": "Brunch", "influencer_name": "Laura"},
			wantTitle:    "Colaboración cancelada",
			bodyContains: []string{"Laura", "Brunch", "cancelada"},
		},
		{
			name:         "content reminder",
			event:        models.EventContentReminder,
			params:       map[string]string{"campaign_title": "Brunch"},
			wantTitle:    "Recordatorio de contenido",
			bodyContains: []string{"Brunch", "plazo"},
		},
		{
			name:         "account rejected carries admin notes",
			event:        models.EventAccountRejected,
			params:       map[string]string{"admin_notes": "Perfil incompleto"},
			wantTitle:    "Cuenta no aprobada",
			bodyContains: []string{"Perfil incompleto"},
		},
		{
			name:         "account rejected without notes",
			event:        models.EventAccountRejected,
			params:       map[string]string{},
			wantTitle:    "Cuenta no aprobada",
			bodyContains: []string{"no ha sido aprobado"},
		},
		{
			name:         "subscription started names the plan",
			event:        models.EventSubscriptionStarted,
			params:       map[string]string{"plan_name": "Plan 6 meses"},
			wantTitle:    "Suscripción activada",
			bodyContains: []string{"Plan 6 meses"},
		},
		{
			name:         "new chat message names the sender",
			event:        models.EventNewChatMessage,
			params:       map[string]string{"sender_name": "Restaurante La Plaza"},
			wantTitle:    "Nuevo mensaje",
			bodyContains: []string{"Restaurante La Plaza"},
		},
		{
			name:         "unknown event falls back to generic copy",
			event:        models.NotificationEvent("something_new"),
			params:       nil,
			wantTitle:    "Notificación",
			bodyContains: []string{"Zyro"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, body := RenderNotification(tt.event, tt.params)

			assert.Equal(t, tt.wantTitle, title)
			assert.NotEmpty(t, body)
			for _, fragment := range tt.bodyContains {
				assert.Contains(t, body, fragment)
			}
		})
	}
}
