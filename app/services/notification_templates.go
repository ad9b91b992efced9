// Package services provides external service integrations and technical concerns like notifications and tokens
package services

import (
	"fmt"

	"github.com/zyromarketplace/zyro-backend/models"
)

// RenderNotification maps a notification event to its user-facing Spanish
// title and body. Params carry the dynamic pieces: campaign_title,
// influencer_name, company_name, admin_notes, plan_name.
func RenderNotification(event models.NotificationEvent, params map[string]string) (title, body string) {
	campaign := params["campaign_title"]
	influencer := params["influencer_name"]

	switch event {
	case models.EventRequestSubmitted:
		title = "Nueva solicitud de colaboración"
		body = fmt.Sprintf("%s quiere colaborar en \"%s\".", influencer, campaign)
	case models.EventRequestApproved:
		title = "¡Colaboración Aprobada!"
		body = fmt.Sprintf("Tu solicitud para \"%s\" ha sido aprobada. Revisa los detalles y prepara tu contenido.", campaign)
	case models.EventRequestRejected:
		title = "Solicitud rechazada"
		body = fmt.Sprintf("Tu solicitud para \"%s\" no ha sido aceptada esta vez.", campaign)
	case models.EventRequestCompleted:
		title = "Colaboración completada"
		body = fmt.Sprintf("La colaboración de \"%s\" se ha marcado como completada. ¡Gracias!", campaign)
	case models.EventRequestCancelled:
		title = "Colaboración cancelada"
		body = fmt.Sprintf("La colaboración de \"%s\" ha sido cancelada.", campaign)
	case models.EventRequestApprovedCompany:
		title = "Colaboración confirmada"
		body = fmt.Sprintf("La colaboración de %s en \"%s\" ha sido aprobada.", influencer, campaign)
	case models.EventRequestCancelledCompany:
		title = "Colaboración cancelada"
		body = fmt.Sprintf("La colaboración de %s en \"%s\" ha sido cancelada.", influencer, campaign)
	case models.EventContentDelivered:
		title = "Contenido entregado"
		body = fmt.Sprintf("%s ha entregado el contenido de \"%s\".", influencer, campaign)
	case models.EventContentReminder:
		title = "Recordatorio de contenido"
		body = fmt.Sprintf("Aún no has entregado el contenido de \"%s\". El plazo está por vencer.", campaign)
	case models.EventPaymentReminder:
		title = "Recordatorio de pago"
		body = "Tu suscripción tiene un pago pendiente. Actualiza tu método de pago para seguir publicando campañas."
	case models.EventAccountApproved:
		title = "¡Cuenta aprobada!"
		body = "Tu cuenta ha sido aprobada. Ya puedes usar la plataforma."
	case models.EventAccountRejected:
		title = "Cuenta no aprobada"
		body = "Tu registro no ha sido aprobado."
		if notes := params["admin_notes"]; notes != "" {
			body = fmt.Sprintf("Tu registro no ha sido aprobado: %s", notes)
		}
	case models.EventNewChatMessage:
		title = "Nuevo mensaje"
		body = fmt.Sprintf("Tienes un nuevo mensaje de %s.", params["sender_name"])
	case models.EventSubscriptionStarted:
		title = "Suscripción activada"
		body = fmt.Sprintf("Tu suscripción %s está activa. Ya puedes publicar campañas.", params["plan_name"])
	default:
		title = "Notificación"
		body = "Tienes una novedad en Zyro."
	}

	return title, body
}
