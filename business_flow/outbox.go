// Package businessflow contains the core business logic and use cases for marketplace workflows
package businessflow

import (
	"context"
	"encoding/json"

	"github.com/zyromarketplace/zyro-backend/app/services"
	"github.com/zyromarketplace/zyro-backend/models"
	"github.com/zyromarketplace/zyro-backend/repository"
)

// enqueueNotification writes a rendered notification into the outbox. Callers
// run it inside the same transaction as the state change it announces, so the
// row is durable exactly when the change is. Delivery happens later in the
// dispatcher.
func enqueueNotification(ctx context.Context, repo repository.NotificationRepository, userID *uint, event models.NotificationEvent, params map[string]string, data map[string]any) error {
	title, body := services.RenderNotification(event, params)

	notification := &models.Notification{
		UserID: userID,
		Event:  event,
		Status: models.NotificationStatusPending,
		Title:  title,
		Body:   body,
	}

	if len(data) > 0 {
		raw, err := json.Marshal(data)
		if err != nil {
			return err
		}
		notification.Data = raw
	}

	return repo.Save(ctx, notification)
}
