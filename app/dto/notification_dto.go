// Package dto contains Data Transfer Objects for API request and response structures
package dto

// NotificationDTO represents a notification for API responses
type NotificationDTO struct {
	ID        uint           `json:"id" example:"77"`
	UUID      string         `json:"uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	Event     string         `json:"event" example:"request_approved"`
	Title     string         `json:"title" example:"¡Colaboración Aprobada!"`
	Body      string         `json:"body"`
	Data      map[string]any `json:"data,omitempty"`
	ReadAt    *string        `json:"read_at,omitempty"`
	CreatedAt string         `json:"created_at" example:"2025-02-10T12:00:00Z"`
}

// ListNotificationsResponse represents a page of notifications
type ListNotificationsResponse struct {
	Notifications []NotificationDTO  `json:"notifications"`
	UnreadCount   int64              `json:"unread_count" example:"3"`
	Pagination    PaginationResponse `json:"pagination"`
}
