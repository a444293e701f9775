package services

import (
	"context"

	"github.com/brewpoints/loyalty-backend/internal/models"
)

// AuthService defines the interface for authentication operations
type AuthService interface {
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
	Refresh(ctx context.Context, token string) (string, error)
	Validate(ctx context.Context, token string) error
}

// NotificationService defines the interface for the notification center
type NotificationService interface {
	GetNotifications(ctx context.Context) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, id string) error
	MarkAllAsRead(ctx context.Context) error
	DeleteNotification(ctx context.Context, id string) error
	GetPreferences(ctx context.Context) (models.NotificationPreferences, error)
	UpdatePreferences(ctx context.Context, prefs models.NotificationPreferences) (models.NotificationPreferences, error)
	RegisterPushToken(ctx context.Context, token string) error
}
