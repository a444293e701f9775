package storage

import (
	"context"
	"errors"

	"github.com/brewpoints/loyalty-backend/internal/models"
)

// ErrNotFound is returned when no persisted record exists yet
var ErrNotFound = errors.New("record not found")

// ErrMalformed is returned when the persisted record cannot be decoded
var ErrMalformed = errors.New("persisted record is malformed")

// CustomerStore persists the single customer record. Save always writes the
// whole record; there are no partial updates.
type CustomerStore interface {
	Load(ctx context.Context) (*models.Customer, error)
	Save(ctx context.Context, customer *models.Customer) error
}

// NotificationRepository defines the interface for notification feed operations
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	FindAll(ctx context.Context) ([]models.Notification, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context) error
	Delete(ctx context.Context, id string) error
	GetPreferences(ctx context.Context) (models.NotificationPreferences, error)
	UpdatePreferences(ctx context.Context, prefs models.NotificationPreferences) error
	SavePushToken(ctx context.Context, token string) error
}
