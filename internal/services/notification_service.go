package services

import (
	"context"
	"fmt"

	"github.com/brewpoints/loyalty-backend/internal/models"
	"github.com/brewpoints/loyalty-backend/internal/storage"
)

// Compile-time check to ensure NotificationServiceImpl implements NotificationService
var _ NotificationService = (*NotificationServiceImpl)(nil)

// NotificationServiceImpl handles the customer's notification feed and
// alert preferences
type NotificationServiceImpl struct {
	repo storage.NotificationRepository
}

// NewNotificationService creates a new NotificationServiceImpl
func NewNotificationService(repo storage.NotificationRepository) *NotificationServiceImpl {
	return &NotificationServiceImpl{repo: repo}
}

// GetNotifications returns the feed, newest first
func (s *NotificationServiceImpl) GetNotifications(ctx context.Context) ([]models.Notification, error) {
	notifications, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}
	return notifications, nil
}

// MarkAsRead marks one notification as read
func (s *NotificationServiceImpl) MarkAsRead(ctx context.Context, id string) error {
	return s.repo.MarkRead(ctx, id)
}

// MarkAllAsRead marks the whole feed as read
func (s *NotificationServiceImpl) MarkAllAsRead(ctx context.Context) error {
	return s.repo.MarkAllRead(ctx)
}

// DeleteNotification removes one notification
func (s *NotificationServiceImpl) DeleteNotification(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// GetPreferences returns the alert preferences
func (s *NotificationServiceImpl) GetPreferences(ctx context.Context) (models.NotificationPreferences, error) {
	return s.repo.GetPreferences(ctx)
}

// UpdatePreferences stores and returns the new preferences
func (s *NotificationServiceImpl) UpdatePreferences(ctx context.Context, prefs models.NotificationPreferences) (models.NotificationPreferences, error) {
	if err := s.repo.UpdatePreferences(ctx, prefs); err != nil {
		return models.NotificationPreferences{}, fmt.Errorf("failed to update preferences: %w", err)
	}
	return prefs, nil
}

// RegisterPushToken stores a push subscription token. Delivery is out of
// scope; the token is only recorded.
func (s *NotificationServiceImpl) RegisterPushToken(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("push token is required")
	}
	return s.repo.SavePushToken(ctx, token)
}
