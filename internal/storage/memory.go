package storage

import (
	"context"
	"sync"

	"github.com/brewpoints/loyalty-backend/internal/models"
)

// Compile-time checks
var (
	_ CustomerStore          = (*MemoryStore)(nil)
	_ NotificationRepository = (*MemoryNotificationRepository)(nil)
)

// MemoryStore holds the customer record in memory. Used in tests and as the
// "memory" storage driver.
type MemoryStore struct {
	mu       sync.Mutex
	customer *models.Customer
	saves    int
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns a copy of the stored record
func (s *MemoryStore) Load(ctx context.Context) (*models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.customer == nil {
		return nil, ErrNotFound
	}
	c := s.customer.Clone()
	return &c, nil
}

// Save stores a copy of the record
func (s *MemoryStore) Save(ctx context.Context, customer *models.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := customer.Clone()
	s.customer = &c
	s.saves++
	return nil
}

// Saves returns how many times Save has been called
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// MemoryNotificationRepository keeps the notification feed in memory,
// newest-first.
type MemoryNotificationRepository struct {
	mu            sync.Mutex
	notifications []models.Notification
	prefs         models.NotificationPreferences
	pushToken     string
}

// NewMemoryNotificationRepository creates an empty repository with default preferences
func NewMemoryNotificationRepository() *MemoryNotificationRepository {
	return &MemoryNotificationRepository{
		prefs: models.DefaultNotificationPreferences(),
	}
}

// Create prepends a notification to the feed
func (r *MemoryNotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append([]models.Notification{*notification}, r.notifications...)
	return nil
}

// FindAll returns the feed newest-first
func (r *MemoryNotificationRepository) FindAll(ctx context.Context) ([]models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Notification, len(r.notifications))
	copy(out, r.notifications)
	return out, nil
}

// MarkRead marks one notification as read
func (r *MemoryNotificationRepository) MarkRead(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.notifications {
		if r.notifications[i].ID == id {
			r.notifications[i].IsRead = true
			return nil
		}
	}
	return ErrNotFound
}

// MarkAllRead marks every notification as read
func (r *MemoryNotificationRepository) MarkAllRead(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.notifications {
		r.notifications[i].IsRead = true
	}
	return nil
}

// Delete removes one notification from the feed
func (r *MemoryNotificationRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.notifications {
		if r.notifications[i].ID == id {
			r.notifications = append(r.notifications[:i], r.notifications[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// GetPreferences returns the stored preferences
func (r *MemoryNotificationRepository) GetPreferences(ctx context.Context) (models.NotificationPreferences, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.prefs, nil
}

// UpdatePreferences replaces the stored preferences
func (r *MemoryNotificationRepository) UpdatePreferences(ctx context.Context, prefs models.NotificationPreferences) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prefs = prefs
	return nil
}

// SavePushToken stores the push subscription token
func (r *MemoryNotificationRepository) SavePushToken(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pushToken = token
	return nil
}
