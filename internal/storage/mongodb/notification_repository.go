package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/brewpoints/loyalty-backend/internal/models"
	"github.com/brewpoints/loyalty-backend/internal/storage"
)

// preferencesKey is the fixed _id of the preferences document
const preferencesKey = "preferences"

// NotificationRepository implements the storage.NotificationRepository interface
type NotificationRepository struct {
	collection *mongo.Collection
	settings   *mongo.Collection
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *mongo.Database) storage.NotificationRepository {
	return &NotificationRepository{
		collection: db.Collection("notifications"),
		settings:   db.Collection("notification_settings"),
	}
}

// Create inserts a new notification
func (r *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	_, err := r.collection.InsertOne(ctx, notification)
	return err
}

// FindAll returns all notifications, newest first
func (r *NotificationRepository) FindAll(ctx context.Context) ([]models.Notification, error) {
	opts := options.Find().SetSort(bson.M{"timestamp": -1})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkRead marks one notification as read
func (r *NotificationRepository) MarkRead(ctx context.Context, id string) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{"isRead": true}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// MarkAllRead marks every notification as read
func (r *NotificationRepository) MarkAllRead(ctx context.Context) error {
	_, err := r.collection.UpdateMany(ctx, bson.M{}, bson.M{"$set": bson.M{"isRead": true}})
	return err
}

// Delete removes one notification
func (r *NotificationRepository) Delete(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// GetPreferences returns the stored preferences, or the defaults when none exist
func (r *NotificationRepository) GetPreferences(ctx context.Context) (models.NotificationPreferences, error) {
	var doc struct {
		Preferences models.NotificationPreferences `bson:"preferences"`
	}
	err := r.settings.FindOne(ctx, bson.M{"_id": preferencesKey}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.DefaultNotificationPreferences(), nil
		}
		return models.NotificationPreferences{}, err
	}
	return doc.Preferences, nil
}

// UpdatePreferences upserts the preferences document
func (r *NotificationRepository) UpdatePreferences(ctx context.Context, prefs models.NotificationPreferences) error {
	opts := options.Update().SetUpsert(true)
	_, err := r.settings.UpdateOne(ctx, bson.M{"_id": preferencesKey},
		bson.M{"$set": bson.M{"preferences": prefs, "updatedAt": time.Now()}}, opts)
	return err
}

// SavePushToken upserts the push subscription token
func (r *NotificationRepository) SavePushToken(ctx context.Context, token string) error {
	opts := options.Update().SetUpsert(true)
	_, err := r.settings.UpdateOne(ctx, bson.M{"_id": "push-token"},
		bson.M{"$set": bson.M{"token": token, "updatedAt": time.Now()}}, opts)
	return err
}
