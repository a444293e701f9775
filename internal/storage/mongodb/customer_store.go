package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/brewpoints/loyalty-backend/internal/models"
	"github.com/brewpoints/loyalty-backend/internal/storage"
)

// recordKey is the fixed _id of the single customer document
const recordKey = "customer"

// CustomerStore implements the storage.CustomerStore interface
type CustomerStore struct {
	collection *mongo.Collection
}

// NewCustomerStore creates a new CustomerStore
func NewCustomerStore(db *mongo.Database) storage.CustomerStore {
	return &CustomerStore{
		collection: db.Collection("customers"),
	}
}

// customerDocument wraps the record with its fixed key
type customerDocument struct {
	ID       string          `bson:"_id"`
	Customer models.Customer `bson:"customer"`
}

// Load fetches the single customer record
func (s *CustomerStore) Load(ctx context.Context) (*models.Customer, error) {
	var doc customerDocument
	err := s.collection.FindOne(ctx, bson.M{"_id": recordKey}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load customer record: %w", err)
	}
	return &doc.Customer, nil
}

// Save upserts the whole customer record
func (s *CustomerStore) Save(ctx context.Context, customer *models.Customer) error {
	doc := customerDocument{ID: recordKey, Customer: *customer}
	opts := options.Replace().SetUpsert(true)
	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": recordKey}, doc, opts)
	if err != nil {
		return fmt.Errorf("failed to save customer record: %w", err)
	}
	return nil
}
