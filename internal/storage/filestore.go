package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/brewpoints/loyalty-backend/internal/models"
)

// Compile-time check to ensure FileStore implements CustomerStore
var _ CustomerStore = (*FileStore)(nil)

// FileStore keeps the customer record as one JSON document on disk, written
// in full on every save.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a FileStore backed by the given path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads and decodes the persisted record
func (s *FileStore) Load(ctx context.Context) (*models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read customer record: %w", err)
	}

	var customer models.Customer
	if err := json.Unmarshal(data, &customer); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return &customer, nil
}

// Save writes the whole record, replacing any previous contents. The write
// goes through a temp file and rename so a crash never leaves a half-written
// record behind.
func (s *FileStore) Save(ctx context.Context, customer *models.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(customer, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode customer record: %w", err)
	}

	tmp := s.path + ".tmp"
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create storage directory: %w", err)
		}
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write customer record: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace customer record: %w", err)
	}
	return nil
}
