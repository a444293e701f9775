package offers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brewpoints/loyalty-backend/internal/models"
)

func TestGenerateMintsFreshBatch(t *testing.T) {
	gen := NewGenerator(5 * time.Minute)
	now := time.Now()

	batch := gen.Generate(now)
	require.Len(t, batch, 3)

	seen := map[string]bool{}
	for _, offer := range batch {
		assert.NotEmpty(t, offer.ID)
		assert.False(t, seen[offer.ID], "offer ids must be unique")
		seen[offer.ID] = true
		assert.False(t, offer.IsRedeemed)
		assert.Equal(t, now.Add(5*time.Minute), offer.ExpiresAt, "batch shares one expiry")
		assert.NotEmpty(t, offer.Name)
		assert.NotEmpty(t, offer.Description)
	}

	// A second batch gets brand new identities
	again := gen.Generate(now)
	for _, offer := range again {
		assert.False(t, seen[offer.ID], "ids are not stable across generations")
	}
}

func TestGenerateDefaultsTTL(t *testing.T) {
	gen := NewGenerator(0)
	now := time.Now()
	batch := gen.Generate(now)
	require.NotEmpty(t, batch)
	assert.Equal(t, now.Add(DefaultTTL), batch[0].ExpiresAt)
}

func TestRemoveExpired(t *testing.T) {
	now := time.Now()
	offers := []models.Offer{
		{ID: "live", ExpiresAt: now.Add(time.Minute)},
		{ID: "expired", ExpiresAt: now.Add(-time.Minute)},
		{ID: "boundary", ExpiresAt: now}, // expiry is exclusive
	}

	kept := RemoveExpired(offers, now)
	require.Len(t, kept, 1)
	assert.Equal(t, "live", kept[0].ID)
}

func TestRemoveExpiredIsIdempotent(t *testing.T) {
	now := time.Now()
	offers := []models.Offer{
		{ID: "a", ExpiresAt: now.Add(time.Minute)},
		{ID: "b", ExpiresAt: now.Add(-time.Minute)},
	}

	once := RemoveExpired(offers, now)
	twice := RemoveExpired(once, now)
	assert.Equal(t, once, twice)
}
