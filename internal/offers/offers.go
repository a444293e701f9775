package offers

import (
	"time"

	"github.com/google/uuid"

	"github.com/brewpoints/loyalty-backend/internal/models"
)

// DefaultTTL is how long a generated offer stays redeemable
const DefaultTTL = 5 * time.Minute

// catalog is the fixed set of perks stamped out on every billing cycle
var catalog = []models.Offer{
	{Name: "Free Coffee", Description: "Get a free coffee of your choice"},
	{Name: "Pastry Discount", Description: "50% off any pastry"},
	{Name: "Loyalty Bonus", Description: "Double points on your next purchase"},
}

// Generator mints offer batches with a configurable validity window
type Generator struct {
	ttl time.Duration
}

// NewGenerator creates a Generator. A non-positive ttl falls back to DefaultTTL.
func NewGenerator(ttl time.Duration) *Generator {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Generator{ttl: ttl}
}

// Generate returns a fresh batch of catalog offers. Each offer gets a newly
// minted id and the whole batch shares one expiry of now + ttl.
func (g *Generator) Generate(now time.Time) []models.Offer {
	expiresAt := now.Add(g.ttl)
	out := make([]models.Offer, len(catalog))
	for i, offer := range catalog {
		offer.ID = uuid.NewString()
		offer.ExpiresAt = expiresAt
		offer.IsRedeemed = false
		out[i] = offer
	}
	return out
}

// RemoveExpired returns the subset of offers still valid at the given
// instant. Pure function; idempotent for a fixed now.
func RemoveExpired(offers []models.Offer, now time.Time) []models.Offer {
	out := make([]models.Offer, 0, len(offers))
	for _, offer := range offers {
		if !offer.IsExpired(now) {
			out = append(out, offer)
		}
	}
	return out
}
