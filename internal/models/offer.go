package models

import "time"

// Offer is a time-limited redeemable perk. A fresh batch is generated on
// every successful billing cycle; ids are not stable across cycles.
type Offer struct {
	ID          string    `bson:"id" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Description string    `bson:"description" json:"description"`
	ExpiresAt   time.Time `bson:"expiresAt" json:"expiresAt"`
	IsRedeemed  bool      `bson:"isRedeemed" json:"isRedeemed"`
}

// IsExpired reports whether the offer is past its expiry at the given instant.
func (o Offer) IsExpired(now time.Time) bool {
	return !o.ExpiresAt.After(now)
}
