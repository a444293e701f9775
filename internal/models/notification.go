package models

import "time"

// NotificationType categorizes feed entries
type NotificationType string

const (
	NotificationPayment      NotificationType = "payment"
	NotificationReward       NotificationType = "reward"
	NotificationOffer        NotificationType = "offer"
	NotificationSystem       NotificationType = "system"
	NotificationSubscription NotificationType = "subscription"
)

// Notification is one entry in the customer's notification feed
type Notification struct {
	ID        string           `bson:"id" json:"id"`
	Type      NotificationType `bson:"type" json:"type"`
	Title     string           `bson:"title" json:"title"`
	Message   string           `bson:"message" json:"message"`
	Priority  string           `bson:"priority" json:"priority"` // high, normal, low
	IsRead    bool             `bson:"isRead" json:"isRead"`
	Timestamp time.Time        `bson:"timestamp" json:"timestamp"`
	Amount    float64          `bson:"amount,omitempty" json:"amount,omitempty"`
	OfferID   string           `bson:"offerId,omitempty" json:"offerId,omitempty"`
}

// NotificationPreferences controls which alert categories the customer wants
type NotificationPreferences struct {
	Email         bool `bson:"email" json:"email"`
	Push          bool `bson:"push" json:"push"`
	PaymentAlerts bool `bson:"paymentAlerts" json:"paymentAlerts"`
	RewardAlerts  bool `bson:"rewardAlerts" json:"rewardAlerts"`
	OfferAlerts   bool `bson:"offerAlerts" json:"offerAlerts"`
	SystemAlerts  bool `bson:"systemAlerts" json:"systemAlerts"`
}

// DefaultNotificationPreferences returns the opt-in defaults for a new customer
func DefaultNotificationPreferences() NotificationPreferences {
	return NotificationPreferences{
		Email:         true,
		Push:          false,
		PaymentAlerts: true,
		RewardAlerts:  true,
		OfferAlerts:   true,
		SystemAlerts:  true,
	}
}
