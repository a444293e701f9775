package models

// PaymentStatus tracks the transient state of the most recent payment attempt
type PaymentStatus string

const (
	PaymentStatusIdle       PaymentStatus = "idle"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusSuccess    PaymentStatus = "success"
	PaymentStatusFailed     PaymentStatus = "failed"
)

// Customer is the single customer record owned by the session engine.
// The whole record is persisted on every mutation.
type Customer struct {
	Name               string        `bson:"name" json:"name"`
	SubscriptionAmount float64       `bson:"subscriptionAmount" json:"subscriptionAmount"`
	RewardBalance      float64       `bson:"rewardBalance" json:"rewardBalance"`
	IsSubscribed       bool          `bson:"isSubscribed" json:"isSubscribed"`
	LastPaymentDate    string        `bson:"lastPaymentDate,omitempty" json:"lastPaymentDate,omitempty"`
	Transactions       []Transaction `bson:"transactions" json:"transactions"`
	PaymentStatus      PaymentStatus `bson:"paymentStatus" json:"paymentStatus"`
	Offers             []Offer       `bson:"offers" json:"offers"`
}

// Clone returns a deep copy safe to hand to observers and API responses.
func (c *Customer) Clone() Customer {
	out := *c
	out.Transactions = make([]Transaction, len(c.Transactions))
	copy(out.Transactions, c.Transactions)
	out.Offers = make([]Offer, len(c.Offers))
	copy(out.Offers, c.Offers)
	return out
}
