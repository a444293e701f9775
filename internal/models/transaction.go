package models

import "time"

// TransactionType identifies what produced a ledger entry
type TransactionType string

const (
	TransactionPayment          TransactionType = "payment"
	TransactionReward           TransactionType = "reward"
	TransactionRewardRedemption TransactionType = "reward_redemption"
	TransactionOfferRedemption  TransactionType = "offer_redemption"
	TransactionFailed           TransactionType = "failed"
	TransactionBillPayment      TransactionType = "bill_payment"
	TransactionCashback         TransactionType = "cashback"
)

const (
	TransactionStatusSuccess = "success"
	TransactionStatusFailed  = "failed"
)

// Transaction is one immutable ledger entry. Negative amounts are debits
// from the customer's perspective.
type Transaction struct {
	ID        string          `bson:"id" json:"id"`
	Type      TransactionType `bson:"type" json:"type"`
	Amount    float64         `bson:"amount" json:"amount"`
	Timestamp time.Time       `bson:"timestamp" json:"timestamp"`
	Status    string          `bson:"status" json:"status"`
	OfferName string          `bson:"offerName,omitempty" json:"offerName,omitempty"`
}
