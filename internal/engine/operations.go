package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/brewpoints/loyalty-backend/internal/models"
	"github.com/brewpoints/loyalty-backend/internal/notify"
	"github.com/brewpoints/loyalty-backend/internal/offers"
)

// Validation rejections. Each one is surfaced as an error toast and leaves
// the record untouched.
var (
	ErrNotSubscribed    = errors.New("subscription required")
	ErrOfferUnavailable = errors.New("offer is no longer available")
	ErrInvalidAmount    = errors.New("invalid redemption amount")
	ErrInvalidPayment   = errors.New("invalid payment amount")
)

// StartSubscription marks the customer subscribed and arms the billing and
// sweep timers. The first billing cycle begins immediately. Idempotent: a
// second call while subscribed does not double-arm anything.
func (e *Engine) StartSubscription() {
	e.mu.Lock()
	if e.customer.IsSubscribed && e.billingStop != nil {
		e.mu.Unlock()
		return
	}
	e.customer.IsSubscribed = true
	e.customer.Offers = offers.RemoveExpired(e.customer.Offers, e.clock.Now())
	e.persistLocked()
	snapshot := e.customer.Clone()
	e.mu.Unlock()
	e.publish(snapshot)

	e.pushFeed(models.NotificationSubscription, "Subscription Started",
		"Your membership subscription is now active", "normal", 0, "")

	e.armBilling()
	e.armSweep()
}

// StopSubscription cancels the billing loop, sweep loop and pending status
// reset, then clears the subscription. Offers are dropped; the transaction
// history survives. An in-flight billing cycle still lands.
func (e *Engine) StopSubscription() {
	e.mu.Lock()
	e.stopTimersLocked()
	e.customer.IsSubscribed = false
	e.customer.PaymentStatus = models.PaymentStatusIdle
	e.customer.Offers = []models.Offer{}
	e.persistLocked()
	snapshot := e.customer.Clone()
	e.mu.Unlock()
	e.publish(snapshot)

	e.pushFeed(models.NotificationSubscription, "Subscription Stopped",
		"Your membership subscription has been cancelled", "normal", 0, "")
}

// runBillingCycle performs one subscription charge attempt plus its reward
// and offer side effects.
func (e *Engine) runBillingCycle(ctx context.Context) {
	e.opMu.Lock()
	defer e.opMu.Unlock()

	e.beginProcessing()
	err := e.gateway.Charge(ctx, e.cfg.SubscriptionAmount)
	now := e.clock.Now()

	e.mu.Lock()
	if err != nil {
		e.customer.Transactions = append([]models.Transaction{{
			ID:        uuid.NewString(),
			Type:      models.TransactionFailed,
			Amount:    -e.cfg.SubscriptionAmount,
			Timestamp: now,
			Status:    models.TransactionStatusFailed,
		}}, e.customer.Transactions...)
		e.transitionStatusLocked(models.PaymentStatusFailed)
	} else {
		cycle := []models.Transaction{
			{
				ID:        uuid.NewString(),
				Type:      models.TransactionPayment,
				Amount:    -e.cfg.SubscriptionAmount,
				Timestamp: now,
				Status:    models.TransactionStatusSuccess,
			},
			{
				ID:        uuid.NewString(),
				Type:      models.TransactionReward,
				Amount:    e.cfg.RewardAmount,
				Timestamp: now,
				Status:    models.TransactionStatusSuccess,
			},
		}
		e.customer.Transactions = append(cycle, e.customer.Transactions...)
		e.customer.RewardBalance += e.cfg.RewardAmount
		e.customer.LastPaymentDate = now.Format(lastPaymentFormat)
		e.customer.Offers = append(e.generator.Generate(now),
			offers.RemoveExpired(e.customer.Offers, now)...)
		e.transitionStatusLocked(models.PaymentStatusSuccess)
	}
	e.persistLocked()
	snapshot := e.customer.Clone()
	e.mu.Unlock()
	e.publish(snapshot)

	if err != nil {
		e.log.Warnw("billing cycle failed", "amount", e.cfg.SubscriptionAmount, "error", err)
		e.notifier.Toast(notify.KindError, "Payment processing failed")
		e.pushFeed(models.NotificationPayment, "Payment Failed",
			"Your subscription payment could not be processed", "high", e.cfg.SubscriptionAmount, "")
		return
	}
	e.log.Infow("billing cycle succeeded",
		"amount", e.cfg.SubscriptionAmount, "reward", e.cfg.RewardAmount)
	e.notifier.Toast(notify.KindSuccess, "Payment processed successfully!")
	e.pushFeed(models.NotificationReward, "Rewards Earned",
		fmt.Sprintf("You earned $%.2f in rewards on this billing cycle", e.cfg.RewardAmount),
		"normal", e.cfg.RewardAmount, "")
}

// ProcessBillPayment charges an arbitrary bill amount and credits cashback
// on success. The one operation that confirms with a blocking modal, since
// it reports a computed reward amount.
func (e *Engine) ProcessBillPayment(ctx context.Context, amount float64) error {
	if amount <= 0 {
		e.notifier.Toast(notify.KindError, "Invalid payment amount")
		return ErrInvalidPayment
	}

	e.opMu.Lock()
	defer e.opMu.Unlock()

	e.beginProcessing()
	err := e.gateway.Charge(ctx, amount)
	now := e.clock.Now()

	e.mu.Lock()
	if err != nil {
		e.customer.Transactions = append([]models.Transaction{{
			ID:        uuid.NewString(),
			Type:      models.TransactionFailed,
			Amount:    -amount,
			Timestamp: now,
			Status:    models.TransactionStatusFailed,
		}}, e.customer.Transactions...)
		e.transitionStatusLocked(models.PaymentStatusFailed)
		e.persistLocked()
		snapshot := e.customer.Clone()
		e.mu.Unlock()
		e.publish(snapshot)

		e.notifier.Toast(notify.KindError, "Bill payment failed")
		e.pushFeed(models.NotificationPayment, "Bill Payment Failed",
			"Your bill payment could not be processed", "high", amount, "")
		return err
	}

	cashback := amount * e.cfg.CashbackRate
	billing := []models.Transaction{
		{
			ID:        uuid.NewString(),
			Type:      models.TransactionBillPayment,
			Amount:    -amount,
			Timestamp: now,
			Status:    models.TransactionStatusSuccess,
		},
		{
			ID:        uuid.NewString(),
			Type:      models.TransactionCashback,
			Amount:    cashback,
			Timestamp: now,
			Status:    models.TransactionStatusSuccess,
		},
	}
	e.customer.Transactions = append(billing, e.customer.Transactions...)
	e.customer.RewardBalance += cashback
	e.transitionStatusLocked(models.PaymentStatusSuccess)
	e.persistLocked()
	snapshot := e.customer.Clone()
	e.mu.Unlock()
	e.publish(snapshot)

	e.notifier.ShowModal(notify.Modal{
		Kind:      notify.KindSuccess,
		Title:     "Bill Payment Successful",
		Message:   fmt.Sprintf("Payment processed successfully! You earned $%.2f in cash back rewards.", cashback),
		Amount:    amount,
		Timestamp: now,
	})
	e.pushFeed(models.NotificationReward, "Cashback Earned",
		fmt.Sprintf("You earned $%.2f cash back on your bill payment", cashback),
		"normal", cashback, "")
	return nil
}

// RedeemOffer claims an offer. No balance change; redemption is a benefit
// claim, not a monetary transaction.
func (e *Engine) RedeemOffer(ctx context.Context, offerID string) error {
	e.opMu.Lock()
	defer e.opMu.Unlock()

	now := e.clock.Now()
	e.mu.Lock()
	if !e.customer.IsSubscribed {
		e.mu.Unlock()
		e.notifier.Toast(notify.KindError, "Please start a subscription to redeem offers")
		return ErrNotSubscribed
	}

	idx := -1
	for i := range e.customer.Offers {
		if e.customer.Offers[i].ID == offerID {
			idx = i
			break
		}
	}
	if idx < 0 || e.customer.Offers[idx].IsExpired(now) || e.customer.Offers[idx].IsRedeemed {
		e.mu.Unlock()
		e.notifier.Toast(notify.KindError, "This offer is no longer available")
		return ErrOfferUnavailable
	}

	e.customer.Offers[idx].IsRedeemed = true
	name := e.customer.Offers[idx].Name
	e.customer.Transactions = append([]models.Transaction{{
		ID:        uuid.NewString(),
		Type:      models.TransactionOfferRedemption,
		Amount:    0,
		Timestamp: now,
		Status:    models.TransactionStatusSuccess,
		OfferName: name,
	}}, e.customer.Transactions...)
	e.persistLocked()
	snapshot := e.customer.Clone()
	e.mu.Unlock()
	e.publish(snapshot)

	e.notifier.ShowModal(notify.Modal{
		Kind:      notify.KindSuccess,
		Title:     "Offer Redeemed",
		Message:   fmt.Sprintf("Successfully redeemed: %s", name),
		Timestamp: now,
	})
	e.pushFeed(models.NotificationOffer, "Offer Redeemed",
		fmt.Sprintf("You redeemed: %s", name), "normal", 0, offerID)
	return nil
}

// RedeemRewards debits the reward balance. The balance can never go
// negative: amounts exceeding it are rejected before any mutation.
func (e *Engine) RedeemRewards(ctx context.Context, amount float64) error {
	e.opMu.Lock()
	defer e.opMu.Unlock()

	now := e.clock.Now()
	e.mu.Lock()
	if !e.customer.IsSubscribed {
		e.mu.Unlock()
		e.notifier.Toast(notify.KindError, "Please start a subscription to redeem rewards")
		return ErrNotSubscribed
	}
	if amount <= 0 || amount > e.customer.RewardBalance {
		e.mu.Unlock()
		e.notifier.Toast(notify.KindError, "Invalid redemption amount")
		return ErrInvalidAmount
	}

	e.customer.RewardBalance -= amount
	e.customer.Transactions = append([]models.Transaction{{
		ID:        uuid.NewString(),
		Type:      models.TransactionRewardRedemption,
		Amount:    -amount,
		Timestamp: now,
		Status:    models.TransactionStatusSuccess,
	}}, e.customer.Transactions...)
	e.persistLocked()
	snapshot := e.customer.Clone()
	e.mu.Unlock()
	e.publish(snapshot)

	e.notifier.ShowModal(notify.Modal{
		Kind:      notify.KindSuccess,
		Title:     "Rewards Redeemed",
		Message:   "Successfully redeemed rewards",
		Amount:    amount,
		Timestamp: now,
	})
	e.pushFeed(models.NotificationReward, "Rewards Redeemed",
		fmt.Sprintf("You redeemed $%.2f from your reward balance", amount), "normal", amount, "")
	return nil
}

// beginProcessing moves paymentStatus to processing before the gateway call
func (e *Engine) beginProcessing() {
	e.mu.Lock()
	e.transitionStatusLocked(models.PaymentStatusProcessing)
	e.persistLocked()
	snapshot := e.customer.Clone()
	e.mu.Unlock()
	e.publish(snapshot)
}
