package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/brewpoints/loyalty-backend/internal/config"
	"github.com/brewpoints/loyalty-backend/internal/logger"
	"github.com/brewpoints/loyalty-backend/internal/models"
	"github.com/brewpoints/loyalty-backend/internal/notify"
	"github.com/brewpoints/loyalty-backend/internal/offers"
	"github.com/brewpoints/loyalty-backend/internal/storage"
	"github.com/brewpoints/loyalty-backend/pkg/paymentgateway"
)

// lastPaymentFormat matches the display format the dashboard shows for the
// most recent billing date.
const lastPaymentFormat = "Jan 2, 2006 at 3:04 PM"

// Engine owns the customer record and every mutation of it: the recurring
// billing cycle, offer expiry sweeps, manual payments and redemptions. The
// whole record is persisted after each mutation and a snapshot is published
// to registered observers.
//
// Mutating operations are serialized end to end (including the gateway
// call), so a manual bill payment can never interleave with an in-flight
// billing cycle.
type Engine struct {
	cfg       config.EngineConfig
	store     storage.CustomerStore
	gateway   paymentgateway.Gateway
	notifier  notify.Notifier
	feed      storage.NotificationRepository
	generator *offers.Generator
	clock     Clock
	log       *logger.Logger

	opMu sync.Mutex // single-flight lock for mutating operations
	mu   sync.Mutex // guards everything below

	customer    *models.Customer
	observers   []func(models.Customer)
	billingStop chan struct{}
	sweepStop   chan struct{}
	statusTimer *time.Timer
}

// New builds an Engine around the persisted customer record. A missing or
// malformed record falls back to the default customer; a storage read
// failure does too, since the in-memory record stays authoritative for the
// session. Call Start to resume timers for a record that was persisted
// mid-subscription, and Close on teardown.
func New(
	cfg config.EngineConfig,
	store storage.CustomerStore,
	gateway paymentgateway.Gateway,
	notifier notify.Notifier,
	feed storage.NotificationRepository,
	clock Clock,
	log *logger.Logger,
) *Engine {
	e := &Engine{
		cfg:       cfg,
		store:     store,
		gateway:   gateway,
		notifier:  notifier,
		feed:      feed,
		generator: offers.NewGenerator(cfg.OfferTTL),
		clock:     clock,
		log:       log,
	}

	customer, err := store.Load(context.Background())
	switch {
	case err == nil:
		e.customer = customer
	case errors.Is(err, storage.ErrNotFound):
		e.customer = e.defaultCustomer()
	case errors.Is(err, storage.ErrMalformed):
		log.Warnw("persisted customer record is malformed, starting from defaults", "error", err)
		e.customer = e.defaultCustomer()
	default:
		log.Warnw("failed to load customer record, starting from defaults", "error", err)
		e.customer = e.defaultCustomer()
	}
	return e
}

func (e *Engine) defaultCustomer() *models.Customer {
	return &models.Customer{
		Name:               e.cfg.CustomerName,
		SubscriptionAmount: e.cfg.SubscriptionAmount,
		RewardBalance:      0,
		IsSubscribed:       false,
		Transactions:       []models.Transaction{},
		PaymentStatus:      models.PaymentStatusIdle,
		Offers:             []models.Offer{},
	}
}

// Start resumes the billing and sweep timers when the loaded record is
// already subscribed. A fresh record does nothing until StartSubscription.
func (e *Engine) Start() {
	e.mu.Lock()
	subscribed := e.customer.IsSubscribed
	e.mu.Unlock()
	if subscribed {
		e.armBilling()
		e.armSweep()
	}
}

// Close cancels all timers. An in-flight billing cycle still lands; no
// further cycles are scheduled.
func (e *Engine) Close() {
	e.mu.Lock()
	e.stopTimersLocked()
	e.mu.Unlock()
}

// Customer returns a snapshot of the record with expired offers filtered
// out, so the read path never shows an offer the redeem path would reject.
func (e *Engine) Customer() models.Customer {
	e.mu.Lock()
	snapshot := e.customer.Clone()
	e.mu.Unlock()
	snapshot.Offers = offers.RemoveExpired(snapshot.Offers, e.clock.Now())
	return snapshot
}

// Offers returns the currently valid offers
func (e *Engine) Offers() []models.Offer {
	return e.Customer().Offers
}

// Transactions returns the ledger, newest first
func (e *Engine) Transactions() []models.Transaction {
	return e.Customer().Transactions
}

// OnChange registers an observer that receives a snapshot after every
// mutation. Observers run on the mutating goroutine and must not block.
func (e *Engine) OnChange(fn func(models.Customer)) {
	e.mu.Lock()
	e.observers = append(e.observers, fn)
	e.mu.Unlock()
}

// Sweep drops expired offers from the record. Invoked by the sweep timer
// and safe to call at any time; a no-op when nothing expired or the
// customer is not subscribed.
func (e *Engine) Sweep() {
	e.mu.Lock()
	if !e.customer.IsSubscribed {
		e.mu.Unlock()
		return
	}
	pruned := offers.RemoveExpired(e.customer.Offers, e.clock.Now())
	if len(pruned) == len(e.customer.Offers) {
		e.mu.Unlock()
		return
	}
	e.customer.Offers = pruned
	e.persistLocked()
	snapshot := e.customer.Clone()
	e.mu.Unlock()
	e.publish(snapshot)
}

// armBilling starts the billing loop: one immediate cycle, then one per
// BillingInterval. Idempotent while the loop is running.
func (e *Engine) armBilling() {
	e.mu.Lock()
	if e.billingStop != nil {
		e.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	e.billingStop = stop
	e.mu.Unlock()

	go func() {
		e.runBillingCycle(context.Background())
		ticker := time.NewTicker(e.cfg.BillingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				e.runBillingCycle(context.Background())
			case <-stop:
				return
			}
		}
	}()
}

// armSweep starts the periodic expiry sweep. Idempotent while running.
func (e *Engine) armSweep() {
	e.mu.Lock()
	if e.sweepStop != nil {
		e.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	e.sweepStop = stop
	e.mu.Unlock()

	go func() {
		ticker := time.NewTicker(e.cfg.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				e.Sweep()
			case <-stop:
				return
			}
		}
	}()
}

// stopTimersLocked cancels the billing loop, sweep loop and any pending
// status reset. Callers hold e.mu.
func (e *Engine) stopTimersLocked() {
	if e.billingStop != nil {
		close(e.billingStop)
		e.billingStop = nil
	}
	if e.sweepStop != nil {
		close(e.sweepStop)
		e.sweepStop = nil
	}
	if e.statusTimer != nil {
		e.statusTimer.Stop()
		e.statusTimer = nil
	}
}

// transitionStatusLocked moves paymentStatus and manages the 3 second
// auto-revert: every transition cancels a pending revert, terminal
// transitions schedule a fresh one. Callers hold e.mu.
func (e *Engine) transitionStatusLocked(status models.PaymentStatus) {
	e.customer.PaymentStatus = status
	if e.statusTimer != nil {
		e.statusTimer.Stop()
		e.statusTimer = nil
	}
	if status == models.PaymentStatusSuccess || status == models.PaymentStatusFailed {
		e.statusTimer = time.AfterFunc(e.cfg.StatusResetDelay, e.revertStatus)
	}
}

// revertStatus returns a terminal paymentStatus to idle unless a newer
// transition superseded it.
func (e *Engine) revertStatus() {
	e.mu.Lock()
	if e.customer.PaymentStatus != models.PaymentStatusSuccess &&
		e.customer.PaymentStatus != models.PaymentStatusFailed {
		e.mu.Unlock()
		return
	}
	e.customer.PaymentStatus = models.PaymentStatusIdle
	e.statusTimer = nil
	e.persistLocked()
	snapshot := e.customer.Clone()
	e.mu.Unlock()
	e.publish(snapshot)
}

// persistLocked writes the whole record. A save failure is logged and
// otherwise ignored: the in-memory record stays authoritative for the
// session. Callers hold e.mu.
func (e *Engine) persistLocked() {
	if err := e.store.Save(context.Background(), e.customer); err != nil {
		e.log.Warnw("failed to persist customer record", "error", err)
	}
}

// publish hands a snapshot to every registered observer
func (e *Engine) publish(snapshot models.Customer) {
	e.mu.Lock()
	observers := make([]func(models.Customer), len(e.observers))
	copy(observers, e.observers)
	e.mu.Unlock()
	for _, fn := range observers {
		fn(snapshot)
	}
}

// pushFeed appends an entry to the notification feed, when one is wired
func (e *Engine) pushFeed(t models.NotificationType, title, message, priority string, amount float64, offerID string) {
	if e.feed == nil {
		return
	}
	n := &models.Notification{
		ID:        uuid.NewString(),
		Type:      t,
		Title:     title,
		Message:   message,
		Priority:  priority,
		Timestamp: e.clock.Now(),
		Amount:    amount,
		OfferID:   offerID,
	}
	if err := e.feed.Create(context.Background(), n); err != nil {
		e.log.Warnw("failed to append notification feed entry", "error", err)
	}
}
