package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brewpoints/loyalty-backend/internal/config"
	"github.com/brewpoints/loyalty-backend/internal/logger"
	"github.com/brewpoints/loyalty-backend/internal/models"
	"github.com/brewpoints/loyalty-backend/internal/notify"
	"github.com/brewpoints/loyalty-backend/internal/storage"
	"github.com/brewpoints/loyalty-backend/pkg/paymentgateway"
)

// fakeClock lets tests pin and advance the engine's idea of now
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 4, 29, 13, 45, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func testConfig() config.EngineConfig {
	return config.EngineConfig{
		CustomerName:       "Amazing Member",
		SubscriptionAmount: 50,
		RewardAmount:       60,
		CashbackRate:       0.05,
		BillingInterval:    time.Hour, // only the immediate cycle fires in tests
		SweepInterval:      time.Hour,
		StatusResetDelay:   time.Hour,
		OfferTTL:           5 * time.Minute,
	}
}

type testEnv struct {
	engine   *Engine
	store    *storage.MemoryStore
	gateway  *paymentgateway.StubGateway
	notifier *notify.Recorder
	feed     *storage.MemoryNotificationRepository
	clock    *fakeClock
}

func newTestEnv(t *testing.T, cfg config.EngineConfig) *testEnv {
	t.Helper()
	env := &testEnv{
		store:    storage.NewMemoryStore(),
		gateway:  &paymentgateway.StubGateway{},
		notifier: &notify.Recorder{},
		feed:     storage.NewMemoryNotificationRepository(),
		clock:    newFakeClock(),
	}
	env.engine = New(cfg, env.store, env.gateway, env.notifier, env.feed, env.clock, logger.NewNop())
	t.Cleanup(env.engine.Close)
	return env
}

func waitForStatus(t *testing.T, e *Engine, want models.PaymentStatus) {
	t.Helper()
	require.Eventually(t, func() bool {
		return e.Customer().PaymentStatus == want
	}, 2*time.Second, 5*time.Millisecond, "payment status never reached %q", want)
}

func TestStartSubscriptionRunsImmediateBillingCycle(t *testing.T) {
	env := newTestEnv(t, testConfig())

	env.engine.StartSubscription()
	waitForStatus(t, env.engine, models.PaymentStatusSuccess)

	c := env.engine.Customer()
	assert.True(t, c.IsSubscribed)
	assert.Equal(t, 60.0, c.RewardBalance)
	require.Len(t, c.Transactions, 2)
	assert.Equal(t, models.TransactionPayment, c.Transactions[0].Type)
	assert.Equal(t, -50.0, c.Transactions[0].Amount)
	assert.Equal(t, models.TransactionReward, c.Transactions[1].Type)
	assert.Equal(t, 60.0, c.Transactions[1].Amount)
	assert.Len(t, c.Offers, 3)
	assert.Equal(t, "Apr 29, 2025 at 1:45 PM", c.LastPaymentDate)

	require.Eventually(t, func() bool {
		return len(env.notifier.Toasts()) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, notify.KindSuccess, env.notifier.Toasts()[0].Kind)
}

func TestBillingCycleFailureRecordsFailedTransaction(t *testing.T) {
	env := newTestEnv(t, testConfig())
	env.gateway.Err = paymentgateway.ErrPaymentDeclined

	env.engine.StartSubscription()
	waitForStatus(t, env.engine, models.PaymentStatusFailed)

	c := env.engine.Customer()
	assert.Equal(t, 0.0, c.RewardBalance)
	require.Len(t, c.Transactions, 1)
	assert.Equal(t, models.TransactionFailed, c.Transactions[0].Type)
	assert.Equal(t, -50.0, c.Transactions[0].Amount)
	assert.Equal(t, models.TransactionStatusFailed, c.Transactions[0].Status)
	assert.Empty(t, c.Offers)

	require.Eventually(t, func() bool {
		return len(env.notifier.Toasts()) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, notify.KindError, env.notifier.Toasts()[0].Kind)
}

func TestPaymentStatusRevertsToIdle(t *testing.T) {
	cfg := testConfig()
	cfg.StatusResetDelay = 30 * time.Millisecond
	env := newTestEnv(t, cfg)

	env.engine.StartSubscription()
	waitForStatus(t, env.engine, models.PaymentStatusSuccess)
	waitForStatus(t, env.engine, models.PaymentStatusIdle)
}

func TestStartSubscriptionIsIdempotent(t *testing.T) {
	env := newTestEnv(t, testConfig())

	env.engine.StartSubscription()
	waitForStatus(t, env.engine, models.PaymentStatusSuccess)
	env.engine.StartSubscription()

	// No second cycle: one charge, two transactions
	time.Sleep(50 * time.Millisecond)
	assert.Len(t, env.gateway.Charges(), 1)
	assert.Len(t, env.engine.Transactions(), 2)
}

func TestStopSubscriptionKeepsHistoryAndClearsOffers(t *testing.T) {
	env := newTestEnv(t, testConfig())

	env.engine.StartSubscription()
	waitForStatus(t, env.engine, models.PaymentStatusSuccess)
	env.engine.StopSubscription()

	c := env.engine.Customer()
	assert.False(t, c.IsSubscribed)
	assert.Equal(t, models.PaymentStatusIdle, c.PaymentStatus)
	assert.Empty(t, c.Offers)
	assert.Len(t, c.Transactions, 2)
}

func TestProcessBillPaymentCreditsCashback(t *testing.T) {
	env := newTestEnv(t, testConfig())

	err := env.engine.ProcessBillPayment(context.Background(), 100)
	require.NoError(t, err)

	c := env.engine.Customer()
	assert.Equal(t, 5.0, c.RewardBalance)
	require.Len(t, c.Transactions, 2)
	assert.Equal(t, models.TransactionBillPayment, c.Transactions[0].Type)
	assert.Equal(t, -100.0, c.Transactions[0].Amount)
	assert.Equal(t, models.TransactionCashback, c.Transactions[1].Type)
	assert.Equal(t, 5.0, c.Transactions[1].Amount)

	modals := env.notifier.Modals()
	require.Len(t, modals, 1)
	assert.Equal(t, "Bill Payment Successful", modals[0].Title)
	assert.Equal(t, 100.0, modals[0].Amount)
}

func TestProcessBillPaymentFailure(t *testing.T) {
	env := newTestEnv(t, testConfig())
	env.gateway.Err = paymentgateway.ErrPaymentDeclined

	err := env.engine.ProcessBillPayment(context.Background(), 100)
	require.Error(t, err)

	c := env.engine.Customer()
	assert.Equal(t, 0.0, c.RewardBalance)
	require.Len(t, c.Transactions, 1)
	assert.Equal(t, models.TransactionFailed, c.Transactions[0].Type)
	assert.Equal(t, -100.0, c.Transactions[0].Amount)
	assert.Equal(t, models.PaymentStatusFailed, c.PaymentStatus)
	assert.Empty(t, env.notifier.Modals())
}

func TestProcessBillPaymentRejectsNonPositiveAmount(t *testing.T) {
	env := newTestEnv(t, testConfig())

	err := env.engine.ProcessBillPayment(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidPayment)
	assert.Empty(t, env.engine.Transactions())
	assert.Empty(t, env.gateway.Charges())
}

func TestRedeemRewardsRequiresSubscription(t *testing.T) {
	env := newTestEnv(t, testConfig())

	err := env.engine.RedeemRewards(context.Background(), 10)
	assert.ErrorIs(t, err, ErrNotSubscribed)
	assert.Empty(t, env.engine.Transactions())
}

func TestRedeemRewardsRejectsExcessiveAmount(t *testing.T) {
	env := newTestEnv(t, testConfig())
	env.engine.StartSubscription()
	waitForStatus(t, env.engine, models.PaymentStatusSuccess)

	err := env.engine.RedeemRewards(context.Background(), 100)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	c := env.engine.Customer()
	assert.Equal(t, 60.0, c.RewardBalance)
	assert.Len(t, c.Transactions, 2)
}

func TestRedeemRewardsDebitsBalance(t *testing.T) {
	env := newTestEnv(t, testConfig())
	env.engine.StartSubscription()
	waitForStatus(t, env.engine, models.PaymentStatusSuccess)

	err := env.engine.RedeemRewards(context.Background(), 60)
	require.NoError(t, err)

	c := env.engine.Customer()
	assert.Equal(t, 0.0, c.RewardBalance)
	assert.Equal(t, models.TransactionRewardRedemption, c.Transactions[0].Type)
	assert.Equal(t, -60.0, c.Transactions[0].Amount)

	modals := env.notifier.Modals()
	require.Len(t, modals, 1)
	assert.Equal(t, "Rewards Redeemed", modals[0].Title)
	assert.Equal(t, 60.0, modals[0].Amount)
}

func TestRedeemOfferOnce(t *testing.T) {
	env := newTestEnv(t, testConfig())
	env.engine.StartSubscription()
	waitForStatus(t, env.engine, models.PaymentStatusSuccess)

	current := env.engine.Offers()
	require.Len(t, current, 3)
	target := current[0]

	require.NoError(t, env.engine.RedeemOffer(context.Background(), target.ID))

	c := env.engine.Customer()
	redeemed := 0
	for _, o := range c.Offers {
		if o.IsRedeemed {
			redeemed++
			assert.Equal(t, target.ID, o.ID)
		}
	}
	assert.Equal(t, 1, redeemed)
	assert.Equal(t, models.TransactionOfferRedemption, c.Transactions[0].Type)
	assert.Equal(t, 0.0, c.Transactions[0].Amount)
	assert.Equal(t, target.Name, c.Transactions[0].OfferName)
	assert.Equal(t, 60.0, c.RewardBalance, "offer redemption must not touch the balance")

	// Second attempt is rejected and changes nothing
	before := len(c.Transactions)
	err := env.engine.RedeemOffer(context.Background(), target.ID)
	assert.ErrorIs(t, err, ErrOfferUnavailable)
	assert.Len(t, env.engine.Transactions(), before)
}

func TestRedeemOfferRejectsExpired(t *testing.T) {
	env := newTestEnv(t, testConfig())
	env.engine.StartSubscription()
	waitForStatus(t, env.engine, models.PaymentStatusSuccess)

	target := env.engine.Offers()[0]
	env.clock.Advance(6 * time.Minute)

	err := env.engine.RedeemOffer(context.Background(), target.ID)
	assert.ErrorIs(t, err, ErrOfferUnavailable)
}

func TestSweepDropsExpiredOffers(t *testing.T) {
	env := newTestEnv(t, testConfig())
	env.engine.StartSubscription()
	waitForStatus(t, env.engine, models.PaymentStatusSuccess)
	require.Len(t, env.engine.Offers(), 3)

	env.clock.Advance(6 * time.Minute)
	env.engine.Sweep()
	assert.Empty(t, env.engine.Offers())

	// Idempotent: a second sweep changes nothing
	env.engine.Sweep()
	assert.Empty(t, env.engine.Offers())
}

func TestEveryMutationIsPersisted(t *testing.T) {
	env := newTestEnv(t, testConfig())

	env.engine.StartSubscription()
	waitForStatus(t, env.engine, models.PaymentStatusSuccess)
	require.NoError(t, env.engine.RedeemRewards(context.Background(), 10))

	saved, err := env.store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 50.0, saved.RewardBalance)
	assert.Len(t, saved.Transactions, 3)
}

func TestObserverReceivesSnapshots(t *testing.T) {
	env := newTestEnv(t, testConfig())

	var mu sync.Mutex
	var statuses []models.PaymentStatus
	env.engine.OnChange(func(c models.Customer) {
		mu.Lock()
		statuses = append(statuses, c.PaymentStatus)
		mu.Unlock()
	})

	env.engine.StartSubscription()
	waitForStatus(t, env.engine, models.PaymentStatusSuccess)

	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, statuses, models.PaymentStatusProcessing)
	assert.Contains(t, statuses, models.PaymentStatusSuccess)
}

func TestNewFallsBackOnMissingRecord(t *testing.T) {
	env := newTestEnv(t, testConfig())

	c := env.engine.Customer()
	assert.Equal(t, "Amazing Member", c.Name)
	assert.Equal(t, 50.0, c.SubscriptionAmount)
	assert.False(t, c.IsSubscribed)
	assert.Equal(t, models.PaymentStatusIdle, c.PaymentStatus)
	assert.Empty(t, c.Transactions)
}

func TestNewRestoresPersistedRecord(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), &models.Customer{
		Name:          "Returning Member",
		RewardBalance: 120,
		PaymentStatus: models.PaymentStatusIdle,
	}))

	e := New(testConfig(), store, &paymentgateway.StubGateway{}, &notify.Recorder{},
		nil, newFakeClock(), logger.NewNop())
	t.Cleanup(e.Close)

	c := e.Customer()
	assert.Equal(t, "Returning Member", c.Name)
	assert.Equal(t, 120.0, c.RewardBalance)
}
