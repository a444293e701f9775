package paymentgateway

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// ErrPaymentDeclined is returned when the simulated payment rail declines a charge
var ErrPaymentDeclined = errors.New("payment processing failed")

// Gateway represents a payment gateway interface
type Gateway interface {
	Charge(ctx context.Context, amount float64) error
}

// SimulatedGateway mimics an unreliable payment rail: every charge waits a
// random delay in [MinDelay, MaxDelay) and then fails with probability
// FailureRate. Stateless; each call is independent.
type SimulatedGateway struct {
	MinDelay    time.Duration
	MaxDelay    time.Duration
	FailureRate float64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulatedGateway creates a SimulatedGateway with the given tunables
func NewSimulatedGateway(minDelay, maxDelay time.Duration, failureRate float64) *SimulatedGateway {
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return &SimulatedGateway{
		MinDelay:    minDelay,
		MaxDelay:    maxDelay,
		FailureRate: failureRate,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Charge simulates processing a payment of the given amount
func (g *SimulatedGateway) Charge(ctx context.Context, amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("invalid payment amount: %.2f", amount)
	}

	g.mu.Lock()
	delay := g.MinDelay
	if span := g.MaxDelay - g.MinDelay; span > 0 {
		delay += time.Duration(g.rng.Int63n(int64(span)))
	}
	declined := g.rng.Float64() < g.FailureRate
	g.mu.Unlock()

	select {
	case <-time.After(delay):
	case <-ctx.Done():
		return ctx.Err()
	}

	if declined {
		return ErrPaymentDeclined
	}
	return nil
}
