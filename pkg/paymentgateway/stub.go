package paymentgateway

import (
	"context"
	"sync"
)

// Compile-time check to ensure StubGateway implements Gateway
var _ Gateway = (*StubGateway)(nil)

// StubGateway is a deterministic Gateway for tests. Err is returned from
// every Charge call; charged amounts are recorded in order.
type StubGateway struct {
	Err error

	mu      sync.Mutex
	charges []float64
}

// Charge records the amount and returns the configured error
func (g *StubGateway) Charge(ctx context.Context, amount float64) error {
	g.mu.Lock()
	g.charges = append(g.charges, amount)
	g.mu.Unlock()
	return g.Err
}

// Charges returns the amounts charged so far
func (g *StubGateway) Charges() []float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]float64, len(g.charges))
	copy(out, g.charges)
	return out
}
