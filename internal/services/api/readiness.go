package api

import (
	"context"
	"time"

	"github.com/sony/gobreaker"
)

// Pinger is a dependency that can report whether it is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Readiness pings the storage backend through a circuit breaker so that a
// dead backend is not hammered by probes: after fails consecutive failures
// the breaker opens and Check fails fast for openFor.
type Readiness struct {
	pinger  Pinger
	cb      *gobreaker.CircuitBreaker
	timeout time.Duration
}

func NewReadiness(p Pinger, fails int, openFor, timeout time.Duration) *Readiness {
	if fails < 1 {
		fails = 1
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Readiness{
		pinger:  p,
		cb:      mkCB("storage", fails, openFor),
		timeout: timeout,
	}
}

func mkCB(name string, fails int, openFor time.Duration) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    name,
		Timeout: openFor,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= uint32(fails)
		},
	})
}

func (r *Readiness) Check(ctx context.Context) error {
	_, err := r.cb.Execute(func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()
		return nil, r.pinger.Ping(ctx)
	})
	return err
}

// State is the breaker state: "closed", "half-open" or "open".
func (r *Readiness) State() string {
	return r.cb.State().String()
}
