// Package breaker guards best-effort calls to external services (search
// indexing, email, SMS) so a failing dependency is skipped quickly instead of
// holding every job until its timeout.
package breaker

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"stream-advisor/internal/common/config"
	"stream-advisor/internal/common/logger"
	"stream-advisor/internal/common/metrics"
)

const (
	defaultFailureThreshold = 5
	defaultOpenTimeout      = 30 * time.Second
)

type Breaker struct {
	name string
	cb   *gobreaker.CircuitBreaker[struct{}]
}

// New builds a breaker that opens after cfg.FailureThreshold consecutive
// failures and probes again after cfg.OpenTimeout.
func New(name string, cfg config.ResilienceConfig, log logger.Logger) *Breaker {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = defaultFailureThreshold
	}
	openTimeout := config.GetDuration(cfg.OpenTimeout)
	if openTimeout <= 0 {
		openTimeout = defaultOpenTimeout
	}

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed", map[string]interface{}{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			})
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})

	return &Breaker{name: name, cb: cb}
}

// Do runs fn unless the breaker is open. A rejected call returns an error
// for which IsOpen is true.
func (b *Breaker) Do(ctx context.Context, fn func(context.Context) error) error {
	_, err := b.cb.Execute(func() (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	switch {
	case err == nil:
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	case IsOpen(err):
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
	}
	return err
}

func (b *Breaker) Name() string { return b.name }

func (b *Breaker) State() string { return b.cb.State().String() }

func IsOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
