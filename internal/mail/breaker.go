// Jester Report - Daily Rating Statistics Mailer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jester-report

package mail

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/jester-report/internal/logging"
	"github.com/tomtom215/jester-report/internal/metrics"
)

// BreakerTransport wraps a Transport with a circuit breaker.
//
// The breaker opens after the configured number of consecutive failed sends
// and rejects sends until the open timeout elapses, then lets one trial send
// through. A rejected recipient is not counted as a failure: the relay
// answered, so it is not down.
type BreakerTransport struct {
	next Transport
	cb   *gobreaker.CircuitBreaker[struct{}]
}

// NewBreakerTransport wraps next. failures must be at least 1.
func NewBreakerTransport(next Transport, failures uint32, openTimeout time.Duration) *BreakerTransport {
	metrics.SetMailBreakerState(stateToFloat(gobreaker.StateClosed))

	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "smtp-relay",
		MaxRequests: 1,
		Timeout:     openTimeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			shouldTrip := counts.ConsecutiveFailures >= failures
			if shouldTrip {
				logging.Warn().
					Uint32("consecutive_failures", counts.ConsecutiveFailures).
					Dur("open_for", openTimeout).
					Msg("[CIRCUIT BREAKER] Opening mail circuit")
			}
			return shouldTrip
		},

		IsSuccessful: func(err error) bool {
			return err == nil || ErrorCode(err) == CodeRecipientRejected
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", stateToString(from)).
				Str("to", stateToString(to)).
				Msg("[CIRCUIT BREAKER] State transition")
			metrics.SetMailBreakerState(stateToFloat(to))
		},
	})

	return &BreakerTransport{next: next, cb: cb}
}

// Send delivers msg through the breaker.
func (b *BreakerTransport) Send(ctx context.Context, msg *Message) error {
	_, err := b.cb.Execute(func() (struct{}, error) {
		return struct{}{}, b.next.Send(ctx, msg)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &DeliveryError{Code: CodeCircuitOpen, Err: err}
	}
	return err
}

// State returns the breaker state as "closed", "half-open" or "open".
func (b *BreakerTransport) State() string {
	return stateToString(b.cb.State())
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to string for logging
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
