// Package async holds the timeout/retry and bounded-race primitives the
// search orchestrator is built on. Both are generic and carry no flight
// semantics of their own.
package async

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"time"
)

// TimeoutError marks a single attempt that exceeded its time budget.
type TimeoutError struct {
	Budget time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("attempt exceeded %s budget", e.Budget)
}

func (e *TimeoutError) Transient() bool { return true }

// Transienter lets error types opt in to retry. Errors that do not
// implement it are treated as permanent unless they look like a network
// timeout, connection reset or DNS failure.
type Transienter interface {
	Transient() bool
}

func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var t Transienter
	if errors.As(err, &t) {
		return t.Transient()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}

// Do runs op up to attempts times, each attempt bounded by timeout. An
// attempt that hits its deadline is cancelled and counted as a
// TimeoutError. Only transient failures are retried; anything else
// propagates immediately. Backoff is linear: backoff × n before retry n.
// The last attempt's error is surfaced verbatim.
func Do[T any](ctx context.Context, op func(context.Context) (T, error), attempts int, timeout, backoff time.Duration) (T, error) {
	var zero T
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for n := 0; n < attempts; n++ {
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		default:
		}

		if n > 0 {
			select {
			case <-time.After(backoff * time.Duration(n)):
			case <-ctx.Done():
				return zero, ctx.Err()
			}
		}

		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		v, err := op(attemptCtx)
		expired := attemptCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil
		cancel()

		if err == nil {
			return v, nil
		}
		if expired {
			err = &TimeoutError{Budget: timeout}
		}
		lastErr = err
		if !IsTransient(err) {
			return zero, err
		}
	}
	return zero, lastErr
}
