package client

import (
	"time"

	backoff "github.com/cenkalti/backoff/v4"
)

// RetryPolicy bounds the exponential backoff applied by WithRetryPolicy.
// Zero-value fields fall back to the defaults below.
type RetryPolicy struct {
	MaxAttempts int           // total attempts including the first
	BaseBackoff time.Duration // initial interval
	MaxInterval time.Duration // cap on a single interval
}

// DefaultRetryPolicy is a conservative policy for callers that want retries
// without tuning: 4 attempts, 100ms initial interval, 5s cap.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 4, BaseBackoff: 100 * time.Millisecond, MaxInterval: 5 * time.Second}
}

// backOff builds a fresh backoff schedule for one operation. A new schedule
// per call keeps the Client safe for concurrent use.
func (p *RetryPolicy) backOff() backoff.BackOff {
	base := p.BaseBackoff
	if base <= 0 {
		base = 100 * time.Millisecond
	}
	maxInterval := p.MaxInterval
	if maxInterval <= 0 {
		maxInterval = 5 * time.Second
	}
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = base
	bo.MaxInterval = maxInterval
	bo.MaxElapsedTime = 0 // bounded by attempt count, not wall clock
	return backoff.WithMaxRetries(bo, uint64(attempts-1))
}
