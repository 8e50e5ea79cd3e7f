package utils

import (
	"context"
	"time"
)

type RetryHandler struct {
	timeout  time.Duration
	interval time.Duration
	attempts int
	retryIf  func(error) bool
}

// NewRetryHandler retries a call up to attempts times, waiting interval between calls,
// and gives up once timeout has elapsed since the first call.
func NewRetryHandler(timeout, interval time.Duration, attempts int) *RetryHandler {
	if attempts < 1 {
		attempts = 1
	}
	return &RetryHandler{
		timeout:  timeout,
		interval: interval,
		attempts: attempts,
		retryIf:  func(error) bool { return true },
	}
}

// RetryIf restricts retries to the errors accepted by fn.
func (r *RetryHandler) RetryIf(fn func(error) bool) *RetryHandler {
	r.retryIf = fn
	return r
}

func (r *RetryHandler) Do(fn func() error) error {
	return r.DoContext(context.Background(), fn)
}

func (r *RetryHandler) DoContext(ctx context.Context, fn func() error) error {
	deadline := time.Now().Add(r.timeout)

	var err error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		if err = fn(); err == nil || !r.retryIf(err) {
			return err
		}

		if attempt == r.attempts || time.Now().Add(r.interval).After(deadline) {
			break
		}

		select {
		case <-ctx.Done():
			return err
		case <-time.After(r.interval):
		}
	}
	return err
}
