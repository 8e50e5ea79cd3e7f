package utils

import (
	"errors"
	"testing"
	"time"
)

func TestRetryHandlerStopsOnSuccess(t *testing.T) {
	calls := 0
	err := NewRetryHandler(time.Second, time.Millisecond, 5).Do(func() error {
		calls++
		if calls < 3 {
			return errors.New("boom")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestRetryHandlerGivesUp(t *testing.T) {
	calls := 0
	boom := errors.New("boom")
	err := NewRetryHandler(time.Second, time.Millisecond, 2).Do(func() error {
		calls++
		return boom
	})
	if !errors.Is(err, boom) || calls != 2 {
		t.Fatalf("expected 2 calls ending in boom, got %d calls and %v", calls, err)
	}
}

func TestRetryHandlerRetryIf(t *testing.T) {
	calls := 0
	permanent := errors.New("permanent")
	h := NewRetryHandler(time.Second, time.Millisecond, 5).RetryIf(func(err error) bool {
		return !errors.Is(err, permanent)
	})
	_ = h.Do(func() error {
		calls++
		return permanent
	})
	if calls != 1 {
		t.Fatalf("expected no retry on a permanent error, got %d calls", calls)
	}
}
