package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-firestore-qna/internal/eventpublisher/event"
)

func TestSubManagerUnsubscribeClosesOnce(t *testing.T) {
	m := NewSubManager()
	ch := make(event.EventChannel)
	m.Subscribe(ch)

	if m.Len() != 1 {
		t.Fatalf("expected 1 subscriber, got %d", m.Len())
	}
	if !m.Unsubscribe(ch) {
		t.Fatalf("expected the first unsubscribe to succeed")
	}
	if m.Unsubscribe(ch) {
		t.Fatalf("expected the second unsubscribe to be a no-op")
	}
	if _, ok := <-ch; ok {
		t.Fatalf("expected the channel to be closed")
	}
}

func TestPublisherReportsRepeatedTimeouts(t *testing.T) {
	p := NewPublisherWithFailureThreshold(5*time.Millisecond, 2)
	blocked := make(event.EventChannel)

	if err := p.Publish(context.Background(), blocked, event.Event{}); err != nil {
		t.Fatalf("first timeout must be tolerated, got %v", err)
	}
	if err := p.Publish(context.Background(), blocked, event.Event{}); !errors.Is(err, ErrWriteFailure) {
		t.Fatalf("expected ErrWriteFailure, got %v", err)
	}
}
