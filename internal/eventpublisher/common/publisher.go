package common

import (
	"context"
	"errors"
	"sync"
	"time"

	"go-firestore-qna/internal/eventpublisher/event"
)

var ErrWriteFailure = errors.New("write failure threshold exceeded")

// PublisherWithFailureThreshold delivers events to subscribers with a write timeout.
// A subscriber that times out writeFailureThreshold times in a row is reported with ErrWriteFailure.
type PublisherWithFailureThreshold struct {
	writeTimeout          time.Duration
	writeFailureThreshold int

	failureMu    sync.Mutex
	failureCount map[event.EventWChannel]int
}

func NewPublisherWithFailureThreshold(writeTimeout time.Duration, writeFailureThreshold int) *PublisherWithFailureThreshold {
	return &PublisherWithFailureThreshold{
		writeTimeout:          writeTimeout,
		writeFailureThreshold: writeFailureThreshold,
		failureCount:          make(map[event.EventWChannel]int),
	}
}

func (p *PublisherWithFailureThreshold) Publish(ctx context.Context, subscriber event.EventWChannel, e event.Event) (err error) {

	defer func() {
		// A subscriber may close its channel while a write is pending.
		if r := recover(); r != nil {
			err = ErrWriteFailure
		}
	}()

	timer := time.NewTimer(p.writeTimeout)
	defer timer.Stop()

	select {
	case subscriber <- e:
		p.Forget(subscriber)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		if p.recordFailure(subscriber) >= p.writeFailureThreshold {
			return ErrWriteFailure
		}
		return nil
	}
}

func (p *PublisherWithFailureThreshold) recordFailure(subscriber event.EventWChannel) int {
	p.failureMu.Lock()
	defer p.failureMu.Unlock()
	p.failureCount[subscriber]++
	return p.failureCount[subscriber]
}

// Forget drops the failure history of a subscriber.
func (p *PublisherWithFailureThreshold) Forget(subscriber event.EventWChannel) {
	p.failureMu.Lock()
	defer p.failureMu.Unlock()
	delete(p.failureCount, subscriber)
}
