package question

import (
	"context"
	"errors"
	"time"

	"go-firestore-qna/internal/eventpublisher"
	"go-firestore-qna/internal/eventpublisher/common"
	"go-firestore-qna/internal/eventpublisher/event"
	questionRepo "go-firestore-qna/internal/repository/question"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog/log"
)

const (
	writeTimeout          = time.Second
	writeFailureThreshold = 3
)

type eventFunc func(context.Context) <-chan questionRepo.QuestionEvent

type questionPublisher struct {
	eventFn    eventFunc
	submanager *common.SubManager
	publisher  *common.PublisherWithFailureThreshold
}

var _ eventpublisher.StartablePublisher = (*questionPublisher)(nil)

func newPublisher(fn eventFunc) *questionPublisher {
	return &questionPublisher{
		eventFn:    fn,
		submanager: common.NewSubManager(),
		publisher:  common.NewPublisherWithFailureThreshold(writeTimeout, writeFailureThreshold),
	}
}

func (p *questionPublisher) Subscribe(subscriber event.EventWChannel) {
	p.submanager.Subscribe(subscriber)
}

func (p *questionPublisher) Unsubscribe(subscriber event.EventWChannel) {
	if p.submanager.Unsubscribe(subscriber) {
		p.publisher.Forget(subscriber)
	}
}

func (p *questionPublisher) publish(ctx context.Context, questionEvent questionRepo.QuestionEvent) {
	e := event.Event{Type: eventType(questionEvent.Kind), Message: questionEvent.Question, Err: questionEvent.Err}
	p.submanager.OnSubscribers(func(subscriber event.EventWChannel) {
		go func() {
			if err := p.publisher.Publish(ctx, subscriber, e); errors.Is(err, common.ErrWriteFailure) {
				log.Error().Err(err).Msg("question publisher: dropping a slow subscriber")
				p.Unsubscribe(subscriber)
			}
		}()
	})
}

func (p *questionPublisher) Start(ctx context.Context) error {
	defer p.submanager.UnsubscribeAll()

	eventsCh := p.eventFn(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("question publisher stopped")
			return ctx.Err()
		case e, ok := <-eventsCh:
			if !ok {
				return nil
			}
			log.Debug().Msgf("publish question %d change to %d subscribers", e.Question.Id, p.submanager.Len())
			p.publish(ctx, e)
		}
	}
}

func eventType(kind firestore.DocumentChangeKind) event.EventType {
	switch kind {
	case firestore.DocumentModified:
		return event.DbDocChanged
	case firestore.DocumentRemoved:
		return event.DbDocDeleted
	default:
		return event.DbDocAdded
	}
}
