package question

import (
	"context"
	"testing"
	"time"

	"go-firestore-qna/internal/eventpublisher/event"
	"go-firestore-qna/internal/model"
	questionRepo "go-firestore-qna/internal/repository/question"

	"cloud.google.com/go/firestore"
)

type chanNotifier struct {
	ch chan questionRepo.QuestionEvent
}

func (n chanNotifier) NotifyOnChanges(context.Context) <-chan questionRepo.QuestionEvent {
	return n.ch
}

func TestPublisherForwardsChanges(t *testing.T) {
	source := make(chan questionRepo.QuestionEvent)
	p := QuestionPublisherFactory(chanNotifier{ch: source}).OnCatalogChange()

	sub := make(event.EventChannel, 1)
	p.Subscribe(sub)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- p.Start(ctx) }()

	source <- questionRepo.QuestionEvent{Question: model.Question{Id: 4}, Kind: firestore.DocumentRemoved}

	select {
	case e := <-sub:
		q, ok := e.Message.(model.Question)
		if !ok || q.Id != 4 || e.Type != event.DbDocDeleted {
			t.Fatalf("unexpected event %+v", e)
		}
	case <-time.After(time.Second):
		t.Fatalf("no event delivered")
	}

	close(source)
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected a clean stop when the source closes, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("publisher did not stop")
	}

	if _, ok := <-sub; ok {
		t.Fatalf("expected the subscriber channel to be closed on stop")
	}
}
