package question

import (
	"context"

	"go-firestore-qna/internal/eventpublisher"
	questionRepo "go-firestore-qna/internal/repository/question"
)

type Notifier interface {
	NotifyOnChanges(ctx context.Context) <-chan questionRepo.QuestionEvent
}

type Factory interface {
	OnCatalogChange() eventpublisher.StartablePublisher
}

type factory struct {
	repo Notifier
}

func QuestionPublisherFactory(repo Notifier) Factory {
	return &factory{
		repo: repo,
	}
}

// OnCatalogChange publishes every added, modified or removed question.
func (f *factory) OnCatalogChange() eventpublisher.StartablePublisher {
	return newPublisher(f.repo.NotifyOnChanges)
}
