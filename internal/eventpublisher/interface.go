package eventpublisher

import (
	"context"

	"go-firestore-qna/internal/eventpublisher/event"
)

type Publisher interface {
	Subscribe(event.EventWChannel)
	Unsubscribe(event.EventWChannel)
}

// StartablePublisher forwards events to its subscribers until ctx is done.
type StartablePublisher interface {
	Publisher
	Start(ctx context.Context) error
}
