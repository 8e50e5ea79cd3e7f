package catalogsync

import (
	"context"
	"errors"

	"go-firestore-qna/internal/eventpublisher"
	"go-firestore-qna/internal/eventpublisher/event"
	"go-firestore-qna/internal/model"

	"github.com/rs/zerolog/log"
)

var errSubscriptionClosed = errors.New("catalog sync: question subscription closed")

type Invalidator interface {
	Invalidate()
}

// Handler drops the cached question catalog whenever a question changes.
type Handler struct {
	questionEventPublisher eventpublisher.Publisher
	catalog                Invalidator
	subscriptionCh         event.EventChannel
}

func New(questionEventPublisher eventpublisher.Publisher, catalog Invalidator) *Handler {
	return &Handler{
		questionEventPublisher: questionEventPublisher,
		catalog:                catalog,
		subscriptionCh:         make(event.EventChannel),
	}
}

func (h *Handler) EventHandler(ctx context.Context) error {

	h.questionEventPublisher.Subscribe(h.subscriptionCh)
	defer h.questionEventPublisher.Unsubscribe(h.subscriptionCh)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case e, ok := <-h.subscriptionCh:
			if !ok {
				// the publisher dropped this subscription, the cache can no longer be trusted
				h.catalog.Invalidate()
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return errSubscriptionClosed
			}

			if e.Err != nil {
				log.Error().Err(e.Err).Msg("catalog sync handler: error reading events")
				// keep serving from the store rather than a cache that can no longer be refreshed
				h.catalog.Invalidate()
				return e.Err
			}

			if q, ok := e.Message.(model.Question); ok {
				log.Debug().Msgf("question %d changed, invalidating the catalog", q.Id)
			}
			h.catalog.Invalidate()
		}
	}
}
