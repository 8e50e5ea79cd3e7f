// Package recommend picks the daily question shown on the home screen.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	ierr "go-firestore-qna/internal/errors"
	"go-firestore-qna/internal/model"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

type Selection struct {
	QuestionId int
	Day        time.Time
}

type SelectionStore interface {
	// LoadSelection returns ierr.NotFound when nothing was selected for the user yet.
	LoadSelection(ctx context.Context, userId string) (Selection, error)
	// SaveSelection stores the question id and the day in a single write.
	SaveSelection(ctx context.Context, userId string, selection Selection) error
}

type QuestionStore interface {
	ListUnanswered(ctx context.Context, userId string, partnerId *string) ([]model.Question, error)
	GetById(ctx context.Context, id int) (model.Question, error)
	LoadEssentialOrder(ctx context.Context) (model.EssentialQuestions, error)
}

type Selector struct {
	questions QuestionStore
	store     SelectionStore
	offset    time.Duration
	pick      func(n int) int
	group     singleflight.Group
}

func New(questions QuestionStore, store SelectionStore, offset time.Duration) *Selector {
	return &Selector{
		questions: questions,
		store:     store,
		offset:    offset,
		pick:      rand.IntN,
	}
}

// WithPicker replaces the random index source of the last fallback step.
func (s *Selector) WithPicker(pick func(n int) int) *Selector {
	s.pick = pick
	return s
}

// SelectDaily returns the question of the day for the user. The pick is computed once per
// normalized day and persisted; later calls on the same day resolve the stored id.
func (s *Selector) SelectDaily(ctx context.Context, user model.User, now time.Time) (model.Question, error) {
	// The shared call outlives any single caller, each caller still stops waiting on its own ctx.
	shared := context.WithoutCancel(ctx)
	ch := s.group.DoChan(user.Id, func() (interface{}, error) {
		return s.selectDaily(shared, user, now)
	})

	select {
	case <-ctx.Done():
		return model.Question{}, fmt.Errorf("select daily question: %w", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return model.Question{}, res.Err
		}
		return res.Val.(model.Question), nil
	}
}

func (s *Selector) selectDaily(ctx context.Context, user model.User, now time.Time) (model.Question, error) {
	today := Today(now, s.offset)

	last, err := s.store.LoadSelection(ctx, user.Id)
	switch {
	case err == nil && SameDay(last.Day, today):
		q, err := s.questions.GetById(ctx, last.QuestionId)
		if err == nil {
			return q, nil
		}
		if !ierr.IsNotFound(err) {
			return model.Question{}, fmt.Errorf("select daily question: %w", err)
		}
		// the stored question was removed from the catalog
		log.Warn().Msgf("daily question %d of user %s no longer exists, recomputing", last.QuestionId, user.Id)
	case err != nil && !errors.Is(err, ierr.NotFound):
		return model.Question{}, fmt.Errorf("select daily question: %w", err)
	}

	order, err := s.questions.LoadEssentialOrder(ctx)
	if err != nil {
		return model.Question{}, fmt.Errorf("select daily question: %w", err)
	}

	unanswered, err := s.questions.ListUnanswered(ctx, user.Id, user.FianceId)
	if err != nil {
		return model.Question{}, fmt.Errorf("select daily question: %w", err)
	}

	q, err := Choose(order, unanswered, s.pick)
	if err != nil {
		return model.Question{}, fmt.Errorf("select daily question, userId: %s: %w", user.Id, err)
	}

	if err := s.store.SaveSelection(ctx, user.Id, Selection{QuestionId: q.Id, Day: today}); err != nil {
		return model.Question{}, fmt.Errorf("select daily question: %w", err)
	}

	log.Debug().Msgf("daily question %d selected for user %s on %s", q.Id, user.Id, today.Format(dayLayout))
	return q, nil
}

// Choose returns the first fixed order id that is unanswered, then the first random order id,
// and finally an arbitrary unanswered question chosen by pick.
func Choose(order model.EssentialQuestions, unanswered []model.Question, pick func(n int) int) (model.Question, error) {
	if len(unanswered) == 0 {
		return model.Question{}, ierr.ExhaustedPool
	}

	byId := make(map[int]model.Question, len(unanswered))
	for _, q := range unanswered {
		byId[q.Id] = q
	}

	for _, ids := range [][]int{order.FixedOrder, order.RandomOrder} {
		for _, id := range ids {
			if q, ok := byId[id]; ok {
				return q, nil
			}
		}
	}

	return unanswered[pick(len(unanswered))], nil
}
