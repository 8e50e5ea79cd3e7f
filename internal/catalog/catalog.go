// Package catalog gives read access to the question catalog and the essential
// question ordering. The full catalog scan is cached until Invalidate is called.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	ierr "go-firestore-qna/internal/errors"
	"go-firestore-qna/internal/model"
	answerRepository "go-firestore-qna/internal/repository/answer"
	questionRepository "go-firestore-qna/internal/repository/question"
	"go-firestore-qna/internal/utils"

	"github.com/rs/zerolog/log"
)

type AnswerSource interface {
	GetAnswers(ctx context.Context, userId string) ([]model.Answer, error)
}

type Catalog struct {
	questions questionRepository.IRepository
	answers   AnswerSource
	retry     *utils.RetryHandler

	mu     sync.RWMutex
	cached []model.Question
	// version is bumped by Invalidate, a scan started before the bump is not cached
	version uint64
}

func New(questions questionRepository.IRepository, answers AnswerSource) *Catalog {
	return &Catalog{
		questions: questions,
		answers:   answers,
		retry: utils.NewRetryHandler(time.Second*10, time.Millisecond*500, 3).RetryIf(func(err error) bool {
			return errors.Is(err, ierr.Unavailable)
		}),
	}
}

// ListUnanswered returns the catalog minus the questions answered by the user or the partner.
func (c *Catalog) ListUnanswered(ctx context.Context, userId string, partnerId *string) ([]model.Question, error) {
	answered, err := c.answeredIds(ctx, userId)
	if err != nil {
		return nil, err
	}

	if partnerId != nil && *partnerId != "" {
		partnerAnswered, err := c.answeredIds(ctx, *partnerId)
		if err != nil {
			return nil, err
		}
		answered = append(answered, partnerAnswered...)
	}

	questions, err := c.all(ctx)
	if err != nil {
		return nil, err
	}

	return ExcludeAnswered(questions, answered), nil
}

func (c *Catalog) answeredIds(ctx context.Context, userId string) ([]int, error) {
	answers, err := c.answers.GetAnswers(ctx, userId)
	if err != nil {
		return nil, fmt.Errorf("list unanswered: %w", err)
	}

	return answerRepository.AnsweredIds(answers), nil
}

func (c *Catalog) ListByIds(ctx context.Context, ids []int) ([]model.Question, error) {
	if len(ids) == 0 {
		return []model.Question{}, nil
	}
	return c.questions.GetByIds(ctx, ids)
}

func (c *Catalog) GetById(ctx context.Context, id int) (model.Question, error) {
	return c.questions.GetById(ctx, id)
}

// LoadEssentialOrder fetches the ordering document. The result is not kept,
// callers pass it on to whoever needs it.
func (c *Catalog) LoadEssentialOrder(ctx context.Context) (model.EssentialQuestions, error) {
	var essential model.EssentialQuestions
	err := c.retry.DoContext(ctx, func() (err error) {
		essential, err = c.questions.EssentialQuestions(ctx)
		return err
	})
	return essential, err
}

// Invalidate drops the cached catalog. The next read scans the collection again.
func (c *Catalog) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cached = nil
	c.version++
}

func (c *Catalog) all(ctx context.Context) ([]model.Question, error) {
	c.mu.RLock()
	cached, version := c.cached, c.version
	c.mu.RUnlock()

	if cached != nil {
		return append([]model.Question(nil), cached...), nil
	}

	var questions []model.Question
	err := c.retry.DoContext(ctx, func() (err error) {
		questions, err = c.questions.All(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Debug().Msgf("question catalog loaded, %d questions", len(questions))

	c.mu.Lock()
	if c.version == version {
		c.cached = questions
	}
	c.mu.Unlock()

	return append([]model.Question(nil), questions...), nil
}

// ExcludeAnswered keeps the order of questions and drops every question whose id is in answered.
func ExcludeAnswered(questions []model.Question, answered []int) []model.Question {
	skip := make(map[int]struct{}, len(answered))
	for _, id := range answered {
		skip[id] = struct{}{}
	}

	remaining := make([]model.Question, 0, len(questions))
	for _, q := range questions {
		if _, ok := skip[q.Id]; ok {
			continue
		}
		remaining = append(remaining, q)
	}
	return remaining
}
