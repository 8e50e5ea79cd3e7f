package home

import (
	"context"
	"fmt"
	"time"

	ierr "go-firestore-qna/internal/errors"
	"go-firestore-qna/internal/model"
	answerRepository "go-firestore-qna/internal/repository/answer"
	userRepository "go-firestore-qna/internal/repository/user"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type Selector interface {
	SelectDaily(ctx context.Context, user model.User, now time.Time) (model.Question, error)
}

type State struct {
	IsConnected       bool           `json:"isConnected"`
	FianceName        string         `json:"fianceName,omitempty"`
	FianceSexType     model.SexType  `json:"fianceSexType"`
	DaysUntilWedding  int            `json:"daysUntilWedding"`
	QnaCount          int            `json:"qnaCount"`
	RecommendQuestion model.Question `json:"recommendQuestion"`
	RecommendAnswered bool           `json:"recommendAnswered"`
}

type Handler struct {
	userRepo   userRepository.IRepository
	answerRepo answerRepository.IRepository
	selector   Selector
}

func New(userRepo userRepository.IRepository, answerRepo answerRepository.IRepository, selector Selector) *Handler {
	return &Handler{
		userRepo:   userRepo,
		answerRepo: answerRepo,
		selector:   selector,
	}
}

// Load builds the home screen of the user. Any failure aborts the whole state.
func (h *Handler) Load(ctx context.Context, userId string, now time.Time) (State, error) {
	user, err := h.userRepo.GetById(ctx, userId)
	if err != nil {
		return State{}, fmt.Errorf("home: %w", err)
	}

	state := State{IsConnected: user.IsConnected()}

	if state.FianceSexType, err = fianceSexType(user); err != nil {
		return State{}, err
	}
	if state.DaysUntilWedding, err = daysUntilWedding(user, now); err != nil {
		return State{}, err
	}

	if state.RecommendQuestion, err = h.selector.SelectDaily(ctx, user, now); err != nil {
		return State{}, fmt.Errorf("home: %w", err)
	}
	if state.RecommendAnswered, err = h.isAnswered(ctx, user.Id, state.RecommendQuestion.Id); err != nil {
		return State{}, fmt.Errorf("home: %w", err)
	}

	if !state.IsConnected {
		return state, nil
	}

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		fiance, err := h.userRepo.GetById(gctx, *user.FianceId)
		if err != nil {
			return err
		}
		if fiance.Name != nil {
			state.FianceName = *fiance.Name
		}
		return nil
	})
	group.Go(func() error {
		count, err := h.qnaCount(gctx, user)
		state.QnaCount = count
		return err
	})

	if err := group.Wait(); err != nil {
		log.Error().Err(err).Msgf("home: failed to load the partner of %s", user.Id)
		return State{}, fmt.Errorf("home: %w", err)
	}

	return state, nil
}

// The sex stored on the user describes the user, the screen shows the partner.
func fianceSexType(user model.User) (model.SexType, error) {
	if user.Sex == nil {
		return "", fmt.Errorf("home: %w: user %s has no sex set", ierr.InvalidState, user.Id)
	}
	if *user.Sex {
		return model.Woman, nil
	}
	return model.Man, nil
}

func daysUntilWedding(user model.User, now time.Time) (int, error) {
	if user.MarriageDate == nil {
		return 0, fmt.Errorf("home: %w: user %s has no marriage date set", ierr.InvalidState, user.Id)
	}
	return DaysUntil(now, *user.MarriageDate), nil
}

// DaysUntil counts the whole days from now to date, plus one for the wedding day itself.
func DaysUntil(now, date time.Time) int {
	return int(date.Sub(now)/(24*time.Hour)) + 1
}

// isAnswered treats only a missing answer as "not answered", other failures are returned.
func (h *Handler) isAnswered(ctx context.Context, userId string, questionId int) (bool, error) {
	_, err := h.answerRepo.GetAnswer(ctx, userId, questionId)
	if err == nil {
		return true, nil
	}
	if ierr.IsNotFound(err) {
		return false, nil
	}
	return false, err
}

// qnaCount is the number of questions both partners answered.
func (h *Handler) qnaCount(ctx context.Context, user model.User) (int, error) {
	mine, err := h.answerRepo.GetAnswers(ctx, user.Id)
	if err != nil {
		return 0, err
	}

	both, err := h.answerRepo.GetAnswersWithIds(ctx, *user.FianceId, answerRepository.AnsweredIds(mine))
	if err != nil {
		return 0, err
	}
	return len(both), nil
}
