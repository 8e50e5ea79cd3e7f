package checkanswer

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	ierr "go-firestore-qna/internal/errors"
	"go-firestore-qna/internal/model"
	answerRepository "go-firestore-qna/internal/repository/answer"
	userRepository "go-firestore-qna/internal/repository/user"
	"go-firestore-qna/internal/reveal"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type QuestionLookup interface {
	GetById(ctx context.Context, id int) (model.Question, error)
}

// Screen is the answer comparison of a user and the partner for one question.
type Screen struct {
	Question    model.Question `json:"question"`
	UserName    string         `json:"userName"`
	PartnerName string         `json:"partnerName"`
	reveal.View
}

type Handler struct {
	userRepo   userRepository.IRepository
	answerRepo answerRepository.IRepository
	questions  QuestionLookup

	sessionsMu sync.Mutex
	sessions   map[string]*Session
	lastSweep  time.Time
	now        func() time.Time
}

func New(userRepo userRepository.IRepository, answerRepo answerRepository.IRepository, questions QuestionLookup) *Handler {
	return &Handler{
		userRepo:   userRepo,
		answerRepo: answerRepo,
		questions:  questions,
		sessions:   make(map[string]*Session),
		now:        time.Now,
	}
}

// snapshot is everything Load fetched, kept so a reaction can re-derive the view without refetching.
type snapshot struct {
	user    model.User
	partner *model.User
	input   reveal.Input
}

func (h *Handler) Load(ctx context.Context, userId string, questionId int) (Screen, error) {
	screen, _, err := h.load(ctx, userId, questionId)
	return screen, err
}

func (h *Handler) load(ctx context.Context, userId string, questionId int) (Screen, snapshot, error) {
	question, err := h.questions.GetById(ctx, questionId)
	if err != nil {
		return Screen{}, snapshot{}, fmt.Errorf("check answer: %w", err)
	}

	snap, err := h.fetch(ctx, userId, questionId)
	if err != nil {
		return Screen{}, snapshot{}, err
	}

	screen, err := render(question, snap)
	return screen, snap, err
}

func (h *Handler) fetch(ctx context.Context, userId string, questionId int) (snapshot, error) {
	user, err := h.userRepo.GetById(ctx, userId)
	if err != nil {
		return snapshot{}, fmt.Errorf("check answer: %w", err)
	}

	snap := snapshot{user: user, input: reveal.Input{Connected: user.IsConnected(), Partner: reveal.Lookup{Status: reveal.Absent}}}

	// Both answers are fetched concurrently, the view is derived once both are back.
	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		snap.input.Own = reveal.LookupFrom(h.answerRepo.GetAnswer(gctx, user.Id, questionId))
		return nil
	})
	if snap.input.Connected {
		group.Go(func() error {
			partner, err := h.userRepo.GetById(gctx, *user.FianceId)
			if err != nil {
				return err
			}
			snap.partner = &partner
			snap.input.Partner = reveal.LookupFrom(h.answerRepo.GetAnswer(gctx, partner.Id, questionId))
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return snapshot{}, fmt.Errorf("check answer: partner of %s: %w", user.Id, err)
	}

	if snap.partner != nil && snap.partner.Name != nil {
		snap.input.PartnerName = *snap.partner.Name
	}
	return snap, nil
}

func render(question model.Question, snap snapshot) (Screen, error) {
	view, err := reveal.Evaluate(snap.input)
	if err != nil {
		return Screen{}, fmt.Errorf("check answer, questionId: %d: %w", question.Id, err)
	}

	screen := Screen{
		Question:    question,
		UserName:    defaultUserName,
		PartnerName: defaultPartnerName,
		View:        view,
	}
	if snap.user.Name != nil {
		screen.UserName = *snap.user.Name
	}
	if snap.input.PartnerName != "" {
		screen.PartnerName = snap.input.PartnerName
	}
	return screen, nil
}

// Submit stores the user's answer to the question.
func (h *Handler) Submit(ctx context.Context, userId string, questionId int, content string) (model.Answer, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return model.Answer{}, fmt.Errorf("submit answer: %w: empty answer", ierr.InvalidInput)
	}
	if utf8.RuneCountInString(content) > maxAnswerLength {
		return model.Answer{}, fmt.Errorf("submit answer: %w: answer longer than %d characters", ierr.InvalidInput, maxAnswerLength)
	}

	if _, err := h.questions.GetById(ctx, questionId); err != nil {
		return model.Answer{}, fmt.Errorf("submit answer: %w", err)
	}

	answer, err := h.answerRepo.Create(ctx, model.Answer{
		QuestionId: questionId,
		UserId:     userId,
		Content:    content,
		Date:       time.Now().UTC(),
	})
	if err != nil {
		return model.Answer{}, fmt.Errorf("submit answer: %w", err)
	}

	log.Debug().Msgf("user %s answered question %d", userId, questionId)
	return answer, nil
}
