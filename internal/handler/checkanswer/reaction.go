package checkanswer

import (
	"context"
	"errors"
	"fmt"

	ierr "go-firestore-qna/internal/errors"
	"go-firestore-qna/internal/model"
	"go-firestore-qna/internal/reveal"

	"github.com/rs/zerolog/log"
)

// CompletionResult reports the two "exchange complete" writes, one per partner.
// The writes are independent, so one side can succeed while the other fails.
type CompletionResult struct {
	// Attempted is false when the pair has not both answered yet, no write is issued then.
	Attempted bool  `json:"attempted"`
	Complete  bool  `json:"complete"`
	SelfOk    bool  `json:"selfOk"`
	PartnerOk bool  `json:"partnerOk"`
	Err       error `json:"-"`
}

func (c CompletionResult) Ok() bool {
	return !c.Attempted || (c.SelfOk && c.PartnerOk)
}

type ReactResult struct {
	Screen     Screen           `json:"screen"`
	Completion CompletionResult `json:"completion"`
}

// React stores the user's reaction to the partner's answer and then marks the exchange
// complete on both answers. A failed completion write is reported in the result, not as an error.
func (h *Handler) React(ctx context.Context, userId string, questionId int, reaction model.ReactionType) (ReactResult, error) {
	if !reaction.IsPositive() {
		return ReactResult{}, fmt.Errorf("react: %w: unknown reaction %s", ierr.InvalidInput, reaction)
	}

	screen, snap, err := h.load(ctx, userId, questionId)
	if err != nil {
		return ReactResult{}, fmt.Errorf("react: %w", err)
	}

	switch {
	case screen.OwnStatus != reveal.Answered:
		return ReactResult{}, fmt.Errorf("react: %w: question %d is not answered yet", ierr.InvalidState, questionId)
	case screen.PartnerStatus != reveal.Answered:
		return ReactResult{}, fmt.Errorf("react: %w: partner did not answer question %d yet", ierr.InvalidState, questionId)
	}

	if err := h.answerRepo.UpdateReaction(ctx, userId, screen.OwnAnswerId, reaction); err != nil {
		return ReactResult{}, fmt.Errorf("react: %w", err)
	}

	snap.input.Own.Answer.ReactionType = reaction
	screen, err = render(screen.Question, snap)
	if err != nil {
		return ReactResult{}, fmt.Errorf("react: %w", err)
	}

	completion := h.complete(ctx, snap, screen, CompletionResult{})
	if !completion.Ok() {
		log.Error().Err(completion.Err).Msgf("react: partial completion for question %d of %s", questionId, userId)
	}

	return ReactResult{Screen: screen, Completion: completion}, nil
}

// RetryComplete repeats only the completion writes that failed in previous.
func (h *Handler) RetryComplete(ctx context.Context, userId string, questionId int, previous CompletionResult) (CompletionResult, error) {
	screen, snap, err := h.load(ctx, userId, questionId)
	if err != nil {
		return previous, fmt.Errorf("retry complete: %w", err)
	}
	return h.complete(ctx, snap, screen, previous), nil
}

func (h *Handler) complete(ctx context.Context, snap snapshot, screen Screen, previous CompletionResult) CompletionResult {
	result := CompletionResult{
		SelfOk:    previous.SelfOk,
		PartnerOk: previous.PartnerOk,
	}

	if !screen.AnswersDone || snap.partner == nil {
		return CompletionResult{}
	}

	result.Attempted = true
	result.Complete = screen.BothPositive

	var errs []error
	if !result.SelfOk {
		if err := h.answerRepo.UpdateComplete(ctx, snap.user.Id, screen.OwnAnswerId, result.Complete); err != nil {
			errs = append(errs, fmt.Errorf("self: %w", err))
		} else {
			result.SelfOk = true
		}
	}
	if !result.PartnerOk {
		if err := h.answerRepo.UpdateComplete(ctx, snap.partner.Id, screen.PartnerAnswerId, result.Complete); err != nil {
			errs = append(errs, fmt.Errorf("partner: %w", err))
		} else {
			result.PartnerOk = true
		}
	}

	result.Err = errors.Join(errs...)
	return result
}
