package answer

import (
	"context"

	"go-firestore-qna/internal/model"
)

type IRepository interface {
	GetAnswers(ctx context.Context, userId string) ([]model.Answer, error)
	GetAnswer(ctx context.Context, userId string, questionId int) (model.Answer, error)
	GetAnswersWithIds(ctx context.Context, userId string, questionIds []int) ([]model.Answer, error)
	Create(ctx context.Context, data model.Answer) (model.Answer, error)
	UpdateReaction(ctx context.Context, userId, answerId string, reaction model.ReactionType) error
	UpdateComplete(ctx context.Context, userId, answerId string, complete bool) error
}
