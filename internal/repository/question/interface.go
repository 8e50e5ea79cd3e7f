package question

import (
	"context"

	"go-firestore-qna/internal/model"

	"cloud.google.com/go/firestore"
)

type IRepository interface {
	GetById(ctx context.Context, id int) (model.Question, error)
	GetByIds(ctx context.Context, ids []int) ([]model.Question, error)
	All(ctx context.Context) ([]model.Question, error)
	EssentialQuestions(ctx context.Context) (model.EssentialQuestions, error)
}

type IWriter interface {
	SetQuestions(ctx context.Context, questions []model.Question) error
	SetEssentialQuestions(ctx context.Context, data model.EssentialQuestions) error
}

type QuestionEvent struct {
	Question model.Question
	Kind     firestore.DocumentChangeKind
	Err      error
}
