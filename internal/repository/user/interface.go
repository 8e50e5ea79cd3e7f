package user

import (
	"context"

	"go-firestore-qna/internal/model"
)

type IRepository interface {
	GetById(ctx context.Context, id string) (model.User, error)
}
