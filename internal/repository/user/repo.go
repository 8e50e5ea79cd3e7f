package user

import (
	"context"
	"fmt"

	"go-firestore-qna/internal/database"
	ierr "go-firestore-qna/internal/errors"
	"go-firestore-qna/internal/model"
)

type UserRepository struct {
	db database.Client
}

var _ IRepository = UserRepository{}

func New(db database.Client) UserRepository {
	return UserRepository{
		db: db,
	}
}

func (r UserRepository) GetById(ctx context.Context, id string) (model.User, error) {
	docRef := r.db.Collection(userNode).Doc(id)
	docSnap, err := r.db.GetDoc(ctx, docRef)
	if err != nil {
		return model.User{}, ierr.FromStore(fmt.Sprintf("get user, id: %s", id), err)
	}

	user := model.User{}
	if err = docSnap.DataTo(&user); err != nil {
		return model.User{}, fmt.Errorf("get user: %w, id: %s", err, id)
	}

	// older documents do not carry the userId field
	if user.Id == "" {
		user.Id = docRef.ID
	}
	return user, nil
}
