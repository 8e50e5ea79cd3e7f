// Package api exposes the question and answer use cases over HTTP.
package api

import (
	"context"
	"time"

	"go-firestore-qna/internal/handler/checkanswer"
	"go-firestore-qna/internal/handler/home"
	"go-firestore-qna/internal/localstore"
	"go-firestore-qna/internal/model"

	"firebase.google.com/go/v4/auth"
)

type HomeLoader interface {
	Load(ctx context.Context, userId string, now time.Time) (home.State, error)
}

type Answers interface {
	Show(ctx context.Context, userId string, questionId int) (checkanswer.Screen, error)
	Submit(ctx context.Context, userId string, questionId int, content string) (model.Answer, error)
	React(ctx context.Context, userId string, questionId int, reaction model.ReactionType) (checkanswer.ReactResult, error)
	RetryComplete(ctx context.Context, userId string, questionId int, previous checkanswer.CompletionResult) (checkanswer.CompletionResult, error)
}

type Questions interface {
	ListUnanswered(ctx context.Context, userId string, partnerId *string) ([]model.Question, error)
	ListByIds(ctx context.Context, ids []int) ([]model.Question, error)
	GetById(ctx context.Context, id int) (model.Question, error)
}

type Users interface {
	GetById(ctx context.Context, id string) (model.User, error)
}

type Images interface {
	SaveImage(ctx context.Context, userId, name string, data []byte) (localstore.Image, error)
	LoadImage(ctx context.Context, userId, name string) (localstore.Image, error)
	DeleteImage(ctx context.Context, userId, name string) error
}

// TokenVerifier is satisfied by the Firebase Auth client.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

type Deps struct {
	Home      HomeLoader
	Answers   Answers
	Questions Questions
	Users     Users
	Images    Images
	// Verifier is nil when authentication is disabled.
	Verifier TokenVerifier
	Now      func() time.Time
}
