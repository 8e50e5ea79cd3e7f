package answer

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go-firestore-qna/internal/database"
	ierr "go-firestore-qna/internal/errors"
	"go-firestore-qna/internal/model"
	"go-firestore-qna/internal/repository/ops"
	"go-firestore-qna/internal/utils"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type AnswerRepository struct {
	db database.Client
}

var _ IRepository = AnswerRepository{}

func New(db database.Client) AnswerRepository {
	return AnswerRepository{
		db: db,
	}
}

func (r AnswerRepository) answers(userId string) *firestore.CollectionRef {
	return r.db.Collection(userNode).Doc(userId).Collection(answerNode)
}

func (r AnswerRepository) GetAnswers(ctx context.Context, userId string) ([]model.Answer, error) {
	answers, err := r.collect(ctx, r.answers(userId).Query)
	if err != nil {
		return nil, ierr.FromStore(fmt.Sprintf("get answers, userId: %s", userId), err)
	}
	return answers, nil
}

// GetAnswer returns the answer of the user to the question, or ierr.NotFound.
func (r AnswerRepository) GetAnswer(ctx context.Context, userId string, questionId int) (model.Answer, error) {
	query := r.answers(userId).Query.Where(QuestionIdFieldPath, ops.Equal, questionId).Limit(1)
	answers, err := r.collect(ctx, query)
	if err != nil {
		return model.Answer{}, ierr.FromStore(fmt.Sprintf("get answer, userId: %s, questionId: %d", userId, questionId), err)
	}

	if len(answers) == 0 {
		return model.Answer{}, fmt.Errorf("get answer, userId: %s, questionId: %d: %w", userId, questionId, ierr.NotFound)
	}
	return answers[0], nil
}

func (r AnswerRepository) GetAnswersWithIds(ctx context.Context, userId string, questionIds []int) ([]model.Answer, error) {
	answers := make([]model.Answer, 0)
	if len(questionIds) == 0 {
		return answers, nil
	}

	for _, chunk := range utils.Chunk(questionIds, ops.MaxInValues) {
		query := r.answers(userId).Query.Where(QuestionIdFieldPath, ops.In, chunk)
		found, err := r.collect(ctx, query)
		if err != nil {
			return nil, ierr.FromStore(fmt.Sprintf("get answers with ids, userId: %s", userId), err)
		}
		answers = append(answers, found...)
	}
	return answers, nil
}

// Create stores a new answer. A user answers a question at most once, so the
// question id is used as the doc id and an existing answer is reported as ierr.InvalidState.
func (r AnswerRepository) Create(ctx context.Context, data model.Answer) (model.Answer, error) {

	existing, err := r.GetAnswer(ctx, data.UserId, data.QuestionId)
	if err == nil {
		return existing, fmt.Errorf("create answer: %w: already answered, userId: %s, questionId: %d", ierr.InvalidState, data.UserId, data.QuestionId)
	}
	if !ierr.IsNotFound(err) {
		return model.Answer{}, fmt.Errorf("create answer: %w", err)
	}

	if data.Date.IsZero() {
		data.Date = time.Now().UTC()
	}
	data.ReactionType = model.ReactionNone
	data.IsComplete = utils.BoolToPointer(false)

	docRef := r.answers(data.UserId).Doc(strconv.Itoa(data.QuestionId))
	if _, err := r.db.CreateDoc(ctx, docRef, data); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return model.Answer{}, fmt.Errorf("create answer: %w: already answered, userId: %s, questionId: %d", ierr.InvalidState, data.UserId, data.QuestionId)
		}
		return model.Answer{}, ierr.FromStore("create answer", err)
	}

	data.Id = docRef.ID
	return data, nil
}

func (r AnswerRepository) UpdateReaction(ctx context.Context, userId, answerId string, reaction model.ReactionType) error {
	return r.update(ctx, userId, answerId, firestore.Update{Path: ReactionTypeFieldPath, Value: int(reaction)})
}

func (r AnswerRepository) UpdateComplete(ctx context.Context, userId, answerId string, complete bool) error {
	return r.update(ctx, userId, answerId, firestore.Update{Path: IsCompleteFieldPath, Value: complete})
}

func (r AnswerRepository) update(ctx context.Context, userId, answerId string, updates ...firestore.Update) error {
	docRef := r.answers(userId).Doc(answerId)
	if _, err := r.db.UpdateDoc(ctx, docRef, updates); err != nil {
		return ierr.FromStore(fmt.Sprintf("update answer, userId: %s, answerId: %s", userId, answerId), err)
	}
	return nil
}

func (r AnswerRepository) collect(ctx context.Context, query firestore.Query) ([]model.Answer, error) {
	answers := make([]model.Answer, 0)
	err := r.db.IterDocs(ctx, query, func(ds *firestore.DocumentSnapshot) error {
		a := model.Answer{}
		if err := ds.DataTo(&a); err != nil {
			log.Error().Err(err).Msgf("answer repo: failed to convert doc %s", ds.Ref.Path)
			return nil
		}
		a.Id = ds.Ref.ID
		answers = append(answers, a)
		return nil
	})
	return answers, err
}

// AnsweredIds returns the ids of the questions the user answered.
func AnsweredIds(answers []model.Answer) []int {
	ids := make([]int, 0, len(answers))
	for _, a := range answers {
		ids = append(ids, a.QuestionId)
	}
	return ids
}
