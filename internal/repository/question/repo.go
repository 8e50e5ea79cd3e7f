package question

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go-firestore-qna/internal/database"
	ierr "go-firestore-qna/internal/errors"
	"go-firestore-qna/internal/model"
	"go-firestore-qna/internal/repository/filter"
	"go-firestore-qna/internal/repository/helper"
	"go-firestore-qna/internal/repository/ops"
	"go-firestore-qna/internal/utils"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog/log"
)

type QuestionRepository struct {
	db database.Client
}

var _ IRepository = QuestionRepository{}
var _ IWriter = QuestionRepository{}

func New(db database.Client) QuestionRepository {
	return QuestionRepository{
		db: db,
	}
}

// Question documents are keyed by the decimal question id.
func docId(id int) string {
	return strconv.Itoa(id)
}

func (r QuestionRepository) GetById(ctx context.Context, id int) (model.Question, error) {
	docRef := r.db.Collection(questionNode).Doc(docId(id))
	docSnap, err := r.db.GetDoc(ctx, docRef)
	if err != nil {
		return model.Question{}, ierr.FromStore(fmt.Sprintf("get question, id: %d", id), err)
	}

	question := model.Question{}
	if err = docSnap.DataTo(&question); err != nil {
		return model.Question{}, fmt.Errorf("get question: %w, id: %d", err, id)
	}
	return question, nil
}

func (r QuestionRepository) GetByIds(ctx context.Context, ids []int) ([]model.Question, error) {
	questions := make([]model.Question, 0, len(ids))
	if len(ids) == 0 {
		return questions, nil
	}

	for _, chunk := range utils.Chunk(ids, ops.MaxInValues) {
		query := r.db.Collection(questionNode).Query.Where(IdFieldPath, ops.In, chunk)
		found, err := r.collect(ctx, query)
		if err != nil {
			return nil, ierr.FromStore("get questions by ids", err)
		}
		questions = append(questions, found...)
	}

	return questions, nil
}

func (r QuestionRepository) All(ctx context.Context) ([]model.Question, error) {
	questions, err := r.collect(ctx, r.db.Collection(questionNode).Query)
	if err != nil {
		return nil, ierr.FromStore("list questions", err)
	}
	return questions, nil
}

func (r QuestionRepository) collect(ctx context.Context, query firestore.Query) ([]model.Question, error) {
	questions := make([]model.Question, 0)
	err := r.db.IterDocs(ctx, query, func(ds *firestore.DocumentSnapshot) error {
		q := model.Question{}
		if err := ds.DataTo(&q); err != nil {
			// a malformed document must not hide the rest of the catalog
			log.Error().Err(err).Msgf("question repo: failed to convert doc %s", ds.Ref.ID)
			return nil
		}
		questions = append(questions, q)
		return nil
	})
	return questions, err
}

func (r QuestionRepository) EssentialQuestions(ctx context.Context) (model.EssentialQuestions, error) {
	docRef := r.db.Collection(essentialNode).Doc(essentialDocId)
	docSnap, err := r.db.GetDoc(ctx, docRef)
	if err != nil {
		return model.EssentialQuestions{}, ierr.FromStore("get essential questions", err)
	}

	essential := model.EssentialQuestions{}
	if err = docSnap.DataTo(&essential); err != nil {
		return model.EssentialQuestions{}, fmt.Errorf("get essential questions: %w", err)
	}
	return essential, nil
}

func (r QuestionRepository) SetQuestions(ctx context.Context, questions []model.Question) error {
	dataBatch := make([]database.DataBatch, 0, len(questions))
	for _, q := range questions {
		dataBatch = append(dataBatch, database.DataBatch{
			DocRef: r.db.Collection(questionNode).Doc(docId(q.Id)),
			Data:   q,
		})
	}

	if _, err := r.db.SetDocs(ctx, dataBatch); err != nil {
		return fmt.Errorf("set questions: %w", err)
	}
	return nil
}

func (r QuestionRepository) SetEssentialQuestions(ctx context.Context, data model.EssentialQuestions) error {
	docRef := r.db.Collection(essentialNode).Doc(essentialDocId)
	if _, err := r.db.SetDoc(ctx, docRef, data); err != nil {
		return fmt.Errorf("set essential questions: %w", err)
	}
	return nil
}

// NotifyOnChanges streams every added, modified or removed question.
func (r QuestionRepository) NotifyOnChanges(ctx context.Context) <-chan QuestionEvent {
	return r.NotifyOnChangesWhere(ctx, nil)
}

// NotifyOnChangesWhere streams the changes of the questions matching where.
func (r QuestionRepository) NotifyOnChangesWhere(ctx context.Context, where []filter.Where) <-chan QuestionEvent {

	ch := make(chan QuestionEvent)
	kinds := []firestore.DocumentChangeKind{firestore.DocumentAdded, firestore.DocumentModified, firestore.DocumentRemoved}
	query := r.db.Collection(questionNode).Query
	var writeFailureCount, writeFailureThreshold = 0, 3

	go func() {
		defer close(ch)

		helper.NotifyOnChanges(ctx, r.db, query, where, kinds, func(dc firestore.DocumentChange, err error) error {

			if writeFailureCount > writeFailureThreshold {
				return fmt.Errorf("write failure threshould reached")
			}

			if err != nil && !(errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
				log.Error().Err(err).Msg("question repo: failed to read question events")
				helper.NonblockingWrite[QuestionEvent](ctx, channelWriteTimeout, ch, QuestionEvent{Err: err})
				return err
			}

			q := model.Question{}
			if dc.Kind != firestore.DocumentRemoved {
				if err := dc.Doc.DataTo(&q); err != nil {
					log.Error().Err(err).Msg("question repo: failed to convert doc to question")
					return nil
				}
			} else if id, err := strconv.Atoi(dc.Doc.Ref.ID); err == nil {
				q.Id = id
			}

			err = helper.NonblockingWrite[QuestionEvent](ctx, channelWriteTimeout, ch, QuestionEvent{Question: q, Kind: dc.Kind})
			if err != nil {
				writeFailureCount++
			}

			return nil
		})
	}()

	return ch
}
