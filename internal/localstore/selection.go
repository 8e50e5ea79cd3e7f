package localstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	ierr "go-firestore-qna/internal/errors"
	"go-firestore-qna/internal/recommend"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// selectionRecord holds both halves of the daily selection in one row,
// so they are always written together.
type selectionRecord struct {
	UserId     string    `gorm:"primaryKey"`
	QuestionId int       `gorm:"not null"`
	Day        time.Time `gorm:"not null"`
	UpdatedAt  time.Time
}

func (selectionRecord) TableName() string {
	return "daily_selections"
}

var _ recommend.SelectionStore = (*Store)(nil)

func (s *Store) LoadSelection(ctx context.Context, userId string) (recommend.Selection, error) {
	var rec selectionRecord
	err := s.db.WithContext(ctx).Where("user_id = ?", userId).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return recommend.Selection{}, fmt.Errorf("load selection, userId: %s: %w", userId, ierr.NotFound)
	}
	if err != nil {
		return recommend.Selection{}, fmt.Errorf("load selection, userId: %s: %w", userId, err)
	}

	return recommend.Selection{QuestionId: rec.QuestionId, Day: rec.Day.UTC()}, nil
}

func (s *Store) SaveSelection(ctx context.Context, userId string, selection recommend.Selection) error {
	rec := selectionRecord{
		UserId:     userId,
		QuestionId: selection.QuestionId,
		Day:        selection.Day.UTC(),
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"question_id", "day", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("save selection, userId: %s: %w", userId, err)
	}
	return nil
}
