package localstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"time"

	ierr "go-firestore-qna/internal/errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MainImageName is the name of the picture shown on the home screen.
const MainImageName = "save_main_image"

type imageRecord struct {
	UserId      string `gorm:"primaryKey"`
	Name        string `gorm:"primaryKey"`
	ContentType string `gorm:"not null"`
	Data        []byte `gorm:"not null"`
	UpdatedAt   time.Time
}

func (imageRecord) TableName() string {
	return "saved_images"
}

type Image struct {
	Name        string
	ContentType string
	Data        []byte
	UpdatedAt   time.Time
}

// SaveImage replaces the named image of the user. Data that is not a PNG, JPEG or GIF
// picture is rejected with ierr.InvalidInput.
func (s *Store) SaveImage(ctx context.Context, userId, name string, data []byte) (Image, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Image{}, fmt.Errorf("save image %s: %w: %v", name, ierr.InvalidInput, err)
	}

	rec := imageRecord{
		UserId:      userId,
		Name:        name,
		ContentType: "image/" + format,
		Data:        data,
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"content_type", "data", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return Image{}, fmt.Errorf("save image %s: %w", name, err)
	}

	return Image{Name: rec.Name, ContentType: rec.ContentType, Data: rec.Data, UpdatedAt: rec.UpdatedAt}, nil
}

func (s *Store) LoadImage(ctx context.Context, userId, name string) (Image, error) {
	var rec imageRecord
	err := s.db.WithContext(ctx).Where("user_id = ? AND name = ?", userId, name).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Image{}, fmt.Errorf("load image %s: %w", name, ierr.NotFound)
	}
	if err != nil {
		return Image{}, fmt.Errorf("load image %s: %w", name, err)
	}
	return Image{Name: rec.Name, ContentType: rec.ContentType, Data: rec.Data, UpdatedAt: rec.UpdatedAt}, nil
}

// DeleteImage removes the named image. Deleting a missing image is not an error.
func (s *Store) DeleteImage(ctx context.Context, userId, name string) error {
	err := s.db.WithContext(ctx).Where("user_id = ? AND name = ?", userId, name).Delete(&imageRecord{}).Error
	if err != nil {
		return fmt.Errorf("delete image %s: %w", name, err)
	}
	return nil
}
