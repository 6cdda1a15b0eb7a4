package store

import (
	"context"

	"learnhub/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VideoProgressStore interface {
	Find(ctx context.Context, userID, videoID string) (*models.VideoProgress, error)
	// Upsert creates the (user, video) record on first save and overwrites it afterwards
	Upsert(ctx context.Context, p *models.VideoProgress) (*models.VideoProgress, error)
}

type videoProgressStore struct {
	db *gorm.DB
}

func NewVideoProgressStore(db *gorm.DB) VideoProgressStore {
	return &videoProgressStore{db: db}
}

func (s *videoProgressStore) Find(ctx context.Context, userID, videoID string) (*models.VideoProgress, error) {
	var p models.VideoProgress
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND video_id = ?", userID, videoID).
		First(&p).Error
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (s *videoProgressStore) Upsert(ctx context.Context, p *models.VideoProgress) (*models.VideoProgress, error) {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "video_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"current_position", "duration", "lesson_id", "course_id", "completed", "timestamp",
		}),
	}).Create(p).Error
	if err != nil {
		return nil, translate(err)
	}
	return s.Find(ctx, p.UserID, p.VideoID)
}
