package store

import (
	"context"
	"time"

	"learnhub/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationFilter struct {
	UserID string
	Unread *bool
}

type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	FindByID(ctx context.Context, id string) (*models.Notification, error)
	Find(ctx context.Context, f NotificationFilter, offset, limit int) ([]*models.Notification, error)
	Count(ctx context.Context, f NotificationFilter) (int64, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, id string) error
	ExistsSince(ctx context.Context, userID string, typ models.NotificationType, since time.Time) (bool, error)
}

type notificationStore struct {
	db *gorm.DB
}

func NewNotificationStore(db *gorm.DB) NotificationStore {
	return &notificationStore{db: db}
}

func (s *notificationStore) Create(ctx context.Context, n *models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	n.Unread = true
	return translate(s.db.WithContext(ctx).Create(n).Error)
}

func (s *notificationStore) FindByID(ctx context.Context, id string) (*models.Notification, error) {
	var n models.Notification
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&n).Error; err != nil {
		return nil, translate(err)
	}
	return &n, nil
}

func (s *notificationStore) scoped(ctx context.Context, f NotificationFilter) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&models.Notification{}).Where("user_id = ?", f.UserID)
	if f.Unread != nil {
		q = q.Where("unread = ?", *f.Unread)
	}
	return q
}

func (s *notificationStore) Find(ctx context.Context, f NotificationFilter, offset, limit int) ([]*models.Notification, error) {
	var out []*models.Notification
	err := s.scoped(ctx, f).
		Order("created_at desc").
		Offset(offset).Limit(limit).
		Find(&out).Error
	return out, err
}

func (s *notificationStore) Count(ctx context.Context, f NotificationFilter) (int64, error) {
	var n int64
	err := s.scoped(ctx, f).Count(&n).Error
	return n, err
}

func (s *notificationStore) MarkRead(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Model(&models.Notification{}).Where("id = ?", id).Update("unread", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *notificationStore) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND unread = ?", userID, true).
		Update("unread", false)
	return res.RowsAffected, res.Error
}

func (s *notificationStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Notification{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *notificationStore) ExistsSince(ctx context.Context, userID string, typ models.NotificationType, since time.Time) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND type = ? AND created_at >= ?", userID, typ, since).
		Count(&n).Error
	return n > 0, err
}
