package store

import (
	"context"
	"time"

	"learnhub/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserStore interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByResetToken(ctx context.Context, hashed string, now time.Time) (*models.User, error)
	Create(ctx context.Context, u *models.User) error
	Save(ctx context.Context, u *models.User) error
	// Each walks every user in batches; returning an error from fn stops the walk
	Each(ctx context.Context, batch int, fn func(*models.User) error) error
}

type userStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) UserStore {
	return &userStore{db: db}
}

func (s *userStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *userStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *userStore) FindByResetToken(ctx context.Context, hashed string, now time.Time) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).
		Where("reset_password_token = ? AND reset_password_expire > ?", hashed, now).
		First(&u).Error
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *userStore) Create(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	u.Version = 1
	return translate(s.db.WithContext(ctx).Create(u).Error)
}

func (s *userStore) Save(ctx context.Context, u *models.User) error {
	return casUpdate(ctx, s.db, u, &models.User{}, u.ID, &u.Version)
}

func (s *userStore) Each(ctx context.Context, batch int, fn func(*models.User) error) error {
	var users []*models.User
	var fnErr error
	res := s.db.WithContext(ctx).FindInBatches(&users, batch, func(tx *gorm.DB, _ int) error {
		for _, u := range users {
			if fnErr = fn(u); fnErr != nil {
				return fnErr
			}
		}
		return nil
	})
	if fnErr != nil {
		return fnErr
	}
	return res.Error
}
