package store

import (
	"context"

	"learnhub/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentStore interface {
	Create(ctx context.Context, p *models.Payment) error
	FindByID(ctx context.Context, id string) (*models.Payment, error)
	FindByUser(ctx context.Context, userID string) ([]*models.Payment, error)
}

type paymentStore struct {
	db *gorm.DB
}

func NewPaymentStore(db *gorm.DB) PaymentStore {
	return &paymentStore{db: db}
}

func (s *paymentStore) Create(ctx context.Context, p *models.Payment) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return translate(s.db.WithContext(ctx).Create(p).Error)
}

func (s *paymentStore) FindByID(ctx context.Context, id string) (*models.Payment, error) {
	var p models.Payment
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// FindByUser returns the user's payments, newest first
func (s *paymentStore) FindByUser(ctx context.Context, userID string) ([]*models.Payment, error) {
	var out []*models.Payment
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}
