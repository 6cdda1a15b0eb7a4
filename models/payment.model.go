package models

import (
	"time"

	"gorm.io/datatypes"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
)

type Payment struct {
	ID                 string            `json:"id" gorm:"primaryKey;size:36"`
	UserID             string            `json:"user" gorm:"size:36;index;not null"`
	CourseID           string            `json:"course" gorm:"size:36;index;not null"`
	Amount             float64           `json:"amount" gorm:"not null"`
	PaymentMethod      string            `json:"paymentMethod" gorm:"size:32"` // credit_card, paypal
	PaymentID          string            `json:"paymentId" gorm:"size:128"`
	Status             PaymentStatus     `json:"status" gorm:"size:16;default:'pending'"`
	TransactionDetails datatypes.JSONMap `json:"transactionDetails"`
	CreatedAt          time.Time         `json:"createdAt" gorm:"index"`
	UpdatedAt          time.Time         `json:"updatedAt"`
}
