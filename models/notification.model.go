package models

import "time"

type NotificationType string

const (
	NotificationCourse   NotificationType = "course"
	NotificationPayment  NotificationType = "payment"
	NotificationReminder NotificationType = "reminder"
	NotificationSystem   NotificationType = "system"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationCourse, NotificationPayment, NotificationReminder, NotificationSystem:
		return true
	}
	return false
}

type Notification struct {
	ID         string           `json:"id" gorm:"primaryKey;size:36"`
	UserID     string           `json:"user" gorm:"size:36;index;not null"`
	Type       NotificationType `json:"type" gorm:"size:16;not null"`
	Title      string           `json:"title" gorm:"not null"`
	Message    string           `json:"message" gorm:"not null"`
	Details    string           `json:"details"`
	ActionLink string           `json:"actionLink"`
	ActionText string           `json:"actionText"`
	Unread     bool             `json:"unread" gorm:"index;default:true"`
	CreatedAt  time.Time        `json:"createdAt" gorm:"index"`
}
