// Package store persists the application aggregates. Course and User are
// saved whole with a compare-and-swap on their version column; every other
// record is a plain row.
package store

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrConflict  = errors.New("version conflict")
	ErrDuplicate = errors.New("duplicate key")
)

// Store bundles every repository the services need
type Store struct {
	Courses        CourseStore
	Users          UserStore
	Payments       PaymentStore
	Notifications  NotificationStore
	VideoProgress  VideoProgressStore
	ClientLogs     ClientLogStore
	TokenBlacklist TokenBlacklist
}

// New wires the GORM-backed repositories. ClientLogs and TokenBlacklist can
// be replaced afterwards with the Mongo and Redis implementations.
func New(db *gorm.DB) *Store {
	return &Store{
		Courses:        NewCourseStore(db),
		Users:          NewUserStore(db),
		Payments:       NewPaymentStore(db),
		Notifications:  NewNotificationStore(db),
		VideoProgress:  NewVideoProgressStore(db),
		ClientLogs:     NewClientLogStore(db),
		TokenBlacklist: NoopTokenBlacklist{},
	}
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key") || strings.Contains(msg, "duplicate entry") {
		return ErrDuplicate
	}
	return err
}

// casUpdate writes every column of value when its stored version still equals
// *version, then bumps *version. empty is a zero value of the same model used
// to tell a missing row from a stale one.
func casUpdate(ctx context.Context, db *gorm.DB, value any, empty any, id string, version *int) error {
	prev := *version
	*version = prev + 1

	res := db.WithContext(ctx).Model(value).
		Where("version = ?", prev).
		Select("*").Omit("created_at").
		Updates(value)
	if res.Error != nil {
		*version = prev
		return translate(res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	*version = prev
	var n int64
	if err := db.WithContext(ctx).Model(empty).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return ErrConflict
}
