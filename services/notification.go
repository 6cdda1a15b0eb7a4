package services

import (
	"context"
	"fmt"
	"time"

	"learnhub/apperror"
	"learnhub/models"
	"learnhub/store"
	"learnhub/utils"

	"github.com/jinzhu/now"
	"github.com/sirupsen/logrus"
)

type NotificationInput struct {
	UserID     string                  `json:"user"`
	Type       models.NotificationType `json:"type"`
	Title      string                  `json:"title"`
	Message    string                  `json:"message"`
	Details    string                  `json:"details"`
	ActionLink string                  `json:"actionLink"`
	ActionText string                  `json:"actionText"`
}

type NotificationList struct {
	Notifications []*models.Notification
	Pagination    utils.Pagination
}

type NotificationService struct {
	store *store.Store
	log   *logrus.Entry
	now   func() time.Time
}

func NewNotificationService(st *store.Store, log *logrus.Logger) *NotificationService {
	return &NotificationService{
		store: st,
		log:   log.WithField("service", "NotificationService"),
		now:   time.Now,
	}
}

func notificationNotFound(id string) string {
	return fmt.Sprintf("Notification not found with id of %s", id)
}

// List pages through the user's notifications, newest first
func (s *NotificationService) List(ctx context.Context, userID string, unread *bool, page utils.Page) (*NotificationList, error) {
	filter := store.NotificationFilter{UserID: userID, Unread: unread}
	total, err := s.store.Notifications.Count(ctx, filter)
	if err != nil {
		return nil, apperror.Internal("Server Error", err)
	}
	items, err := s.store.Notifications.Find(ctx, filter, page.Offset(), page.Limit)
	if err != nil {
		return nil, apperror.Internal("Server Error", err)
	}
	if items == nil {
		items = []*models.Notification{}
	}
	return &NotificationList{Notifications: items, Pagination: utils.Paginate(page, total)}, nil
}

// owned loads a notification and checks it belongs to the actor
func (s *NotificationService) owned(ctx context.Context, id string, actor Actor, denied string) (*models.Notification, error) {
	n, err := s.store.Notifications.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, notificationNotFound(id))
	}
	if n.UserID != actor.ID {
		return nil, apperror.Forbidden(denied)
	}
	return n, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, id string, actor Actor) (*models.Notification, error) {
	n, err := s.owned(ctx, id, actor, "Not authorized to access this notification")
	if err != nil {
		return nil, err
	}
	if err := s.store.Notifications.MarkRead(ctx, id); err != nil {
		return nil, storeError(err, notificationNotFound(id))
	}
	n.Unread = false
	return n, nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	n, err := s.store.Notifications.MarkAllRead(ctx, userID)
	if err != nil {
		return apperror.Internal("Server Error", err)
	}
	s.log.WithFields(logrus.Fields{"userId": userID, "count": n}).Debug("notifications marked read")
	return nil
}

func (s *NotificationService) Delete(ctx context.Context, id string, actor Actor) error {
	if _, err := s.owned(ctx, id, actor, "Not authorized to delete this notification"); err != nil {
		return err
	}
	return storeError(s.store.Notifications.Delete(ctx, id), notificationNotFound(id))
}

// Create lets an admin send a notification to any user
func (s *NotificationService) Create(ctx context.Context, actor Actor, in NotificationInput) (*models.Notification, error) {
	if !actor.IsAdmin() {
		return nil, apperror.Forbidden("Only admins can create notifications")
	}
	if in.Title == "" || in.Message == "" || in.UserID == "" || in.Type == "" {
		return nil, apperror.BadRequest("Please provide all required fields")
	}
	if !in.Type.Valid() {
		return nil, apperror.BadRequest("Invalid notification type")
	}
	return s.Notify(ctx, in)
}

// Notify stores a notification produced by the application itself
func (s *NotificationService) Notify(ctx context.Context, in NotificationInput) (*models.Notification, error) {
	n := &models.Notification{
		UserID:     in.UserID,
		Type:       in.Type,
		Title:      in.Title,
		Message:    in.Message,
		Details:    in.Details,
		ActionLink: in.ActionLink,
		ActionText: in.ActionText,
	}
	if err := s.store.Notifications.Create(ctx, n); err != nil {
		return nil, apperror.Internal("Server Error", err)
	}
	return n, nil
}

// SendDailyReminders nudges every user with an unfinished enrollment, at most
// once per calendar day. It returns how many reminders were sent.
func (s *NotificationService) SendDailyReminders(ctx context.Context) (int, error) {
	startOfDay := now.With(s.now()).BeginningOfDay()
	sent := 0
	err := s.store.Users.Each(ctx, 100, func(u *models.User) error {
		var pending *models.Enrollment
		for i := range u.EnrolledCourses {
			e := &u.EnrolledCourses[i]
			if e.CourseID != "" && !e.Completed {
				pending = e
				break
			}
		}
		if pending == nil {
			return nil
		}

		exists, err := s.store.Notifications.ExistsSince(ctx, u.ID, models.NotificationReminder, startOfDay)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}

		_, err = s.Notify(ctx, NotificationInput{
			UserID:     u.ID,
			Type:       models.NotificationReminder,
			Title:      "Keep learning",
			Message:    fmt.Sprintf("You are %d%% through one of your courses", pending.Progress),
			Details:    "Pick up where you left off",
			ActionLink: "/courses/" + pending.CourseID,
			ActionText: "Continue",
		})
		if err != nil {
			return err
		}
		sent++
		return nil
	})
	return sent, err
}
