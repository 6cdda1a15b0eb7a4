package services

import (
	"testing"
	"time"

	"learnhub/models"
	"learnhub/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func utilsPage(page, limit int) utils.Page {
	return utils.NewPage(page, limit)
}

func (f *fixture) notify(t *testing.T, userID, title string) *models.Notification {
	t.Helper()
	n, err := f.svc.Notifications.Notify(f.ctx, NotificationInput{
		UserID:  userID,
		Type:    models.NotificationSystem,
		Title:   title,
		Message: "hello",
	})
	require.NoError(t, err)
	return n
}

func TestNotificationOwnership(t *testing.T) {
	f := newFixture(t, Gateways{})
	alice := f.user(t, "alice", models.RoleUser)
	bob := f.user(t, "bob", models.RoleUser)
	n := f.notify(t, alice.ID, "Welcome")
	svc := f.svc.Notifications

	_, err := svc.MarkRead(f.ctx, "missing", actorOf(alice))
	e := requireStatus(t, err, 404)
	assert.Equal(t, "Notification not found with id of missing", e.Message)

	_, err = svc.MarkRead(f.ctx, n.ID, actorOf(bob))
	e = requireStatus(t, err, 403)
	assert.Equal(t, "Not authorized to access this notification", e.Message)

	read, err := svc.MarkRead(f.ctx, n.ID, actorOf(alice))
	require.NoError(t, err)
	assert.False(t, read.Unread)

	e = requireStatus(t, svc.Delete(f.ctx, n.ID, actorOf(bob)), 403)
	assert.Equal(t, "Not authorized to delete this notification", e.Message)
	require.NoError(t, svc.Delete(f.ctx, n.ID, actorOf(alice)))
	requireStatus(t, svc.Delete(f.ctx, n.ID, actorOf(alice)), 404)
}

func TestNotificationListAndMarkAll(t *testing.T) {
	f := newFixture(t, Gateways{})
	alice := f.user(t, "alice", models.RoleUser)
	for _, title := range []string{"one", "two", "three"} {
		f.notify(t, alice.ID, title)
	}
	svc := f.svc.Notifications

	page, err := svc.List(f.ctx, alice.ID, nil, utilsPage(1, 2))
	require.NoError(t, err)
	assert.Len(t, page.Notifications, 2)
	require.NotNil(t, page.Pagination.Next)
	assert.Nil(t, page.Pagination.Prev)

	require.NoError(t, svc.MarkAllRead(f.ctx, alice.ID))

	unread := true
	page, err = svc.List(f.ctx, alice.ID, &unread, utilsPage(1, 10))
	require.NoError(t, err)
	assert.Empty(t, page.Notifications)
}

func TestAdminCreatesNotifications(t *testing.T) {
	f := newFixture(t, Gateways{})
	alice := f.user(t, "alice", models.RoleUser)
	admin := f.user(t, "root", models.RoleAdmin)
	svc := f.svc.Notifications
	in := NotificationInput{UserID: alice.ID, Type: models.NotificationCourse, Title: "New course", Message: "Check it out"}

	_, err := svc.Create(f.ctx, actorOf(alice), in)
	requireStatus(t, err, 403)

	_, err = svc.Create(f.ctx, actorOf(admin), NotificationInput{UserID: alice.ID, Type: models.NotificationCourse})
	e := requireStatus(t, err, 400)
	assert.Equal(t, "Please provide all required fields", e.Message)

	bad := in
	bad.Type = "promo"
	_, err = svc.Create(f.ctx, actorOf(admin), bad)
	e = requireStatus(t, err, 400)
	assert.Equal(t, "Invalid notification type", e.Message)

	n, err := svc.Create(f.ctx, actorOf(admin), in)
	require.NoError(t, err)
	assert.True(t, n.Unread)
	assert.Equal(t, alice.ID, n.UserID)
}

func TestDailyRemindersSentOncePerDay(t *testing.T) {
	f := newFixture(t, Gateways{})
	owner := f.user(t, "owner", models.RoleInstructor)
	learner := f.user(t, "learner", models.RoleUser)
	idle := f.user(t, "idle", models.RoleUser)
	course := f.course(t, "Go Basics", owner.ID, "L1", "L2")
	ids := lessonIDs(course)

	_, err := f.svc.Enrollment.Enroll(f.ctx, learner.ID, course.ID)
	require.NoError(t, err)
	_, err = f.svc.Enrollment.UpdateProgress(f.ctx, learner.ID, course.ID, ids[0], true)
	require.NoError(t, err)

	svc := f.svc.Notifications
	sent, err := svc.SendDailyReminders(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	sent, err = svc.SendDailyReminders(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, sent)

	svc.now = func() time.Time { return time.Now().Add(48 * time.Hour) }
	sent, err = svc.SendDailyReminders(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	list, err := svc.List(f.ctx, learner.ID, nil, utilsPage(1, 10))
	require.NoError(t, err)
	require.NotEmpty(t, list.Notifications)
	assert.Equal(t, "You are 50% through one of your courses", list.Notifications[0].Message)

	list, err = svc.List(f.ctx, idle.ID, nil, utilsPage(1, 10))
	require.NoError(t, err)
	assert.Empty(t, list.Notifications)
}
