package services

import (
	"context"
	"errors"
	"testing"

	"learnhub/apperror"
	"learnhub/config"
	"learnhub/database"
	"learnhub/logger"
	"learnhub/models"
	"learnhub/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	ctx context.Context
	st  *store.Store
	cfg *config.Config
	svc *Services
}

func newFixture(t *testing.T, gw Gateways) *fixture {
	t.Helper()
	db, err := database.OpenInMemory()
	require.NoError(t, err)

	cfg := config.Defaults()
	cfg.AppEnv = "test"
	cfg.SaltRound = 4
	cfg.JWTKey = "test-secret"

	st := store.New(db)
	return &fixture{
		ctx: context.Background(),
		st:  st,
		cfg: cfg,
		svc: New(st, cfg, gw, logger.Discard()),
	}
}

func (f *fixture) user(t *testing.T, name string, role models.Role) *models.User {
	t.Helper()
	u := &models.User{
		Name:     name,
		Email:    name + "@example.com",
		Password: "x",
		Role:     role,
	}
	require.NoError(t, f.st.Users.Create(f.ctx, u))
	return u
}

// course creates a course owned by instructorID with one section holding the
// given lessons
func (f *fixture) course(t *testing.T, title, instructorID string, lessons ...string) *models.Course {
	t.Helper()
	section := models.NewSection("Section 1")
	for _, l := range lessons {
		section.Lessons = append(section.Lessons, models.NewLesson(models.Lesson{Title: l}))
	}
	c := &models.Course{
		Title:        title,
		Description:  "Learn " + title,
		Price:        49.99,
		Level:        "Beginner",
		Category:     "development",
		InstructorID: instructorID,
		Sections:     []models.Section{section},
	}
	require.NoError(t, f.st.Courses.Create(f.ctx, c))
	return c
}

func (f *fixture) reloadUser(t *testing.T, id string) *models.User {
	t.Helper()
	u, err := f.st.Users.FindByID(f.ctx, id)
	require.NoError(t, err)
	return u
}

func (f *fixture) reloadCourse(t *testing.T, id string) *models.Course {
	t.Helper()
	c, err := f.st.Courses.FindByID(f.ctx, id)
	require.NoError(t, err)
	return c
}

func requireStatus(t *testing.T, err error, status int) *apperror.Error {
	t.Helper()
	require.Error(t, err)
	e, ok := apperror.As(err)
	require.True(t, ok, "expected an application error, got %v", err)
	assert.Equal(t, status, e.Status, e.Message)
	return e
}

func actorOf(u *models.User) Actor {
	return Actor{ID: u.ID, Role: u.Role}
}

func TestWithRetryGivesUpAfterRepeatedConflicts(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), func() error {
		calls++
		return store.ErrConflict
	})
	requireStatus(t, err, 409)
	assert.Equal(t, maxSaveAttempts, calls)
}

func TestWithRetryStopsOnOtherErrors(t *testing.T) {
	calls := 0
	boom := errors.New("boom")
	err := withRetry(context.Background(), func() error {
		calls++
		if calls == 1 {
			return store.ErrConflict
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}

func TestWithRetryHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := withRetry(ctx, func() error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStoreErrorMapping(t *testing.T) {
	requireStatus(t, storeError(store.ErrNotFound, "missing"), 404)
	requireStatus(t, storeError(store.ErrDuplicate, ""), 400)
	requireStatus(t, storeError(store.ErrConflict, ""), 409)
	requireStatus(t, storeError(errors.New("disk"), ""), 500)
	assert.NoError(t, storeError(nil, ""))

	forbidden := apperror.Forbidden("no")
	assert.Same(t, forbidden, storeError(forbidden, "missing"))
}

func TestNewGatewaysOnlyBuildsConfiguredClients(t *testing.T) {
	cfg := config.Defaults()
	gw := NewGateways(cfg)
	assert.Nil(t, gw.Stripe)
	assert.Nil(t, gw.PayPal)
	assert.Nil(t, gw.Video)

	cfg.StripeSecretKey = "sk"
	cfg.VimeoClientID, cfg.VimeoClientSecret, cfg.VimeoAccessToken = "id", "secret", "token"
	gw = NewGateways(cfg)
	assert.NotNil(t, gw.Stripe)
	assert.NotNil(t, gw.Video)
	assert.Nil(t, gw.PayPal)
}
