package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"learnhub/apperror"
	"learnhub/logger"
	"learnhub/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuth map[string]*models.User

func (s stubAuth) Authenticate(_ context.Context, token string) (*models.User, error) {
	if u, ok := s[token]; ok {
		return u, nil
	}
	return nil, apperror.Unauthorized("Not authorized to access this route")
}

func newApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: ErrorHandler(logger.Discard())})
}

func send(t *testing.T, app *fiber.App, req *http.Request) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out := map[string]any{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func TestTokenFrom(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString(TokenFrom(c)) })

	cases := []struct {
		name   string
		header string
		cookie string
		want   string
	}{
		{"bearer header", "Bearer abc", "", "abc"},
		{"cookie", "", "def", "def"},
		{"header wins", "Bearer abc", "def", "abc"},
		{"cleared cookie", "", "none", ""},
		{"basic auth ignored", "Basic xyz", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "token", Value: tc.cookie})
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			buf := make([]byte, 16)
			n, _ := resp.Body.Read(buf)
			assert.Equal(t, tc.want, string(buf[:n]))
		})
	}
}

func TestProtectAndAuthorize(t *testing.T) {
	auth := NewAuth(stubAuth{
		"user-token":  {ID: "u1", Role: models.RoleUser},
		"admin-token": {ID: "a1", Role: models.RoleAdmin},
	})
	app := newApp()
	app.Get("/admin", auth.Protect, Authorize(models.RoleAdmin), func(c *fiber.Ctx) error {
		return JsonResponse(c, fiber.StatusOK, Actor(c).ID)
	})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	status, out := send(t, app, req)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, false, out["success"])

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer user-token")
	status, out = send(t, app, req)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Role user is not authorized to access this route", out["message"])

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	status, out = send(t, app, req)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "a1", out["data"])
}

func TestOptionalLetsAnonymousThrough(t *testing.T) {
	auth := NewAuth(stubAuth{"user-token": {ID: "u1", Role: models.RoleUser}})
	app := newApp()
	app.Get("/", auth.Optional, func(c *fiber.Ctx) error {
		return JsonResponse(c, fiber.StatusOK, UserID(c))
	})

	status, out := send(t, app, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "", out["data"])

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	status, out = send(t, app, req)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "", out["data"])

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer user-token")
	_, out = send(t, app, req)
	assert.Equal(t, "u1", out["data"])
}

func TestErrorHandler(t *testing.T) {
	app := newApp()
	app.Get("/validation", func(c *fiber.Ctx) error {
		return apperror.Validation(map[string]string{"rating": "Rating must be between 1 and 5"})
	})
	app.Get("/fiber", func(c *fiber.Ctx) error { return fiber.ErrMethodNotAllowed })
	app.Get("/unknown", func(c *fiber.Ctx) error { return errors.New("db exploded") })
	app.Get("/unconfigured", func(c *fiber.Ctx) error { return apperror.Unconfigured("Vimeo is not configured") })

	status, out := send(t, app, httptest.NewRequest(http.MethodGet, "/validation", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "Validation failed!", out["message"])
	assert.Equal(t, map[string]any{"rating": "Rating must be between 1 and 5"}, out["errors"])

	status, _ = send(t, app, httptest.NewRequest(http.MethodGet, "/fiber", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, status)

	status, out = send(t, app, httptest.NewRequest(http.MethodGet, "/unknown", nil))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Server Error", out["message"])

	status, out = send(t, app, httptest.NewRequest(http.MethodGet, "/unconfigured", nil))
	assert.Equal(t, http.StatusNotImplemented, status)
	assert.Equal(t, "Vimeo is not configured", out["message"])
}

func TestTrackingMintsSessionCookie(t *testing.T) {
	app := newApp()
	app.Use(Tracking(logger.Discard(), false))
	app.Get("/", func(c *fiber.Ctx) error {
		return JsonResponse(c, fiber.StatusOK, c.Locals("sessionId"))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)

	sessionID := resp.Header.Get("X-Session-ID")
	require.NotEmpty(t, sessionID)
	var found bool
	for _, ck := range resp.Cookies() {
		if ck.Name == "sessionId" {
			found = true
			assert.Equal(t, sessionID, ck.Value)
			assert.True(t, ck.HttpOnly)
		}
	}
	assert.True(t, found, "sessionId cookie not set")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sessionId", Value: "from-cookie"})
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "from-cookie", resp.Header.Get("X-Session-ID"))
}
