// Package services holds the business rules. Handlers call into it with an
// authenticated Actor; it talks to storage through the store package and to
// payment providers and the video host through small gateway interfaces.
package services

import (
	"context"
	"errors"
	"time"

	"learnhub/apperror"
	"learnhub/config"
	"learnhub/gateway"
	"learnhub/models"
	"learnhub/store"

	"github.com/sirupsen/logrus"
)

// maxSaveAttempts bounds the reload-and-reapply loop around versioned saves
const maxSaveAttempts = 3

// Actor is the authenticated caller as resolved by the auth middleware
type Actor struct {
	ID   string
	Role models.Role
}

func (a Actor) IsAdmin() bool { return a.Role == models.RoleAdmin }

type StripeGateway interface {
	CreatePaymentIntent(ctx context.Context, req gateway.PaymentIntentRequest) (*gateway.PaymentIntent, error)
}

type PayPalGateway interface {
	GetOrder(ctx context.Context, orderID string) (*gateway.PayPalOrder, error)
}

type VideoHost interface {
	CreateFolder(ctx context.Context, name string) (string, error)
	CreateUploadTicket(ctx context.Context, req gateway.UploadTicketRequest) (*gateway.UploadTicket, error)
	GetVideo(ctx context.Context, videoID string) (*gateway.VideoDetails, error)
	UpdatePrivacy(ctx context.Context, videoID string) error
}

// Gateways groups the upstream collaborators. A nil member means the
// integration is not configured.
type Gateways struct {
	Stripe StripeGateway
	PayPal PayPalGateway
	Video  VideoHost
}

// NewGateways builds the resty clients for every integration whose
// credentials are present in cfg.
func NewGateways(cfg *config.Config) Gateways {
	timeout := time.Duration(cfg.RequestTimeoutSeconds) * time.Second
	var g Gateways
	if cfg.StripeConfigured() {
		g.Stripe = gateway.NewStripe(cfg.StripeAPIURL, cfg.StripeSecretKey, timeout)
	}
	if cfg.PayPalConfigured() {
		g.PayPal = gateway.NewPayPal(cfg.PayPalAPIURL, cfg.PayPalClientID, cfg.PayPalSecret, timeout)
	}
	if cfg.VimeoConfigured() {
		g.Video = gateway.NewVimeo(cfg.VimeoAPIURL, cfg.VimeoAccessToken, timeout)
	}
	return g
}

// Services is the container handed to the HTTP layer
type Services struct {
	Auth          *AuthService
	Enrollment    *EnrollmentService
	Content       *ContentService
	Catalog       *CatalogService
	Reviews       *ReviewService
	Payments      *PaymentService
	Notifications *NotificationService
	Videos        *VideoService
	ClientLogs    *ClientLogService
}

func New(st *store.Store, cfg *config.Config, gw Gateways, log *logrus.Logger) *Services {
	notifications := NewNotificationService(st, log)
	enrollment := NewEnrollmentService(st, log)
	return &Services{
		Auth:          NewAuthService(st, cfg, log),
		Enrollment:    enrollment,
		Content:       NewContentService(st, log),
		Catalog:       NewCatalogService(st),
		Reviews:       NewReviewService(st),
		Payments:      NewPaymentService(st, cfg, gw.Stripe, gw.PayPal, enrollment, notifications, log),
		Notifications: notifications,
		Videos:        NewVideoService(st, gw.Video, log),
		ClientLogs:    NewClientLogService(st, log),
	}
}

// withRetry runs fn until it stops failing with a version conflict. fn must
// reload the aggregate it writes on every call.
func withRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt < maxSaveAttempts; attempt++ {
		if err = ctx.Err(); err != nil {
			return err
		}
		err = fn()
		if !errors.Is(err, store.ErrConflict) {
			return err
		}
	}
	return apperror.Conflict("The resource was modified concurrently, please retry")
}

// storeError maps a storage failure that escaped the service-level checks
func storeError(err error, notFound string) error {
	if err == nil {
		return nil
	}
	if _, ok := apperror.As(err); ok {
		return err
	}
	switch {
	case errors.Is(err, store.ErrNotFound):
		return apperror.NotFound(notFound)
	case errors.Is(err, store.ErrConflict):
		return apperror.Conflict("The resource was modified concurrently, please retry")
	case errors.Is(err, store.ErrDuplicate):
		return apperror.BadRequest("Duplicate field value entered")
	}
	return apperror.Internal("Server Error", err)
}
