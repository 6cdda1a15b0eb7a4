package services

import (
	"context"
	"errors"
	"testing"

	"learnhub/gateway"
	"learnhub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStripe struct {
	status string
	err    error
	got    gateway.PaymentIntentRequest
}

func (s *fakeStripe) CreatePaymentIntent(_ context.Context, req gateway.PaymentIntentRequest) (*gateway.PaymentIntent, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &gateway.PaymentIntent{ID: "pi_123", Status: s.status}, nil
}

type fakePayPal struct {
	status string
}

func (p *fakePayPal) GetOrder(_ context.Context, orderID string) (*gateway.PayPalOrder, error) {
	return &gateway.PayPalOrder{ID: orderID, Status: p.status}, nil
}

func TestTestModePaymentEnrollsAndNotifies(t *testing.T) {
	f := newFixture(t, Gateways{})
	owner := f.user(t, "owner", models.RoleInstructor)
	buyer := f.user(t, "buyer", models.RoleUser)
	course := f.course(t, "Go Basics", owner.ID, "L1")

	receipt, err := f.svc.Payments.ProcessStripe(f.ctx, buyer.ID, course.ID, "pm_card")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, receipt.Status)

	assert.True(t, f.reloadUser(t, buyer.ID).IsEnrolled(course.ID))
	assert.Equal(t, 1, f.reloadCourse(t, course.ID).TotalEnrollments)

	view, err := f.svc.Payments.Details(f.ctx, receipt.PaymentID, actorOf(buyer))
	require.NoError(t, err)
	assert.Equal(t, testPaymentID, view.PaymentID)
	assert.Equal(t, "Go Basics", view.CourseTitle)
	assert.Equal(t, 49.99, view.Amount)

	list, err := f.svc.Notifications.List(f.ctx, buyer.ID, nil, utilsPage(1, 10))
	require.NoError(t, err)
	require.Len(t, list.Notifications, 1)
	n := list.Notifications[0]
	assert.Equal(t, models.NotificationPayment, n.Type)
	assert.Equal(t, "Course Enrollment Successful", n.Title)
	assert.Equal(t, "/courses/"+course.ID, n.ActionLink)

	_, err = f.svc.Payments.ProcessStripe(f.ctx, buyer.ID, course.ID, "pm_card")
	requireStatus(t, err, 400)
}

func TestStripeNotConfigured(t *testing.T) {
	f := newFixture(t, Gateways{})
	f.cfg.AppEnv = "development"
	owner := f.user(t, "owner", models.RoleInstructor)
	buyer := f.user(t, "buyer", models.RoleUser)
	course := f.course(t, "Go Basics", owner.ID, "L1")

	_, err := f.svc.Payments.ProcessStripe(f.ctx, buyer.ID, course.ID, "pm_card")
	requireStatus(t, err, 501)
}

func TestStripeOutcomes(t *testing.T) {
	cases := []struct {
		name     string
		stripe   *fakeStripe
		status   models.PaymentStatus
		enrolled bool
	}{
		{"succeeded", &fakeStripe{status: "succeeded"}, models.PaymentCompleted, true},
		{"requires action", &fakeStripe{status: "requires_action"}, models.PaymentPending, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, Gateways{Stripe: tc.stripe})
			f.cfg.AppEnv = "development"
			owner := f.user(t, "owner", models.RoleInstructor)
			buyer := f.user(t, "buyer", models.RoleUser)
			course := f.course(t, "Go Basics", owner.ID, "L1")

			receipt, err := f.svc.Payments.ProcessStripe(f.ctx, buyer.ID, course.ID, "pm_card")
			require.NoError(t, err)
			assert.Equal(t, tc.status, receipt.Status)
			assert.Equal(t, tc.enrolled, f.reloadUser(t, buyer.ID).IsEnrolled(course.ID))

			assert.EqualValues(t, 4999, tc.stripe.got.AmountCents)
			assert.Equal(t, "pm_card", tc.stripe.got.PaymentMethodID)
			assert.Equal(t, course.ID, tc.stripe.got.Metadata["courseId"])

			history, err := f.svc.Payments.History(f.ctx, buyer.ID)
			require.NoError(t, err)
			require.Len(t, history, 1)
			assert.Equal(t, "pi_123", history[0].PaymentID)
			assert.Equal(t, "pi_123", history[0].TransactionDetails["id"])
		})
	}
}

func TestStripeFailureReportsUpstreamMessage(t *testing.T) {
	f := newFixture(t, Gateways{Stripe: &fakeStripe{err: errors.New("Your card was declined.")}})
	f.cfg.AppEnv = "development"
	owner := f.user(t, "owner", models.RoleInstructor)
	buyer := f.user(t, "buyer", models.RoleUser)
	course := f.course(t, "Go Basics", owner.ID, "L1")

	_, err := f.svc.Payments.ProcessStripe(f.ctx, buyer.ID, course.ID, "pm_card")
	e := requireStatus(t, err, 400)
	assert.Equal(t, "Payment failed: Your card was declined.", e.Message)

	history, err := f.svc.Payments.History(f.ctx, buyer.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestPayPalPayments(t *testing.T) {
	f := newFixture(t, Gateways{PayPal: &fakePayPal{status: "APPROVED"}})
	f.cfg.AppEnv = "development"
	owner := f.user(t, "owner", models.RoleInstructor)
	buyer := f.user(t, "buyer", models.RoleUser)
	course := f.course(t, "Go Basics", owner.ID, "L1")

	receipt, err := f.svc.Payments.ProcessPayPal(f.ctx, buyer.ID, course.ID, "ORDER-1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, receipt.Status)
	assert.False(t, f.reloadUser(t, buyer.ID).IsEnrolled(course.ID))

	f.svc.Payments.paypal = &fakePayPal{status: "COMPLETED"}
	receipt, err = f.svc.Payments.ProcessPayPal(f.ctx, buyer.ID, course.ID, "ORDER-2")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, receipt.Status)
	assert.True(t, f.reloadUser(t, buyer.ID).IsEnrolled(course.ID))

	view, err := f.svc.Payments.Details(f.ctx, receipt.PaymentID, actorOf(buyer))
	require.NoError(t, err)
	assert.Equal(t, MethodPayPal, view.PaymentMethod)
	assert.Equal(t, "ORDER-2", view.TransactionDetails["orderId"])
}

func TestPaymentDetailsAccess(t *testing.T) {
	f := newFixture(t, Gateways{})
	owner := f.user(t, "owner", models.RoleInstructor)
	buyer := f.user(t, "buyer", models.RoleUser)
	stranger := f.user(t, "stranger", models.RoleUser)
	admin := f.user(t, "root", models.RoleAdmin)
	course := f.course(t, "Go Basics", owner.ID, "L1")

	receipt, err := f.svc.Payments.ProcessPayPal(f.ctx, buyer.ID, course.ID, "ORDER-1")
	require.NoError(t, err)

	_, err = f.svc.Payments.Details(f.ctx, "missing", actorOf(buyer))
	e := requireStatus(t, err, 404)
	assert.Equal(t, "Payment not found with id of missing", e.Message)

	_, err = f.svc.Payments.Details(f.ctx, receipt.PaymentID, actorOf(stranger))
	requireStatus(t, err, 403)

	_, err = f.svc.Payments.Details(f.ctx, receipt.PaymentID, actorOf(admin))
	require.NoError(t, err)
}
