package services

import (
	"context"
	"fmt"
	"math"

	"learnhub/apperror"
	"learnhub/config"
	"learnhub/gateway"
	"learnhub/models"
	"learnhub/store"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

const (
	MethodCreditCard = "credit_card"
	MethodPayPal     = "paypal"

	testPaymentID = "test_payment_id"
)

type PaymentReceipt struct {
	PaymentID string               `json:"paymentId"`
	Status    models.PaymentStatus `json:"status"`
}

// PaymentView is a payment with the title and thumbnail of its course
type PaymentView struct {
	*models.Payment
	CourseTitle     string `json:"courseTitle,omitempty"`
	CourseThumbnail string `json:"courseThumbnail,omitempty"`
}

// PaymentService charges for a course and enrolls the buyer when the charge
// completes
type PaymentService struct {
	store         *store.Store
	cfg           *config.Config
	stripe        StripeGateway
	paypal        PayPalGateway
	enrollment    *EnrollmentService
	notifications *NotificationService
	log           *logrus.Entry
}

func NewPaymentService(st *store.Store, cfg *config.Config, stripe StripeGateway, paypal PayPalGateway,
	enrollment *EnrollmentService, notifications *NotificationService, log *logrus.Logger) *PaymentService {
	return &PaymentService{
		store:         st,
		cfg:           cfg,
		stripe:        stripe,
		paypal:        paypal,
		enrollment:    enrollment,
		notifications: notifications,
		log:           log.WithField("service", "PaymentService"),
	}
}

// purchasable loads the course and rejects buyers who already own it
func (s *PaymentService) purchasable(ctx context.Context, userID, courseID string) (*models.Course, error) {
	course, err := s.store.Courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, storeError(err, courseNotFound(courseID))
	}
	user, err := s.store.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, storeError(err, "User not found")
	}
	if user.IsEnrolled(courseID) {
		return nil, apperror.BadRequest(fmt.Sprintf("Already enrolled in course %s", courseID))
	}
	return course, nil
}

func (s *PaymentService) ProcessStripe(ctx context.Context, userID, courseID, paymentMethodID string) (*PaymentReceipt, error) {
	course, err := s.purchasable(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	status := models.PaymentCompleted
	externalID := testPaymentID
	if !s.cfg.IsTest() {
		if s.stripe == nil {
			return nil, apperror.Unconfigured("Stripe payments are not configured")
		}
		intent, err := s.stripe.CreatePaymentIntent(ctx, gateway.PaymentIntentRequest{
			AmountCents:     int64(math.Round(course.Price * 100)),
			Currency:        "usd",
			PaymentMethodID: paymentMethodID,
			Description:     "Enrollment in course: " + course.Title,
			Metadata:        map[string]string{"courseId": courseID, "userId": userID},
		})
		if err != nil {
			return nil, apperror.Upstream(400, "Payment failed", err)
		}
		externalID = intent.ID
		status = models.PaymentPending
		if intent.Succeeded() {
			status = models.PaymentCompleted
		}
	}

	return s.record(ctx, userID, course, MethodCreditCard, externalID, status, map[string]any{"id": externalID})
}

// ProcessPayPal records a PayPal checkout. The order is verified with PayPal
// when credentials are configured; otherwise it is accepted as completed.
func (s *PaymentService) ProcessPayPal(ctx context.Context, userID, courseID, orderID string) (*PaymentReceipt, error) {
	course, err := s.purchasable(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	status := models.PaymentCompleted
	if s.paypal != nil && !s.cfg.IsTest() {
		order, err := s.paypal.GetOrder(ctx, orderID)
		if err != nil {
			return nil, apperror.Upstream(400, "Payment failed", err)
		}
		if !order.Completed() {
			status = models.PaymentPending
		}
	}

	return s.record(ctx, userID, course, MethodPayPal, orderID, status, map[string]any{"orderId": orderID})
}

func (s *PaymentService) record(ctx context.Context, userID string, course *models.Course, method, externalID string,
	status models.PaymentStatus, details map[string]any) (*PaymentReceipt, error) {
	payment := &models.Payment{
		UserID:             userID,
		CourseID:           course.ID,
		Amount:             course.Price,
		PaymentMethod:      method,
		PaymentID:          externalID,
		Status:             status,
		TransactionDetails: datatypes.JSONMap(details),
	}
	if err := s.store.Payments.Create(ctx, payment); err != nil {
		return nil, apperror.Internal("Server Error", err)
	}

	entry := s.log.WithFields(logrus.Fields{
		"paymentId": payment.ID,
		"userId":    userID,
		"courseId":  course.ID,
		"method":    method,
		"status":    status,
	})
	entry.Info("payment recorded")

	if status == models.PaymentCompleted {
		if _, err := s.enrollment.Enroll(ctx, userID, course.ID); err != nil {
			entry.WithError(err).Error("payment completed but enrollment failed")
			return nil, err
		}
		_, err := s.notifications.Notify(ctx, NotificationInput{
			UserID:     userID,
			Type:       models.NotificationPayment,
			Title:      "Course Enrollment Successful",
			Message:    "Payment successful",
			Details:    "You have successfully enrolled in " + course.Title,
			ActionLink: "/courses/" + course.ID,
			ActionText: "Start Learning",
		})
		if err != nil {
			entry.WithError(err).Warn("enrollment notification not stored")
		}
	}

	return &PaymentReceipt{PaymentID: payment.ID, Status: payment.Status}, nil
}

// History lists the user's payments, newest first
func (s *PaymentService) History(ctx context.Context, userID string) ([]PaymentView, error) {
	payments, err := s.store.Payments.FindByUser(ctx, userID)
	if err != nil {
		return nil, apperror.Internal("Server Error", err)
	}
	return s.views(ctx, payments)
}

func (s *PaymentService) Details(ctx context.Context, paymentID string, actor Actor) (*PaymentView, error) {
	p, err := s.store.Payments.FindByID(ctx, paymentID)
	if err != nil {
		return nil, storeError(err, fmt.Sprintf("Payment not found with id of %s", paymentID))
	}
	if p.UserID != actor.ID && !actor.IsAdmin() {
		return nil, apperror.Forbidden("Not authorized to access this payment")
	}
	views, err := s.views(ctx, []*models.Payment{p})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *PaymentService) views(ctx context.Context, payments []*models.Payment) ([]PaymentView, error) {
	ids := make([]string, 0, len(payments))
	for _, p := range payments {
		ids = append(ids, p.CourseID)
	}
	courses, err := s.enrollment.coursesByID(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]PaymentView, 0, len(payments))
	for _, p := range payments {
		v := PaymentView{Payment: p}
		if c, ok := courses[p.CourseID]; ok {
			v.CourseTitle = c.Title
			v.CourseThumbnail = c.Thumbnail
		}
		out = append(out, v)
	}
	return out, nil
}
