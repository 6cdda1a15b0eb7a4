package services

import (
	"context"
	"time"

	"learnhub/apperror"
	"learnhub/models"
	"learnhub/store"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type ClientLogInput struct {
	SessionID  string            `json:"sessionId"`
	DeviceInfo map[string]any    `json:"deviceInfo"`
	Logs       []models.LogEntry `json:"logs"`
}

// ClientLogReceipt acknowledges a batch. Stored is false when the batch was
// accepted but could not be persisted.
type ClientLogReceipt struct {
	ID       string `json:"id,omitempty"`
	LogCount int    `json:"logCount"`
	Stored   bool   `json:"-"`
}

// ClientLogService ingests diagnostic batches sent by browsers and apps
type ClientLogService struct {
	store *store.Store
	log   *logrus.Entry
	now   func() time.Time
}

func NewClientLogService(st *store.Store, log *logrus.Logger) *ClientLogService {
	return &ClientLogService{
		store: st,
		log:   log.WithField("service", "ClientLogService"),
		now:   time.Now,
	}
}

// Store persists a batch. Storage failures are logged and reported through
// the receipt, never as an error, so telemetry cannot block the client.
func (s *ClientLogService) Store(ctx context.Context, userID string, in ClientLogInput) (*ClientLogReceipt, error) {
	if in.SessionID == "" || in.DeviceInfo == nil || in.Logs == nil {
		return nil, apperror.BadRequest("Please provide valid sessionId, deviceInfo, and logs array")
	}
	if len(in.Logs) == 0 {
		return nil, apperror.BadRequest("Logs array cannot be empty")
	}

	entry := &models.ClientLog{
		ID:         uuid.NewString(),
		SessionID:  in.SessionID,
		UserID:     userID,
		DeviceInfo: in.DeviceInfo,
		Logs:       in.Logs,
		CreatedAt:  s.now(),
	}
	fields := logrus.Fields{
		"category":  "CLIENT_LOGS",
		"sessionId": in.SessionID,
		"logCount":  len(in.Logs),
	}
	if userID != "" {
		fields["userId"] = userID
	} else {
		fields["userId"] = "unauthenticated"
	}

	if err := s.store.ClientLogs.Create(ctx, entry); err != nil {
		s.log.WithError(err).WithFields(fields).Error("failed to store client logs")
		return &ClientLogReceipt{LogCount: len(in.Logs)}, nil
	}
	s.log.WithFields(fields).Infof("received %d client logs for session %s", len(in.Logs), in.SessionID)
	return &ClientLogReceipt{ID: entry.ID, LogCount: len(in.Logs), Stored: true}, nil
}

func (s *ClientLogService) BySession(ctx context.Context, sessionID string) ([]*models.ClientLog, error) {
	if sessionID == "" {
		return nil, apperror.BadRequest("Please provide a session ID")
	}
	logs, err := s.store.ClientLogs.FindBySession(ctx, sessionID)
	if err != nil {
		return nil, apperror.Internal("Server Error", err)
	}
	return nonNilLogs(logs), nil
}

func (s *ClientLogService) ByUser(ctx context.Context, userID string) ([]*models.ClientLog, error) {
	if userID == "" {
		return nil, apperror.BadRequest("Please provide a user ID")
	}
	logs, err := s.store.ClientLogs.FindByUser(ctx, userID, 0)
	if err != nil {
		return nil, apperror.Internal("Server Error", err)
	}
	return nonNilLogs(logs), nil
}

// Purge drops batches past the retention window
func (s *ClientLogService) Purge(ctx context.Context) (int64, error) {
	return s.store.ClientLogs.PurgeOlderThan(ctx, s.now().Add(-models.ClientLogRetention))
}

func nonNilLogs(logs []*models.ClientLog) []*models.ClientLog {
	if logs == nil {
		return []*models.ClientLog{}
	}
	return logs
}
