package models

import (
	"time"

	"gorm.io/datatypes"
)

// ClientLogRetention is how long client log batches are kept
const ClientLogRetention = 30 * 24 * time.Hour

type LogEntry struct {
	Level     string         `json:"level" bson:"level"` // info, warning, error, debug
	Message   string         `json:"message" bson:"message"`
	Timestamp time.Time      `json:"timestamp" bson:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty" bson:"metadata,omitempty"`
}

// ClientLog is one batch of diagnostics submitted by a client session
type ClientLog struct {
	ID         string                        `json:"id" gorm:"primaryKey;size:36" bson:"_id"`
	SessionID  string                        `json:"sessionId" gorm:"size:64;index;not null" bson:"sessionId"`
	UserID     string                        `json:"userId,omitempty" gorm:"size:36;index" bson:"userId,omitempty"`
	DeviceInfo datatypes.JSONMap             `json:"deviceInfo" bson:"deviceInfo"`
	Logs       datatypes.JSONSlice[LogEntry] `json:"logs" bson:"logs"`
	CreatedAt  time.Time                     `json:"createdAt" gorm:"index" bson:"createdAt"`
}
