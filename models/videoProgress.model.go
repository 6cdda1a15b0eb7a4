package models

import (
	"math"
	"time"
)

// VideoProgress is unique per (UserID, VideoID)
type VideoProgress struct {
	ID          uint      `json:"-" gorm:"primaryKey"`
	UserID      string    `json:"userId" gorm:"size:36;not null;uniqueIndex:idx_video_progress_user_video"`
	VideoID     string    `json:"videoId" gorm:"size:128;not null;uniqueIndex:idx_video_progress_user_video"`
	CurrentTime float64   `json:"currentTime" gorm:"column:current_position;not null;default:0"`
	Duration    float64   `json:"duration" gorm:"not null"`
	LessonID    string    `json:"lessonId,omitempty"`
	CourseID    string    `json:"courseId,omitempty"`
	Completed   bool      `json:"completed" gorm:"default:false"`
	Timestamp   time.Time `json:"timestamp"`
}

// WatchPercent is the watched share rounded to one decimal and capped at 100
func WatchPercent(currentTime, duration float64) float64 {
	if duration <= 0 {
		return 0
	}
	return math.Min(math.Round(currentTime/duration*1000)/10, 100)
}

func (p *VideoProgress) Percent() float64 {
	return WatchPercent(p.CurrentTime, p.Duration)
}
