package models

import (
	"fmt"
	"time"
)

// Enrollment is embedded in User, one per course
type Enrollment struct {
	CourseID         string    `json:"course"`
	EnrolledAt       time.Time `json:"enrolledAt"`
	Progress         int       `json:"progress"`
	Completed        bool      `json:"completed"`
	CompletedLessons []string  `json:"completedLessons"`
}

// Certificate is issued once per (user, course) and never revoked
type Certificate struct {
	CourseID       string    `json:"course"`
	IssuedAt       time.Time `json:"issuedAt"`
	CertificateURL string    `json:"certificateUrl"`
}

func CertificateURL(courseID, userID string) string {
	return fmt.Sprintf("certificates/%s_%s.pdf", courseID, userID)
}

// MarkLesson adds or removes lessonID from the completed set
func (e *Enrollment) MarkLesson(lessonID string, completed bool) {
	idx := -1
	for i, id := range e.CompletedLessons {
		if id == lessonID {
			idx = i
			break
		}
	}
	switch {
	case completed && idx == -1:
		e.CompletedLessons = append(e.CompletedLessons, lessonID)
	case !completed && idx != -1:
		e.CompletedLessons = append(e.CompletedLessons[:idx], e.CompletedLessons[idx+1:]...)
	}
	if e.CompletedLessons == nil {
		e.CompletedLessons = []string{}
	}
}

// Recompute derives Progress and Completed from the lessons the course still
// has. Completed lessons that were since deleted do not count.
func (e *Enrollment) Recompute(existing map[string]struct{}) {
	total := len(existing)
	if total == 0 {
		e.Progress = 0
		e.Completed = false
		return
	}
	done := 0
	for _, id := range e.CompletedLessons {
		if _, ok := existing[id]; ok {
			done++
		}
	}
	e.Progress = done * 100 / total
	e.Completed = e.Progress == 100
}
