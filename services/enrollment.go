package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"learnhub/apperror"
	"learnhub/models"
	"learnhub/store"

	"github.com/sirupsen/logrus"
)

type ProgressResult struct {
	Progress         int      `json:"progress"`
	Completed        bool     `json:"completed"`
	CompletedLessons []string `json:"completedLessons"`
}

// EnrolledCourse is a course summary merged with the caller's progress on it
type EnrolledCourse struct {
	models.CourseSummary
	Progress         int       `json:"progress"`
	Completed        bool      `json:"completed"`
	EnrolledAt       time.Time `json:"enrolledAt"`
	CompletedLessons []string  `json:"completedLessons"`
}

type CertificateView struct {
	models.Certificate
	CourseTitle string `json:"courseTitle"`
}

// EnrollmentService owns enrollments, lesson progress and certificate issuance
type EnrollmentService struct {
	store *store.Store
	log   *logrus.Entry
	now   func() time.Time
}

func NewEnrollmentService(st *store.Store, log *logrus.Logger) *EnrollmentService {
	return &EnrollmentService{
		store: st,
		log:   log.WithField("service", "EnrollmentService"),
		now:   time.Now,
	}
}

// Enroll appends an enrollment for courseID to the user and bumps the
// course's enrollment counter. The two writes are independent; a failed
// counter update is logged and does not undo the enrollment.
func (s *EnrollmentService) Enroll(ctx context.Context, userID, courseID string) (*models.Enrollment, error) {
	course, err := s.store.Courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, storeError(err, fmt.Sprintf("Course not found with id of %s", courseID))
	}

	var enrollment models.Enrollment
	err = withRetry(ctx, func() error {
		user, err := s.store.Users.FindByID(ctx, userID)
		if err != nil {
			return storeError(err, "User not found")
		}
		if user.IsEnrolled(courseID) {
			return apperror.BadRequest(fmt.Sprintf("Already enrolled in course %s", courseID))
		}
		enrollment = models.Enrollment{
			CourseID:         courseID,
			EnrolledAt:       s.now(),
			CompletedLessons: []string{},
		}
		user.EnrolledCourses = append(user.EnrolledCourses, enrollment)
		return s.store.Users.Save(ctx, user)
	})
	if err != nil {
		return nil, storeError(err, "User not found")
	}

	if err := s.incrementEnrollments(ctx, course); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"courseId": courseID,
			"userId":   userID,
		}).Error("failed to increment course enrollment counter")
	}
	return &enrollment, nil
}

func (s *EnrollmentService) incrementEnrollments(ctx context.Context, course *models.Course) error {
	first := true
	return withRetry(ctx, func() error {
		if !first {
			fresh, err := s.store.Courses.FindByID(ctx, course.ID)
			if err != nil {
				return err
			}
			course = fresh
		}
		first = false
		course.TotalEnrollments++
		return s.store.Courses.Save(ctx, course)
	})
}

// UpdateProgress marks or unmarks a lesson and recomputes the enrollment
// against the lessons the course currently has. Reaching 100% issues the
// certificate once; dropping below never revokes it.
func (s *EnrollmentService) UpdateProgress(ctx context.Context, userID, courseID, lessonID string, completed bool) (*ProgressResult, error) {
	if lessonID == "" {
		return nil, apperror.BadRequest("Please provide a lesson ID")
	}

	var result ProgressResult
	err := withRetry(ctx, func() error {
		user, err := s.store.Users.FindByID(ctx, userID)
		if err != nil {
			return storeError(err, "User not found")
		}
		idx := user.EnrollmentIndex(courseID)
		if idx == -1 {
			return apperror.NotFound(fmt.Sprintf("Not enrolled in course %s", courseID))
		}

		course, err := s.store.Courses.FindByID(ctx, courseID)
		if err != nil {
			return storeError(err, "Course not found")
		}
		lessons := course.LessonSet()
		if len(lessons) == 0 {
			return apperror.BadRequest("Course has no lessons")
		}

		e := &user.EnrolledCourses[idx]
		e.MarkLesson(lessonID, completed)
		e.Recompute(lessons)

		if e.Completed && !user.HasCertificate(courseID) {
			user.Certificates = append(user.Certificates, models.Certificate{
				CourseID:       courseID,
				IssuedAt:       s.now(),
				CertificateURL: models.CertificateURL(courseID, userID),
			})
		}

		result = ProgressResult{
			Progress:         e.Progress,
			Completed:        e.Completed,
			CompletedLessons: append([]string{}, e.CompletedLessons...),
		}
		return s.store.Users.Save(ctx, user)
	})
	if err != nil {
		return nil, storeError(err, "User not found")
	}
	return &result, nil
}

// EnrolledCourses lists the user's enrollments joined with their courses.
// Enrollments whose course no longer exists are skipped.
func (s *EnrollmentService) EnrolledCourses(ctx context.Context, userID string) ([]EnrolledCourse, error) {
	user, err := s.store.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, storeError(err, "User not found")
	}

	ids := make([]string, 0, len(user.EnrolledCourses))
	for _, e := range user.EnrolledCourses {
		if e.CourseID != "" {
			ids = append(ids, e.CourseID)
		}
	}
	courses, err := s.coursesByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]EnrolledCourse, 0, len(ids))
	for _, e := range user.EnrolledCourses {
		c, ok := courses[e.CourseID]
		if !ok {
			continue
		}
		lessons := e.CompletedLessons
		if lessons == nil {
			lessons = []string{}
		}
		out = append(out, EnrolledCourse{
			CourseSummary:    c.Summary(),
			Progress:         e.Progress,
			Completed:        e.Completed,
			EnrolledAt:       e.EnrolledAt,
			CompletedLessons: lessons,
		})
	}
	return out, nil
}

// Certificates lists issued certificates with their course titles
func (s *EnrollmentService) Certificates(ctx context.Context, userID string) ([]CertificateView, error) {
	user, err := s.store.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, storeError(err, "User not found")
	}

	ids := make([]string, 0, len(user.Certificates))
	for _, c := range user.Certificates {
		ids = append(ids, c.CourseID)
	}
	courses, err := s.coursesByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]CertificateView, 0, len(user.Certificates))
	for _, c := range user.Certificates {
		view := CertificateView{Certificate: c}
		if course, ok := courses[c.CourseID]; ok {
			view.CourseTitle = course.Title
		}
		out = append(out, view)
	}
	return out, nil
}

func (s *EnrollmentService) coursesByID(ctx context.Context, ids []string) (map[string]*models.Course, error) {
	list, err := s.store.Courses.FindByIDs(ctx, ids)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, apperror.Internal("Server Error", err)
	}
	byID := make(map[string]*models.Course, len(list))
	for _, c := range list {
		byID[c.ID] = c
	}
	return byID, nil
}
