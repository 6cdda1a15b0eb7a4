package services

import (
	"context"
	"time"

	"learnhub/apperror"
	"learnhub/models"
	"learnhub/store"

	"github.com/google/uuid"
)

type ReviewService struct {
	store *store.Store
	now   func() time.Time
}

func NewReviewService(st *store.Store) *ReviewService {
	return &ReviewService{store: st, now: time.Now}
}

// AddReview records the actor's single review of a course and refreshes the
// course rating. Only enrolled users and admins may review.
func (s *ReviewService) AddReview(ctx context.Context, courseID string, actor Actor, rating int, text string) (*models.Course, error) {
	if rating < 1 || rating > 5 {
		return nil, apperror.Validation(map[string]string{"rating": "Rating must be between 1 and 5"})
	}

	var out *models.Course
	err := withRetry(ctx, func() error {
		course, err := s.store.Courses.FindByID(ctx, courseID)
		if err != nil {
			return storeError(err, courseNotFound(courseID))
		}
		user, err := s.store.Users.FindByID(ctx, actor.ID)
		if err != nil {
			return storeError(err, "User not found")
		}
		if !user.IsEnrolled(courseID) && !actor.IsAdmin() {
			return apperror.Forbidden("You must be enrolled in the course to leave a review")
		}
		if course.ReviewBy(actor.ID) != -1 {
			return apperror.BadRequest("You have already reviewed this course")
		}

		course.Reviews = append(course.Reviews, models.Review{
			ID:     uuid.NewString(),
			UserID: actor.ID,
			Rating: rating,
			Text:   text,
			Date:   s.now(),
		})
		course.RecalculateRating()
		out = course
		return s.store.Courses.Save(ctx, course)
	})
	if err != nil {
		return nil, storeError(err, courseNotFound(courseID))
	}
	return out, nil
}

// Reviews returns the course's reviews, newest last
func (s *ReviewService) Reviews(ctx context.Context, courseID string) ([]models.Review, error) {
	course, err := s.store.Courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, storeError(err, courseNotFound(courseID))
	}
	if course.Reviews == nil {
		return []models.Review{}, nil
	}
	return course.Reviews, nil
}
