package services

import (
	"context"
	"fmt"
	"slices"

	"learnhub/apperror"
	"learnhub/models"
	"learnhub/store"

	"github.com/sirupsen/logrus"
)

// CourseInput carries the editable course fields. Nil members are left alone
// on update.
type CourseInput struct {
	Title            *string   `json:"title"`
	Description      *string   `json:"description"`
	ShortDescription *string   `json:"shortDescription"`
	Price            *float64  `json:"price"`
	DiscountPrice    *float64  `json:"discountPrice"`
	Duration         *string   `json:"duration"`
	Level            *string   `json:"level"`
	Thumbnail        *string   `json:"thumbnail"`
	Category         *string   `json:"category"`
	Tags             *[]string `json:"tags"`
	Highlights       *[]string `json:"highlights"`
	Requirements     *[]string `json:"requirements"`
	IsPublished      *bool     `json:"isPublished"`
	IsNew            *bool     `json:"isNew"`
	IsFeatured       *bool     `json:"isFeatured"`
}

func (in CourseInput) apply(c *models.Course) {
	if in.Title != nil {
		c.Title = *in.Title
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.ShortDescription != nil {
		c.ShortDescription = *in.ShortDescription
	}
	if in.Price != nil {
		c.Price = *in.Price
	}
	if in.DiscountPrice != nil {
		c.DiscountPrice = in.DiscountPrice
	}
	if in.Duration != nil {
		c.Duration = *in.Duration
	}
	if in.Level != nil {
		c.Level = *in.Level
	}
	if in.Thumbnail != nil {
		c.Thumbnail = *in.Thumbnail
	}
	if in.Category != nil {
		c.Category = *in.Category
	}
	if in.Tags != nil {
		c.Tags = *in.Tags
	}
	if in.Highlights != nil {
		c.Highlights = *in.Highlights
	}
	if in.Requirements != nil {
		c.Requirements = *in.Requirements
	}
	if in.IsPublished != nil {
		c.IsPublished = *in.IsPublished
	}
	if in.IsNew != nil {
		c.IsNew = *in.IsNew
	}
	if in.IsFeatured != nil {
		c.IsFeatured = *in.IsFeatured
	}
}

type LessonInput struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	VideoURL    string            `json:"videoUrl"`
	Duration    string            `json:"duration"`
	Resources   []models.Resource `json:"resources"`
	IsPreview   bool              `json:"isPreview"`
}

// LessonPatch is merged field by field onto an existing lesson. Every lesson
// field is writable, video lifecycle fields included.
type LessonPatch struct {
	Title         *string               `json:"title"`
	Description   *string               `json:"description"`
	VideoProvider *models.VideoProvider `json:"videoProvider"`
	VideoID       *string               `json:"videoId"`
	VideoURL      *string               `json:"videoUrl"`
	ThumbnailURL  *string               `json:"thumbnailUrl"`
	Duration      *string               `json:"duration"`
	VideoStatus   *models.VideoStatus   `json:"videoStatus"`
	Resources     *[]models.Resource    `json:"resources"`
	IsPreview     *bool                 `json:"isPreview"`
}

func (p LessonPatch) apply(l *models.Lesson) {
	if p.Title != nil {
		l.Title = *p.Title
	}
	if p.Description != nil {
		l.Description = *p.Description
	}
	if p.VideoProvider != nil {
		l.VideoProvider = *p.VideoProvider
	}
	if p.VideoID != nil {
		l.VideoID = *p.VideoID
	}
	if p.VideoURL != nil {
		l.VideoURL = *p.VideoURL
	}
	if p.ThumbnailURL != nil {
		l.ThumbnailURL = *p.ThumbnailURL
	}
	if p.Duration != nil {
		l.Duration = *p.Duration
	}
	if p.VideoStatus != nil {
		l.VideoStatus = *p.VideoStatus
	}
	if p.Resources != nil {
		l.Resources = *p.Resources
	}
	if p.IsPreview != nil {
		l.IsPreview = *p.IsPreview
	}
}

// ContentService authors courses and their nested sections and lessons
type ContentService struct {
	store *store.Store
	log   *logrus.Entry
}

func NewContentService(st *store.Store, log *logrus.Logger) *ContentService {
	return &ContentService{store: st, log: log.WithField("service", "ContentService")}
}

func canEdit(c *models.Course, actor Actor) bool {
	return c.IsOwnedBy(actor.ID) || actor.IsAdmin()
}

func courseNotFound(id string) string {
	return fmt.Sprintf("Course not found with id of %s", id)
}

// mutate loads the course, checks the actor may edit it, applies fn and
// saves the whole course. The sequence is rerun from the load when the save
// loses a version race, so the ownership check is never cached.
func (s *ContentService) mutate(ctx context.Context, courseID string, actor Actor, action string, fn func(c *models.Course) error) error {
	err := withRetry(ctx, func() error {
		c, err := s.store.Courses.FindByID(ctx, courseID)
		if err != nil {
			return storeError(err, courseNotFound(courseID))
		}
		if !canEdit(c, actor) {
			return apperror.Forbidden(fmt.Sprintf("User %s is not authorized to %s", actor.ID, action))
		}
		if err := fn(c); err != nil {
			return err
		}
		return s.store.Courses.Save(ctx, c)
	})
	return storeError(err, courseNotFound(courseID))
}

func sectionIndex(c *models.Course, sectionID string) (int, error) {
	i := c.SectionIndex(sectionID)
	if i == -1 {
		return -1, apperror.NotFound(fmt.Sprintf("Section not found with id of %s", sectionID))
	}
	return i, nil
}

func lessonIndex(c *models.Course, sectionID, lessonID string) (int, int, error) {
	si, err := sectionIndex(c, sectionID)
	if err != nil {
		return -1, -1, err
	}
	li := c.LessonIndex(si, lessonID)
	if li == -1 {
		return -1, -1, apperror.NotFound(fmt.Sprintf("Lesson not found with id of %s", lessonID))
	}
	return si, li, nil
}

func (s *ContentService) AddSection(ctx context.Context, courseID string, actor Actor, title string) (*models.Section, error) {
	var out models.Section
	err := s.mutate(ctx, courseID, actor, "add sections to this course", func(c *models.Course) error {
		out = models.NewSection(title)
		c.Sections = append(c.Sections, out)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ContentService) UpdateSection(ctx context.Context, courseID, sectionID string, actor Actor, title string) (*models.Section, error) {
	var out models.Section
	err := s.mutate(ctx, courseID, actor, "update sections in this course", func(c *models.Course) error {
		i, err := sectionIndex(c, sectionID)
		if err != nil {
			return err
		}
		c.Sections[i].Title = title
		out = c.Sections[i]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ContentService) DeleteSection(ctx context.Context, courseID, sectionID string, actor Actor) error {
	return s.mutate(ctx, courseID, actor, "delete sections from this course", func(c *models.Course) error {
		i, err := sectionIndex(c, sectionID)
		if err != nil {
			return err
		}
		c.Sections = slices.Delete(c.Sections, i, i+1)
		return nil
	})
}

func (s *ContentService) AddLesson(ctx context.Context, courseID, sectionID string, actor Actor, in LessonInput) (*models.Lesson, error) {
	var out models.Lesson
	err := s.mutate(ctx, courseID, actor, "add lessons to this course", func(c *models.Course) error {
		i, err := sectionIndex(c, sectionID)
		if err != nil {
			return err
		}
		out = models.NewLesson(models.Lesson{
			Title:       in.Title,
			Description: in.Description,
			VideoURL:    in.VideoURL,
			Duration:    in.Duration,
			Resources:   in.Resources,
			IsPreview:   in.IsPreview,
		})
		c.Sections[i].Lessons = append(c.Sections[i].Lessons, out)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ContentService) UpdateLesson(ctx context.Context, courseID, sectionID, lessonID string, actor Actor, patch LessonPatch) (*models.Lesson, error) {
	var out models.Lesson
	err := s.mutate(ctx, courseID, actor, "update lessons in this course", func(c *models.Course) error {
		si, li, err := lessonIndex(c, sectionID, lessonID)
		if err != nil {
			return err
		}
		lesson := c.LessonAt(si, li)
		patch.apply(lesson)
		out = *lesson
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ContentService) DeleteLesson(ctx context.Context, courseID, sectionID, lessonID string, actor Actor) error {
	return s.mutate(ctx, courseID, actor, "delete lessons from this course", func(c *models.Course) error {
		si, li, err := lessonIndex(c, sectionID, lessonID)
		if err != nil {
			return err
		}
		c.Sections[si].Lessons = slices.Delete(c.Sections[si].Lessons, li, li+1)
		return nil
	})
}

func (s *ContentService) GetCourse(ctx context.Context, courseID string) (*models.Course, error) {
	c, err := s.store.Courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, storeError(err, "Course not found")
	}
	return c, nil
}

// CreateCourse makes the actor the instructor of a new course
func (s *ContentService) CreateCourse(ctx context.Context, actor Actor, in CourseInput) (*models.Course, error) {
	if actor.Role != models.RoleInstructor && !actor.IsAdmin() {
		return nil, apperror.Forbidden("Not authorized to create courses")
	}
	c := &models.Course{
		InstructorID: actor.ID,
		IsNew:        true,
		Tags:         []string{},
		Highlights:   []string{},
		Requirements: []string{},
		Sections:     []models.Section{},
		Reviews:      []models.Review{},
	}
	in.apply(c)
	if err := s.store.Courses.Create(ctx, c); err != nil {
		return nil, storeError(err, "Course not found")
	}
	s.log.WithFields(logrus.Fields{"courseId": c.ID, "instructor": actor.ID}).Info("course created")
	return c, nil
}

func (s *ContentService) UpdateCourse(ctx context.Context, courseID string, actor Actor, in CourseInput) (*models.Course, error) {
	var out *models.Course
	err := withRetry(ctx, func() error {
		c, err := s.store.Courses.FindByID(ctx, courseID)
		if err != nil {
			return storeError(err, "Course not found")
		}
		if !canEdit(c, actor) {
			return apperror.Forbidden("Not authorized to update this course")
		}
		in.apply(c)
		out = c
		return s.store.Courses.Save(ctx, c)
	})
	if err != nil {
		return nil, storeError(err, "Course not found")
	}
	return out, nil
}

func (s *ContentService) DeleteCourse(ctx context.Context, courseID string, actor Actor) error {
	c, err := s.store.Courses.FindByID(ctx, courseID)
	if err != nil {
		return storeError(err, "Course not found")
	}
	if !canEdit(c, actor) {
		return apperror.Forbidden("Not authorized to delete this course")
	}
	if err := s.store.Courses.Delete(ctx, courseID); err != nil {
		return storeError(err, "Course not found")
	}
	s.log.WithFields(logrus.Fields{"courseId": courseID, "by": actor.ID}).Info("course deleted")
	return nil
}
