package models

import (
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type VideoProvider string

const (
	VideoProviderNone    VideoProvider = "none"
	VideoProviderVimeo   VideoProvider = "vimeo"
	VideoProviderYouTube VideoProvider = "youtube"
	VideoProviderS3      VideoProvider = "s3"
)

type VideoStatus string

const (
	VideoStatusNone       VideoStatus = "none"
	VideoStatusUploading  VideoStatus = "uploading"
	VideoStatusProcessing VideoStatus = "processing"
	VideoStatusReady      VideoStatus = "ready"
	VideoStatusError      VideoStatus = "error"
)

var CourseLevels = []string{"Beginner", "Intermediate", "Advanced", "All Levels"}

type Resource struct {
	Title string `json:"title"`
	Type  string `json:"type"`
	URL   string `json:"url"`
	Size  string `json:"size"`
}

// Lesson lives inside a Section and is addressed by its own id
type Lesson struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	VideoProvider VideoProvider `json:"videoProvider"`
	VideoID       string        `json:"videoId"`
	VideoURL      string        `json:"videoUrl"`
	ThumbnailURL  string        `json:"thumbnailUrl"`
	Duration      string        `json:"duration"`
	VideoStatus   VideoStatus   `json:"videoStatus"`
	Resources     []Resource    `json:"resources"`
	IsPreview     bool          `json:"isPreview"`
}

type Section struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Lessons []Lesson `json:"lessons"`
}

// Course is the aggregate owning sections, lessons and reviews. Version is
// bumped on every successful save and used for compare-and-swap writes.
type Course struct {
	ID               string                      `json:"id" gorm:"primaryKey;size:36"`
	Title            string                      `json:"title" gorm:"size:100;not null"`
	Slug             string                      `json:"slug" gorm:"size:160;uniqueIndex"`
	Description      string                      `json:"description" gorm:"type:text"`
	ShortDescription string                      `json:"shortDescription" gorm:"size:200"`
	Price            float64                     `json:"price" gorm:"not null;default:0"`
	DiscountPrice    *float64                    `json:"discountPrice,omitempty"`
	Duration         string                      `json:"duration"`
	Level            string                      `json:"level" gorm:"size:32;index"`
	Thumbnail        string                      `json:"thumbnail"`
	InstructorID     string                      `json:"instructor" gorm:"size:36;index;not null"`
	Category         string                      `json:"category" gorm:"size:64;index"`
	Tags             datatypes.JSONSlice[string] `json:"tags"`
	Highlights       datatypes.JSONSlice[string] `json:"highlights"`
	Requirements     datatypes.JSONSlice[string] `json:"requirements"`
	IsPublished      bool                        `json:"isPublished" gorm:"default:false"`
	IsNew            bool                        `json:"isNew" gorm:"default:true"`
	IsFeatured       bool                        `json:"isFeatured" gorm:"default:false"`
	Rating           float64                     `json:"rating" gorm:"default:0"`
	RatingCount      int                         `json:"ratingCount" gorm:"default:0"`
	TotalEnrollments int                         `json:"totalEnrollments" gorm:"default:0"`
	VimeoFolderID    string                      `json:"vimeoFolderId,omitempty"`
	Sections         datatypes.JSONSlice[Section] `json:"sections"`
	Reviews          datatypes.JSONSlice[Review]  `json:"reviews"`
	Version          int                         `json:"-" gorm:"not null;default:1"`
	CreatedAt        time.Time                   `json:"createdAt" gorm:"index"`
	UpdatedAt        time.Time                   `json:"updatedAt"`
}

var (
	slugStrip  = regexp.MustCompile(`[^\w ]+`)
	slugSpaces = regexp.MustCompile(` +`)
)

// Slugify lowercases title, drops non-word characters and joins words with hyphens
func Slugify(title string) string {
	s := strings.ToLower(title)
	s = slugStrip.ReplaceAllString(s, "")
	s = slugSpaces.ReplaceAllString(strings.TrimSpace(s), "-")
	return s
}

// PrepareSave refreshes the derived fields. Called by the store before every write.
func (c *Course) PrepareSave() {
	c.Slug = Slugify(c.Title)
	c.RecalculateRating()
}

// RecalculateRating sets Rating to the mean of review ratings rounded to one
// decimal and RatingCount to the number of reviews.
func (c *Course) RecalculateRating() {
	if len(c.Reviews) == 0 {
		c.Rating = 0
		c.RatingCount = 0
		return
	}
	sum := 0
	for _, r := range c.Reviews {
		sum += r.Rating
	}
	mean := float64(sum) / float64(len(c.Reviews))
	c.Rating = math.Round(mean*10) / 10
	c.RatingCount = len(c.Reviews)
}

func (c *Course) IsOwnedBy(userID string) bool {
	return c.InstructorID != "" && c.InstructorID == userID
}

// TotalLessons counts lessons across all current sections
func (c *Course) TotalLessons() int {
	total := 0
	for _, s := range c.Sections {
		total += len(s.Lessons)
	}
	return total
}

// LessonSet returns the ids of every lesson currently in the course
func (c *Course) LessonSet() map[string]struct{} {
	set := make(map[string]struct{}, c.TotalLessons())
	for _, s := range c.Sections {
		for _, l := range s.Lessons {
			set[l.ID] = struct{}{}
		}
	}
	return set
}

func (c *Course) SectionIndex(sectionID string) int {
	for i := range c.Sections {
		if c.Sections[i].ID == sectionID {
			return i
		}
	}
	return -1
}

func (c *Course) LessonIndex(sectionIdx int, lessonID string) int {
	if sectionIdx < 0 || sectionIdx >= len(c.Sections) {
		return -1
	}
	for i := range c.Sections[sectionIdx].Lessons {
		if c.Sections[sectionIdx].Lessons[i].ID == lessonID {
			return i
		}
	}
	return -1
}

// LessonAt resolves a lesson by its position, as used by the video endpoints
func (c *Course) LessonAt(sectionIdx, lessonIdx int) *Lesson {
	if sectionIdx < 0 || sectionIdx >= len(c.Sections) {
		return nil
	}
	lessons := c.Sections[sectionIdx].Lessons
	if lessonIdx < 0 || lessonIdx >= len(lessons) {
		return nil
	}
	return &c.Sections[sectionIdx].Lessons[lessonIdx]
}

// NewSection creates an empty section with a fresh id
func NewSection(title string) Section {
	return Section{ID: uuid.NewString(), Title: title, Lessons: []Lesson{}}
}

// NewLesson fills in the defaults a freshly created lesson starts with
func NewLesson(l Lesson) Lesson {
	l.ID = uuid.NewString()
	if l.VideoProvider == "" {
		l.VideoProvider = VideoProviderNone
	}
	l.VideoStatus = VideoStatusNone
	if l.Resources == nil {
		l.Resources = []Resource{}
	}
	return l
}

// CourseSummary is the slice of a course shown next to an enrollment
type CourseSummary struct {
	ID           string                       `json:"id"`
	Title        string                       `json:"title"`
	Description  string                       `json:"description"`
	Thumbnail    string                       `json:"thumbnail"`
	InstructorID string                       `json:"instructor"`
	Rating       float64                      `json:"rating"`
	Sections     datatypes.JSONSlice[Section] `json:"sections"`
}

func (c *Course) Summary() CourseSummary {
	return CourseSummary{
		ID:           c.ID,
		Title:        c.Title,
		Description:  c.Description,
		Thumbnail:    c.Thumbnail,
		InstructorID: c.InstructorID,
		Rating:       c.Rating,
		Sections:     c.Sections,
	}
}
