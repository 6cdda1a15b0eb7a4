package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"learnhub/apperror"
	"learnhub/gateway"
	"learnhub/models"
	"learnhub/store"

	"github.com/sirupsen/logrus"
)

// LessonRef addresses a lesson by its position inside a course
type LessonRef struct {
	CourseID     string
	SectionIndex int
	LessonIndex  int
}

type UploadTicketInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	FileSize    int64  `json:"fileSize"`
}

type UploadTicketResult struct {
	UploadLink string `json:"uploadLink"`
	VideoID    string `json:"videoId"`
}

type ConfirmUploadResult struct {
	VideoID      string `json:"videoId"`
	VideoURL     string `json:"videoUrl"`
	ThumbnailURL string `json:"thumbnailUrl"`
	Duration     string `json:"duration"`
}

type ProgressView struct {
	CurrentTime float64    `json:"currentTime"`
	Duration    float64    `json:"duration"`
	Percent     float64    `json:"percent"`
	Completed   bool       `json:"completed"`
	Timestamp   *time.Time `json:"timestamp"`
	LessonID    string     `json:"lessonId,omitempty"`
	CourseID    string     `json:"courseId,omitempty"`
}

type PlaybackResult struct {
	VideoID      string       `json:"videoId"`
	EmbedURL     string       `json:"embedUrl"`
	HTMLEmbed    string       `json:"htmlEmbed"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Duration     string       `json:"duration"`
	ThumbnailURL string       `json:"thumbnailUrl"`
	Progress     ProgressView `json:"progress"`
}

type SaveProgressInput struct {
	CurrentTime *float64   `json:"currentTime"`
	Duration    *float64   `json:"duration"`
	LessonID    string     `json:"lessonId"`
	CourseID    string     `json:"courseId"`
	Timestamp   *time.Time `json:"timestamp"`
	Completed   bool       `json:"completed"`
}

// VideoService runs the lesson video lifecycle against the video host and
// tracks per-user watch progress
type VideoService struct {
	store *store.Store
	host  VideoHost
	log   *logrus.Entry
	now   func() time.Time
}

func NewVideoService(st *store.Store, host VideoHost, log *logrus.Logger) *VideoService {
	return &VideoService{
		store: st,
		host:  host,
		log:   log.WithField("service", "VideoService"),
		now:   time.Now,
	}
}

func (s *VideoService) configured() error {
	if s.host == nil {
		return apperror.Unconfigured("Video hosting is not configured")
	}
	return nil
}

// FormatDuration renders whole seconds as m:ss, "0:00" when unknown
func FormatDuration(seconds float64) string {
	total := int(seconds)
	if total <= 0 {
		return "0:00"
	}
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// PlaybackVideoID is the progress key used for a hosted video
func PlaybackVideoID(videoID string) string {
	return "vimeo_" + videoID
}

// locate loads the course and resolves ref. When denied is non-empty the
// actor must own the course or be an admin.
func (s *VideoService) locate(ctx context.Context, ref LessonRef, actor Actor, denied string) (*models.Course, *models.Lesson, error) {
	c, err := s.store.Courses.FindByID(ctx, ref.CourseID)
	if err != nil {
		return nil, nil, storeError(err, courseNotFound(ref.CourseID))
	}
	if denied != "" && !canEdit(c, actor) {
		return nil, nil, apperror.Forbidden(denied)
	}
	l := c.LessonAt(ref.SectionIndex, ref.LessonIndex)
	if l == nil {
		return nil, nil, apperror.NotFound("Section or lesson not found")
	}
	return c, l, nil
}

// update reloads the course and applies fn to the referenced lesson until the
// save wins the version race
func (s *VideoService) update(ctx context.Context, ref LessonRef, fn func(c *models.Course, l *models.Lesson)) error {
	err := withRetry(ctx, func() error {
		c, l, err := s.locate(ctx, ref, Actor{}, "")
		if err != nil {
			return err
		}
		fn(c, l)
		return s.store.Courses.Save(ctx, c)
	})
	return storeError(err, courseNotFound(ref.CourseID))
}

// CreateUploadTicket reserves an upload slot on the video host and marks the
// lesson as uploading. The course gets its own host folder on first upload.
func (s *VideoService) CreateUploadTicket(ctx context.Context, ref LessonRef, actor Actor, in UploadTicketInput) (*UploadTicketResult, error) {
	if err := s.configured(); err != nil {
		return nil, err
	}
	course, lesson, err := s.locate(ctx, ref, actor, "Not authorized to upload videos to this course")
	if err != nil {
		return nil, err
	}
	section := course.Sections[ref.SectionIndex]

	folderID := course.VimeoFolderID
	if folderID == "" {
		folderID, err = s.host.CreateFolder(ctx, fmt.Sprintf("Course: %s (%s)", course.Title, course.ID))
		if err != nil {
			return nil, apperror.Upstream(http.StatusInternalServerError, "Video host error", err)
		}
	}

	name := in.Name
	if name == "" {
		name = fmt.Sprintf("%s - %s - %s", course.Title, section.Title, lesson.Title)
	}
	description := in.Description
	if description == "" {
		description = "Lesson video for " + lesson.Title
	}
	ticket, err := s.host.CreateUploadTicket(ctx, gateway.UploadTicketRequest{
		Size:        in.FileSize,
		Name:        name,
		Description: description,
		FolderID:    folderID,
	})
	if err != nil {
		return nil, apperror.Upstream(http.StatusInternalServerError, "Video host error", err)
	}

	err = s.update(ctx, ref, func(c *models.Course, l *models.Lesson) {
		if c.VimeoFolderID == "" {
			c.VimeoFolderID = folderID
		}
		l.VideoProvider = models.VideoProviderVimeo
		l.VideoID = ticket.VideoID
		l.VideoStatus = models.VideoStatusUploading
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"courseId": ref.CourseID, "videoId": ticket.VideoID}).Info("upload ticket issued")
	return &UploadTicketResult{UploadLink: ticket.UploadLink, VideoID: ticket.VideoID}, nil
}

// ConfirmUpload pulls the finished video's details into the lesson. A host
// failure leaves the lesson in the error state.
func (s *VideoService) ConfirmUpload(ctx context.Context, ref LessonRef, actor Actor) (*ConfirmUploadResult, error) {
	if err := s.configured(); err != nil {
		return nil, err
	}
	_, lesson, err := s.locate(ctx, ref, actor, "Not authorized to update this course")
	if err != nil {
		return nil, err
	}
	if lesson.VideoID == "" {
		return nil, apperror.NotFound("No video found for this lesson")
	}
	videoID := lesson.VideoID

	details, err := s.host.GetVideo(ctx, videoID)
	if err == nil {
		err = s.host.UpdatePrivacy(ctx, videoID)
	}
	if err != nil {
		s.log.WithError(err).WithField("videoId", videoID).Warn("video confirmation failed")
		if uerr := s.update(ctx, ref, func(_ *models.Course, l *models.Lesson) {
			l.VideoStatus = models.VideoStatusError
		}); uerr != nil {
			s.log.WithError(uerr).WithField("videoId", videoID).Error("could not mark lesson video as failed")
		}
		return nil, apperror.Upstream(http.StatusInternalServerError, "Error retrieving video", err)
	}

	out := ConfirmUploadResult{
		VideoID:      videoID,
		VideoURL:     details.PlayerEmbedURL,
		ThumbnailURL: details.ThumbnailURL(),
		Duration:     FormatDuration(details.Duration),
	}
	err = s.update(ctx, ref, func(_ *models.Course, l *models.Lesson) {
		l.VideoURL = out.VideoURL
		l.ThumbnailURL = out.ThumbnailURL
		l.Duration = out.Duration
		l.VideoStatus = models.VideoStatusReady
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// TogglePreview flips the lesson's free-preview flag
func (s *VideoService) TogglePreview(ctx context.Context, ref LessonRef, actor Actor) (bool, error) {
	_, lesson, err := s.locate(ctx, ref, actor, "Not authorized to update this course")
	if err != nil {
		return false, err
	}
	if lesson.VideoID != "" && lesson.VideoProvider == models.VideoProviderVimeo && s.host != nil {
		if err := s.host.UpdatePrivacy(ctx, lesson.VideoID); err != nil {
			return false, apperror.Upstream(http.StatusInternalServerError, "Video host error", err)
		}
	}

	var preview bool
	err = s.update(ctx, ref, func(_ *models.Course, l *models.Lesson) {
		l.IsPreview = !l.IsPreview
		preview = l.IsPreview
	})
	return preview, err
}

// Playback returns embed details for a ready lesson video. Previews are open
// to any signed-in user; everything else needs ownership, admin or enrollment.
func (s *VideoService) Playback(ctx context.Context, ref LessonRef, actor Actor) (*PlaybackResult, error) {
	if err := s.configured(); err != nil {
		return nil, err
	}
	course, lesson, err := s.locate(ctx, ref, actor, "")
	if err != nil {
		return nil, err
	}
	if lesson.VideoID == "" || lesson.VideoStatus != models.VideoStatusReady {
		return nil, apperror.NotFound("Video not available")
	}

	if !lesson.IsPreview && !canEdit(course, actor) {
		user, err := s.store.Users.FindByID(ctx, actor.ID)
		if err != nil {
			return nil, storeError(err, "User not found")
		}
		if !user.IsEnrolled(course.ID) {
			return nil, apperror.Forbidden("Not enrolled in this course")
		}
	}

	details, err := s.host.GetVideo(ctx, lesson.VideoID)
	if err != nil {
		return nil, apperror.Upstream(http.StatusInternalServerError, "Error retrieving video", err)
	}
	progress, err := s.store.VideoProgress.Find(ctx, actor.ID, PlaybackVideoID(lesson.VideoID))
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, apperror.Internal("Server Error", err)
	}

	out := &PlaybackResult{
		VideoID:      lesson.VideoID,
		EmbedURL:     details.PlayerEmbedURL,
		HTMLEmbed:    details.Embed.HTML,
		Title:        lesson.Title,
		Description:  lesson.Description,
		Duration:     lesson.Duration,
		ThumbnailURL: lesson.ThumbnailURL,
	}
	if progress != nil {
		out.Progress = progressView(progress)
		out.Progress.LessonID = ""
		out.Progress.CourseID = ""
	}
	return out, nil
}

func progressView(p *models.VideoProgress) ProgressView {
	ts := p.Timestamp
	return ProgressView{
		CurrentTime: p.CurrentTime,
		Duration:    p.Duration,
		Percent:     p.Percent(),
		Completed:   p.Completed,
		Timestamp:   &ts,
		LessonID:    p.LessonID,
		CourseID:    p.CourseID,
	}
}

// GetProgress returns the saved position, or zeroes when nothing was saved
func (s *VideoService) GetProgress(ctx context.Context, userID, videoID string) (*ProgressView, error) {
	p, err := s.store.VideoProgress.Find(ctx, userID, videoID)
	if errors.Is(err, store.ErrNotFound) {
		ts := s.now()
		return &ProgressView{Timestamp: &ts}, nil
	}
	if err != nil {
		return nil, apperror.Internal("Server Error", err)
	}
	v := progressView(p)
	return &v, nil
}

// SaveProgress upserts the user's position in a video
func (s *VideoService) SaveProgress(ctx context.Context, userID, videoID string, in SaveProgressInput) (*ProgressView, error) {
	if in.CurrentTime == nil || in.Duration == nil {
		return nil, apperror.BadRequest("Current time and duration are required")
	}
	ts := s.now()
	if in.Timestamp != nil {
		ts = *in.Timestamp
	}
	saved, err := s.store.VideoProgress.Upsert(ctx, &models.VideoProgress{
		UserID:      userID,
		VideoID:     videoID,
		CurrentTime: *in.CurrentTime,
		Duration:    *in.Duration,
		LessonID:    in.LessonID,
		CourseID:    in.CourseID,
		Completed:   in.Completed,
		Timestamp:   ts,
	})
	if err != nil {
		return nil, apperror.Internal("Server Error", err)
	}
	v := progressView(saved)
	v.LessonID = ""
	v.CourseID = ""
	return &v, nil
}
