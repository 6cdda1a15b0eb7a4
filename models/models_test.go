package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Go for Beginners":         "go-for-beginners",
		"  C++ & Rust: 2024!  ":    "c-rust-2024",
		"Data   Science 101":       "data-science-101",
		"snake_case stays":         "snake_case-stays",
		"Ünïcode is stripped here": "ncode-is-stripped-here",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestRecalculateRating(t *testing.T) {
	c := &Course{}
	c.RecalculateRating()
	assert.Equal(t, 0.0, c.Rating)
	assert.Equal(t, 0, c.RatingCount)

	c.Reviews = []Review{{Rating: 5}, {Rating: 4}, {Rating: 3}}
	c.RecalculateRating()
	assert.Equal(t, 4.0, c.Rating)
	assert.Equal(t, 3, c.RatingCount)

	c.Reviews = []Review{{Rating: 5}, {Rating: 4}, {Rating: 4}}
	c.RecalculateRating()
	assert.Equal(t, 4.3, c.Rating)
}

func TestPrepareSaveRegeneratesSlug(t *testing.T) {
	c := &Course{Title: "Old Title", Slug: "stale"}
	c.PrepareSave()
	assert.Equal(t, "old-title", c.Slug)

	c.Title = "New Title"
	c.PrepareSave()
	assert.Equal(t, "new-title", c.Slug)
}

func TestEnrollmentMarkLessonIsASet(t *testing.T) {
	e := &Enrollment{}
	e.MarkLesson("l1", true)
	e.MarkLesson("l1", true)
	e.MarkLesson("l2", true)
	assert.Equal(t, []string{"l1", "l2"}, e.CompletedLessons)

	e.MarkLesson("l1", false)
	e.MarkLesson("missing", false)
	assert.Equal(t, []string{"l2"}, e.CompletedLessons)
}

func TestEnrollmentRecomputeIgnoresDeletedLessons(t *testing.T) {
	e := &Enrollment{CompletedLessons: []string{"l1", "gone"}}
	existing := map[string]struct{}{"l1": {}, "l2": {}, "l3": {}}

	e.Recompute(existing)
	assert.Equal(t, 33, e.Progress)
	assert.False(t, e.Completed)

	delete(existing, "l2")
	delete(existing, "l3")
	e.Recompute(existing)
	assert.Equal(t, 100, e.Progress)
	assert.True(t, e.Completed)
}

func TestUserEnrollmentIndexSkipsEmptyReferences(t *testing.T) {
	u := &User{EnrolledCourses: []Enrollment{{CourseID: ""}, {CourseID: "c1"}}}
	assert.Equal(t, 1, u.EnrollmentIndex("c1"))
	assert.Equal(t, -1, u.EnrollmentIndex(""))
	assert.False(t, u.IsEnrolled("c2"))
}

func TestTokenBlacklistExpiry(t *testing.T) {
	now := time.Now()
	u := &User{BlacklistedTokens: []BlacklistedToken{
		{Token: "fresh", CreatedAt: now.Add(-time.Hour)},
		{Token: "old", CreatedAt: now.Add(-25 * time.Hour)},
	}}

	assert.True(t, u.IsTokenBlacklisted("fresh", now))
	assert.False(t, u.IsTokenBlacklisted("old", now))

	assert.True(t, u.PruneBlacklist(now))
	assert.Len(t, u.BlacklistedTokens, 1)
	assert.False(t, u.PruneBlacklist(now))
}

func TestLessonLookup(t *testing.T) {
	c := &Course{Sections: []Section{
		{ID: "s1", Lessons: []Lesson{{ID: "a"}, {ID: "b"}}},
		{ID: "s2", Lessons: []Lesson{{ID: "c"}}},
	}}
	assert.Equal(t, 3, c.TotalLessons())
	assert.Equal(t, 1, c.SectionIndex("s2"))
	assert.Equal(t, 1, c.LessonIndex(0, "b"))
	assert.Equal(t, -1, c.LessonIndex(5, "b"))
	assert.Equal(t, "c", c.LessonAt(1, 0).ID)
	assert.Nil(t, c.LessonAt(1, 1))
	assert.Len(t, c.LessonSet(), 3)
}

func TestWatchPercent(t *testing.T) {
	assert.Equal(t, 0.0, WatchPercent(10, 0))
	assert.Equal(t, 33.3, WatchPercent(1, 3))
	assert.Equal(t, 100.0, WatchPercent(120, 100))
}
