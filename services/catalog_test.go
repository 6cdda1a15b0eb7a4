package services

import (
	"testing"
	"time"

	"learnhub/models"
	"learnhub/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCatalog(t *testing.T, f *fixture) []*models.Course {
	t.Helper()
	owner := f.user(t, "owner", models.RoleInstructor)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	specs := []struct {
		title string
		price float64
		tags  []string
	}{
		{"Go Basics", 10, []string{"go"}},
		{"Rust Basics", 30, []string{"rust"}},
		{"Advanced Go", 50, []string{"go", "advanced"}},
	}
	var out []*models.Course
	for i, s := range specs {
		c := &models.Course{
			Title:        s.title,
			Description:  "About " + s.title,
			Price:        s.price,
			InstructorID: owner.ID,
			Category:     "development",
			Tags:         s.tags,
			CreatedAt:    base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, f.st.Courses.Create(f.ctx, c))
		out = append(out, c)
	}
	return out
}

func titles(courses []*models.Course) []string {
	out := make([]string, 0, len(courses))
	for _, c := range courses {
		out = append(out, c.Title)
	}
	return out
}

func TestCatalogPaginatesNewestFirst(t *testing.T) {
	f := newFixture(t, Gateways{})
	seedCatalog(t, f)

	p, err := ParseCourseQuery(map[string]string{"limit": "2"})
	require.NoError(t, err)
	res, err := f.svc.Catalog.List(f.ctx, p)
	require.NoError(t, err)
	assert.Equal(t, []string{"Advanced Go", "Rust Basics"}, titles(res.Courses))
	assert.EqualValues(t, 3, res.Count)
	require.NotNil(t, res.Pagination.Next)
	assert.Equal(t, 2, res.Pagination.Next.Page)
	assert.Nil(t, res.Pagination.Prev)

	p, err = ParseCourseQuery(map[string]string{"limit": "2", "page": "2"})
	require.NoError(t, err)
	res, err = f.svc.Catalog.List(f.ctx, p)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go Basics"}, titles(res.Courses))
	assert.Nil(t, res.Pagination.Next)
	require.NotNil(t, res.Pagination.Prev)
	assert.Equal(t, 1, res.Pagination.Prev.Page)
}

func TestCatalogFilters(t *testing.T) {
	f := newFixture(t, Gateways{})
	seedCatalog(t, f)

	cases := []struct {
		name  string
		query map[string]string
		want  []string
	}{
		{"price gte", map[string]string{"price[gte]": "30", "sort": "price"}, []string{"Rust Basics", "Advanced Go"}},
		{"price in", map[string]string{"price[in]": "10,50", "sort": "price"}, []string{"Go Basics", "Advanced Go"}},
		{"tag", map[string]string{"tags": "go", "sort": "title"}, []string{"Advanced Go", "Go Basics"}},
		{"keyword", map[string]string{"keyword": "RUST"}, []string{"Rust Basics"}},
		{"exact", map[string]string{"category": "design"}, []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := ParseCourseQuery(tc.query)
			require.NoError(t, err)
			res, err := f.svc.Catalog.List(f.ctx, p)
			require.NoError(t, err)
			assert.Equal(t, tc.want, titles(res.Courses))
			assert.EqualValues(t, len(tc.want), res.Count)
		})
	}
}

func TestCatalogSelectKeepsID(t *testing.T) {
	f := newFixture(t, Gateways{})
	seedCatalog(t, f)

	p, err := ParseCourseQuery(map[string]string{"select": "title,price", "sort": "-price"})
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "title", "price"}, p.Select)

	res, err := f.svc.Catalog.List(f.ctx, p)
	require.NoError(t, err)
	require.Len(t, res.Courses, 3)
	assert.NotEmpty(t, res.Courses[0].ID)
	assert.Equal(t, "Advanced Go", res.Courses[0].Title)
	assert.Empty(t, res.Courses[0].Description)
}

func TestParseCourseQueryRejectsUnknownInput(t *testing.T) {
	cases := map[string]map[string]string{
		"Cannot filter courses by password": {"password": "x"},
		"Unsupported operator regex":        {"price[regex]": "1"},
		"Invalid value for price":           {"price[gt]": "cheap"},
		"Cannot select field secret":        {"select": "title,secret"},
		"Cannot sort by version":            {"sort": "-version"},
		"Tags can only be matched exactly":  {"tags[gt]": "go"},
	}
	for msg, query := range cases {
		t.Run(msg, func(t *testing.T) {
			_, err := ParseCourseQuery(query)
			e := requireStatus(t, err, 400)
			assert.Equal(t, msg, e.Message)
		})
	}
}

func TestParseCourseQueryDefaults(t *testing.T) {
	p, err := ParseCourseQuery(map[string]string{"isPublished": "true", "enrolled": "true"})
	require.NoError(t, err)
	assert.Equal(t, 1, p.Page.Page)
	assert.Equal(t, 10, p.Page.Limit)
	assert.Equal(t, []store.SortField{{Column: "created_at", Desc: true}}, p.Sort)
	assert.Equal(t, []store.Condition{{Column: "is_published", Op: store.OpEq, Value: true}}, p.Filter.Conditions)
}
