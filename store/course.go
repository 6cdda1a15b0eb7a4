package store

import (
	"context"
	"fmt"
	"strings"

	"learnhub/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Operator string

const (
	OpEq       Operator = "eq"
	OpGt       Operator = "gt"
	OpGte      Operator = "gte"
	OpLt       Operator = "lt"
	OpLte      Operator = "lte"
	OpIn       Operator = "in"
	OpContains Operator = "contains"
)

var operatorSQL = map[Operator]string{
	OpEq:       "%s = ?",
	OpGt:       "%s > ?",
	OpGte:      "%s >= ?",
	OpLt:       "%s < ?",
	OpLte:      "%s <= ?",
	OpIn:       "%s IN ?",
	OpContains: "%s LIKE ?",
}

// Condition compares one column. Column must come from a caller-side whitelist.
type Condition struct {
	Column string
	Op     Operator
	Value  any
}

type CourseFilter struct {
	Conditions []Condition
	Keyword    string
}

type SortField struct {
	Column string
	Desc   bool
}

type CourseQuery struct {
	Filter CourseFilter
	Select []string
	Sort   []SortField
	Offset int
	Limit  int
}

type CourseStore interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
	FindByIDs(ctx context.Context, ids []string) ([]*models.Course, error)
	Find(ctx context.Context, q CourseQuery) ([]*models.Course, error)
	Count(ctx context.Context, f CourseFilter) (int64, error)
	Create(ctx context.Context, c *models.Course) error
	Save(ctx context.Context, c *models.Course) error
	Delete(ctx context.Context, id string) error
}

type courseStore struct {
	db *gorm.DB
}

func NewCourseStore(db *gorm.DB) CourseStore {
	return &courseStore{db: db}
}

func (s *courseStore) FindByID(ctx context.Context, id string) (*models.Course, error) {
	var c models.Course
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (s *courseStore) FindByIDs(ctx context.Context, ids []string) ([]*models.Course, error) {
	var out []*models.Course
	if len(ids) == 0 {
		return out, nil
	}
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *courseStore) scoped(ctx context.Context, f CourseFilter) (*gorm.DB, error) {
	q := s.db.WithContext(ctx).Model(&models.Course{})
	for _, cond := range f.Conditions {
		tmpl, ok := operatorSQL[cond.Op]
		if !ok {
			return nil, fmt.Errorf("unsupported operator %q", cond.Op)
		}
		q = q.Where(fmt.Sprintf(tmpl, cond.Column), cond.Value)
	}
	if f.Keyword != "" {
		pattern := "%" + strings.ToLower(f.Keyword) + "%"
		q = q.Where("(LOWER(title) LIKE ? OR LOWER(description) LIKE ?)", pattern, pattern)
	}
	return q, nil
}

func (s *courseStore) Find(ctx context.Context, cq CourseQuery) ([]*models.Course, error) {
	q, err := s.scoped(ctx, cq.Filter)
	if err != nil {
		return nil, err
	}
	if len(cq.Select) > 0 {
		q = q.Select(cq.Select)
	}
	for _, sf := range cq.Sort {
		q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: sf.Column}, Desc: sf.Desc})
	}
	if cq.Offset > 0 {
		q = q.Offset(cq.Offset)
	}
	if cq.Limit > 0 {
		q = q.Limit(cq.Limit)
	}

	var out []*models.Course
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *courseStore) Count(ctx context.Context, f CourseFilter) (int64, error) {
	q, err := s.scoped(ctx, f)
	if err != nil {
		return 0, err
	}
	var n int64
	err = q.Count(&n).Error
	return n, err
}

func (s *courseStore) Create(ctx context.Context, c *models.Course) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.Version = 1
	c.PrepareSave()
	return translate(s.db.WithContext(ctx).Create(c).Error)
}

// Save persists the whole aggregate; a stale copy fails with ErrConflict
func (s *courseStore) Save(ctx context.Context, c *models.Course) error {
	c.PrepareSave()
	return casUpdate(ctx, s.db, c, &models.Course{}, c.ID, &c.Version)
}

func (s *courseStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Course{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
