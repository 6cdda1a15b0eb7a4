package services

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"learnhub/apperror"
	"learnhub/models"
	"learnhub/store"
	"learnhub/utils"
)

type fieldKind int

const (
	kindString fieldKind = iota
	kindNumber
	kindBool
	kindTag
)

type catalogField struct {
	column string
	kind   fieldKind
}

// filterFields are the query-string fields a listing may filter on
var filterFields = map[string]catalogField{
	"category":         {"category", kindString},
	"level":            {"level", kindString},
	"slug":             {"slug", kindString},
	"instructor":       {"instructor_id", kindString},
	"price":            {"price", kindNumber},
	"discountPrice":    {"discount_price", kindNumber},
	"rating":           {"rating", kindNumber},
	"ratingCount":      {"rating_count", kindNumber},
	"totalEnrollments": {"total_enrollments", kindNumber},
	"isPublished":      {"is_published", kindBool},
	"isFeatured":       {"is_featured", kindBool},
	"isNew":            {"is_new", kindBool},
	"tags":             {"tags", kindTag},
}

// selectColumns maps response field names to columns for select and sort
var selectColumns = map[string]string{
	"id":               "id",
	"title":            "title",
	"slug":             "slug",
	"description":      "description",
	"shortDescription": "short_description",
	"price":            "price",
	"discountPrice":    "discount_price",
	"duration":         "duration",
	"level":            "level",
	"thumbnail":        "thumbnail",
	"instructor":       "instructor_id",
	"category":         "category",
	"tags":             "tags",
	"highlights":       "highlights",
	"requirements":     "requirements",
	"isPublished":      "is_published",
	"isNew":            "is_new",
	"isFeatured":       "is_featured",
	"rating":           "rating",
	"ratingCount":      "rating_count",
	"totalEnrollments": "total_enrollments",
	"sections":         "sections",
	"reviews":          "reviews",
	"createdAt":        "created_at",
	"updatedAt":        "updated_at",
}

var queryOperators = map[string]store.Operator{
	"":    store.OpEq,
	"eq":  store.OpEq,
	"gt":  store.OpGt,
	"gte": store.OpGte,
	"lt":  store.OpLt,
	"lte": store.OpLte,
	"in":  store.OpIn,
}

var reservedParams = map[string]bool{
	"select":   true,
	"sort":     true,
	"page":     true,
	"limit":    true,
	"keyword":  true,
	"enrolled": true,
}

var filterKey = regexp.MustCompile(`^(\w+)(?:\[(\w+)\])?$`)

// CourseListParams is a parsed listing request
type CourseListParams struct {
	Filter store.CourseFilter
	Select []string
	Sort   []store.SortField
	Page   utils.Page
}

type CourseListResult struct {
	Courses    []*models.Course
	Count      int64
	Pagination utils.Pagination
}

// ParseCourseQuery turns raw query-string values into a typed listing
// request. Filters use `field=value` or `field[op]=value` with op one of
// eq, gt, gte, lt, lte, in; `in` takes a comma separated list.
func ParseCourseQuery(values map[string]string) (CourseListParams, error) {
	p := CourseListParams{
		Page: utils.ParsePage(values["page"], values["limit"]),
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if reservedParams[key] {
			continue
		}
		cond, err := parseCondition(key, values[key])
		if err != nil {
			return p, err
		}
		p.Filter.Conditions = append(p.Filter.Conditions, cond)
	}
	p.Filter.Keyword = strings.TrimSpace(values["keyword"])

	if raw := values["select"]; raw != "" {
		cols, err := parseSelect(raw)
		if err != nil {
			return p, err
		}
		p.Select = cols
	}

	sortBy := values["sort"]
	if sortBy == "" {
		sortBy = "-createdAt"
	}
	fields, err := parseSort(sortBy)
	if err != nil {
		return p, err
	}
	p.Sort = fields
	return p, nil
}

func parseCondition(key, raw string) (store.Condition, error) {
	m := filterKey.FindStringSubmatch(key)
	if m == nil {
		return store.Condition{}, apperror.BadRequest(fmt.Sprintf("Invalid filter %s", key))
	}
	field, ok := filterFields[m[1]]
	if !ok {
		return store.Condition{}, apperror.BadRequest(fmt.Sprintf("Cannot filter courses by %s", m[1]))
	}
	op, ok := queryOperators[m[2]]
	if !ok {
		return store.Condition{}, apperror.BadRequest(fmt.Sprintf("Unsupported operator %s", m[2]))
	}

	if field.kind == kindTag {
		if op != store.OpEq {
			return store.Condition{}, apperror.BadRequest("Tags can only be matched exactly")
		}
		return store.Condition{Column: field.column, Op: store.OpContains, Value: `%"` + raw + `"%`}, nil
	}

	if op == store.OpIn {
		parts := strings.Split(raw, ",")
		vals := make([]any, 0, len(parts))
		for _, part := range parts {
			v, err := convertValue(m[1], field.kind, strings.TrimSpace(part))
			if err != nil {
				return store.Condition{}, err
			}
			vals = append(vals, v)
		}
		return store.Condition{Column: field.column, Op: op, Value: vals}, nil
	}

	v, err := convertValue(m[1], field.kind, raw)
	if err != nil {
		return store.Condition{}, err
	}
	return store.Condition{Column: field.column, Op: op, Value: v}, nil
}

func convertValue(name string, kind fieldKind, raw string) (any, error) {
	switch kind {
	case kindNumber:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, apperror.BadRequest(fmt.Sprintf("Invalid value for %s", name))
		}
		return f, nil
	case kindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, apperror.BadRequest(fmt.Sprintf("Invalid value for %s", name))
		}
		return b, nil
	}
	return raw, nil
}

func parseSelect(raw string) ([]string, error) {
	cols := []string{"id"}
	for _, name := range strings.Split(raw, ",") {
		name = strings.TrimSpace(name)
		if name == "" || name == "id" {
			continue
		}
		col, ok := selectColumns[name]
		if !ok {
			return nil, apperror.BadRequest(fmt.Sprintf("Cannot select field %s", name))
		}
		cols = append(cols, col)
	}
	return cols, nil
}

func parseSort(raw string) ([]store.SortField, error) {
	var out []store.SortField
	for _, name := range strings.Split(raw, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		desc := strings.HasPrefix(name, "-")
		name = strings.TrimPrefix(name, "-")
		col, ok := selectColumns[name]
		if !ok {
			return nil, apperror.BadRequest(fmt.Sprintf("Cannot sort by %s", name))
		}
		out = append(out, store.SortField{Column: col, Desc: desc})
	}
	return out, nil
}

// CatalogService serves the public course listing
type CatalogService struct {
	store *store.Store
}

func NewCatalogService(st *store.Store) *CatalogService {
	return &CatalogService{store: st}
}

func (s *CatalogService) List(ctx context.Context, p CourseListParams) (*CourseListResult, error) {
	total, err := s.store.Courses.Count(ctx, p.Filter)
	if err != nil {
		return nil, apperror.Internal("Server Error", err)
	}
	courses, err := s.store.Courses.Find(ctx, store.CourseQuery{
		Filter: p.Filter,
		Select: p.Select,
		Sort:   p.Sort,
		Offset: p.Page.Offset(),
		Limit:  p.Page.Limit,
	})
	if err != nil {
		return nil, apperror.Internal("Server Error", err)
	}
	if courses == nil {
		courses = []*models.Course{}
	}
	return &CourseListResult{
		Courses:    courses,
		Count:      total,
		Pagination: utils.Paginate(p.Page, total),
	}, nil
}
