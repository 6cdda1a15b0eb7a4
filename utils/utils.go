package utils

import (
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

type PageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Pagination holds the neighbour pages of a list response. A side is nil
// when it would fall outside the result set.
type Pagination struct {
	Next *PageRef `json:"next,omitempty"`
	Prev *PageRef `json:"prev,omitempty"`
}

// Page is a normalised page request
type Page struct {
	Page  int
	Limit int
}

func (p Page) Offset() int { return (p.Page - 1) * p.Limit }

// NewPage applies the defaults to non-positive values
func NewPage(page, limit int) Page {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	return Page{Page: page, Limit: limit}
}

// ParsePage reads page and limit from query-string values, falling back to
// the defaults on anything that is not a positive integer.
func ParsePage(page, limit string) Page {
	p, _ := strconv.Atoi(page)
	l, _ := strconv.Atoi(limit)
	return NewPage(p, l)
}

// Paginate returns the next/prev descriptors for a page over total items
func Paginate(p Page, total int64) Pagination {
	var out Pagination
	if int64(p.Page*p.Limit) < total {
		out.Next = &PageRef{Page: p.Page + 1, Limit: p.Limit}
	}
	if p.Offset() > 0 {
		out.Prev = &PageRef{Page: p.Page - 1, Limit: p.Limit}
	}
	return out
}
