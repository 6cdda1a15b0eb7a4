package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePageDefaults(t *testing.T) {
	p := ParsePage("", "abc")
	assert.Equal(t, Page{Page: 1, Limit: 10}, p)
	assert.Equal(t, 0, p.Offset())

	p = ParsePage("3", "5")
	assert.Equal(t, 10, p.Offset())

	assert.Equal(t, Page{Page: 1, Limit: 10}, NewPage(-2, 0))
}

func TestPaginate(t *testing.T) {
	first := Paginate(NewPage(1, 2), 3)
	if assert.NotNil(t, first.Next) {
		assert.Equal(t, 2, first.Next.Page)
		assert.Equal(t, 2, first.Next.Limit)
	}
	assert.Nil(t, first.Prev)

	second := Paginate(NewPage(2, 2), 3)
	assert.Nil(t, second.Next)
	if assert.NotNil(t, second.Prev) {
		assert.Equal(t, 1, second.Prev.Page)
	}

	exact := Paginate(NewPage(1, 3), 3)
	assert.Nil(t, exact.Next)

	empty := Paginate(NewPage(1, 10), 0)
	assert.Nil(t, empty.Next)
	assert.Nil(t, empty.Prev)
}
