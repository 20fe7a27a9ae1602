package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}

	p := Paginate(items, 1, 5)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, p.Items)
	assert.Equal(t, 3, p.TotalPages)
	assert.False(t, p.HasPrev)
	assert.True(t, p.HasNext)

	p = Paginate(items, 3, 5)
	assert.Equal(t, []int{11, 12}, p.Items)
	assert.True(t, p.HasPrev)
	assert.False(t, p.HasNext)

	p = Paginate(items, 99, 5)
	assert.Equal(t, 3, p.Page)

	p = Paginate(items, 0, 0)
	assert.Equal(t, 1, p.Page)
	assert.Len(t, p.Items, pageSize)

	empty := Paginate([]int{}, 2, 5)
	assert.Empty(t, empty.Items)
	assert.Equal(t, 1, empty.TotalPages)
	assert.Equal(t, 1, empty.Page)
}
