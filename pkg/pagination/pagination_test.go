package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWindow_Defaults(t *testing.T) {
	w := NewWindow(0)
	assert.Equal(t, DefaultPageSize, w.PageSize)
	assert.Equal(t, DefaultPageSize, w.Visible)

	assert.Equal(t, MaxPageSize, NewWindow(500).PageSize)
}

func TestWindow_MoreGrowsUntilTotal(t *testing.T) {
	w := NewWindow(20)

	assert.True(t, w.More(45))
	assert.Equal(t, 40, w.Visible)
	assert.True(t, w.More(45))
	assert.Equal(t, 45, w.Visible)
	assert.False(t, w.More(45))
	assert.Equal(t, 45, w.Visible)
}

func TestWindow_MoreOnShortList(t *testing.T) {
	w := NewWindow(20)
	assert.False(t, w.More(7))
	assert.Equal(t, 7, w.End(7))
}

func TestWindow_Reset(t *testing.T) {
	w := NewWindow(10)
	w.More(100)
	w.More(100)
	w.Reset()
	assert.Equal(t, 10, w.Visible)
}

func TestNewResult(t *testing.T) {
	all := []int{1, 2, 3, 4, 5}
	w := NewWindow(2)

	r := NewResult(all, w)
	assert.Equal(t, []int{1, 2}, r.Data)
	assert.Equal(t, 5, r.TotalCount)
	assert.True(t, r.HasMore)

	w.More(len(all))
	w.More(len(all))
	r = NewResult(all, w)
	assert.Equal(t, all, r.Data)
	assert.False(t, r.HasMore)
}

func TestNewResult_EmptyIsNotNil(t *testing.T) {
	r := NewResult[int](nil, NewWindow(5))
	assert.NotNil(t, r.Data)
	assert.Empty(t, r.Data)
}
