package transaction_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/expensify/internal/transaction"
)

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total, size, want int
	}{
		{0, 20, 0},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{100, 20, 5},
		{5, 0, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, transaction.TotalPages(tt.total, tt.size), "total=%d size=%d", tt.total, tt.size)
	}
}

func TestClampPage(t *testing.T) {
	assert.Equal(t, 1, transaction.ClampPage(0, 5))
	assert.Equal(t, 5, transaction.ClampPage(9, 5))
	assert.Equal(t, 3, transaction.ClampPage(3, 5))
	assert.Equal(t, 1, transaction.ClampPage(4, 0))
}

func TestNewWindow(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		totalPages int
		want       transaction.Window
	}{
		{
			name:       "SinglePage",
			page:       1,
			totalPages: 1,
			want:       transaction.Window{},
		},
		{
			name:       "Start",
			page:       1,
			totalPages: 10,
			want:       transaction.Window{Pages: []int{1, 2, 3}, Last: true, TrailingGap: true, Next: true},
		},
		{
			name:       "Middle",
			page:       5,
			totalPages: 10,
			want: transaction.Window{
				Pages: []int{3, 4, 5, 6, 7},
				First: true, LeadingGap: true, Last: true, TrailingGap: true,
				Prev: true, Next: true,
			},
		},
		{
			name:       "AdjacentToFirstHasNoGap",
			page:       4,
			totalPages: 6,
			want:       transaction.Window{Pages: []int{2, 3, 4, 5, 6}, First: true, Prev: true, Next: true},
		},
		{
			name:       "End",
			page:       10,
			totalPages: 10,
			want:       transaction.Window{Pages: []int{8, 9, 10}, First: true, LeadingGap: true, Prev: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, transaction.NewWindow(tt.page, tt.totalPages))
		})
	}
}

func TestPage_PrevNext(t *testing.T) {
	p := &transaction.Page{Page: 1, TotalPages: 2}
	assert.False(t, p.HasPrev())
	assert.True(t, p.HasNext())

	p.Page = 2
	assert.True(t, p.HasPrev())
	assert.False(t, p.HasNext())
}
