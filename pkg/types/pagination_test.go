package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginationOffsetLimit(t *testing.T) {
	tests := []struct {
		name       string
		p          *Pagination
		wantOffset int
		wantLimit  int
	}{
		{"nil uses defaults", nil, 0, 10},
		{"zero value uses defaults", &Pagination{}, 0, 10},
		{"first page explicit", &Pagination{Page: 1, Limit: 10}, 0, 10},
		{"second page", &Pagination{Page: 2, Limit: 10}, 10, 10},
		{"custom limit", &Pagination{Page: 3, Limit: 25}, 50, 25},
		{"page without limit", &Pagination{Page: 4}, 30, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset, limit := tt.p.OffsetLimit()
			assert.Equal(t, tt.wantOffset, offset)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}
