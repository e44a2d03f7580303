package model

import "testing"

func TestNewPagination(t *testing.T) {
	cases := []struct {
		page, limit, total int
		totalPages         int
		hasNext, hasPrev   bool
	}{
		{1, 10, 0, 0, false, false},
		{1, 10, 5, 1, false, false},
		{1, 10, 25, 3, true, false},
		{2, 10, 25, 3, true, true},
		{3, 10, 25, 3, false, true},
		{5, 10, 25, 3, false, true},
	}

	for _, tc := range cases {
		p := NewPagination(tc.page, tc.limit, tc.total)
		if p.TotalPages != tc.totalPages {
			t.Errorf("page=%d limit=%d total=%d: expected %d total pages, got %d",
				tc.page, tc.limit, tc.total, tc.totalPages, p.TotalPages)
		}
		if p.HasNext != tc.hasNext || p.HasPrev != tc.hasPrev {
			t.Errorf("page=%d limit=%d total=%d: expected hasNext=%v hasPrev=%v, got %+v",
				tc.page, tc.limit, tc.total, tc.hasNext, tc.hasPrev, p)
		}
	}
}
