package productlist

import "testing"

func TestPaginate(t *testing.T) {
	items := make([]int, 20)
	for i := range items {
		items[i] = i
	}

	cases := []struct {
		page      int
		wantPage  int
		wantFirst int
		wantLen   int
	}{
		{1, 1, 0, 9},
		{2, 2, 9, 9},
		{3, 3, 18, 2},
		{99, 3, 18, 2},
		{0, 1, 0, 9},
		{-4, 1, 0, 9},
	}
	for _, tc := range cases {
		p := Paginate(items, tc.page, ShopPageSize)
		if p.Page != tc.wantPage || p.TotalPages != 3 || p.Total != 20 {
			t.Errorf("page %d: got page=%d total=%d/%d", tc.page, p.Page, p.TotalPages, p.Total)
			continue
		}
		if len(p.Items) != tc.wantLen || p.Items[0] != tc.wantFirst {
			t.Errorf("page %d: items = %v", tc.page, p.Items)
		}
	}
}

func TestPaginateEmpty(t *testing.T) {
	p := Paginate([]string{}, 3, ShopPageSize)
	if p.Page != 1 || p.TotalPages != 0 || len(p.Items) != 0 {
		t.Fatalf("empty = %+v", p)
	}
}
