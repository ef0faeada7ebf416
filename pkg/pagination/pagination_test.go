package pagination

import "testing"

func TestNormalize(t *testing.T) {
	t.Parallel()

	p := Params{}.Normalize()
	if p.Page != 1 || p.PageSize != DefaultPageSize {
		t.Fatalf("unexpected defaults: %+v", p)
	}

	p = Params{Page: 3, PageSize: 500}.Normalize()
	if p.PageSize != MaxPageSize {
		t.Fatalf("page size must be capped, got %d", p.PageSize)
	}
}

func TestSlice(t *testing.T) {
	t.Parallel()

	items := make([]int, 0, 7)
	for i := 0; i < 7; i++ {
		items = append(items, i)
	}

	first := Slice(items, Params{Page: 1, PageSize: 3})
	if len(first) != 3 || first[0] != 0 {
		t.Fatalf("unexpected first page: %v", first)
	}

	last := Slice(items, Params{Page: 3, PageSize: 3})
	if len(last) != 1 || last[0] != 6 {
		t.Fatalf("unexpected last page: %v", last)
	}

	if out := Slice(items, Params{Page: 4, PageSize: 3}); out != nil {
		t.Fatalf("past-the-end page must be empty, got %v", out)
	}

	if got := (Params{PageSize: 3}).TotalPages(7); got != 3 {
		t.Fatalf("expected 3 pages, got %d", got)
	}
}
