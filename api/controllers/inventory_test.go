package controllers

import (
	"net/http/httptest"
	"testing"

	inventorysvc "github.com/treadstock/treadstock-backend/internal/inventory"
	"github.com/treadstock/treadstock-backend/pkg/enums"
	pkgerrors "github.com/treadstock/treadstock-backend/pkg/errors"
)

func TestBuildInventoryInput(t *testing.T) {
	t.Run("full query", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/inventory?kind=storage&section=winter&variant_kind=tire&q=nokian&filter[diameter]=16&filter[brand]=nok&sort=price&order=desc&page=2&page_size=50", nil)
		input, err := buildInventoryInput(req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if input.LocationKind == nil || *input.LocationKind != enums.LocationStorage {
			t.Fatalf("unexpected location kind %v", input.LocationKind)
		}
		if input.Section == nil || *input.Section != enums.SectionWinter {
			t.Fatalf("unexpected section %v", input.Section)
		}
		if input.VariantKind == nil || *input.VariantKind != inventorysvc.VariantTire {
			t.Fatalf("unexpected variant kind %v", input.VariantKind)
		}
		if input.Query != "nokian" {
			t.Fatalf("unexpected query %q", input.Query)
		}
		if input.ColumnFilters["diameter"] != "16" || input.ColumnFilters["brand"] != "nok" {
			t.Fatalf("unexpected filters %v", input.ColumnFilters)
		}
		if input.SortField != "price" || !input.SortDesc {
			t.Fatalf("unexpected sort %s desc=%v", input.SortField, input.SortDesc)
		}
		if input.Page != 2 || input.PageSize != 50 {
			t.Fatalf("unexpected paging %d/%d", input.Page, input.PageSize)
		}
	})

	t.Run("defaults", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/inventory", nil)
		input, err := buildInventoryInput(req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if input.LocationKind != nil || input.Section != nil || input.VariantKind != nil {
			t.Fatalf("expected no narrowing by default")
		}
		if input.ColumnFilters != nil {
			t.Fatalf("expected no column filters by default")
		}
		if input.SortDesc {
			t.Fatalf("default order should be ascending")
		}
		if input.Page != 1 || input.PageSize != 30 {
			t.Fatalf("unexpected default paging %d/%d", input.Page, input.PageSize)
		}
	})

	invalid := []struct {
		name string
		url  string
	}{
		{"bad kind", "/api/v1/inventory?kind=garage"},
		{"bad section", "/api/v1/inventory?section=spring"},
		{"bad variant kind", "/api/v1/inventory?variant_kind=rim"},
		{"bad order", "/api/v1/inventory?order=sideways"},
		{"bad page", "/api/v1/inventory?page=abc"},
		{"page size above cap", "/api/v1/inventory?page_size=500"},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.url, nil)
			if _, err := buildInventoryInput(req); pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}
