package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/treadstock/treadstock-backend/internal/ledger"
	"github.com/treadstock/treadstock-backend/pkg/db/models"
	"github.com/treadstock/treadstock-backend/pkg/enums"
	pkgerrors "github.com/treadstock/treadstock-backend/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:inventory_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := newTestDB(t)
	svc, err := NewService(ledger.NewRepository(conn))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, conn
}

func str(s string) *string { return &s }

func seedTire(t *testing.T, conn *gorm.DB, brand, model, width string, price int64, qty int, rack string) *models.Product {
	t.Helper()
	p := decimal.NewFromInt(price)
	season := enums.SeasonWinter
	product := &models.Product{
		Brand:   brand,
		Model:   model,
		Price:   &p,
		Section: enums.SectionWinter,
		Active:  true,
		Tire:    &models.TireVariant{Width: str(width), Season: &season},
	}
	if err := conn.Create(product).Error; err != nil {
		t.Fatalf("seed tire product: %v", err)
	}
	placement := &models.Placement{
		ProductID:    product.ID,
		LocationKind: enums.LocationWarehouse,
		Rack:         rack, Shelf: "1", Cell: "1",
		Quantity: qty,
	}
	if err := conn.Create(placement).Error; err != nil {
		t.Fatalf("seed placement: %v", err)
	}
	return product
}

func seedComponent(t *testing.T, conn *gorm.DB, brand, model string, qty int) *models.Product {
	t.Helper()
	product := &models.Product{
		Brand:   brand,
		Model:   model,
		Section: enums.SectionComponents,
		Active:  true,
		Component: &models.ComponentVariant{
			Category: enums.ComponentCategoryAlloyWheels,
			Material: str("alloy"),
		},
	}
	if err := conn.Create(product).Error; err != nil {
		t.Fatalf("seed component product: %v", err)
	}
	placement := &models.Placement{
		ProductID:    product.ID,
		LocationKind: enums.LocationWarehouse,
		Rack:         "C", Shelf: "1", Cell: "1",
		Quantity: qty,
	}
	if err := conn.Create(placement).Error; err != nil {
		t.Fatalf("seed placement: %v", err)
	}
	return product
}

func seedOrphan(t *testing.T, conn *gorm.DB) *models.Product {
	t.Helper()
	product := &models.Product{
		Brand:   "NoName",
		Model:   "Unsorted",
		Section: enums.SectionStorage,
		Active:  true,
	}
	if err := conn.Create(product).Error; err != nil {
		t.Fatalf("seed orphan product: %v", err)
	}
	placement := &models.Placement{
		ProductID:    product.ID,
		LocationKind: enums.LocationStorage,
		Rack:         "S", Shelf: "9", Cell: "9",
		Quantity: 1,
	}
	if err := conn.Create(placement).Error; err != nil {
		t.Fatalf("seed placement: %v", err)
	}
	return product
}

func TestListUnfilteredIncludesOrphans(t *testing.T) {
	t.Parallel()
	svc, conn := newTestService(t)
	ctx := context.Background()

	seedTire(t, conn, "Nokian", "R5", "205", 7000, 4, "A")
	seedComponent(t, conn, "Vossen", "CV3", 8)
	seedOrphan(t, conn)

	result, err := svc.List(ctx, ListInput{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if result.Total != 3 || len(result.Items) != 3 {
		t.Fatalf("expected 3 rows, got total=%d items=%d", result.Total, len(result.Items))
	}
}

func TestListVariantKindExcludesOrphans(t *testing.T) {
	t.Parallel()
	svc, conn := newTestService(t)
	ctx := context.Background()

	tire := seedTire(t, conn, "Nokian", "R5", "205", 7000, 4, "A")
	seedComponent(t, conn, "Vossen", "CV3", 8)
	seedOrphan(t, conn)

	kind := VariantTire
	result, err := svc.List(ctx, ListInput{VariantKind: &kind})
	if err != nil {
		t.Fatalf("list tires: %v", err)
	}
	if result.Total != 1 || result.Items[0].ProductID != tire.ID {
		t.Fatalf("unexpected tire rows: %+v", result.Items)
	}

	kind = VariantComponent
	result, err = svc.List(ctx, ListInput{VariantKind: &kind})
	if err != nil {
		t.Fatalf("list components: %v", err)
	}
	if result.Total != 1 || result.Items[0].Component == nil {
		t.Fatalf("unexpected component rows: %+v", result.Items)
	}
}

func TestListLocationKindFilter(t *testing.T) {
	t.Parallel()
	svc, conn := newTestService(t)
	ctx := context.Background()

	seedTire(t, conn, "Nokian", "R5", "205", 7000, 4, "A")
	seedOrphan(t, conn) // lives in storage

	storage := enums.LocationStorage
	result, err := svc.List(ctx, ListInput{LocationKind: &storage})
	if err != nil {
		t.Fatalf("list storage: %v", err)
	}
	if result.Total != 1 || result.Items[0].LocationKind != "storage" {
		t.Fatalf("unexpected storage rows: %+v", result.Items)
	}
}

func TestListFreeTextQuery(t *testing.T) {
	t.Parallel()
	svc, conn := newTestService(t)
	ctx := context.Background()

	seedTire(t, conn, "Nokian", "Hakkapeliitta", "205", 7000, 4, "A")
	seedComponent(t, conn, "Vossen", "CV3", 8)

	result, err := svc.List(ctx, ListInput{Query: "hakka"})
	if err != nil {
		t.Fatalf("query brand/model: %v", err)
	}
	if result.Total != 1 || result.Items[0].Model != "Hakkapeliitta" {
		t.Fatalf("unexpected query result: %+v", result.Items)
	}

	// Address text is also searchable.
	result, err = svc.List(ctx, ListInput{Query: "c-1-1"})
	if err != nil {
		t.Fatalf("query address: %v", err)
	}
	if result.Total != 1 || result.Items[0].Address != "C-1-1" {
		t.Fatalf("unexpected address result: %+v", result.Items)
	}
}

func TestListColumnFilters(t *testing.T) {
	t.Parallel()
	svc, conn := newTestService(t)
	ctx := context.Background()

	seedTire(t, conn, "Nokian", "R5", "205", 7000, 4, "A")
	seedTire(t, conn, "Michelin", "X-Ice", "195", 6000, 2, "B")

	result, err := svc.List(ctx, ListInput{ColumnFilters: map[string]string{"width": "205"}})
	if err != nil {
		t.Fatalf("filter width: %v", err)
	}
	if result.Total != 1 || result.Items[0].Brand != "Nokian" {
		t.Fatalf("unexpected width filter result: %+v", result.Items)
	}

	// Unknown filter fields match nothing.
	result, err = svc.List(ctx, ListInput{ColumnFilters: map[string]string{"flux": "x"}})
	if err != nil {
		t.Fatalf("unknown filter: %v", err)
	}
	if result.Total != 0 {
		t.Fatalf("unknown field should match nothing, got %d", result.Total)
	}
}

func TestListSortNullsLast(t *testing.T) {
	t.Parallel()
	svc, conn := newTestService(t)
	ctx := context.Background()

	seedTire(t, conn, "Nokian", "R5", "205", 7000, 4, "A")
	seedTire(t, conn, "Michelin", "X-Ice", "195", 6000, 2, "B")
	seedComponent(t, conn, "Vossen", "CV3", 8) // no width

	asc, err := svc.List(ctx, ListInput{SortField: "width"})
	if err != nil {
		t.Fatalf("sort asc: %v", err)
	}
	if asc.Items[0].Brand != "Michelin" || asc.Items[1].Brand != "Nokian" {
		t.Fatalf("unexpected asc order: %+v", asc.Items)
	}
	if asc.Items[2].Brand != "Vossen" {
		t.Fatalf("null width should sort last asc: %+v", asc.Items)
	}

	desc, err := svc.List(ctx, ListInput{SortField: "width", SortDesc: true})
	if err != nil {
		t.Fatalf("sort desc: %v", err)
	}
	if desc.Items[0].Brand != "Nokian" || desc.Items[1].Brand != "Michelin" {
		t.Fatalf("unexpected desc order: %+v", desc.Items)
	}
	if desc.Items[2].Brand != "Vossen" {
		t.Fatalf("null width should sort last desc too: %+v", desc.Items)
	}

	_, err = svc.List(ctx, ListInput{SortField: "bogus"})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("unknown sort field should be rejected, got %v", err)
	}
}

func TestListNumericSort(t *testing.T) {
	t.Parallel()
	svc, conn := newTestService(t)
	ctx := context.Background()

	seedTire(t, conn, "Nokian", "R5", "205", 7000, 4, "A")
	seedTire(t, conn, "Michelin", "X-Ice", "195", 6000, 12, "B")

	result, err := svc.List(ctx, ListInput{SortField: "quantity", SortDesc: true})
	if err != nil {
		t.Fatalf("sort quantity: %v", err)
	}
	if result.Items[0].Quantity != 12 || result.Items[1].Quantity != 4 {
		t.Fatalf("unexpected quantity order: %+v", result.Items)
	}

	result, err = svc.List(ctx, ListInput{SortField: "price"})
	if err != nil {
		t.Fatalf("sort price: %v", err)
	}
	if result.Items[0].Brand != "Michelin" {
		t.Fatalf("unexpected price order: %+v", result.Items)
	}
}

func TestListPagination(t *testing.T) {
	t.Parallel()
	svc, conn := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		seedComponent(t, conn, "Brand", "Model", i+1)
	}

	result, err := svc.List(ctx, ListInput{Page: 2, PageSize: 2, SortField: "quantity"})
	if err != nil {
		t.Fatalf("page 2: %v", err)
	}
	if result.Total != 5 || result.TotalPages != 3 {
		t.Fatalf("unexpected totals: %+v", result)
	}
	if len(result.Items) != 2 || result.Items[0].Quantity != 3 {
		t.Fatalf("unexpected page content: %+v", result.Items)
	}

	result, err = svc.List(ctx, ListInput{Page: 9, PageSize: 2})
	if err != nil {
		t.Fatalf("page beyond end: %v", err)
	}
	if len(result.Items) != 0 {
		t.Fatalf("expected empty page, got %+v", result.Items)
	}
}
