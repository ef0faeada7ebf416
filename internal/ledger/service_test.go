package ledger

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/treadstock/treadstock-backend/pkg/db"
	"github.com/treadstock/treadstock-backend/pkg/db/models"
	"github.com/treadstock/treadstock-backend/pkg/enums"
	pkgerrors "github.com/treadstock/treadstock-backend/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:ledger_" + uuid.NewString() + "?mode=memory&cache=shared"
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
	svc, err := NewService(NewRepository(conn), db.FromConn(conn))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, conn
}

func mustCreateProduct(t *testing.T, conn *gorm.DB) *models.Product {
	t.Helper()
	product := &models.Product{
		Brand:   "Nokian",
		Model:   "Hakkapeliitta R5",
		Section: enums.SectionWinter,
		Active:  true,
	}
	if err := conn.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

func TestPlaceCreateThenIncrement(t *testing.T) {
	t.Parallel()
	svc, conn := newTestService(t)
	ctx := context.Background()
	product := mustCreateProduct(t, conn)

	input := PlaceInput{
		ProductID:    product.ID,
		LocationKind: enums.LocationWarehouse,
		Rack:         "A", Shelf: "1", Cell: "3",
		Quantity: 4,
	}
	first, err := svc.Place(ctx, input)
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	if first.Quantity != 4 || first.Address != "A-1-3" {
		t.Fatalf("unexpected placement %+v", first)
	}

	input.Quantity = 2
	second, err := svc.Place(ctx, input)
	if err != nil {
		t.Fatalf("place again: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("same address should reuse the row: %d != %d", second.ID, first.ID)
	}
	if second.Quantity != 6 {
		t.Fatalf("expected accumulated quantity 6, got %d", second.Quantity)
	}
}

func TestPlaceNonPositiveIsNoop(t *testing.T) {
	t.Parallel()
	svc, conn := newTestService(t)
	ctx := context.Background()
	product := mustCreateProduct(t, conn)

	for _, qty := range []int{0, -3} {
		got, err := svc.Place(ctx, PlaceInput{
			ProductID:    product.ID,
			LocationKind: enums.LocationWarehouse,
			Rack:         "A", Shelf: "1", Cell: "1",
			Quantity: qty,
		})
		if err != nil {
			t.Fatalf("qty %d: unexpected error %v", qty, err)
		}
		if got != nil {
			t.Fatalf("qty %d: expected no-op, got %+v", qty, got)
		}
	}

	var count int64
	if err := conn.Model(&models.Placement{}).Count(&count).Error; err != nil {
		t.Fatalf("count placements: %v", err)
	}
	if count != 0 {
		t.Fatalf("no rows should exist, got %d", count)
	}
}

func TestPlaceUnknownProduct(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Place(ctx, PlaceInput{
		ProductID:    42,
		LocationKind: enums.LocationWarehouse,
		Rack:         "A", Shelf: "1", Cell: "1",
		Quantity: 1,
	})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAdjustQuantity(t *testing.T) {
	t.Parallel()
	svc, conn := newTestService(t)
	ctx := context.Background()
	product := mustCreateProduct(t, conn)

	placed, err := svc.Place(ctx, PlaceInput{
		ProductID:    product.ID,
		LocationKind: enums.LocationWarehouse,
		Rack:         "B", Shelf: "2", Cell: "1",
		Quantity: 10,
	})
	if err != nil {
		t.Fatalf("place: %v", err)
	}

	_, err = svc.AdjustQuantity(ctx, placed.ID, -1)
	if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	adjusted, err := svc.AdjustQuantity(ctx, placed.ID, 0)
	if err != nil {
		t.Fatalf("adjust to zero: %v", err)
	}
	if adjusted.Quantity != 0 {
		t.Fatalf("expected zero quantity, got %d", adjusted.Quantity)
	}

	// Zero rows survive as historical addresses.
	var placement models.Placement
	if err := conn.First(&placement, "id = ?", placed.ID).Error; err != nil {
		t.Fatalf("zero-quantity row was pruned: %v", err)
	}

	_, err = svc.AdjustQuantity(ctx, 9999, 5)
	if pkgerrors.CodeOf(err) != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestTotalQuantityAcrossKinds(t *testing.T) {
	t.Parallel()
	svc, conn := newTestService(t)
	ctx := context.Background()
	product := mustCreateProduct(t, conn)

	seed := []PlaceInput{
		{ProductID: product.ID, LocationKind: enums.LocationWarehouse, Rack: "A", Shelf: "1", Cell: "1", Quantity: 4},
		{ProductID: product.ID, LocationKind: enums.LocationWarehouse, Rack: "A", Shelf: "1", Cell: "2", Quantity: 2},
		{ProductID: product.ID, LocationKind: enums.LocationStorage, Rack: "S", Shelf: "1", Cell: "1", Quantity: 3},
	}
	for _, input := range seed {
		if _, err := svc.Place(ctx, input); err != nil {
			t.Fatalf("seed place: %v", err)
		}
	}

	total, err := svc.TotalQuantity(ctx, product.ID, nil)
	if err != nil {
		t.Fatalf("total: %v", err)
	}
	if total != 9 {
		t.Fatalf("expected overall total 9, got %d", total)
	}

	warehouse := enums.LocationWarehouse
	total, err = svc.TotalQuantity(ctx, product.ID, &warehouse)
	if err != nil {
		t.Fatalf("warehouse total: %v", err)
	}
	if total != 6 {
		t.Fatalf("expected warehouse total 6, got %d", total)
	}

	total, err = svc.TotalQuantity(ctx, 777, nil)
	if err != nil {
		t.Fatalf("missing product total: %v", err)
	}
	if total != 0 {
		t.Fatalf("expected zero total for unknown product, got %d", total)
	}
}

func TestListByProductLargestFirst(t *testing.T) {
	t.Parallel()
	svc, conn := newTestService(t)
	ctx := context.Background()
	product := mustCreateProduct(t, conn)

	seed := []PlaceInput{
		{ProductID: product.ID, LocationKind: enums.LocationWarehouse, Rack: "A", Shelf: "1", Cell: "1", Quantity: 2},
		{ProductID: product.ID, LocationKind: enums.LocationWarehouse, Rack: "A", Shelf: "1", Cell: "2", Quantity: 8},
		{ProductID: product.ID, LocationKind: enums.LocationWarehouse, Rack: "A", Shelf: "2", Cell: "1", Quantity: 5},
	}
	for _, input := range seed {
		if _, err := svc.Place(ctx, input); err != nil {
			t.Fatalf("seed place: %v", err)
		}
	}

	got, err := svc.ListByProduct(ctx, product.ID, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 placements, got %d", len(got))
	}
	if got[0].Quantity != 8 || got[1].Quantity != 5 || got[2].Quantity != 2 {
		t.Fatalf("expected largest-first ordering, got %+v", got)
	}
}
