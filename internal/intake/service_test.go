package intake

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/treadstock/treadstock-backend/internal/catalog"
	"github.com/treadstock/treadstock-backend/internal/ledger"
	"github.com/treadstock/treadstock-backend/pkg/config"
	"github.com/treadstock/treadstock-backend/pkg/db"
	"github.com/treadstock/treadstock-backend/pkg/db/models"
	"github.com/treadstock/treadstock-backend/pkg/enums"
	pkgerrors "github.com/treadstock/treadstock-backend/pkg/errors"
)

var testIntakeCfg = config.IntakeConfig{
	DefaultRack:  "Закупка",
	DefaultShelf: "Новая",
	DefaultCell:  "0",
	Delimiter:    ";",
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:intake_" + uuid.NewString() + "?mode=memory&cache=shared"
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
	svc, err := NewService(
		catalog.NewRepository(conn),
		ledger.NewRepository(conn),
		db.FromConn(conn),
		nil,
		nil,
		testIntakeCfg,
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, conn
}

func strRef(s string) *string { return &s }

func TestCommitNewTireLine(t *testing.T) {
	t.Parallel()
	svc, conn := newTestService(t)
	ctx := context.Background()

	price := decimal.NewFromInt(7000)
	season := enums.SeasonWinter
	report, err := svc.Commit(ctx, []IntakeLine{{
		ID:       1,
		Kind:     LineNew,
		Brand:    "Nokian",
		Model:    "Hakkapeliitta R5",
		Price:    &price,
		Section:  enums.SectionWinter,
		Quantity: 8,
		Tire:     &TireAttrs{Width: strRef("205"), Season: &season},
	}})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if report.Committed != 1 || report.Failed != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
	productID := report.Results[0].ProductID
	if productID == 0 {
		t.Fatal("committed line should carry the created product id")
	}

	var product models.Product
	if err := conn.Preload("Tire").First(&product, "id = ?", productID).Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	if product.Tire == nil || *product.Tire.Width != "205" {
		t.Fatalf("tire variant not created: %+v", product.Tire)
	}

	var placement models.Placement
	if err := conn.First(&placement, "product_id = ?", productID).Error; err != nil {
		t.Fatalf("load placement: %v", err)
	}
	if placement.Rack != "Закупка" || placement.Shelf != "Новая" || placement.Cell != "0" {
		t.Fatalf("stock not at the intake address: %s", placement.Address())
	}
	if placement.Quantity != 8 || placement.LocationKind != enums.LocationWarehouse {
		t.Fatalf("unexpected placement: %+v", placement)
	}
}

func TestCommitExistingIncrementsLargestPlacement(t *testing.T) {
	t.Parallel()
	svc, conn := newTestService(t)
	ctx := context.Background()

	product := &models.Product{
		Brand: "Nokian", Model: "R5",
		Section: enums.SectionWinter, Active: true,
		Tire: &models.TireVariant{Width: strRef("205")},
	}
	if err := conn.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	small := &models.Placement{ProductID: product.ID, LocationKind: enums.LocationWarehouse, Rack: "A", Shelf: "1", Cell: "1", Quantity: 2}
	big := &models.Placement{ProductID: product.ID, LocationKind: enums.LocationWarehouse, Rack: "A", Shelf: "1", Cell: "2", Quantity: 9}
	for _, p := range []*models.Placement{small, big} {
		if err := conn.Create(p).Error; err != nil {
			t.Fatalf("seed placement: %v", err)
		}
	}

	report, err := svc.Commit(ctx, []IntakeLine{{
		ID:        1,
		Kind:      LineExisting,
		ProductID: product.ID,
		Quantity:  4,
		Tire:      &TireAttrs{LoadIndex: strRef("91T")},
	}})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if report.Committed != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}

	var reloaded models.Placement
	if err := conn.First(&reloaded, "id = ?", big.ID).Error; err != nil {
		t.Fatalf("load placement: %v", err)
	}
	if reloaded.Quantity != 13 {
		t.Fatalf("largest placement should take the increment, got %d", reloaded.Quantity)
	}

	var variant models.TireVariant
	if err := conn.First(&variant, "product_id = ?", product.ID).Error; err != nil {
		t.Fatalf("load variant: %v", err)
	}
	if variant.LoadIndex == nil || *variant.LoadIndex != "91T" {
		t.Fatalf("variant attrs not merged: %+v", variant)
	}
	if variant.Width == nil || *variant.Width != "205" {
		t.Fatalf("merge clobbered existing attrs: %+v", variant)
	}
}

func TestCommitExistingWithoutStockUsesIntakeAddress(t *testing.T) {
	t.Parallel()
	svc, conn := newTestService(t)
	ctx := context.Background()

	product := &models.Product{Brand: "Vossen", Model: "CV3", Section: enums.SectionComponents, Active: true}
	if err := conn.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}

	report, err := svc.Commit(ctx, []IntakeLine{{
		ID: 1, Kind: LineExisting, ProductID: product.ID, Quantity: 5,
	}})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if report.Committed != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}

	var placement models.Placement
	if err := conn.First(&placement, "product_id = ?", product.ID).Error; err != nil {
		t.Fatalf("load placement: %v", err)
	}
	if placement.Rack != "Закупка" || placement.Quantity != 5 {
		t.Fatalf("expected intake address fallback: %+v", placement)
	}
}

func TestCommitPartialFailureKeepsGoodLines(t *testing.T) {
	t.Parallel()
	svc, conn := newTestService(t)
	ctx := context.Background()

	category := enums.ComponentCategoryBolts
	lines := []IntakeLine{
		{ID: 1, Kind: LineNew, Brand: "NoName", Model: "Bolt M12", Section: enums.SectionComponents, Quantity: 100,
			Component: &ComponentAttrs{Category: &category}},
		{ID: 2, Kind: LineNew, Brand: "", Model: "Broken", Section: enums.SectionComponents, Quantity: 1,
			Component: &ComponentAttrs{Category: &category}},
		{ID: 3, Kind: LineExisting, ProductID: 9999, Quantity: 4},
	}

	report, err := svc.Commit(ctx, lines)
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if report.Committed != 1 || report.Failed != 2 {
		t.Fatalf("unexpected totals: %+v", report)
	}
	if report.Results[0].Outcome != OutcomeCommitted {
		t.Fatalf("first line should commit: %+v", report.Results[0])
	}
	if report.Results[1].Outcome != OutcomeFailed || report.Results[1].Reason == "" {
		t.Fatalf("second line should fail with a reason: %+v", report.Results[1])
	}
	if report.Results[2].Outcome != OutcomeFailed {
		t.Fatalf("third line should fail: %+v", report.Results[2])
	}

	// Only the good line reached storage.
	var count int64
	if err := conn.Model(&models.Product{}).Count(&count).Error; err != nil {
		t.Fatalf("count products: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 product, got %d", count)
	}
}

func TestCommitValidation(t *testing.T) {
	t.Parallel()
	svc, conn := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Commit(ctx, nil); pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("empty batch should be rejected, got %v", err)
	}

	// Component line without category fails per-line, not batch-wide.
	report, err := svc.Commit(ctx, []IntakeLine{{
		ID: 1, Kind: LineNew, Brand: "X", Model: "Y",
		Section: enums.SectionComponents, Quantity: 1,
		Component: &ComponentAttrs{Material: strRef("steel")},
	}})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if report.Failed != 1 {
		t.Fatalf("expected a per-line failure: %+v", report)
	}

	// A mismatched variant kind on an existing product is a conflict.
	product := &models.Product{
		Brand: "Nokian", Model: "R5", Section: enums.SectionWinter, Active: true,
		Tire: &models.TireVariant{Width: strRef("205")},
	}
	if err := conn.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	category := enums.ComponentCategoryBolts
	report, err = svc.Commit(ctx, []IntakeLine{{
		ID: 2, Kind: LineExisting, ProductID: product.ID, Quantity: 1,
		Component: &ComponentAttrs{Category: &category},
	}})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if report.Failed != 1 {
		t.Fatalf("expected conflict failure: %+v", report)
	}
}
