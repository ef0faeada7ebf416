package ledger

import (
	"context"

	"gorm.io/gorm"

	"github.com/treadstock/treadstock-backend/pkg/db/models"
	"github.com/treadstock/treadstock-backend/pkg/enums"
)

// Repository wires together placement persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads the placement row.
func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Placement, error) {
	var placement models.Placement
	if err := r.db.WithContext(ctx).First(&placement, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &placement, nil
}

// FindByAddress loads the placement at the exact address tuple.
func (r *Repository) FindByAddress(ctx context.Context, productID uint, kind enums.LocationKind, rack, shelf, cell string) (*models.Placement, error) {
	var placement models.Placement
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND location_kind = ? AND rack = ? AND shelf = ? AND cell = ?",
			productID, kind, rack, shelf, cell).
		First(&placement).Error
	if err != nil {
		return nil, err
	}
	return &placement, nil
}

// Create inserts the placement row.
func (r *Repository) Create(ctx context.Context, placement *models.Placement) (*models.Placement, error) {
	if err := r.db.WithContext(ctx).Create(placement).Error; err != nil {
		return nil, err
	}
	return placement, nil
}

// IncrementQuantity adds delta to the placement quantity, guarded so the row
// can never go negative. Returns the affected row count.
func (r *Repository) IncrementQuantity(ctx context.Context, placementID uint, delta int) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Placement{}).
		Where("id = ? AND quantity + ? >= 0", placementID, delta).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", delta))
	return result.RowsAffected, result.Error
}

// SetQuantity overwrites the placement quantity.
func (r *Repository) SetQuantity(ctx context.Context, placementID uint, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.Placement{}).
		Where("id = ?", placementID).
		UpdateColumn("quantity", quantity).Error
}

// ListByProduct returns placements for the product, largest quantity first,
// optionally narrowed by location kind.
func (r *Repository) ListByProduct(ctx context.Context, productID uint, kind *enums.LocationKind) ([]models.Placement, error) {
	q := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("quantity DESC, id ASC")
	if kind != nil {
		q = q.Where("location_kind = ?", *kind)
	}

	var placements []models.Placement
	if err := q.Find(&placements).Error; err != nil {
		return nil, err
	}
	return placements, nil
}

// ListByKind returns all placements inside one location kind with the product
// association loaded.
func (r *Repository) ListByKind(ctx context.Context, kind *enums.LocationKind) ([]models.Placement, error) {
	q := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Product.Tire").
		Preload("Product.Component").
		Order("id ASC")
	if kind != nil {
		q = q.Where("location_kind = ?", *kind)
	}

	var placements []models.Placement
	if err := q.Find(&placements).Error; err != nil {
		return nil, err
	}
	return placements, nil
}

// TotalQuantity sums placement quantities for the product, optionally by kind.
func (r *Repository) TotalQuantity(ctx context.Context, productID uint, kind *enums.LocationKind) (int, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Placement{}).
		Where("product_id = ?", productID)
	if kind != nil {
		q = q.Where("location_kind = ?", *kind)
	}

	var total *int
	if err := q.Select("SUM(quantity)").Scan(&total).Error; err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

// ProductExists reports whether the catalog holds the product id.
func (r *Repository) ProductExists(ctx context.Context, productID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
