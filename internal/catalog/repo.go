package catalog

import (
	"context"

	"gorm.io/gorm"

	"github.com/treadstock/treadstock-backend/pkg/db/models"
	"github.com/treadstock/treadstock-backend/pkg/enums"
)

// Repository wires together catalog persistence helpers.
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

// CreateProduct inserts the product row.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// SaveProduct persists all fields of an already-loaded product.
func (r *Repository) SaveProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// FindByID loads the product with both variant associations.
func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		Preload("Tire").
		Preload("Component").
		First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// List returns products, optionally narrowed by section and active flag.
func (r *Repository) List(ctx context.Context, section *enums.Section, active *bool) ([]models.Product, error) {
	q := r.db.WithContext(ctx).
		Preload("Tire").
		Preload("Component").
		Order("id ASC")
	if section != nil {
		q = q.Where("section = ?", *section)
	}
	if active != nil {
		q = q.Where("active = ?", *active)
	}

	var products []models.Product
	if err := q.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindTireByProduct returns the tire variant for the product, if any.
func (r *Repository) FindTireByProduct(ctx context.Context, productID uint) (*models.TireVariant, error) {
	var variant models.TireVariant
	if err := r.db.WithContext(ctx).First(&variant, "product_id = ?", productID).Error; err != nil {
		return nil, err
	}
	return &variant, nil
}

// FindComponentByProduct returns the component variant for the product, if any.
func (r *Repository) FindComponentByProduct(ctx context.Context, productID uint) (*models.ComponentVariant, error) {
	var variant models.ComponentVariant
	if err := r.db.WithContext(ctx).First(&variant, "product_id = ?", productID).Error; err != nil {
		return nil, err
	}
	return &variant, nil
}

// SaveTire persists the tire variant (insert or full update).
func (r *Repository) SaveTire(ctx context.Context, variant *models.TireVariant) (*models.TireVariant, error) {
	if err := r.db.WithContext(ctx).Save(variant).Error; err != nil {
		return nil, err
	}
	return variant, nil
}

// SaveComponent persists the component variant (insert or full update).
func (r *Repository) SaveComponent(ctx context.Context, variant *models.ComponentVariant) (*models.ComponentVariant, error) {
	if err := r.db.WithContext(ctx).Save(variant).Error; err != nil {
		return nil, err
	}
	return variant, nil
}
