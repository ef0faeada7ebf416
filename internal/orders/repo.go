package orders

import (
	"context"

	"gorm.io/gorm"

	"github.com/treadstock/treadstock-backend/pkg/db/models"
	"github.com/treadstock/treadstock-backend/pkg/enums"
)

// Repository wires together order persistence helpers.
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

// Create inserts the order together with its lines.
func (r *Repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// FindByID loads the order with lines and line products.
func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Preload("Lines.Product").
		First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// List returns orders with lines preloaded, newest first, optionally narrowed
// by status.
func (r *Repository) List(ctx context.Context, status *enums.OrderStatus) ([]models.Order, error) {
	q := r.db.WithContext(ctx).
		Preload("Lines").
		Preload("Lines.Product").
		Order("id DESC")
	if status != nil {
		q = q.Where("status = ?", *status)
	}

	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// SaveHeader persists the order row without touching lines.
func (r *Repository) SaveHeader(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", order.ID).
		Updates(map[string]any{
			"customer_name":  order.CustomerName,
			"customer_phone": order.CustomerPhone,
		}).Error
}

// ReplaceLines swaps the order's line set.
func (r *Repository) ReplaceLines(ctx context.Context, orderID uint, lines []models.OrderLine) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderLine{}).Error; err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}
	for i := range lines {
		lines[i].OrderID = orderID
		lines[i].ID = 0
	}
	return tx.Create(&lines).Error
}

// SetStatus updates the order status only when the current status still
// matches, guarding against a concurrent transition.
func (r *Repository) SetStatus(ctx context.Context, orderID uint, from, to enums.OrderStatus) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		UpdateColumn("status", to)
	return result.RowsAffected, result.Error
}

// ProductByID loads a catalog product without associations.
func (r *Repository) ProductByID(ctx context.Context, productID uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", productID).Error; err != nil {
		return nil, err
	}
	return &product, nil
}
