package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLine snapshots one product position on an order. Price is frozen at
// order time and does not follow later catalog price changes.
type OrderLine struct {
	ID        uint             `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID   uint             `gorm:"column:order_id;not null;index"`
	ProductID uint             `gorm:"column:product_id;not null"`
	Quantity  int              `gorm:"column:quantity;not null"`
	Price     *decimal.Decimal `gorm:"column:price;type:numeric(12,2)"`
	Product   *Product         `gorm:"foreignKey:ProductID"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
