package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/treadstock/treadstock-backend/pkg/enums"
)

// Product is the canonical catalog entry. Type-specific attributes live on the
// attached variant; a product carries at most one of tire or component.
type Product struct {
	ID        uint             `gorm:"column:id;primaryKey;autoIncrement"`
	Brand     string           `gorm:"column:brand;not null"`
	Model     string           `gorm:"column:model;not null"`
	Price     *decimal.Decimal `gorm:"column:price;type:numeric(12,2)"`
	Note      *string          `gorm:"column:note"`
	Section   enums.Section    `gorm:"column:section;not null"`
	Active    bool             `gorm:"column:active;not null;default:true"`
	Tire      *TireVariant     `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Component *ComponentVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
