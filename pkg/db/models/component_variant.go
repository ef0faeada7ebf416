package models

import (
	"time"

	"github.com/treadstock/treadstock-backend/pkg/enums"
)

// ComponentVariant holds the attributes of non-tire goods (wheels, fasteners,
// consumables and so on).
type ComponentVariant struct {
	ID            uint                    `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID     uint                    `gorm:"column:product_id;not null;uniqueIndex"`
	Category      enums.ComponentCategory `gorm:"column:category;not null"`
	Parameters    *string                 `gorm:"column:parameters"`
	Compatibility *string                 `gorm:"column:compatibility"`
	Weight        *float64                `gorm:"column:weight"`
	Material      *string                 `gorm:"column:material"`
	Color         *string                 `gorm:"column:color"`
	CreatedAt     time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
