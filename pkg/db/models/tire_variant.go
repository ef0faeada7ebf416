package models

import (
	"time"

	"github.com/treadstock/treadstock-backend/pkg/enums"
)

// TireVariant holds the tire-specific attributes of a product. Sizes are kept
// as free text because suppliers mix units ("205", "205.5", "C") in their lists.
type TireVariant struct {
	ID        uint          `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID uint          `gorm:"column:product_id;not null;uniqueIndex"`
	Width     *string       `gorm:"column:width"`
	Profile   *string       `gorm:"column:profile"`
	Diameter  *string       `gorm:"column:diameter"`
	LoadIndex *string       `gorm:"column:load_index"`
	Spikes    *string       `gorm:"column:spikes"`
	Year      *int          `gorm:"column:year"`
	Country   *string       `gorm:"column:country"`
	Season    *enums.Season `gorm:"column:season"`
	CreatedAt time.Time     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time     `gorm:"column:updated_at;autoUpdateTime"`
}
