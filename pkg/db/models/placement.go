package models

import (
	"fmt"
	"time"

	"github.com/treadstock/treadstock-backend/pkg/enums"
)

// Placement records a quantity of a product at one physical address inside a
// location kind. A product may occupy several addresses; its on-hand total is
// the sum over its placements. Zero-quantity rows are retained as historical
// addresses and must never be double-counted.
type Placement struct {
	ID           uint               `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID    uint               `gorm:"column:product_id;not null;uniqueIndex:idx_placement_address,priority:1"`
	LocationKind enums.LocationKind `gorm:"column:location_kind;not null;uniqueIndex:idx_placement_address,priority:2"`
	Rack         string             `gorm:"column:rack;not null;uniqueIndex:idx_placement_address,priority:3"`
	Shelf        string             `gorm:"column:shelf;not null;uniqueIndex:idx_placement_address,priority:4"`
	Cell         string             `gorm:"column:cell;not null;uniqueIndex:idx_placement_address,priority:5"`
	Quantity     int                `gorm:"column:quantity;not null;default:0;check:quantity >= 0"`
	Product      *Product           `gorm:"foreignKey:ProductID"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// Address renders the synthetic rack-shelf-cell address used across the
// inventory view and free-text search.
func (p Placement) Address() string {
	return fmt.Sprintf("%s-%s-%s", p.Rack, p.Shelf, p.Cell)
}
