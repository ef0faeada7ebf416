package ledger

import (
	"time"

	"github.com/treadstock/treadstock-backend/pkg/db/models"
)

// PlacementDTO is the placement payload returned to clients.
type PlacementDTO struct {
	ID           uint      `json:"id"`
	ProductID    uint      `json:"product_id"`
	LocationKind string    `json:"location_kind"`
	Rack         string    `json:"rack"`
	Shelf        string    `json:"shelf"`
	Cell         string    `json:"cell"`
	Address      string    `json:"address"`
	Quantity     int       `json:"quantity"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewPlacementDTO builds a DTO from the persisted model.
func NewPlacementDTO(placement *models.Placement) *PlacementDTO {
	return &PlacementDTO{
		ID:           placement.ID,
		ProductID:    placement.ProductID,
		LocationKind: placement.LocationKind.String(),
		Rack:         placement.Rack,
		Shelf:        placement.Shelf,
		Cell:         placement.Cell,
		Address:      placement.Address(),
		Quantity:     placement.Quantity,
		CreatedAt:    placement.CreatedAt,
		UpdatedAt:    placement.UpdatedAt,
	}
}
