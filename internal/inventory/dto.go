package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/treadstock/treadstock-backend/pkg/db/models"
)

// VariantKind names the variant family a joined row belongs to.
type VariantKind string

const (
	VariantTire      VariantKind = "tire"
	VariantComponent VariantKind = "component"
)

// ItemDTO is one row of the derived inventory view: a placement joined with
// its product and variant attributes.
type ItemDTO struct {
	PlacementID  uint             `json:"placement_id"`
	ProductID    uint             `json:"product_id"`
	LocationKind string           `json:"location_kind"`
	Address      string           `json:"address"`
	Rack         string           `json:"rack"`
	Shelf        string           `json:"shelf"`
	Cell         string           `json:"cell"`
	Quantity     int              `json:"quantity"`
	Brand        string           `json:"brand"`
	Model        string           `json:"model"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	Note         *string          `json:"note,omitempty"`
	Section      string           `json:"section"`
	Active       bool             `json:"active"`
	VariantKind  *VariantKind     `json:"variant_kind,omitempty"`
	Tire         *TireAttrs       `json:"tire,omitempty"`
	Component    *ComponentAttrs  `json:"component,omitempty"`
}

// TireAttrs carries the tire columns of the view.
type TireAttrs struct {
	Width     *string `json:"width,omitempty"`
	Profile   *string `json:"profile,omitempty"`
	Diameter  *string `json:"diameter,omitempty"`
	LoadIndex *string `json:"load_index,omitempty"`
	Spikes    *string `json:"spikes,omitempty"`
	Year      *int    `json:"year,omitempty"`
	Country   *string `json:"country,omitempty"`
	Season    *string `json:"season,omitempty"`
}

// ComponentAttrs carries the component columns of the view.
type ComponentAttrs struct {
	Category      string   `json:"category"`
	Parameters    *string  `json:"parameters,omitempty"`
	Compatibility *string  `json:"compatibility,omitempty"`
	Weight        *float64 `json:"weight,omitempty"`
	Material      *string  `json:"material,omitempty"`
	Color         *string  `json:"color,omitempty"`
}

// ListResult is one page of inventory rows plus paging totals.
type ListResult struct {
	Items      []ItemDTO `json:"items"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalPages int       `json:"total_pages"`
}

func newItemDTO(placement *models.Placement) ItemDTO {
	item := ItemDTO{
		PlacementID:  placement.ID,
		ProductID:    placement.ProductID,
		LocationKind: placement.LocationKind.String(),
		Address:      placement.Address(),
		Rack:         placement.Rack,
		Shelf:        placement.Shelf,
		Cell:         placement.Cell,
		Quantity:     placement.Quantity,
	}
	product := placement.Product
	if product == nil {
		return item
	}

	item.Brand = product.Brand
	item.Model = product.Model
	item.Price = product.Price
	item.Note = product.Note
	item.Section = product.Section.String()
	item.Active = product.Active

	switch {
	case product.Tire != nil:
		kind := VariantTire
		item.VariantKind = &kind
		tire := product.Tire
		attrs := &TireAttrs{
			Width:     tire.Width,
			Profile:   tire.Profile,
			Diameter:  tire.Diameter,
			LoadIndex: tire.LoadIndex,
			Spikes:    tire.Spikes,
			Year:      tire.Year,
			Country:   tire.Country,
		}
		if tire.Season != nil {
			season := tire.Season.String()
			attrs.Season = &season
		}
		item.Tire = attrs

	case product.Component != nil:
		kind := VariantComponent
		item.VariantKind = &kind
		component := product.Component
		item.Component = &ComponentAttrs{
			Category:      component.Category.String(),
			Parameters:    component.Parameters,
			Compatibility: component.Compatibility,
			Weight:        component.Weight,
			Material:      component.Material,
			Color:         component.Color,
		}
	}
	return item
}
