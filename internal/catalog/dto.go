package catalog

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/treadstock/treadstock-backend/pkg/db/models"
)

// ProductDTO is the catalog payload returned to clients.
type ProductDTO struct {
	ID        uint             `json:"id"`
	Brand     string           `json:"brand"`
	Model     string           `json:"model"`
	Price     *decimal.Decimal `json:"price,omitempty"`
	Note      *string          `json:"note,omitempty"`
	Section   string           `json:"section"`
	Active    bool             `json:"active"`
	Tire      *TireDTO         `json:"tire,omitempty"`
	Component *ComponentDTO    `json:"component,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// TireDTO exposes tire variant attributes.
type TireDTO struct {
	ID        uint    `json:"id"`
	Width     *string `json:"width,omitempty"`
	Profile   *string `json:"profile,omitempty"`
	Diameter  *string `json:"diameter,omitempty"`
	LoadIndex *string `json:"load_index,omitempty"`
	Spikes    *string `json:"spikes,omitempty"`
	Year      *int    `json:"year,omitempty"`
	Country   *string `json:"country,omitempty"`
	Season    *string `json:"season,omitempty"`
}

// ComponentDTO exposes component variant attributes.
type ComponentDTO struct {
	ID            uint     `json:"id"`
	Category      string   `json:"category"`
	Parameters    *string  `json:"parameters,omitempty"`
	Compatibility *string  `json:"compatibility,omitempty"`
	Weight        *float64 `json:"weight,omitempty"`
	Material      *string  `json:"material,omitempty"`
	Color         *string  `json:"color,omitempty"`
}

// NewProductDTO builds a DTO from the persisted model.
func NewProductDTO(product *models.Product) *ProductDTO {
	dto := &ProductDTO{
		ID:        product.ID,
		Brand:     product.Brand,
		Model:     product.Model,
		Price:     product.Price,
		Note:      product.Note,
		Section:   product.Section.String(),
		Active:    product.Active,
		CreatedAt: product.CreatedAt,
		UpdatedAt: product.UpdatedAt,
	}
	if product.Tire != nil {
		dto.Tire = newTireDTO(product.Tire)
	}
	if product.Component != nil {
		dto.Component = newComponentDTO(product.Component)
	}
	return dto
}

func newTireDTO(variant *models.TireVariant) *TireDTO {
	dto := &TireDTO{
		ID:        variant.ID,
		Width:     variant.Width,
		Profile:   variant.Profile,
		Diameter:  variant.Diameter,
		LoadIndex: variant.LoadIndex,
		Spikes:    variant.Spikes,
		Year:      variant.Year,
		Country:   variant.Country,
	}
	if variant.Season != nil {
		season := variant.Season.String()
		dto.Season = &season
	}
	return dto
}

func newComponentDTO(variant *models.ComponentVariant) *ComponentDTO {
	return &ComponentDTO{
		ID:            variant.ID,
		Category:      variant.Category.String(),
		Parameters:    variant.Parameters,
		Compatibility: variant.Compatibility,
		Weight:        variant.Weight,
		Material:      variant.Material,
		Color:         variant.Color,
	}
}
