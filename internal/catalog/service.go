package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/treadstock/treadstock-backend/pkg/db"
	"github.com/treadstock/treadstock-backend/pkg/db/models"
	"github.com/treadstock/treadstock-backend/pkg/enums"
	pkgerrors "github.com/treadstock/treadstock-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

// Service exposes catalog management operations.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, productID uint, input UpdateProductInput) (*ProductDTO, error)
	GetProduct(ctx context.Context, productID uint) (*ProductDTO, error)
	ListProducts(ctx context.Context, input ListProductsInput) ([]ProductDTO, error)
	AttachTireVariant(ctx context.Context, productID uint, input TireVariantInput) (*ProductDTO, error)
	AttachComponentVariant(ctx context.Context, productID uint, input ComponentVariantInput) (*ProductDTO, error)
	UpdateTireVariant(ctx context.Context, productID uint, input TireVariantInput) (*ProductDTO, error)
	UpdateComponentVariant(ctx context.Context, productID uint, input ComponentVariantInput) (*ProductDTO, error)
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Brand   string
	Model   string
	Price   *decimal.Decimal
	Note    *string
	Section enums.Section
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Brand   *string
	Model   *string
	Price   *decimal.Decimal
	Note    *string
	Section *enums.Section
	Active  *bool
}

// ListProductsInput narrows the product listing.
type ListProductsInput struct {
	Section *enums.Section
	Active  *bool
}

// TireVariantInput carries optional tire attributes for attach/update.
type TireVariantInput struct {
	Width     *string
	Profile   *string
	Diameter  *string
	LoadIndex *string
	Spikes    *string
	Year      *int
	Country   *string
	Season    *enums.Season
}

// ComponentVariantInput carries optional component attributes for attach/update.
// Category is required on first attach.
type ComponentVariantInput struct {
	Category      *enums.ComponentCategory
	Parameters    *string
	Compatibility *string
	Weight        *float64
	Material      *string
	Color         *string
}

// service implements the catalog service.
type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

// CreateProduct creates a catalog entry without variants.
func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	if strings.TrimSpace(input.Brand) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "brand is required")
	}
	if strings.TrimSpace(input.Model) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "model is required")
	}
	if !input.Section.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid section %q", input.Section)
	}

	product := &models.Product{
		Brand:   strings.TrimSpace(input.Brand),
		Model:   strings.TrimSpace(input.Model),
		Price:   input.Price,
		Note:    input.Note,
		Section: input.Section,
		Active:  true,
	}
	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
	}
	return NewProductDTO(created), nil
}

// UpdateProduct merges the provided fields into an existing product.
func (s *service) UpdateProduct(ctx context.Context, productID uint, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	if input.Brand != nil {
		if strings.TrimSpace(*input.Brand) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "brand cannot be blank")
		}
		product.Brand = strings.TrimSpace(*input.Brand)
	}
	if input.Model != nil {
		if strings.TrimSpace(*input.Model) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "model cannot be blank")
		}
		product.Model = strings.TrimSpace(*input.Model)
	}
	if input.Price != nil {
		product.Price = input.Price
	}
	if input.Note != nil {
		product.Note = input.Note
	}
	if input.Section != nil {
		if !input.Section.IsValid() {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid section %q", *input.Section)
		}
		product.Section = *input.Section
	}
	if input.Active != nil {
		product.Active = *input.Active
	}

	// Save without the preloaded associations touching variant rows.
	toSave := *product
	toSave.Tire = nil
	toSave.Component = nil
	if _, err := s.repo.SaveProduct(ctx, &toSave); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
	}
	return s.GetProduct(ctx, productID)
}

// GetProduct loads the product with variants preloaded.
func (s *service) GetProduct(ctx context.Context, productID uint) (*ProductDTO, error) {
	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return NewProductDTO(product), nil
}

// ListProducts returns catalog entries, optionally by section or active flag.
func (s *service) ListProducts(ctx context.Context, input ListProductsInput) ([]ProductDTO, error) {
	if input.Section != nil && !input.Section.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid section %q", *input.Section)
	}
	products, err := s.repo.List(ctx, input.Section, input.Active)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}
	dtos := make([]ProductDTO, 0, len(products))
	for i := range products {
		dtos = append(dtos, *NewProductDTO(&products[i]))
	}
	return dtos, nil
}

// AttachTireVariant attaches tire attributes to the product. Re-attach merges
// into the existing variant; a product with a component variant is rejected.
func (s *service) AttachTireVariant(ctx context.Context, productID uint, input TireVariantInput) (*ProductDTO, error) {
	if input.Season != nil && !input.Season.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid season %q", *input.Season)
	}

	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.Component != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "product already has a component variant")
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		variant := product.Tire
		if variant == nil {
			variant = &models.TireVariant{ProductID: productID}
		}
		mergeTire(variant, input)
		if _, err := txRepo.SaveTire(ctx, variant); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save tire variant")
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return s.GetProduct(ctx, productID)
}

// AttachComponentVariant attaches component attributes to the product.
// Re-attach merges into the existing variant; a product with a tire variant
// is rejected.
func (s *service) AttachComponentVariant(ctx context.Context, productID uint, input ComponentVariantInput) (*ProductDTO, error) {
	if input.Category != nil && !input.Category.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid category %q", *input.Category)
	}

	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.Tire != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "product already has a tire variant")
	}
	if product.Component == nil && input.Category == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		variant := product.Component
		if variant == nil {
			variant = &models.ComponentVariant{ProductID: productID}
		}
		mergeComponent(variant, input)
		if _, err := txRepo.SaveComponent(ctx, variant); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save component variant")
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return s.GetProduct(ctx, productID)
}

// UpdateTireVariant merges attributes into an existing tire variant.
func (s *service) UpdateTireVariant(ctx context.Context, productID uint, input TireVariantInput) (*ProductDTO, error) {
	if input.Season != nil && !input.Season.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid season %q", *input.Season)
	}

	variant, err := s.repo.FindTireByProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "product %d has no tire variant", productID)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load tire variant")
	}

	mergeTire(variant, input)
	if _, err := s.repo.SaveTire(ctx, variant); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save tire variant")
	}
	return s.GetProduct(ctx, productID)
}

// UpdateComponentVariant merges attributes into an existing component variant.
func (s *service) UpdateComponentVariant(ctx context.Context, productID uint, input ComponentVariantInput) (*ProductDTO, error) {
	if input.Category != nil && !input.Category.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid category %q", *input.Category)
	}

	variant, err := s.repo.FindComponentByProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "product %d has no component variant", productID)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load component variant")
	}

	mergeComponent(variant, input)
	if _, err := s.repo.SaveComponent(ctx, variant); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save component variant")
	}
	return s.GetProduct(ctx, productID)
}

func (s *service) loadProduct(ctx context.Context, productID uint) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "product %d not found", productID)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	return product, nil
}

func mergeTire(variant *models.TireVariant, input TireVariantInput) {
	if input.Width != nil {
		variant.Width = input.Width
	}
	if input.Profile != nil {
		variant.Profile = input.Profile
	}
	if input.Diameter != nil {
		variant.Diameter = input.Diameter
	}
	if input.LoadIndex != nil {
		variant.LoadIndex = input.LoadIndex
	}
	if input.Spikes != nil {
		variant.Spikes = input.Spikes
	}
	if input.Year != nil {
		variant.Year = input.Year
	}
	if input.Country != nil {
		variant.Country = input.Country
	}
	if input.Season != nil {
		variant.Season = input.Season
	}
}

func mergeComponent(variant *models.ComponentVariant, input ComponentVariantInput) {
	if input.Category != nil {
		variant.Category = *input.Category
	}
	if input.Parameters != nil {
		variant.Parameters = input.Parameters
	}
	if input.Compatibility != nil {
		variant.Compatibility = input.Compatibility
	}
	if input.Weight != nil {
		variant.Weight = input.Weight
	}
	if input.Material != nil {
		variant.Material = input.Material
	}
	if input.Color != nil {
		variant.Color = input.Color
	}
}
