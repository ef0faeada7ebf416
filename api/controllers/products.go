package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/treadstock/treadstock-backend/api/responses"
	"github.com/treadstock/treadstock-backend/api/validators"
	catalogsvc "github.com/treadstock/treadstock-backend/internal/catalog"
	"github.com/treadstock/treadstock-backend/pkg/enums"
	pkgerrors "github.com/treadstock/treadstock-backend/pkg/errors"
	"github.com/treadstock/treadstock-backend/pkg/logger"
)

// CreateProduct handles catalog product creation.
func CreateProduct(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toCreateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// UpdateProduct patches mutable product fields.
func UpdateProduct(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := validators.ParseQueryUint(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toUpdateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// GetProduct returns one product with its variant attributes.
func GetProduct(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := validators.ParseQueryUint(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// ListProducts returns the catalog, optionally narrowed by section and
// active flag.
func ListProducts(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var input catalogsvc.ListProductsInput

		if raw := strings.TrimSpace(r.URL.Query().Get("section")); raw != "" {
			section, err := enums.ParseSection(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid section"))
				return
			}
			input.Section = &section
		}

		active, err := validators.ParseQueryBool(r, "active")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.Active = active

		products, err := svc.ListProducts(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, products)
	}
}

// AttachTireVariant attaches or merges tire attributes on a product.
func AttachTireVariant(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return variantHandler(svc, logg, func(r *http.Request, productID uint, payload tireVariantRequest) (*catalogsvc.ProductDTO, error) {
		input, err := payload.toInput()
		if err != nil {
			return nil, err
		}
		return svc.AttachTireVariant(r.Context(), productID, input)
	})
}

// UpdateTireVariant updates an existing tire variant.
func UpdateTireVariant(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return variantHandler(svc, logg, func(r *http.Request, productID uint, payload tireVariantRequest) (*catalogsvc.ProductDTO, error) {
		input, err := payload.toInput()
		if err != nil {
			return nil, err
		}
		return svc.UpdateTireVariant(r.Context(), productID, input)
	})
}

// AttachComponentVariant attaches or merges component attributes on a product.
func AttachComponentVariant(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return componentVariantHandler(svc, logg, func(r *http.Request, productID uint, input catalogsvc.ComponentVariantInput) (*catalogsvc.ProductDTO, error) {
		return svc.AttachComponentVariant(r.Context(), productID, input)
	})
}

// UpdateComponentVariant updates an existing component variant.
func UpdateComponentVariant(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return componentVariantHandler(svc, logg, func(r *http.Request, productID uint, input catalogsvc.ComponentVariantInput) (*catalogsvc.ProductDTO, error) {
		return svc.UpdateComponentVariant(r.Context(), productID, input)
	})
}

func variantHandler(
	svc catalogsvc.Service,
	logg *logger.Logger,
	call func(*http.Request, uint, tireVariantRequest) (*catalogsvc.ProductDTO, error),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := validators.ParseQueryUint(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload tireVariantRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := call(r, productID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

func componentVariantHandler(
	svc catalogsvc.Service,
	logg *logger.Logger,
	call func(*http.Request, uint, catalogsvc.ComponentVariantInput) (*catalogsvc.ProductDTO, error),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := validators.ParseQueryUint(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload componentVariantRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := call(r, productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

type createProductRequest struct {
	Brand   string  `json:"brand" validate:"required"`
	Model   string  `json:"model" validate:"required"`
	Price   *string `json:"price,omitempty"`
	Note    *string `json:"note,omitempty"`
	Section string  `json:"section" validate:"required"`
}

func (r createProductRequest) toCreateInput() (catalogsvc.CreateProductInput, error) {
	section, err := enums.ParseSection(strings.TrimSpace(r.Section))
	if err != nil {
		return catalogsvc.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid section")
	}

	price, err := parseOptionalPrice(r.Price)
	if err != nil {
		return catalogsvc.CreateProductInput{}, err
	}

	return catalogsvc.CreateProductInput{
		Brand:   validators.SanitizeString(r.Brand, 120),
		Model:   validators.SanitizeString(r.Model, 200),
		Price:   price,
		Note:    r.Note,
		Section: section,
	}, nil
}

type updateProductRequest struct {
	Brand   *string `json:"brand,omitempty"`
	Model   *string `json:"model,omitempty"`
	Price   *string `json:"price,omitempty"`
	Note    *string `json:"note,omitempty"`
	Section *string `json:"section,omitempty"`
	Active  *bool   `json:"active,omitempty"`
}

func (r updateProductRequest) toUpdateInput() (catalogsvc.UpdateProductInput, error) {
	input := catalogsvc.UpdateProductInput{
		Brand:  r.Brand,
		Model:  r.Model,
		Note:   r.Note,
		Active: r.Active,
	}

	price, err := parseOptionalPrice(r.Price)
	if err != nil {
		return catalogsvc.UpdateProductInput{}, err
	}
	input.Price = price

	if r.Section != nil {
		section, err := enums.ParseSection(strings.TrimSpace(*r.Section))
		if err != nil {
			return catalogsvc.UpdateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid section")
		}
		input.Section = &section
	}

	return input, nil
}

type tireVariantRequest struct {
	Width     *string `json:"width,omitempty"`
	Profile   *string `json:"profile,omitempty"`
	Diameter  *string `json:"diameter,omitempty"`
	LoadIndex *string `json:"load_index,omitempty"`
	Spikes    *string `json:"spikes,omitempty"`
	Year      *int    `json:"year,omitempty"`
	Country   *string `json:"country,omitempty"`
	Season    *string `json:"season,omitempty"`
}

func (r tireVariantRequest) toInput() (catalogsvc.TireVariantInput, error) {
	input := catalogsvc.TireVariantInput{
		Width:     r.Width,
		Profile:   r.Profile,
		Diameter:  r.Diameter,
		LoadIndex: r.LoadIndex,
		Spikes:    r.Spikes,
		Year:      r.Year,
		Country:   r.Country,
	}

	if r.Season != nil {
		season, err := enums.ParseSeason(strings.TrimSpace(*r.Season))
		if err != nil {
			return catalogsvc.TireVariantInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid season")
		}
		input.Season = &season
	}

	return input, nil
}

type componentVariantRequest struct {
	Category      *string  `json:"category,omitempty"`
	Parameters    *string  `json:"parameters,omitempty"`
	Compatibility *string  `json:"compatibility,omitempty"`
	Weight        *float64 `json:"weight,omitempty"`
	Material      *string  `json:"material,omitempty"`
	Color         *string  `json:"color,omitempty"`
}

func (r componentVariantRequest) toInput() (catalogsvc.ComponentVariantInput, error) {
	input := catalogsvc.ComponentVariantInput{
		Parameters:    r.Parameters,
		Compatibility: r.Compatibility,
		Weight:        r.Weight,
		Material:      r.Material,
		Color:         r.Color,
	}

	if r.Category != nil {
		category, err := enums.ParseComponentCategory(strings.TrimSpace(*r.Category))
		if err != nil {
			return catalogsvc.ComponentVariantInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category")
		}
		input.Category = &category
	}

	return input, nil
}

func parseOptionalPrice(raw *string) (*decimal.Decimal, error) {
	if raw == nil {
		return nil, nil
	}
	price, err := decimal.NewFromString(strings.TrimSpace(*raw))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price")
	}
	if price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	return &price, nil
}
