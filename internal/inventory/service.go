package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/treadstock/treadstock-backend/internal/ledger"
	"github.com/treadstock/treadstock-backend/pkg/db/models"
	"github.com/treadstock/treadstock-backend/pkg/enums"
	pkgerrors "github.com/treadstock/treadstock-backend/pkg/errors"
	"github.com/treadstock/treadstock-backend/pkg/pagination"
)

// Service exposes the derived inventory view. The view is recomputed from the
// placement ledger on every call; there is no cache layer to invalidate.
type Service interface {
	List(ctx context.Context, input ListInput) (*ListResult, error)
}

// ListInput narrows, orders and pages the inventory view.
type ListInput struct {
	LocationKind  *enums.LocationKind
	Section       *enums.Section
	VariantKind   *VariantKind
	Query         string
	ColumnFilters map[string]string
	SortField     string
	SortDesc      bool
	Page          int
	PageSize      int
}

// service implements the inventory service on top of the ledger repository.
type service struct {
	placements *ledger.Repository
}

// NewService constructs an inventory service instance.
func NewService(placements *ledger.Repository) (Service, error) {
	if placements == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	return &service{placements: placements}, nil
}

// List builds the joined view, applies filters, sorts and pages it.
func (s *service) List(ctx context.Context, input ListInput) (*ListResult, error) {
	if input.LocationKind != nil && !input.LocationKind.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid location kind %q", *input.LocationKind)
	}
	if input.Section != nil && !input.Section.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid section %q", *input.Section)
	}
	if input.VariantKind != nil && *input.VariantKind != VariantTire && *input.VariantKind != VariantComponent {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid variant kind %q", *input.VariantKind)
	}

	var sortAcc *accessor
	if input.SortField != "" {
		acc, known := fieldAccessors[input.SortField]
		if !known {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "unknown sort field %q", input.SortField)
		}
		sortAcc = &acc
	}

	rows, err := s.placements.ListByKind(ctx, input.LocationKind)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list placements")
	}

	filtered := make([]*models.Placement, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		if !s.matches(row, input) {
			continue
		}
		filtered = append(filtered, row)
	}

	if sortAcc != nil {
		sort.SliceStable(filtered, func(i, j int) bool {
			return less(*sortAcc, filtered[i], filtered[j], input.SortDesc)
		})
	}

	params := pagination.Params{Page: input.Page, PageSize: input.PageSize}.Normalize()
	page := pagination.Slice(filtered, params)

	items := make([]ItemDTO, 0, len(page))
	for _, row := range page {
		items = append(items, newItemDTO(row))
	}

	return &ListResult{
		Items:      items,
		Total:      len(filtered),
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: params.TotalPages(len(filtered)),
	}, nil
}

func (s *service) matches(row *models.Placement, input ListInput) bool {
	product := row.Product

	if input.Section != nil {
		if product == nil || product.Section != *input.Section {
			return false
		}
	}

	if input.VariantKind != nil {
		switch *input.VariantKind {
		case VariantTire:
			if product == nil || product.Tire == nil {
				return false
			}
		case VariantComponent:
			if product == nil || product.Component == nil {
				return false
			}
		}
	}

	if query := strings.TrimSpace(input.Query); query != "" {
		needle := strings.ToLower(query)
		hay := strings.ToLower(row.Address())
		if product != nil {
			hay += " " + strings.ToLower(product.Brand) + " " + strings.ToLower(product.Model)
		}
		if !strings.Contains(hay, needle) {
			return false
		}
	}

	for field, needle := range input.ColumnFilters {
		if strings.TrimSpace(needle) == "" {
			continue
		}
		if !matchesFilter(row, field, needle) {
			return false
		}
	}
	return true
}
