package controllers

import (
	"net/http"
	"strings"

	"github.com/treadstock/treadstock-backend/api/responses"
	"github.com/treadstock/treadstock-backend/api/validators"
	inventorysvc "github.com/treadstock/treadstock-backend/internal/inventory"
	"github.com/treadstock/treadstock-backend/pkg/enums"
	pkgerrors "github.com/treadstock/treadstock-backend/pkg/errors"
	"github.com/treadstock/treadstock-backend/pkg/logger"
	"github.com/treadstock/treadstock-backend/pkg/pagination"
)

// ListInventory serves the joined stock view. Column filters arrive as
// filter[field]=value query parameters; sort defaults to ascending and flips
// with order=desc.
func ListInventory(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		input, err := buildInventoryInput(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func buildInventoryInput(r *http.Request) (inventorysvc.ListInput, error) {
	query := r.URL.Query()
	input := inventorysvc.ListInput{
		Query:     validators.SanitizeString(query.Get("q"), 200),
		SortField: strings.TrimSpace(query.Get("sort")),
	}

	if raw := strings.TrimSpace(query.Get("kind")); raw != "" {
		kind, err := enums.ParseLocationKind(raw)
		if err != nil {
			return inventorysvc.ListInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid location kind")
		}
		input.LocationKind = &kind
	}

	if raw := strings.TrimSpace(query.Get("section")); raw != "" {
		section, err := enums.ParseSection(raw)
		if err != nil {
			return inventorysvc.ListInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid section")
		}
		input.Section = &section
	}

	if raw := strings.TrimSpace(query.Get("variant_kind")); raw != "" {
		switch inventorysvc.VariantKind(raw) {
		case inventorysvc.VariantTire, inventorysvc.VariantComponent:
			kind := inventorysvc.VariantKind(raw)
			input.VariantKind = &kind
		default:
			return inventorysvc.ListInput{}, pkgerrors.New(pkgerrors.CodeValidation, "variant_kind must be tire or component")
		}
	}

	switch order := strings.TrimSpace(query.Get("order")); order {
	case "", "asc":
	case "desc":
		input.SortDesc = true
	default:
		return inventorysvc.ListInput{}, pkgerrors.New(pkgerrors.CodeValidation, "order must be asc or desc")
	}

	filters := map[string]string{}
	for key, values := range query {
		if !strings.HasPrefix(key, "filter[") || !strings.HasSuffix(key, "]") {
			continue
		}
		field := key[len("filter[") : len(key)-1]
		if field == "" || len(values) == 0 {
			continue
		}
		filters[field] = values[0]
	}
	if len(filters) > 0 {
		input.ColumnFilters = filters
	}

	page, err := validators.ParseQueryInt(r, "page", 1, 1, 1<<20)
	if err != nil {
		return inventorysvc.ListInput{}, err
	}
	size, err := validators.ParseQueryInt(r, "page_size", pagination.DefaultPageSize, 1, pagination.MaxPageSize)
	if err != nil {
		return inventorysvc.ListInput{}, err
	}
	input.Page = page
	input.PageSize = size

	return input, nil
}
