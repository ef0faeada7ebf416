package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/treadstock/treadstock-backend/api/responses"
	"github.com/treadstock/treadstock-backend/api/validators"
	ledgersvc "github.com/treadstock/treadstock-backend/internal/ledger"
	"github.com/treadstock/treadstock-backend/pkg/enums"
	pkgerrors "github.com/treadstock/treadstock-backend/pkg/errors"
	"github.com/treadstock/treadstock-backend/pkg/logger"
)

// PlaceStock adds quantity at a location address, creating the placement row
// when the address tuple is new.
func PlaceStock(svc ledgersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		var payload placeStockRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		placement, err := svc.Place(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if placement == nil {
			// Zero quantity is a no-op, not an error.
			responses.WriteSuccess(w, nil)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, placement)
	}
}

// AdjustPlacement sets the absolute quantity of one placement row.
func AdjustPlacement(svc ledgersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		placementID, err := validators.ParseQueryUint(chi.URLParam(r, "placementID"), "placementID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload adjustPlacementRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		placement, err := svc.AdjustQuantity(r.Context(), placementID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, placement)
	}
}

// ListPlacements returns all placement rows of one product, largest first.
func ListPlacements(svc ledgersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		productID, err := validators.ParseQueryUint(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		kind, err := optionalLocationKind(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		placements, err := svc.ListByProduct(r.Context(), productID, kind)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, placements)
	}
}

// ProductStockTotal sums a product's quantity across placements.
func ProductStockTotal(svc ledgersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		productID, err := validators.ParseQueryUint(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		kind, err := optionalLocationKind(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		total, err := svc.TotalQuantity(r.Context(), productID, kind)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]int{"total": total})
	}
}

type placeStockRequest struct {
	ProductID    uint   `json:"product_id" validate:"required"`
	LocationKind string `json:"location_kind" validate:"required"`
	Rack         string `json:"rack" validate:"required"`
	Shelf        string `json:"shelf" validate:"required"`
	Cell         string `json:"cell" validate:"required"`
	Quantity     int    `json:"quantity" validate:"min=0"`
}

func (r placeStockRequest) toInput() (ledgersvc.PlaceInput, error) {
	kind, err := enums.ParseLocationKind(strings.TrimSpace(r.LocationKind))
	if err != nil {
		return ledgersvc.PlaceInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid location kind")
	}
	return ledgersvc.PlaceInput{
		ProductID:    r.ProductID,
		LocationKind: kind,
		Rack:         validators.SanitizeString(r.Rack, 60),
		Shelf:        validators.SanitizeString(r.Shelf, 60),
		Cell:         validators.SanitizeString(r.Cell, 60),
		Quantity:     r.Quantity,
	}, nil
}

type adjustPlacementRequest struct {
	Quantity int `json:"quantity" validate:"min=0"`
}

func optionalLocationKind(r *http.Request) (*enums.LocationKind, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("kind"))
	if raw == "" {
		return nil, nil
	}
	kind, err := enums.ParseLocationKind(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid location kind")
	}
	return &kind, nil
}
