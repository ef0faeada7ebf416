package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/treadstock/treadstock-backend/api/responses"
	"github.com/treadstock/treadstock-backend/api/validators"
	stocktakesvc "github.com/treadstock/treadstock-backend/internal/stocktake"
	"github.com/treadstock/treadstock-backend/pkg/enums"
	pkgerrors "github.com/treadstock/treadstock-backend/pkg/errors"
	"github.com/treadstock/treadstock-backend/pkg/logger"
)

// ReconcileStocktake compares physical counts against the ledger and returns
// the bucketed report without mutating anything.
func ReconcileStocktake(svc stocktakesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stocktake service unavailable"))
			return
		}

		var payload reconcileRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		report, err := svc.Reconcile(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, report)
	}
}

// ApplyStocktake writes the mismatched counts from a reconciliation report
// back to the ledger.
func ApplyStocktake(svc stocktakesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stocktake service unavailable"))
			return
		}

		var report stocktakesvc.Report
		if err := validators.DecodeJSONBody(r, &report); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Apply(r.Context(), &report)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

type reconcileRequest struct {
	LocationKind *string        `json:"location_kind,omitempty"`
	Counted      map[string]int `json:"counted" validate:"required"`
}

func (r reconcileRequest) toInput() (stocktakesvc.Input, error) {
	input := stocktakesvc.Input{Counted: make(map[uint]int, len(r.Counted))}

	if r.LocationKind != nil {
		kind, err := enums.ParseLocationKind(strings.TrimSpace(*r.LocationKind))
		if err != nil {
			return stocktakesvc.Input{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid location kind")
		}
		input.LocationKind = &kind
	}

	// JSON object keys are strings, so placement ids arrive as strings.
	for raw, count := range r.Counted {
		id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
		if err != nil || id == 0 {
			return stocktakesvc.Input{}, pkgerrors.New(pkgerrors.CodeValidation, "counted keys must be positive placement ids").WithDetails(map[string]any{"key": raw})
		}
		input.Counted[uint(id)] = count
	}

	return input, nil
}
