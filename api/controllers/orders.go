package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/treadstock/treadstock-backend/api/responses"
	"github.com/treadstock/treadstock-backend/api/validators"
	ordersvc "github.com/treadstock/treadstock-backend/internal/orders"
	"github.com/treadstock/treadstock-backend/pkg/enums"
	pkgerrors "github.com/treadstock/treadstock-backend/pkg/errors"
	"github.com/treadstock/treadstock-backend/pkg/logger"
)

// CreateOrder opens a draft order and freezes each line's price.
func CreateOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		var payload createOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// UpdateOrder edits a draft order's customer fields and line set.
func UpdateOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		orderID, err := validators.ParseQueryUint(chi.URLParam(r, "orderID"), "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Update(r.Context(), orderID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

// GetOrder returns one order with its lines.
func GetOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		orderID, err := validators.ParseQueryUint(chi.URLParam(r, "orderID"), "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

// ListOrders returns orders newest first, optionally narrowed by customer,
// status and line-product text.
func ListOrders(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		filter := ordersvc.ListFilter{
			Customer: validators.SanitizeString(r.URL.Query().Get("customer"), 200),
			Query:    validators.SanitizeString(r.URL.Query().Get("q"), 200),
		}

		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseOrderStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			filter.Status = &status
		}

		orders, err := svc.List(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, orders)
	}
}

// TransitionOrder moves an order to the target status, applying the
// associated stock movement.
func TransitionOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		orderID, err := validators.ParseQueryUint(chi.URLParam(r, "orderID"), "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload transitionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		target, err := enums.ParseOrderStatus(strings.TrimSpace(payload.Target))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid target status"))
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithOrderID(ctx, orderID)
		}

		order, err := svc.Transition(ctx, orderID, target)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

type createOrderRequest struct {
	CustomerName  string             `json:"customer_name" validate:"required"`
	CustomerPhone *string            `json:"customer_phone,omitempty"`
	Service       string             `json:"service" validate:"required"`
	Lines         []orderLineRequest `json:"lines" validate:"required,min=1,dive"`
}

type orderLineRequest struct {
	ProductID uint    `json:"product_id" validate:"required"`
	Quantity  int     `json:"quantity" validate:"required,gt=0"`
	Price     *string `json:"price,omitempty"`
}

func (r createOrderRequest) toInput() (ordersvc.CreateInput, error) {
	service, err := enums.ParseOrderService(strings.TrimSpace(r.Service))
	if err != nil {
		return ordersvc.CreateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid service")
	}

	lines, err := toLineInputs(r.Lines)
	if err != nil {
		return ordersvc.CreateInput{}, err
	}

	return ordersvc.CreateInput{
		CustomerName:  validators.SanitizeString(r.CustomerName, 200),
		CustomerPhone: r.CustomerPhone,
		Service:       service,
		Lines:         lines,
	}, nil
}

type updateOrderRequest struct {
	CustomerName  *string             `json:"customer_name,omitempty"`
	CustomerPhone *string             `json:"customer_phone,omitempty"`
	Lines         *[]orderLineRequest `json:"lines,omitempty" validate:"omitempty,min=1,dive"`
}

func (r updateOrderRequest) toInput() (ordersvc.UpdateInput, error) {
	input := ordersvc.UpdateInput{
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
	}

	if r.Lines != nil {
		lines, err := toLineInputs(*r.Lines)
		if err != nil {
			return ordersvc.UpdateInput{}, err
		}
		input.Lines = &lines
	}

	return input, nil
}

type transitionRequest struct {
	Target string `json:"target" validate:"required"`
}

func toLineInputs(lines []orderLineRequest) ([]ordersvc.LineInput, error) {
	result := make([]ordersvc.LineInput, 0, len(lines))
	for _, line := range lines {
		price, err := parseOptionalPrice(line.Price)
		if err != nil {
			return nil, err
		}
		result = append(result, ordersvc.LineInput{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     price,
		})
	}
	return result, nil
}
