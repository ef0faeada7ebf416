package orders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/treadstock/treadstock-backend/pkg/db/models"
)

// OrderDTO is the order payload returned to clients.
type OrderDTO struct {
	ID            uint           `json:"id"`
	CustomerName  string         `json:"customer_name"`
	CustomerPhone *string        `json:"customer_phone,omitempty"`
	Service       string         `json:"service"`
	Status        string         `json:"status"`
	Lines         []OrderLineDTO `json:"lines"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// OrderLineDTO is one product position with its frozen price.
type OrderLineDTO struct {
	ID        uint             `json:"id"`
	ProductID uint             `json:"product_id"`
	Brand     string           `json:"brand,omitempty"`
	Model     string           `json:"model,omitempty"`
	Quantity  int              `json:"quantity"`
	Price     *decimal.Decimal `json:"price,omitempty"`
}

// NewOrderDTO builds a DTO from the persisted model.
func NewOrderDTO(order *models.Order) *OrderDTO {
	dto := &OrderDTO{
		ID:            order.ID,
		CustomerName:  order.CustomerName,
		CustomerPhone: order.CustomerPhone,
		Service:       order.Service.String(),
		Status:        order.Status.String(),
		Lines:         make([]OrderLineDTO, 0, len(order.Lines)),
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
	for _, line := range order.Lines {
		lineDTO := OrderLineDTO{
			ID:        line.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     line.Price,
		}
		if line.Product != nil {
			lineDTO.Brand = line.Product.Brand
			lineDTO.Model = line.Product.Model
		}
		dto.Lines = append(dto.Lines, lineDTO)
	}
	return dto
}
