package enums

import "fmt"

// OrderStatus is the lifecycle state of an order or storage contract.
type OrderStatus string

const (
	OrderStatusDraft     OrderStatus = "draft"
	OrderStatusProcessed OrderStatus = "processed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusDraft,
	OrderStatusProcessed,
	OrderStatusCancelled,
}

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderStatus.
func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}

// OrderService distinguishes a sale from a storage contract. Sales end at a
// terminal status; storage contracts may be reinstated back to draft.
type OrderService string

const (
	OrderServiceSale    OrderService = "sale"
	OrderServiceStorage OrderService = "storage"
)

var validOrderServices = []OrderService{
	OrderServiceSale,
	OrderServiceStorage,
}

// String implements fmt.Stringer.
func (s OrderService) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderService.
func (s OrderService) IsValid() bool {
	for _, candidate := range validOrderServices {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseOrderService converts raw input into an OrderService.
func ParseOrderService(value string) (OrderService, error) {
	for _, candidate := range validOrderServices {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order service %q", value)
}
