package orders

import "time"

type OrderItemRequest struct {
	ProductID   int64 `json:"product_id" validate:"required,gt=0"`
	Bundles     int   `json:"bundles" validate:"gte=0"`
	ExtraPieces int   `json:"extra_pieces" validate:"gte=0"`
}

type CreateOrderRequest struct {
	CustomerID           int64              `json:"customer_id" validate:"required,gt=0"`
	OrderDate            time.Time          `json:"order_date" validate:"required"`
	ExpectedDeliveryDate *time.Time         `json:"expected_delivery_date,omitempty"`
	Note                 *string            `json:"note,omitempty"`
	Items                []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateOrderRequest replaces the item set; only pending orders may change.
type UpdateOrderRequest struct {
	OrderDate            *time.Time          `json:"order_date,omitempty"`
	ExpectedDeliveryDate *time.Time          `json:"expected_delivery_date,omitempty"`
	Note                 *string             `json:"note,omitempty"`
	Items                *[]OrderItemRequest `json:"items,omitempty" validate:"omitempty,min=1,dive"`
}

type ListOrdersRequest struct {
	CustomerID *int64       `json:"customer_id,omitempty"`
	Status     *OrderStatus `json:"status,omitempty"`
	DateFrom   *time.Time   `json:"date_from,omitempty"`
	DateTo     *time.Time   `json:"date_to,omitempty"`
	Search     *string      `json:"search,omitempty"`
	Limit      int          `json:"limit" validate:"gte=0,lte=1000"`
	Offset     int          `json:"offset" validate:"gte=0"`
}
