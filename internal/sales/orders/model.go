package orders

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Order is intake only: stock and due move when the order is invoiced, not
// when it is recorded.
type Order struct {
	ID                   int64       `json:"id" db:"id"`
	OrderNo              string      `json:"order_no" db:"order_no"`
	CustomerID           int64       `json:"customer_id" db:"customer_id"`
	OrderDate            time.Time   `json:"order_date" db:"order_date"`
	ExpectedDeliveryDate *time.Time  `json:"expected_delivery_date,omitempty" db:"expected_delivery_date"`
	Status               OrderStatus `json:"status" db:"status"`
	Note                 *string     `json:"note,omitempty" db:"note"`
	CreatedBy            int64       `json:"created_by" db:"created_by"`
	CreatedAt            time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time   `json:"updated_at" db:"updated_at"`
	Items                []OrderItem `json:"items,omitempty" db:"-"`
}

type OrderItem struct {
	ID          int64 `json:"id" db:"id"`
	OrderID     int64 `json:"order_id" db:"order_id"`
	ProductID   int64 `json:"product_id" db:"product_id"`
	Bundles     int   `json:"bundles" db:"bundles"`
	ExtraPieces int   `json:"extra_pieces" db:"extra_pieces"`
	TotalPieces int   `json:"total_pieces" db:"total_pieces"`
}

// OrderWithCustomer is the listing row shape.
type OrderWithCustomer struct {
	Order
	CustomerName string `json:"customer_name" db:"customer_name"`
}
