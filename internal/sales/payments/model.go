package payments

import "time"

type PaymentMethod string

const (
	MethodCash   PaymentMethod = "CASH"
	MethodBank   PaymentMethod = "BANK"
	MethodMobile PaymentMethod = "MOBILE"
)

type PaymentStatus string

const (
	StatusPending PaymentStatus = "PENDING"
	StatusCleared PaymentStatus = "CLEARED"
)

// Payment records money received against a customer's due balance. The due
// decrement happens when the payment is created, not when it clears.
type Payment struct {
	ID          int64         `json:"id"`
	PaymentNo   string        `json:"payment_no"`
	CustomerID  int64         `json:"customer_id"`
	SaleID      *int64        `json:"sale_id,omitempty"`
	Amount      float64       `json:"amount"`
	Method      PaymentMethod `json:"method"`
	Status      PaymentStatus `json:"status"`
	Reference   *string       `json:"reference,omitempty"`
	PaymentDate time.Time     `json:"payment_date"`
	Note        *string       `json:"note,omitempty"`
	CreatedBy   int64         `json:"created_by"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type PaymentWithCustomer struct {
	Payment
	CustomerName string `json:"customer_name"`
}
