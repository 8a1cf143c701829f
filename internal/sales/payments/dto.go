package payments

import "time"

type CreatePaymentRequest struct {
	CustomerID  int64         `json:"customer_id" validate:"required,gt=0"`
	SaleID      *int64        `json:"sale_id,omitempty" validate:"omitempty,gt=0"`
	Amount      float64       `json:"amount" validate:"required,gt=0"`
	Method      PaymentMethod `json:"method" validate:"required,oneof=CASH BANK MOBILE"`
	Reference   *string       `json:"reference,omitempty"`
	PaymentDate time.Time     `json:"payment_date" validate:"required"`
	Note        *string       `json:"note,omitempty"`
}

type ListPaymentsRequest struct {
	CustomerID *int64         `json:"customer_id,omitempty"`
	Method     *PaymentMethod `json:"method,omitempty"`
	Status     *PaymentStatus `json:"status,omitempty"`
	DateFrom   *time.Time     `json:"date_from,omitempty"`
	DateTo     *time.Time     `json:"date_to,omitempty"`
	Limit      int            `json:"limit" validate:"gte=0,lte=1000"`
	Offset     int            `json:"offset" validate:"gte=0"`
}
