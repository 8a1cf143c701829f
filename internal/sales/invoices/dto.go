package invoices

import "time"

type InvoiceItemRequest struct {
	ProductID   int64   `json:"product_id" validate:"required,gt=0"`
	Bundles     int     `json:"bundles" validate:"gte=0"`
	ExtraPieces int     `json:"extra_pieces" validate:"gte=0"`
	WeightKg    float64 `json:"weight_kg" validate:"gte=0"`
	RatePerKg   float64 `json:"rate_per_kg" validate:"gte=0"`
}

type CreateInvoiceRequest struct {
	CustomerID  int64                `json:"customer_id" validate:"required,gt=0"`
	OrderID     *int64               `json:"order_id,omitempty" validate:"omitempty,gt=0"`
	InvoiceDate time.Time            `json:"invoice_date" validate:"required"`
	Discount    float64              `json:"discount" validate:"gte=0"`
	Paid        float64              `json:"paid" validate:"gte=0"`
	Note        *string              `json:"note,omitempty"`
	Items       []InvoiceItemRequest `json:"items" validate:"required,min=1,dive"`
}

type ListInvoicesRequest struct {
	CustomerID *int64     `json:"customer_id,omitempty"`
	DateFrom   *time.Time `json:"date_from,omitempty"`
	DateTo     *time.Time `json:"date_to,omitempty"`
	Search     *string    `json:"search,omitempty"`
	Limit      int        `json:"limit" validate:"gte=0,lte=1000"`
	Offset     int        `json:"offset" validate:"gte=0"`
}
