package invoices

import "time"

// Invoice is a sale document. Creating one moves inventory out and raises the
// customer's due by the unpaid portion of the grand total.
type Invoice struct {
	ID            int64         `json:"id"`
	InvoiceNo     string        `json:"invoice_no"`
	CustomerID    int64         `json:"customer_id"`
	OrderID       *int64        `json:"order_id,omitempty"`
	InvoiceDate   time.Time     `json:"invoice_date"`
	TotalWeightKg float64       `json:"total_weight_kg"`
	SubTotal      float64       `json:"sub_total"`
	Discount      float64       `json:"discount"`
	GrandTotal    float64       `json:"grand_total"`
	Paid          float64       `json:"paid"`
	Note          *string       `json:"note,omitempty"`
	CreatedBy     int64         `json:"created_by"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	Items         []InvoiceItem `json:"items,omitempty"`
}

type InvoiceItem struct {
	ID          int64   `json:"id"`
	SaleID      int64   `json:"sale_id"`
	ProductID   int64   `json:"product_id"`
	Bundles     int     `json:"bundles"`
	ExtraPieces int     `json:"extra_pieces"`
	TotalPieces int     `json:"total_pieces"`
	WeightKg    float64 `json:"weight_kg"`
	RatePerKg   float64 `json:"rate_per_kg"`
	SubTotal    float64 `json:"sub_total"`
}

type InvoiceWithCustomer struct {
	Invoice
	CustomerName string `json:"customer_name"`
}
