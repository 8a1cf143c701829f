package returns

import "time"

// SalesReturn records goods coming back from a customer, or scrap material
// bought back from them when IsScrapPurchase is set. GrandTotal is
// authoritative for the customer due delta; each item's TotalPieces is
// authoritative for the per-product stock delta.
type SalesReturn struct {
	ID              int64             `json:"id" db:"id"`
	ReturnNo        string            `json:"return_no" db:"return_no"`
	CustomerID      int64             `json:"customer_id" db:"customer_id"`
	SaleID          *int64            `json:"sale_id,omitempty" db:"sale_id"`
	ReturnDate      time.Time         `json:"return_date" db:"return_date"`
	IsScrapPurchase bool              `json:"is_scrap_purchase" db:"is_scrap_purchase"`
	TotalWeightKg   float64           `json:"total_weight_kg" db:"total_weight_kg"`
	SubTotal        float64           `json:"sub_total" db:"sub_total"`
	Discount        float64           `json:"discount" db:"discount"`
	GrandTotal      float64           `json:"grand_total" db:"grand_total"`
	Note            *string           `json:"note,omitempty" db:"note"`
	CreatedBy       int64             `json:"created_by" db:"created_by"`
	CreatedAt       time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at" db:"updated_at"`
	Items           []SalesReturnItem `json:"items,omitempty" db:"-"`
}

// SalesReturnItem is one line of a return. A normal return line references a
// product; a scrap line carries a free-text description instead and keeps
// TotalPieces at zero so it never moves inventory.
type SalesReturnItem struct {
	ID            int64   `json:"id" db:"id"`
	SalesReturnID int64   `json:"sales_return_id" db:"sales_return_id"`
	ProductID     *int64  `json:"product_id,omitempty" db:"product_id"`
	Description   *string `json:"description,omitempty" db:"description"`
	Bundles       int     `json:"bundles" db:"bundles"`
	ExtraPieces   int     `json:"extra_pieces" db:"extra_pieces"`
	TotalPieces   int     `json:"total_pieces" db:"total_pieces"`
	WeightKg      float64 `json:"weight_kg" db:"weight_kg"`
	RatePerKg     float64 `json:"rate_per_kg" db:"rate_per_kg"`
	SubTotal      float64 `json:"sub_total" db:"sub_total"`
}

// SalesReturnWithCustomer is the listing row shape.
type SalesReturnWithCustomer struct {
	SalesReturn
	CustomerName string `json:"customer_name" db:"customer_name"`
}
