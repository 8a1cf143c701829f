package returns

import "time"

type ReturnItemRequest struct {
	ProductID   *int64  `json:"product_id,omitempty" validate:"omitempty,gt=0"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=300"`
	Bundles     int     `json:"bundles" validate:"gte=0"`
	ExtraPieces int     `json:"extra_pieces" validate:"gte=0"`
	WeightKg    float64 `json:"weight_kg" validate:"gte=0"`
	RatePerKg   float64 `json:"rate_per_kg" validate:"gte=0"`
}

type CreateSalesReturnRequest struct {
	CustomerID      int64               `json:"customer_id" validate:"required,gt=0"`
	SaleID          *int64              `json:"sale_id,omitempty" validate:"omitempty,gt=0"`
	ReturnDate      time.Time           `json:"return_date" validate:"required"`
	IsScrapPurchase bool                `json:"is_scrap_purchase"`
	Discount        float64             `json:"discount" validate:"gte=0"`
	Note            *string             `json:"note,omitempty"`
	Items           []ReturnItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateSalesReturnRequest replaces the whole document: editing a return is
// not incremental item patching, the full item set is submitted again.
type UpdateSalesReturnRequest struct {
	CustomerID      int64               `json:"customer_id" validate:"required,gt=0"`
	SaleID          *int64              `json:"sale_id,omitempty" validate:"omitempty,gt=0"`
	ReturnDate      time.Time           `json:"return_date" validate:"required"`
	IsScrapPurchase bool                `json:"is_scrap_purchase"`
	Discount        float64             `json:"discount" validate:"gte=0"`
	Note            *string             `json:"note,omitempty"`
	Items           []ReturnItemRequest `json:"items" validate:"required,min=1,dive"`
}

type ListSalesReturnsRequest struct {
	CustomerID      *int64     `json:"customer_id,omitempty"`
	IsScrapPurchase *bool      `json:"is_scrap_purchase,omitempty"`
	DateFrom        *time.Time `json:"date_from,omitempty"`
	DateTo          *time.Time `json:"date_to,omitempty"`
	Search          *string    `json:"search,omitempty"`
	Limit           int        `json:"limit" validate:"gte=0,lte=1000"`
	Offset          int        `json:"offset" validate:"gte=0"`
}
