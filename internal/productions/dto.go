package productions

import "time"

type CreateProductionRequest struct {
	ProductID      int64     `json:"product_id" validate:"required,gt=0"`
	Bundles        int       `json:"bundles" validate:"gte=0"`
	ExtraPieces    int       `json:"extra_pieces" validate:"gte=0"`
	ProductionDate time.Time `json:"production_date" validate:"required"`
	Note           *string   `json:"note,omitempty"`
}

type ListProductionsRequest struct {
	ProductID *int64     `json:"product_id,omitempty"`
	DateFrom  *time.Time `json:"date_from,omitempty"`
	DateTo    *time.Time `json:"date_to,omitempty"`
	Limit     int        `json:"limit" validate:"gte=0,lte=1000"`
	Offset    int        `json:"offset" validate:"gte=0"`
}
