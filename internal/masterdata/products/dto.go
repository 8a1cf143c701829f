package products

type CreateProductRequest struct {
	Name             string  `json:"name" validate:"required,max=200"`
	Category         *string `json:"category,omitempty" validate:"omitempty,max=100"`
	PiecesPerBundle  int     `json:"pieces_per_bundle" validate:"required,gt=0"`
	WeightPerPieceKg float64 `json:"weight_per_piece_kg" validate:"gte=0"`
	RatePerKg        float64 `json:"rate_per_kg" validate:"gte=0"`
	OpeningStock     int     `json:"opening_stock" validate:"gte=0"`
}

type UpdateProductRequest struct {
	Name             *string  `json:"name,omitempty" validate:"omitempty,max=200"`
	Category         *string  `json:"category,omitempty" validate:"omitempty,max=100"`
	PiecesPerBundle  *int     `json:"pieces_per_bundle,omitempty" validate:"omitempty,gt=0"`
	WeightPerPieceKg *float64 `json:"weight_per_piece_kg,omitempty" validate:"omitempty,gte=0"`
	RatePerKg        *float64 `json:"rate_per_kg,omitempty" validate:"omitempty,gte=0"`
	IsActive         *bool    `json:"is_active,omitempty"`
}

type ListProductsRequest struct {
	Search   *string `json:"search,omitempty"`
	Category *string `json:"category,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
	Limit    int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset   int     `json:"offset" validate:"gte=0"`
}
