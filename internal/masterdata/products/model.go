package products

import "time"

// Product is a catalog item counted in pieces. Goods move in bundles of
// PiecesPerBundle plus loose extra pieces; StockPieces is the denormalized
// on-hand count mutated only by the sales, return and production flows.
type Product struct {
	ID               int64     `json:"id" db:"id"`
	Code             string    `json:"code" db:"code"`
	Name             string    `json:"name" db:"name"`
	Category         *string   `json:"category,omitempty" db:"category"`
	PiecesPerBundle  int       `json:"pieces_per_bundle" db:"pieces_per_bundle"`
	WeightPerPieceKg float64   `json:"weight_per_piece_kg" db:"weight_per_piece_kg"`
	RatePerKg        float64   `json:"rate_per_kg" db:"rate_per_kg"`
	OpeningStock     int       `json:"opening_stock" db:"opening_stock"`
	StockPieces      int       `json:"stock_pieces" db:"stock_pieces"`
	IsActive         bool      `json:"is_active" db:"is_active"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}
