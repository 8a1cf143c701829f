package productions

import "time"

// Production records a finished run that adds pieces to a product's stock.
type Production struct {
	ID             int64     `json:"id"`
	ProductionNo   string    `json:"production_no"`
	ProductID      int64     `json:"product_id"`
	Bundles        int       `json:"bundles"`
	ExtraPieces    int       `json:"extra_pieces"`
	TotalPieces    int       `json:"total_pieces"`
	ProductionDate time.Time `json:"production_date"`
	Note           *string   `json:"note,omitempty"`
	CreatedBy      int64     `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type ProductionWithProduct struct {
	Production
	ProductName string `json:"product_name"`
}
