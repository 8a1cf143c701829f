package customers

import "time"

// Customer is a buyer with a running due balance. TotalDue is denormalized
// bookkeeping state: it moves only through counter adjustments made by the
// sales, payment and return flows, never through direct writes from the API.
type Customer struct {
	ID        int64     `json:"id" db:"id"`
	Code      string    `json:"code" db:"code"`
	Name      string    `json:"name" db:"name"`
	Phone     *string   `json:"phone,omitempty" db:"phone"`
	Address   *string   `json:"address,omitempty" db:"address"`
	TotalDue  float64   `json:"total_due" db:"total_due"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
