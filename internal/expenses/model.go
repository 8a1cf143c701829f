package expenses

import "time"

type Expense struct {
	ID          int64     `json:"id"`
	ExpenseNo   string    `json:"expense_no"`
	Category    string    `json:"category"`
	Amount      float64   `json:"amount"`
	ExpenseDate time.Time `json:"expense_date"`
	Note        *string   `json:"note,omitempty"`
	RecordedBy  int64     `json:"recorded_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
