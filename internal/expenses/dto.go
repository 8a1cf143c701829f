package expenses

import "time"

type CreateExpenseRequest struct {
	Category    string    `json:"category" validate:"required,min=1,max=100"`
	Amount      float64   `json:"amount" validate:"required,gt=0"`
	ExpenseDate time.Time `json:"expense_date" validate:"required"`
	Note        *string   `json:"note,omitempty"`
}

type UpdateExpenseRequest struct {
	Category    *string    `json:"category,omitempty" validate:"omitempty,min=1,max=100"`
	Amount      *float64   `json:"amount,omitempty" validate:"omitempty,gt=0"`
	ExpenseDate *time.Time `json:"expense_date,omitempty"`
	Note        *string    `json:"note,omitempty"`
}

type ListExpensesRequest struct {
	Category *string    `json:"category,omitempty"`
	DateFrom *time.Time `json:"date_from,omitempty"`
	DateTo   *time.Time `json:"date_to,omitempty"`
	Limit    int        `json:"limit" validate:"gte=0,lte=1000"`
	Offset   int        `json:"offset" validate:"gte=0"`
}
