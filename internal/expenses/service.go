package expenses

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
)

type Service struct {
	repo     Repository
	validate *validator.Validate
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

func (s *Service) Create(ctx context.Context, req CreateExpenseRequest, recordedBy int64) (*Expense, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	var expenseID int64
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		expenseNo, err := repo.GenerateNumber(ctx, req.ExpenseDate)
		if err != nil {
			return fmt.Errorf("generate expense no: %w", err)
		}
		id, err := repo.Create(ctx, Expense{
			ExpenseNo:   expenseNo,
			Category:    req.Category,
			Amount:      req.Amount,
			ExpenseDate: req.ExpenseDate,
			Note:        req.Note,
			RecordedBy:  recordedBy,
		})
		if err != nil {
			return fmt.Errorf("create expense: %w", err)
		}
		expenseID = id
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, expenseID)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateExpenseRequest) (*Expense, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Amount != nil {
		updates["amount"] = *req.Amount
	}
	if req.ExpenseDate != nil {
		updates["expense_date"] = *req.ExpenseDate
	}
	if req.Note != nil {
		updates["note"] = *req.Note
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("update expense: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*Expense, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListExpensesRequest) ([]Expense, int, error) {
	if req.Limit <= 0 {
		req.Limit = 50
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, req)
}
