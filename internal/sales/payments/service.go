package payments

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/karbar-erp/karbar-erp/internal/masterdata/customers"
	"github.com/karbar-erp/karbar-erp/internal/platform/httpx"
)

var ErrAlreadyCleared = fmt.Errorf("%w: payment is already cleared", httpx.ErrConflict)

type Service struct {
	repo         Repository
	customerRepo customers.Repository
	validate     *validator.Validate
}

func NewService(repo Repository, customerRepo customers.Repository) *Service {
	return &Service{repo: repo, customerRepo: customerRepo, validate: validator.New()}
}

// Create records the payment and decrements the customer's due by the amount
// in one transaction. Cash clears immediately; bank and mobile payments start
// pending and clear via Confirm.
func (s *Service) Create(ctx context.Context, req CreatePaymentRequest, createdBy int64) (*Payment, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	if _, err := s.customerRepo.Get(ctx, req.CustomerID); err != nil {
		return nil, fmt.Errorf("verify customer: %w", err)
	}

	status := StatusPending
	if req.Method == MethodCash {
		status = StatusCleared
	}

	var paymentID int64
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		paymentNo, err := repo.GenerateNumber(ctx, req.PaymentDate)
		if err != nil {
			return fmt.Errorf("generate payment no: %w", err)
		}
		id, err := repo.Create(ctx, Payment{
			PaymentNo:   paymentNo,
			CustomerID:  req.CustomerID,
			SaleID:      req.SaleID,
			Amount:      req.Amount,
			Method:      req.Method,
			Status:      status,
			Reference:   req.Reference,
			PaymentDate: req.PaymentDate,
			Note:        req.Note,
			CreatedBy:   createdBy,
		})
		if err != nil {
			return fmt.Errorf("create payment: %w", err)
		}
		paymentID = id
		if err := repo.AdjustDue(ctx, req.CustomerID, -req.Amount); err != nil {
			return fmt.Errorf("adjust due for customer %d: %w", req.CustomerID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, paymentID)
}

// Confirm clears a pending bank or mobile payment. The due balance already
// moved at creation, so this only flips the status.
func (s *Service) Confirm(ctx context.Context, id int64) (*Payment, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get payment: %w", err)
	}
	if existing.Status == StatusCleared {
		return nil, ErrAlreadyCleared
	}
	if err := s.repo.UpdateStatus(ctx, id, StatusCleared); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	return s.repo.Get(ctx, id)
}

// Delete removes the payment and puts its amount back on the customer's due.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		existing, err := repo.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("get payment: %w", err)
		}
		if err := repo.AdjustDue(ctx, existing.CustomerID, existing.Amount); err != nil {
			return fmt.Errorf("restore due for customer %d: %w", existing.CustomerID, err)
		}
		if err := repo.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete payment: %w", err)
		}
		return nil
	})
}

func (s *Service) Get(ctx context.Context, id int64) (*Payment, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListPaymentsRequest) ([]PaymentWithCustomer, int, error) {
	if req.Limit <= 0 {
		req.Limit = 50
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, req)
}
