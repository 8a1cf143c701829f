package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/karbar-erp/karbar-erp/internal/masterdata/customers"
	"github.com/karbar-erp/karbar-erp/internal/masterdata/products"
	"github.com/karbar-erp/karbar-erp/internal/platform/httpx"
	salesshared "github.com/karbar-erp/karbar-erp/internal/sales/shared"
)

var ErrInvalidStatus = fmt.Errorf("%w: invalid status transition", httpx.ErrConflict)

type Service struct {
	repo         Repository
	customerRepo customers.Repository
	productRepo  products.Repository
	validate     *validator.Validate
}

func NewService(repo Repository, customerRepo customers.Repository, productRepo products.Repository) *Service {
	return &Service{repo: repo, customerRepo: customerRepo, productRepo: productRepo, validate: validator.New()}
}

func (s *Service) Create(ctx context.Context, req CreateOrderRequest, createdBy int64) (*Order, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	if _, err := s.customerRepo.Get(ctx, req.CustomerID); err != nil {
		return nil, fmt.Errorf("verify customer: %w", err)
	}

	items, err := s.buildItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	var orderID int64
	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		orderNo, err := repo.GenerateNumber(ctx, req.OrderDate)
		if err != nil {
			return fmt.Errorf("generate order no: %w", err)
		}
		id, err := repo.Create(ctx, Order{
			OrderNo:              orderNo,
			CustomerID:           req.CustomerID,
			OrderDate:            req.OrderDate,
			ExpectedDeliveryDate: req.ExpectedDeliveryDate,
			Status:               OrderStatusPending,
			Note:                 req.Note,
			CreatedBy:            createdBy,
		})
		if err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		orderID = id
		for i := range items {
			items[i].OrderID = id
			if _, err := repo.InsertItem(ctx, items[i]); err != nil {
				return fmt.Errorf("insert order item: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, orderID)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateOrderRequest) (*Order, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if existing.Status != OrderStatusPending {
		return nil, fmt.Errorf("%w: only pending orders can be edited", ErrInvalidStatus)
	}

	var items []OrderItem
	if req.Items != nil {
		items, err = s.buildItems(ctx, *req.Items)
		if err != nil {
			return nil, err
		}
	}

	updates := make(map[string]interface{})
	if req.OrderDate != nil {
		updates["order_date"] = *req.OrderDate
	}
	if req.ExpectedDeliveryDate != nil {
		updates["expected_delivery_date"] = *req.ExpectedDeliveryDate
	}
	if req.Note != nil {
		updates["note"] = *req.Note
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if err := repo.UpdateHeader(ctx, id, updates); err != nil {
			return err
		}
		if req.Items != nil {
			if err := repo.DeleteItems(ctx, id); err != nil {
				return err
			}
			for i := range items {
				items[i].OrderID = id
				if _, err := repo.InsertItem(ctx, items[i]); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Confirm(ctx context.Context, id int64) (*Order, error) {
	return s.transition(ctx, id, OrderStatusConfirmed, func(status OrderStatus) bool {
		return status == OrderStatusPending
	})
}

func (s *Service) Deliver(ctx context.Context, id int64) (*Order, error) {
	return s.transition(ctx, id, OrderStatusDelivered, func(status OrderStatus) bool {
		return status == OrderStatusConfirmed
	})
}

func (s *Service) Cancel(ctx context.Context, id int64) (*Order, error) {
	return s.transition(ctx, id, OrderStatusCancelled, func(status OrderStatus) bool {
		return status == OrderStatusPending || status == OrderStatusConfirmed
	})
}

func (s *Service) transition(ctx context.Context, id int64, to OrderStatus, allowed func(OrderStatus) bool) (*Order, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if !allowed(existing.Status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStatus, existing.Status, to)
	}
	if err := s.repo.UpdateStatus(ctx, id, to); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*Order, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListOrdersRequest) ([]OrderWithCustomer, int, error) {
	if req.Limit <= 0 {
		req.Limit = 50
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, req)
}

func (s *Service) buildItems(ctx context.Context, reqs []OrderItemRequest) ([]OrderItem, error) {
	if len(reqs) == 0 {
		return nil, errors.New("order needs at least one item")
	}
	var items []OrderItem
	for _, ir := range reqs {
		product, err := s.productRepo.Get(ctx, ir.ProductID)
		if err != nil {
			return nil, fmt.Errorf("verify product %d: %w", ir.ProductID, err)
		}
		items = append(items, OrderItem{
			ProductID:   ir.ProductID,
			Bundles:     ir.Bundles,
			ExtraPieces: ir.ExtraPieces,
			TotalPieces: salesshared.TotalPieces(ir.Bundles, product.PiecesPerBundle, ir.ExtraPieces),
		})
	}
	return items, nil
}
