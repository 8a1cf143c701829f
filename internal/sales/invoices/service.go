package invoices

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/karbar-erp/karbar-erp/internal/masterdata/customers"
	"github.com/karbar-erp/karbar-erp/internal/masterdata/products"
	"github.com/karbar-erp/karbar-erp/internal/platform/httpx"
	salesshared "github.com/karbar-erp/karbar-erp/internal/sales/shared"
)

var (
	ErrNoItems       = fmt.Errorf("%w: an invoice needs at least one item", httpx.ErrValidation)
	ErrNegativeTotal = fmt.Errorf("%w: grand total cannot be negative", httpx.ErrValidation)
	ErrPaidOverTotal = fmt.Errorf("%w: paid amount cannot exceed the grand total", httpx.ErrValidation)
)

type Service struct {
	repo         Repository
	customerRepo customers.Repository
	productRepo  products.Repository
	validate     *validator.Validate
}

func NewService(repo Repository, customerRepo customers.Repository, productRepo products.Repository) *Service {
	return &Service{repo: repo, customerRepo: customerRepo, productRepo: productRepo, validate: validator.New()}
}

// Create persists the invoice with its items and applies its counter effect in
// one transaction: each line takes its pieces out of stock and the unpaid
// portion of the grand total lands on the customer's due.
func (s *Service) Create(ctx context.Context, req CreateInvoiceRequest, createdBy int64) (*Invoice, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	if _, err := s.customerRepo.Get(ctx, req.CustomerID); err != nil {
		return nil, fmt.Errorf("verify customer: %w", err)
	}

	items, totalWeight, subTotal, err := s.buildItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}
	grandTotal := salesshared.GrandTotal(subTotal, req.Discount)
	if grandTotal < 0 {
		return nil, ErrNegativeTotal
	}
	if req.Paid > grandTotal {
		return nil, ErrPaidOverTotal
	}

	var invoiceID int64
	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		invoiceNo, err := repo.GenerateNumber(ctx, req.InvoiceDate)
		if err != nil {
			return fmt.Errorf("generate invoice no: %w", err)
		}
		id, err := repo.Create(ctx, Invoice{
			InvoiceNo:     invoiceNo,
			CustomerID:    req.CustomerID,
			OrderID:       req.OrderID,
			InvoiceDate:   req.InvoiceDate,
			TotalWeightKg: totalWeight,
			SubTotal:      subTotal,
			Discount:      req.Discount,
			GrandTotal:    grandTotal,
			Paid:          req.Paid,
			Note:          req.Note,
			CreatedBy:     createdBy,
		})
		if err != nil {
			return fmt.Errorf("create invoice: %w", err)
		}
		invoiceID = id

		for i := range items {
			items[i].SaleID = id
			if _, err := repo.InsertItem(ctx, items[i]); err != nil {
				return fmt.Errorf("insert invoice item: %w", err)
			}
			if items[i].TotalPieces != 0 {
				if err := repo.AdjustStock(ctx, items[i].ProductID, -items[i].TotalPieces); err != nil {
					return fmt.Errorf("adjust stock for product %d: %w", items[i].ProductID, err)
				}
			}
		}

		if due := grandTotal - req.Paid; due != 0 {
			if err := repo.AdjustDue(ctx, req.CustomerID, due); err != nil {
				return fmt.Errorf("adjust due for customer %d: %w", req.CustomerID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, invoiceID)
}

// Delete reverses the invoice's counter effect and removes the document and
// its items in one transaction.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		existing, err := repo.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("get invoice: %w", err)
		}
		for _, it := range existing.Items {
			if it.TotalPieces != 0 {
				if err := repo.AdjustStock(ctx, it.ProductID, it.TotalPieces); err != nil {
					return fmt.Errorf("restore stock for product %d: %w", it.ProductID, err)
				}
			}
		}
		if due := existing.GrandTotal - existing.Paid; due != 0 {
			if err := repo.AdjustDue(ctx, existing.CustomerID, -due); err != nil {
				return fmt.Errorf("restore due for customer %d: %w", existing.CustomerID, err)
			}
		}
		if err := repo.DeleteItems(ctx, id); err != nil {
			return fmt.Errorf("delete items: %w", err)
		}
		if err := repo.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete invoice: %w", err)
		}
		return nil
	})
}

func (s *Service) Get(ctx context.Context, id int64) (*Invoice, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListInvoicesRequest) ([]InvoiceWithCustomer, int, error) {
	if req.Limit <= 0 {
		req.Limit = 50
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, req)
}

func (s *Service) buildItems(ctx context.Context, reqs []InvoiceItemRequest) ([]InvoiceItem, float64, float64, error) {
	if len(reqs) == 0 {
		return nil, 0, 0, ErrNoItems
	}
	var items []InvoiceItem
	var totalWeight, subTotal float64
	for _, ir := range reqs {
		product, err := s.productRepo.Get(ctx, ir.ProductID)
		if err != nil {
			return nil, 0, 0, fmt.Errorf("verify product %d: %w", ir.ProductID, err)
		}
		item := InvoiceItem{
			ProductID:   ir.ProductID,
			Bundles:     ir.Bundles,
			ExtraPieces: ir.ExtraPieces,
			TotalPieces: salesshared.TotalPieces(ir.Bundles, product.PiecesPerBundle, ir.ExtraPieces),
			WeightKg:    ir.WeightKg,
			RatePerKg:   ir.RatePerKg,
			SubTotal:    salesshared.LineSubTotal(ir.WeightKg, ir.RatePerKg),
		}
		totalWeight += item.WeightKg
		subTotal += item.SubTotal
		items = append(items, item)
	}
	return items, totalWeight, subTotal, nil
}
