package returns

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/karbar-erp/karbar-erp/internal/masterdata/customers"
	"github.com/karbar-erp/karbar-erp/internal/masterdata/products"
	"github.com/karbar-erp/karbar-erp/internal/platform/httpx"
	salesshared "github.com/karbar-erp/karbar-erp/internal/sales/shared"
	"github.com/karbar-erp/karbar-erp/internal/shared"
)

const (
	returnPrefix = "SR"
	scrapPrefix  = "SP"

	idempotencyModule = "sales_returns"
)

type Service struct {
	repo         Repository
	customerRepo customers.Repository
	productRepo  products.Repository
	idempotency  *shared.IdempotencyStore
	validate     *validator.Validate
}

func NewService(repo Repository, customerRepo customers.Repository, productRepo products.Repository, idem *shared.IdempotencyStore) *Service {
	return &Service{
		repo:         repo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		idempotency:  idem,
		validate:     validator.New(),
	}
}

// Create persists a return with its items and applies its counter effect in
// one transaction: either the document, the stock increments and the due
// decrement all commit, or none do.
func (s *Service) Create(ctx context.Context, req CreateSalesReturnRequest, createdBy int64, idemKey string) (*SalesReturn, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	if _, err := s.customerRepo.Get(ctx, req.CustomerID); err != nil {
		return nil, fmt.Errorf("verify customer: %w", err)
	}

	items, totalWeight, subTotal, grandTotal, err := s.buildItems(ctx, req.Items, req.IsScrapPurchase, req.Discount)
	if err != nil {
		return nil, err
	}

	if idemKey != "" && s.idempotency != nil {
		if err := s.idempotency.CheckAndInsert(ctx, idemKey, idempotencyModule); err != nil {
			if errors.Is(err, shared.ErrIdempotencyConflict) {
				return nil, fmt.Errorf("%w: %v", httpx.ErrConflict, err)
			}
			return nil, err
		}
	}

	prefix := returnPrefix
	if req.IsScrapPurchase {
		prefix = scrapPrefix
	}

	var returnID int64
	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		returnNo, err := repo.GenerateNumber(ctx, prefix, req.ReturnDate)
		if err != nil {
			return fmt.Errorf("generate return no: %w", err)
		}

		id, err := repo.Create(ctx, SalesReturn{
			ReturnNo:        returnNo,
			CustomerID:      req.CustomerID,
			SaleID:          req.SaleID,
			ReturnDate:      req.ReturnDate,
			IsScrapPurchase: req.IsScrapPurchase,
			TotalWeightKg:   totalWeight,
			SubTotal:        subTotal,
			Discount:        req.Discount,
			GrandTotal:      grandTotal,
			Note:            req.Note,
			CreatedBy:       createdBy,
		})
		if err != nil {
			return fmt.Errorf("create return: %w", err)
		}
		returnID = id

		effectItems := make([]ItemEffect, 0, len(items))
		for i := range items {
			items[i].SalesReturnID = id
			if _, err := repo.InsertItem(ctx, items[i]); err != nil {
				return fmt.Errorf("insert return item: %w", err)
			}
			effectItems = append(effectItems, ItemEffect{
				ProductID:   items[i].ProductID,
				Description: items[i].Description,
				TotalPieces: items[i].TotalPieces,
			})
		}

		return NewReconciler(repo).Apply(ctx, Effect{
			CustomerID: req.CustomerID,
			Items:      effectItems,
			GrandTotal: grandTotal,
		})
	})
	if err != nil {
		if idemKey != "" && s.idempotency != nil {
			_ = s.idempotency.Delete(ctx, idemKey)
		}
		return nil, err
	}

	return s.repo.Get(ctx, returnID)
}

// Update replaces the whole document. The old effect is fully reversed before
// the new one is applied, inside the same transaction, so no observer ever
// sees only one side.
func (s *Service) Update(ctx context.Context, id int64, req UpdateSalesReturnRequest) (*SalesReturn, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	if _, err := s.customerRepo.Get(ctx, req.CustomerID); err != nil {
		return nil, fmt.Errorf("verify customer: %w", err)
	}

	items, totalWeight, subTotal, grandTotal, err := s.buildItems(ctx, req.Items, req.IsScrapPurchase, req.Discount)
	if err != nil {
		return nil, err
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		existing, err := repo.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("get return: %w", err)
		}

		rec := NewReconciler(repo)
		effectItems := make([]ItemEffect, 0, len(items))
		for i := range items {
			effectItems = append(effectItems, ItemEffect{
				ProductID:   items[i].ProductID,
				Description: items[i].Description,
				TotalPieces: items[i].TotalPieces,
			})
		}
		if err := rec.Replace(ctx, effectOf(existing), Effect{
			CustomerID: req.CustomerID,
			Items:      effectItems,
			GrandTotal: grandTotal,
		}); err != nil {
			return err
		}

		if err := repo.UpdateHeader(ctx, id, map[string]interface{}{
			"customer_id":       req.CustomerID,
			"sale_id":           req.SaleID,
			"return_date":       req.ReturnDate,
			"is_scrap_purchase": req.IsScrapPurchase,
			"total_weight_kg":   totalWeight,
			"sub_total":         subTotal,
			"discount":          req.Discount,
			"grand_total":       grandTotal,
			"note":              req.Note,
		}); err != nil {
			return fmt.Errorf("update return: %w", err)
		}

		if err := repo.DeleteItems(ctx, id); err != nil {
			return fmt.Errorf("delete old items: %w", err)
		}
		for i := range items {
			items[i].SalesReturnID = id
			if _, err := repo.InsertItem(ctx, items[i]); err != nil {
				return fmt.Errorf("insert return item: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.repo.Get(ctx, id)
}

// Delete reverses the return's counter effect and removes the document and
// its items in one transaction.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		existing, err := repo.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("get return: %w", err)
		}
		if err := NewReconciler(repo).Reverse(ctx, effectOf(existing)); err != nil {
			return err
		}
		if err := repo.DeleteItems(ctx, id); err != nil {
			return fmt.Errorf("delete items: %w", err)
		}
		if err := repo.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete return: %w", err)
		}
		return nil
	})
}

func (s *Service) Get(ctx context.Context, id int64) (*SalesReturn, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListSalesReturnsRequest) ([]SalesReturnWithCustomer, int, error) {
	if req.Limit <= 0 {
		req.Limit = 50
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, req)
}

// buildItems resolves products, derives per-line pieces and pricing, and
// totals the document. Scrap-purchase lines keep zero pieces and no product
// reference so they never move inventory.
func (s *Service) buildItems(ctx context.Context, reqs []ReturnItemRequest, isScrap bool, discount float64) ([]SalesReturnItem, float64, float64, float64, error) {
	if len(reqs) == 0 {
		return nil, 0, 0, 0, ErrNoItems
	}

	var items []SalesReturnItem
	var totalWeight, subTotal float64
	for _, ir := range reqs {
		item := SalesReturnItem{
			WeightKg:  ir.WeightKg,
			RatePerKg: ir.RatePerKg,
			SubTotal:  salesshared.LineSubTotal(ir.WeightKg, ir.RatePerKg),
		}
		if isScrap {
			if ir.Description == nil || *ir.Description == "" {
				return nil, 0, 0, 0, ErrItemUnidentified
			}
			item.Description = ir.Description
		} else {
			if ir.ProductID == nil {
				return nil, 0, 0, 0, ErrItemUnidentified
			}
			product, err := s.productRepo.Get(ctx, *ir.ProductID)
			if err != nil {
				return nil, 0, 0, 0, fmt.Errorf("verify product %d: %w", *ir.ProductID, err)
			}
			item.ProductID = ir.ProductID
			item.Description = ir.Description
			item.Bundles = ir.Bundles
			item.ExtraPieces = ir.ExtraPieces
			item.TotalPieces = salesshared.TotalPieces(ir.Bundles, product.PiecesPerBundle, ir.ExtraPieces)
		}
		totalWeight += item.WeightKg
		subTotal += item.SubTotal
		items = append(items, item)
	}

	grandTotal := salesshared.GrandTotal(subTotal, discount)
	if grandTotal < 0 {
		return nil, 0, 0, 0, ErrNegativeTotal
	}
	return items, totalWeight, subTotal, grandTotal, nil
}
