package productions

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/karbar-erp/karbar-erp/internal/masterdata/products"
	"github.com/karbar-erp/karbar-erp/internal/platform/httpx"
	salesshared "github.com/karbar-erp/karbar-erp/internal/sales/shared"
)

var ErrNoPieces = fmt.Errorf("%w: a production run needs at least one piece", httpx.ErrValidation)

type Service struct {
	repo        Repository
	productRepo products.Repository
	validate    *validator.Validate
}

func NewService(repo Repository, productRepo products.Repository) *Service {
	return &Service{repo: repo, productRepo: productRepo, validate: validator.New()}
}

// Create records the run and adds its pieces to the product's stock in one
// transaction.
func (s *Service) Create(ctx context.Context, req CreateProductionRequest, createdBy int64) (*Production, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	product, err := s.productRepo.Get(ctx, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("verify product: %w", err)
	}
	totalPieces := salesshared.TotalPieces(req.Bundles, product.PiecesPerBundle, req.ExtraPieces)
	if totalPieces <= 0 {
		return nil, ErrNoPieces
	}

	var productionID int64
	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		productionNo, err := repo.GenerateNumber(ctx, req.ProductionDate)
		if err != nil {
			return fmt.Errorf("generate production no: %w", err)
		}
		id, err := repo.Create(ctx, Production{
			ProductionNo:   productionNo,
			ProductID:      req.ProductID,
			Bundles:        req.Bundles,
			ExtraPieces:    req.ExtraPieces,
			TotalPieces:    totalPieces,
			ProductionDate: req.ProductionDate,
			Note:           req.Note,
			CreatedBy:      createdBy,
		})
		if err != nil {
			return fmt.Errorf("create production: %w", err)
		}
		productionID = id
		if err := repo.AdjustStock(ctx, req.ProductID, totalPieces); err != nil {
			return fmt.Errorf("adjust stock for product %d: %w", req.ProductID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, productionID)
}

// Delete removes the run and takes its pieces back out of stock.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		existing, err := repo.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("get production: %w", err)
		}
		if err := repo.AdjustStock(ctx, existing.ProductID, -existing.TotalPieces); err != nil {
			return fmt.Errorf("restore stock for product %d: %w", existing.ProductID, err)
		}
		if err := repo.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete production: %w", err)
		}
		return nil
	})
}

func (s *Service) Get(ctx context.Context, id int64) (*Production, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListProductionsRequest) ([]ProductionWithProduct, int, error) {
	if req.Limit <= 0 {
		req.Limit = 50
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, req)
}
