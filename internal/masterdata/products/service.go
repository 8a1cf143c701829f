package products

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

func (s *Service) Create(ctx context.Context, req CreateProductRequest) (*Product, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	var productID int64
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		code, err := repo.GenerateCode(ctx)
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		id, err := repo.Create(ctx, Product{
			Code:             code,
			Name:             req.Name,
			Category:         req.Category,
			PiecesPerBundle:  req.PiecesPerBundle,
			WeightPerPieceKg: req.WeightPerPieceKg,
			RatePerKg:        req.RatePerKg,
			OpeningStock:     req.OpeningStock,
		})
		if err != nil {
			return fmt.Errorf("create product: %w", err)
		}
		productID = id
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, productID)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateProductRequest) (*Product, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.PiecesPerBundle != nil {
		updates["pieces_per_bundle"] = *req.PiecesPerBundle
	}
	if req.WeightPerPieceKg != nil {
		updates["weight_per_piece_kg"] = *req.WeightPerPieceKg
	}
	if req.RatePerKg != nil {
		updates["rate_per_kg"] = *req.RatePerKg
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*Product, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListProductsRequest) ([]Product, int, error) {
	if req.Limit <= 0 {
		req.Limit = 50
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, req)
}
