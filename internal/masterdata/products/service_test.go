package products

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	products map[int64]*Product
	nextID   int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{products: make(map[int64]*Product), nextID: 1}
}

func (m *mockRepository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return fn(ctx, m)
}

func (m *mockRepository) Get(_ context.Context, id int64) (*Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *p
	return &out, nil
}

func (m *mockRepository) GetByCode(_ context.Context, code string) (*Product, error) {
	for _, p := range m.products {
		if p.Code == code {
			out := *p
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepository) List(_ context.Context, _ ListProductsRequest) ([]Product, int, error) {
	var out []Product
	for _, p := range m.products {
		out = append(out, *p)
	}
	return out, len(out), nil
}

func (m *mockRepository) Create(_ context.Context, p Product) (int64, error) {
	id := m.nextID
	m.nextID++
	p.ID = id
	// opening stock seeds the on-hand counter, as the insert does
	p.StockPieces = p.OpeningStock
	p.IsActive = true
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
	m.products[id] = &p
	return id, nil
}

func (m *mockRepository) Update(_ context.Context, id int64, updates map[string]interface{}) error {
	p, ok := m.products[id]
	if !ok {
		return ErrNotFound
	}
	for col, val := range updates {
		switch col {
		case "name":
			p.Name = val.(string)
		case "rate_per_kg":
			p.RatePerKg = val.(float64)
		case "is_active":
			p.IsActive = val.(bool)
		}
	}
	return nil
}

func (m *mockRepository) GenerateCode(_ context.Context) (string, error) {
	return fmt.Sprintf("PROD-%04d", len(m.products)+1), nil
}

func createRequest() CreateProductRequest {
	return CreateProductRequest{
		Name:             "Kraft Paper 120gsm",
		PiecesPerBundle:  4,
		WeightPerPieceKg: 2.8,
		RatePerKg:        70,
		OpeningStock:     100,
	}
}

func TestCreateSeedsStockFromOpening(t *testing.T) {
	svc := NewService(newMockRepository())

	p, err := svc.Create(context.Background(), createRequest())
	require.NoError(t, err)

	assert.Equal(t, "PROD-0001", p.Code)
	assert.Equal(t, 100, p.OpeningStock)
	assert.Equal(t, 100, p.StockPieces)
	assert.True(t, p.IsActive)
}

func TestCreateGeneratesSequentialCodes(t *testing.T) {
	svc := NewService(newMockRepository())

	first, err := svc.Create(context.Background(), createRequest())
	require.NoError(t, err)

	req := createRequest()
	req.Name = "Kraft Paper 80gsm"
	second, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "PROD-0001", first.Code)
	assert.Equal(t, "PROD-0002", second.Code)
}

func TestCreateRejectsMissingBundleSize(t *testing.T) {
	svc := NewService(newMockRepository())

	req := createRequest()
	req.PiecesPerBundle = 0

	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
}

func TestUpdateChangesRateOnly(t *testing.T) {
	svc := NewService(newMockRepository())

	p, err := svc.Create(context.Background(), createRequest())
	require.NoError(t, err)

	rate := 85.0
	updated, err := svc.Update(context.Background(), p.ID, UpdateProductRequest{RatePerKg: &rate})
	require.NoError(t, err)

	assert.Equal(t, 85.0, updated.RatePerKg)
	assert.Equal(t, p.Name, updated.Name)
	assert.Equal(t, 100, updated.StockPieces)
}

func TestUpdateUnknownProductFails(t *testing.T) {
	svc := NewService(newMockRepository())

	name := "x"
	_, err := svc.Update(context.Background(), 42, UpdateProductRequest{Name: &name})
	require.ErrorIs(t, err, ErrNotFound)
}
