package productions

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karbar-erp/karbar-erp/internal/masterdata/products"
)

type mockRepository struct {
	productions map[int64]*Production
	stock       map[int64]int
	nextID      int64
	seq         int
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		productions: make(map[int64]*Production),
		stock:       make(map[int64]int),
		nextID:      1,
	}
}

func (m *mockRepository) snapshot() *mockRepository {
	c := newMockRepository()
	c.nextID, c.seq = m.nextID, m.seq
	for k, v := range m.stock {
		c.stock[k] = v
	}
	for k, v := range m.productions {
		p := *v
		c.productions[k] = &p
	}
	return c
}

func (m *mockRepository) restore(s *mockRepository) {
	m.productions, m.stock = s.productions, s.stock
	m.nextID, m.seq = s.nextID, s.seq
}

func (m *mockRepository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	saved := m.snapshot()
	if err := fn(ctx, m); err != nil {
		m.restore(saved)
		return err
	}
	return nil
}

func (m *mockRepository) AdjustStock(_ context.Context, productID int64, delta int) error {
	if _, ok := m.stock[productID]; !ok {
		return ErrNotFound
	}
	m.stock[productID] += delta
	return nil
}

func (m *mockRepository) Get(_ context.Context, id int64) (*Production, error) {
	p, ok := m.productions[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *p
	return &out, nil
}

func (m *mockRepository) List(_ context.Context, _ ListProductionsRequest) ([]ProductionWithProduct, int, error) {
	var out []ProductionWithProduct
	for _, p := range m.productions {
		out = append(out, ProductionWithProduct{Production: *p})
	}
	return out, len(out), nil
}

func (m *mockRepository) Create(_ context.Context, p Production) (int64, error) {
	id := m.nextID
	m.nextID++
	p.ID = id
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
	m.productions[id] = &p
	return id, nil
}

func (m *mockRepository) Delete(_ context.Context, id int64) error {
	if _, ok := m.productions[id]; !ok {
		return ErrNotFound
	}
	delete(m.productions, id)
	return nil
}

func (m *mockRepository) GenerateNumber(_ context.Context, date time.Time) (string, error) {
	m.seq++
	return fmt.Sprintf("PRD-%s-%04d", date.Format("200601"), m.seq), nil
}

type mockProductRepo struct {
	products map[int64]*products.Product
}

func (m *mockProductRepo) WithTx(ctx context.Context, fn func(context.Context, products.Repository) error) error {
	return fn(ctx, m)
}

func (m *mockProductRepo) Get(_ context.Context, id int64) (*products.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, products.ErrNotFound
	}
	return p, nil
}

func (m *mockProductRepo) GetByCode(context.Context, string) (*products.Product, error) {
	return nil, products.ErrNotFound
}

func (m *mockProductRepo) List(context.Context, products.ListProductsRequest) ([]products.Product, int, error) {
	return nil, 0, nil
}

func (m *mockProductRepo) Create(context.Context, products.Product) (int64, error) {
	return 0, nil
}

func (m *mockProductRepo) Update(context.Context, int64, map[string]interface{}) error {
	return nil
}

func (m *mockProductRepo) GenerateCode(context.Context) (string, error) {
	return "PROD-0001", nil
}

type fixture struct {
	service *Service
	repo    *mockRepository
}

func newFixture() *fixture {
	repo := newMockRepository()
	repo.stock[100] = 40

	prodRepo := &mockProductRepo{products: map[int64]*products.Product{
		100: {ID: 100, Code: "PROD-0100", Name: "Kraft Paper 120gsm", PiecesPerBundle: 4, StockPieces: 40, IsActive: true},
	}}
	return &fixture{service: NewService(repo, prodRepo), repo: repo}
}

func createRequest() CreateProductionRequest {
	return CreateProductionRequest{
		ProductID:      100,
		Bundles:        6,
		ExtraPieces:    1,
		ProductionDate: time.Date(2026, 6, 9, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateAddsToStock(t *testing.T) {
	f := newFixture()

	p, err := f.service.Create(context.Background(), createRequest(), 7)
	require.NoError(t, err)

	assert.Equal(t, "PRD-202606-0001", p.ProductionNo)
	assert.Equal(t, 25, p.TotalPieces)
	assert.Equal(t, 65, f.repo.stock[100])
}

func TestCreateRejectsZeroPieces(t *testing.T) {
	f := newFixture()

	req := createRequest()
	req.Bundles = 0
	req.ExtraPieces = 0

	_, err := f.service.Create(context.Background(), req, 7)
	require.ErrorIs(t, err, ErrNoPieces)
	assert.Equal(t, 40, f.repo.stock[100])
}

func TestCreateUnknownProductFails(t *testing.T) {
	f := newFixture()

	req := createRequest()
	req.ProductID = 404

	_, err := f.service.Create(context.Background(), req, 7)
	require.Error(t, err)
	assert.Empty(t, f.repo.productions)
}

func TestCreateRollsBackWhenCounterMissing(t *testing.T) {
	f := newFixture()
	delete(f.repo.stock, 100)

	_, err := f.service.Create(context.Background(), createRequest(), 7)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, f.repo.productions)
}

func TestDeleteRemovesFromStock(t *testing.T) {
	f := newFixture()

	p, err := f.service.Create(context.Background(), createRequest(), 7)
	require.NoError(t, err)
	require.Equal(t, 65, f.repo.stock[100])

	require.NoError(t, f.service.Delete(context.Background(), p.ID))
	assert.Equal(t, 40, f.repo.stock[100])
	_, err = f.service.Get(context.Background(), p.ID)
	require.ErrorIs(t, err, ErrNotFound)
}
