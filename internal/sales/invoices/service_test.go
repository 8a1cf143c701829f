package invoices

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karbar-erp/karbar-erp/internal/masterdata/customers"
	"github.com/karbar-erp/karbar-erp/internal/masterdata/products"
)

// mockRepository mimics transaction semantics by snapshotting state before
// WithTx and restoring it when fn fails.
type mockRepository struct {
	invoices   map[int64]*Invoice
	stock      map[int64]int
	due        map[int64]float64
	nextID     int64
	nextItemID int64
	seq        int
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		invoices:   make(map[int64]*Invoice),
		stock:      make(map[int64]int),
		due:        make(map[int64]float64),
		nextID:     1,
		nextItemID: 1,
	}
}

func (m *mockRepository) snapshot() *mockRepository {
	c := newMockRepository()
	c.nextID, c.nextItemID, c.seq = m.nextID, m.nextItemID, m.seq
	for k, v := range m.stock {
		c.stock[k] = v
	}
	for k, v := range m.due {
		c.due[k] = v
	}
	for k, v := range m.invoices {
		inv := *v
		inv.Items = append([]InvoiceItem(nil), v.Items...)
		c.invoices[k] = &inv
	}
	return c
}

func (m *mockRepository) restore(s *mockRepository) {
	m.invoices, m.stock, m.due = s.invoices, s.stock, s.due
	m.nextID, m.nextItemID, m.seq = s.nextID, s.nextItemID, s.seq
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

func (m *mockRepository) AdjustDue(_ context.Context, customerID int64, delta float64) error {
	if _, ok := m.due[customerID]; !ok {
		return ErrNotFound
	}
	m.due[customerID] += delta
	return nil
}

func (m *mockRepository) Get(_ context.Context, id int64) (*Invoice, error) {
	inv, ok := m.invoices[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *inv
	out.Items = append([]InvoiceItem(nil), inv.Items...)
	return &out, nil
}

func (m *mockRepository) List(_ context.Context, _ ListInvoicesRequest) ([]InvoiceWithCustomer, int, error) {
	var out []InvoiceWithCustomer
	for _, inv := range m.invoices {
		out = append(out, InvoiceWithCustomer{Invoice: *inv})
	}
	return out, len(out), nil
}

func (m *mockRepository) Create(_ context.Context, inv Invoice) (int64, error) {
	id := m.nextID
	m.nextID++
	inv.ID = id
	inv.CreatedAt = time.Now()
	inv.UpdatedAt = time.Now()
	m.invoices[id] = &inv
	return id, nil
}

func (m *mockRepository) InsertItem(_ context.Context, item InvoiceItem) (int64, error) {
	inv, ok := m.invoices[item.SaleID]
	if !ok {
		return 0, ErrNotFound
	}
	item.ID = m.nextItemID
	m.nextItemID++
	inv.Items = append(inv.Items, item)
	return item.ID, nil
}

func (m *mockRepository) DeleteItems(_ context.Context, saleID int64) error {
	if inv, ok := m.invoices[saleID]; ok {
		inv.Items = nil
	}
	return nil
}

func (m *mockRepository) Delete(_ context.Context, id int64) error {
	if _, ok := m.invoices[id]; !ok {
		return ErrNotFound
	}
	delete(m.invoices, id)
	return nil
}

func (m *mockRepository) GenerateNumber(_ context.Context, date time.Time) (string, error) {
	m.seq++
	return fmt.Sprintf("INV-%s-%04d", date.Format("200601"), m.seq), nil
}

type mockCustomerRepo struct {
	customers map[int64]*customers.Customer
}

func (m *mockCustomerRepo) WithTx(ctx context.Context, fn func(context.Context, customers.Repository) error) error {
	return fn(ctx, m)
}

func (m *mockCustomerRepo) Get(_ context.Context, id int64) (*customers.Customer, error) {
	c, ok := m.customers[id]
	if !ok {
		return nil, customers.ErrNotFound
	}
	return c, nil
}

func (m *mockCustomerRepo) GetByCode(context.Context, string) (*customers.Customer, error) {
	return nil, customers.ErrNotFound
}

func (m *mockCustomerRepo) List(context.Context, customers.ListCustomersRequest) ([]customers.Customer, int, error) {
	return nil, 0, nil
}

func (m *mockCustomerRepo) Create(context.Context, customers.Customer) (int64, error) {
	return 0, nil
}

func (m *mockCustomerRepo) Update(context.Context, int64, map[string]interface{}) error {
	return nil
}

func (m *mockCustomerRepo) GenerateCode(context.Context) (string, error) {
	return "CUST-0001", nil
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
	repo.due[1] = 2000
	repo.stock[100] = 100

	custRepo := &mockCustomerRepo{customers: map[int64]*customers.Customer{
		1: {ID: 1, Code: "CUST-0001", Name: "Rahim Traders", TotalDue: 2000, IsActive: true},
	}}
	prodRepo := &mockProductRepo{products: map[int64]*products.Product{
		100: {ID: 100, Code: "PROD-0100", Name: "Kraft Paper 120gsm", PiecesPerBundle: 4, StockPieces: 100, IsActive: true},
	}}

	return &fixture{service: NewService(repo, custRepo, prodRepo), repo: repo}
}

func createRequest() CreateInvoiceRequest {
	// 6 bundles of 4 plus 1 loose = 25 pieces, 70kg at 70/kg = 4900
	return CreateInvoiceRequest{
		CustomerID:  1,
		InvoiceDate: time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC),
		Paid:        900,
		Items: []InvoiceItemRequest{
			{ProductID: 100, Bundles: 6, ExtraPieces: 1, WeightKg: 70, RatePerKg: 70},
		},
	}
}

func TestCreateMovesStockAndDue(t *testing.T) {
	f := newFixture()

	inv, err := f.service.Create(context.Background(), createRequest(), 7)
	require.NoError(t, err)

	assert.Equal(t, "INV-202604-0001", inv.InvoiceNo)
	require.Len(t, inv.Items, 1)
	assert.Equal(t, 25, inv.Items[0].TotalPieces)
	assert.Equal(t, 4900.0, inv.GrandTotal)

	assert.Equal(t, 75, f.repo.stock[100])
	// due rises by grand total minus what was paid up front
	assert.Equal(t, 6000.0, f.repo.due[1])
}

func TestCreatePaidInFullLeavesDueUntouched(t *testing.T) {
	f := newFixture()

	req := createRequest()
	req.Paid = 4900

	_, err := f.service.Create(context.Background(), req, 7)
	require.NoError(t, err)
	assert.Equal(t, 2000.0, f.repo.due[1])
	assert.Equal(t, 75, f.repo.stock[100])
}

func TestCreateRejectsPaidOverTotal(t *testing.T) {
	f := newFixture()

	req := createRequest()
	req.Paid = 5000

	_, err := f.service.Create(context.Background(), req, 7)
	require.ErrorIs(t, err, ErrPaidOverTotal)
	assert.Empty(t, f.repo.invoices)
}

func TestCreateRejectsDiscountAboveSubTotal(t *testing.T) {
	f := newFixture()

	req := createRequest()
	req.Paid = 0
	req.Discount = 99999

	_, err := f.service.Create(context.Background(), req, 7)
	require.ErrorIs(t, err, ErrNegativeTotal)
}

func TestCreateUnknownProductFails(t *testing.T) {
	f := newFixture()

	req := createRequest()
	req.Items[0].ProductID = 404

	_, err := f.service.Create(context.Background(), req, 7)
	require.Error(t, err)
	assert.Empty(t, f.repo.invoices)
}

func TestCreateRollsBackWhenCounterMissing(t *testing.T) {
	f := newFixture()
	delete(f.repo.stock, 100)

	_, err := f.service.Create(context.Background(), createRequest(), 7)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, f.repo.invoices)
	assert.Equal(t, 2000.0, f.repo.due[1])
}

func TestDeleteReversesEffects(t *testing.T) {
	f := newFixture()

	inv, err := f.service.Create(context.Background(), createRequest(), 7)
	require.NoError(t, err)
	require.Equal(t, 75, f.repo.stock[100])
	require.Equal(t, 6000.0, f.repo.due[1])

	require.NoError(t, f.service.Delete(context.Background(), inv.ID))

	assert.Equal(t, 100, f.repo.stock[100])
	assert.Equal(t, 2000.0, f.repo.due[1])
	_, err = f.service.Get(context.Background(), inv.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteUnknownInvoiceFails(t *testing.T) {
	f := newFixture()
	require.ErrorIs(t, f.service.Delete(context.Background(), 42), ErrNotFound)
}
