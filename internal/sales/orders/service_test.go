package orders

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

type mockRepository struct {
	orders     map[int64]*Order
	nextID     int64
	nextItemID int64
	seq        int
}

func newMockRepository() *mockRepository {
	return &mockRepository{orders: make(map[int64]*Order), nextID: 1, nextItemID: 1}
}

func (m *mockRepository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return fn(ctx, m)
}

func (m *mockRepository) Get(_ context.Context, id int64) (*Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *o
	out.Items = append([]OrderItem(nil), o.Items...)
	return &out, nil
}

func (m *mockRepository) List(_ context.Context, _ ListOrdersRequest) ([]OrderWithCustomer, int, error) {
	var out []OrderWithCustomer
	for _, o := range m.orders {
		out = append(out, OrderWithCustomer{Order: *o})
	}
	return out, len(out), nil
}

func (m *mockRepository) Create(_ context.Context, o Order) (int64, error) {
	id := m.nextID
	m.nextID++
	o.ID = id
	o.CreatedAt = time.Now()
	o.UpdatedAt = time.Now()
	m.orders[id] = &o
	return id, nil
}

func (m *mockRepository) UpdateHeader(_ context.Context, id int64, updates map[string]interface{}) error {
	o, ok := m.orders[id]
	if !ok {
		return ErrNotFound
	}
	for col, val := range updates {
		switch col {
		case "order_date":
			o.OrderDate = val.(time.Time)
		case "expected_delivery_date":
			o.ExpectedDeliveryDate = val.(*time.Time)
		case "note":
			o.Note = val.(*string)
		}
	}
	return nil
}

func (m *mockRepository) UpdateStatus(_ context.Context, id int64, status OrderStatus) error {
	o, ok := m.orders[id]
	if !ok {
		return ErrNotFound
	}
	o.Status = status
	return nil
}

func (m *mockRepository) InsertItem(_ context.Context, item OrderItem) (int64, error) {
	o, ok := m.orders[item.OrderID]
	if !ok {
		return 0, ErrNotFound
	}
	item.ID = m.nextItemID
	m.nextItemID++
	o.Items = append(o.Items, item)
	return item.ID, nil
}

func (m *mockRepository) DeleteItems(_ context.Context, orderID int64) error {
	if o, ok := m.orders[orderID]; ok {
		o.Items = nil
	}
	return nil
}

func (m *mockRepository) GenerateNumber(_ context.Context, date time.Time) (string, error) {
	m.seq++
	return fmt.Sprintf("SO-%s-%04d", date.Format("200601"), m.seq), nil
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

func newService() (*Service, *mockRepository) {
	repo := newMockRepository()
	custRepo := &mockCustomerRepo{customers: map[int64]*customers.Customer{
		1: {ID: 1, Code: "CUST-0001", Name: "Rahim Traders", IsActive: true},
	}}
	prodRepo := &mockProductRepo{products: map[int64]*products.Product{
		100: {ID: 100, Code: "PROD-0100", Name: "Kraft Paper 120gsm", PiecesPerBundle: 4, IsActive: true},
	}}
	return NewService(repo, custRepo, prodRepo), repo
}

func createRequest() CreateOrderRequest {
	return CreateOrderRequest{
		CustomerID: 1,
		OrderDate:  time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		Items: []OrderItemRequest{
			{ProductID: 100, Bundles: 6, ExtraPieces: 1},
		},
	}
}

func TestCreateStartsPending(t *testing.T) {
	svc, _ := newService()

	order, err := svc.Create(context.Background(), createRequest(), 7)
	require.NoError(t, err)

	assert.Equal(t, "SO-202607-0001", order.OrderNo)
	assert.Equal(t, OrderStatusPending, order.Status)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 25, order.Items[0].TotalPieces)
}

func TestCreateUnknownCustomerFails(t *testing.T) {
	svc, repo := newService()

	req := createRequest()
	req.CustomerID = 404

	_, err := svc.Create(context.Background(), req, 7)
	require.Error(t, err)
	assert.Empty(t, repo.orders)
}

func TestConfirmThenDeliver(t *testing.T) {
	svc, _ := newService()

	order, err := svc.Create(context.Background(), createRequest(), 7)
	require.NoError(t, err)

	confirmed, err := svc.Confirm(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, OrderStatusConfirmed, confirmed.Status)

	delivered, err := svc.Deliver(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, OrderStatusDelivered, delivered.Status)
}

func TestDeliverPendingFails(t *testing.T) {
	svc, _ := newService()

	order, err := svc.Create(context.Background(), createRequest(), 7)
	require.NoError(t, err)

	_, err = svc.Deliver(context.Background(), order.ID)
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestCancelDeliveredFails(t *testing.T) {
	svc, _ := newService()

	order, err := svc.Create(context.Background(), createRequest(), 7)
	require.NoError(t, err)
	_, err = svc.Confirm(context.Background(), order.ID)
	require.NoError(t, err)
	_, err = svc.Deliver(context.Background(), order.ID)
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), order.ID)
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestCancelConfirmedSucceeds(t *testing.T) {
	svc, _ := newService()

	order, err := svc.Create(context.Background(), createRequest(), 7)
	require.NoError(t, err)
	_, err = svc.Confirm(context.Background(), order.ID)
	require.NoError(t, err)

	cancelled, err := svc.Cancel(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, OrderStatusCancelled, cancelled.Status)
}

func TestUpdateReplacesItemsWhilePending(t *testing.T) {
	svc, _ := newService()

	order, err := svc.Create(context.Background(), createRequest(), 7)
	require.NoError(t, err)

	items := []OrderItemRequest{{ProductID: 100, Bundles: 2, ExtraPieces: 2}}
	updated, err := svc.Update(context.Background(), order.ID, UpdateOrderRequest{Items: &items})
	require.NoError(t, err)

	require.Len(t, updated.Items, 1)
	assert.Equal(t, 10, updated.Items[0].TotalPieces)
}

func TestUpdateConfirmedFails(t *testing.T) {
	svc, _ := newService()

	order, err := svc.Create(context.Background(), createRequest(), 7)
	require.NoError(t, err)
	_, err = svc.Confirm(context.Background(), order.ID)
	require.NoError(t, err)

	items := []OrderItemRequest{{ProductID: 100, Bundles: 1}}
	_, err = svc.Update(context.Background(), order.ID, UpdateOrderRequest{Items: &items})
	require.ErrorIs(t, err, ErrInvalidStatus)
}
