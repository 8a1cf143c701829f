package payments

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karbar-erp/karbar-erp/internal/masterdata/customers"
)

type mockRepository struct {
	payments map[int64]*Payment
	due      map[int64]float64
	nextID   int64
	seq      int
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		payments: make(map[int64]*Payment),
		due:      make(map[int64]float64),
		nextID:   1,
	}
}

func (m *mockRepository) snapshot() *mockRepository {
	c := newMockRepository()
	c.nextID, c.seq = m.nextID, m.seq
	for k, v := range m.due {
		c.due[k] = v
	}
	for k, v := range m.payments {
		p := *v
		c.payments[k] = &p
	}
	return c
}

func (m *mockRepository) restore(s *mockRepository) {
	m.payments, m.due = s.payments, s.due
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

func (m *mockRepository) AdjustDue(_ context.Context, customerID int64, delta float64) error {
	if _, ok := m.due[customerID]; !ok {
		return ErrNotFound
	}
	m.due[customerID] += delta
	return nil
}

func (m *mockRepository) Get(_ context.Context, id int64) (*Payment, error) {
	p, ok := m.payments[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *p
	return &out, nil
}

func (m *mockRepository) List(_ context.Context, _ ListPaymentsRequest) ([]PaymentWithCustomer, int, error) {
	var out []PaymentWithCustomer
	for _, p := range m.payments {
		out = append(out, PaymentWithCustomer{Payment: *p})
	}
	return out, len(out), nil
}

func (m *mockRepository) Create(_ context.Context, p Payment) (int64, error) {
	id := m.nextID
	m.nextID++
	p.ID = id
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
	m.payments[id] = &p
	return id, nil
}

func (m *mockRepository) UpdateStatus(_ context.Context, id int64, status PaymentStatus) error {
	p, ok := m.payments[id]
	if !ok {
		return ErrNotFound
	}
	p.Status = status
	return nil
}

func (m *mockRepository) Delete(_ context.Context, id int64) error {
	if _, ok := m.payments[id]; !ok {
		return ErrNotFound
	}
	delete(m.payments, id)
	return nil
}

func (m *mockRepository) GenerateNumber(_ context.Context, date time.Time) (string, error) {
	m.seq++
	return fmt.Sprintf("PAY-%s-%04d", date.Format("200601"), m.seq), nil
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

type fixture struct {
	service *Service
	repo    *mockRepository
}

func newFixture() *fixture {
	repo := newMockRepository()
	repo.due[1] = 8000

	custRepo := &mockCustomerRepo{customers: map[int64]*customers.Customer{
		1: {ID: 1, Code: "CUST-0001", Name: "Rahim Traders", TotalDue: 8000, IsActive: true},
	}}
	return &fixture{service: NewService(repo, custRepo), repo: repo}
}

func createRequest(method PaymentMethod) CreatePaymentRequest {
	return CreatePaymentRequest{
		CustomerID:  1,
		Amount:      3000,
		Method:      method,
		PaymentDate: time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateCashClearsImmediately(t *testing.T) {
	f := newFixture()

	p, err := f.service.Create(context.Background(), createRequest(MethodCash), 7)
	require.NoError(t, err)

	assert.Equal(t, "PAY-202605-0001", p.PaymentNo)
	assert.Equal(t, StatusCleared, p.Status)
	assert.Equal(t, 5000.0, f.repo.due[1])
}

func TestCreateBankStartsPending(t *testing.T) {
	f := newFixture()

	p, err := f.service.Create(context.Background(), createRequest(MethodBank), 7)
	require.NoError(t, err)

	assert.Equal(t, StatusPending, p.Status)
	// the due still moves at creation, clearing only flips status
	assert.Equal(t, 5000.0, f.repo.due[1])
}

func TestConfirmClearsPendingPayment(t *testing.T) {
	f := newFixture()

	p, err := f.service.Create(context.Background(), createRequest(MethodMobile), 7)
	require.NoError(t, err)

	cleared, err := f.service.Confirm(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCleared, cleared.Status)
	assert.Equal(t, 5000.0, f.repo.due[1])
}

func TestConfirmClearedPaymentFails(t *testing.T) {
	f := newFixture()

	p, err := f.service.Create(context.Background(), createRequest(MethodCash), 7)
	require.NoError(t, err)

	_, err = f.service.Confirm(context.Background(), p.ID)
	require.ErrorIs(t, err, ErrAlreadyCleared)
}

func TestCreateRejectsInvalidMethod(t *testing.T) {
	f := newFixture()

	req := createRequest("CHEQUE")
	_, err := f.service.Create(context.Background(), req, 7)
	require.Error(t, err)
	assert.Equal(t, 8000.0, f.repo.due[1])
}

func TestCreateUnknownCustomerFails(t *testing.T) {
	f := newFixture()

	req := createRequest(MethodCash)
	req.CustomerID = 404

	_, err := f.service.Create(context.Background(), req, 7)
	require.Error(t, err)
	assert.Empty(t, f.repo.payments)
}

func TestCreateRollsBackWhenCounterMissing(t *testing.T) {
	f := newFixture()
	delete(f.repo.due, 1)

	_, err := f.service.Create(context.Background(), createRequest(MethodCash), 7)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, f.repo.payments)
}

func TestDeleteRestoresDue(t *testing.T) {
	f := newFixture()

	p, err := f.service.Create(context.Background(), createRequest(MethodCash), 7)
	require.NoError(t, err)
	require.Equal(t, 5000.0, f.repo.due[1])

	require.NoError(t, f.service.Delete(context.Background(), p.ID))
	assert.Equal(t, 8000.0, f.repo.due[1])
	_, err = f.service.Get(context.Background(), p.ID)
	require.ErrorIs(t, err, ErrNotFound)
}
