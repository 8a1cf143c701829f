package expenses

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	expenses map[int64]*Expense
	nextID   int64
	seq      int
}

func newMockRepository() *mockRepository {
	return &mockRepository{expenses: make(map[int64]*Expense), nextID: 1}
}

func (m *mockRepository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return fn(ctx, m)
}

func (m *mockRepository) Get(_ context.Context, id int64) (*Expense, error) {
	e, ok := m.expenses[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *e
	return &out, nil
}

func (m *mockRepository) List(_ context.Context, _ ListExpensesRequest) ([]Expense, int, error) {
	var out []Expense
	for _, e := range m.expenses {
		out = append(out, *e)
	}
	return out, len(out), nil
}

func (m *mockRepository) Create(_ context.Context, e Expense) (int64, error) {
	id := m.nextID
	m.nextID++
	e.ID = id
	e.CreatedAt = time.Now()
	e.UpdatedAt = time.Now()
	m.expenses[id] = &e
	return id, nil
}

func (m *mockRepository) Update(_ context.Context, id int64, updates map[string]interface{}) error {
	e, ok := m.expenses[id]
	if !ok {
		return ErrNotFound
	}
	for col, val := range updates {
		switch col {
		case "category":
			e.Category = val.(string)
		case "amount":
			e.Amount = val.(float64)
		case "expense_date":
			e.ExpenseDate = val.(time.Time)
		case "note":
			e.Note = val.(*string)
		}
	}
	return nil
}

func (m *mockRepository) Delete(_ context.Context, id int64) error {
	if _, ok := m.expenses[id]; !ok {
		return ErrNotFound
	}
	delete(m.expenses, id)
	return nil
}

func (m *mockRepository) GenerateNumber(_ context.Context, date time.Time) (string, error) {
	m.seq++
	return fmt.Sprintf("EXP-%s-%04d", date.Format("200601"), m.seq), nil
}

func createRequest() CreateExpenseRequest {
	return CreateExpenseRequest{
		Category:    "transport",
		Amount:      1200,
		ExpenseDate: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateAssignsNumber(t *testing.T) {
	svc := NewService(newMockRepository())

	e, err := svc.Create(context.Background(), createRequest(), 7)
	require.NoError(t, err)

	assert.Equal(t, "EXP-202603-0001", e.ExpenseNo)
	assert.Equal(t, 1200.0, e.Amount)
	assert.Equal(t, int64(7), e.RecordedBy)
}

func TestCreateRejectsZeroAmount(t *testing.T) {
	svc := NewService(newMockRepository())

	req := createRequest()
	req.Amount = 0

	_, err := svc.Create(context.Background(), req, 7)
	require.Error(t, err)
}

func TestUpdateChangesAmountOnly(t *testing.T) {
	svc := NewService(newMockRepository())

	e, err := svc.Create(context.Background(), createRequest(), 7)
	require.NoError(t, err)

	amount := 1500.0
	updated, err := svc.Update(context.Background(), e.ID, UpdateExpenseRequest{Amount: &amount})
	require.NoError(t, err)

	assert.Equal(t, 1500.0, updated.Amount)
	assert.Equal(t, "transport", updated.Category)
}

func TestDeleteUnknownExpenseFails(t *testing.T) {
	svc := NewService(newMockRepository())
	require.ErrorIs(t, svc.Delete(context.Background(), 42), ErrNotFound)
}
