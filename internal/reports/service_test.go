package reports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	receivable float64
	stockValue float64
	sales      float64
	returns    float64
	expenses   float64
	salesErr   error
	since      time.Time
}

func (m *mockRepo) ReceivableTotal(context.Context) (float64, error) {
	return m.receivable, nil
}

func (m *mockRepo) StockValuation(context.Context) (float64, error) {
	return m.stockValue, nil
}

func (m *mockRepo) SalesTotalSince(_ context.Context, since time.Time) (float64, error) {
	m.since = since
	return m.sales, m.salesErr
}

func (m *mockRepo) ReturnsTotalSince(context.Context, time.Time) (float64, error) {
	return m.returns, nil
}

func (m *mockRepo) ExpensesTotalSince(context.Context, time.Time) (float64, error) {
	return m.expenses, nil
}

func TestDashboardAggregates(t *testing.T) {
	repo := &mockRepo{
		receivable: 15100.5,
		stockValue: 98000,
		sales:      4900,
		returns:    1200,
		expenses:   750.25,
	}
	svc := NewService(repo)

	now := time.Date(2026, 8, 14, 10, 0, 0, 0, time.UTC)
	d, err := svc.Dashboard(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, 15100.5, d.ReceivableTotal)
	assert.Equal(t, 4900.0, d.MonthSalesTotal)
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), repo.since)

	assert.Equal(t, "15,100.50", d.Display.ReceivableTotal)
	assert.Equal(t, "98,000.00", d.Display.StockValuation)
	assert.Equal(t, "750.25", d.Display.MonthExpensesTotal)
}

func TestDashboardPropagatesQueryError(t *testing.T) {
	repo := &mockRepo{salesErr: errors.New("connection reset")}
	svc := NewService(repo)

	_, err := svc.Dashboard(context.Background(), time.Now())
	require.Error(t, err)
}
