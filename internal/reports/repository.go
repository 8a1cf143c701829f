package reports

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	ReceivableTotal(ctx context.Context) (float64, error)
	StockValuation(ctx context.Context) (float64, error)
	SalesTotalSince(ctx context.Context, since time.Time) (float64, error)
	ReturnsTotalSince(ctx context.Context, since time.Time) (float64, error)
	ExpensesTotalSince(ctx context.Context, since time.Time) (float64, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

// ReceivableTotal sums only positive balances; customers in credit do not
// offset what others owe.
func (r *repository) ReceivableTotal(ctx context.Context) (float64, error) {
	var total float64
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_due), 0) FROM customers WHERE total_due > 0
	`).Scan(&total)
	return total, err
}

func (r *repository) StockValuation(ctx context.Context) (float64, error) {
	var total float64
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(stock_pieces * weight_per_piece_kg * rate_per_kg), 0)
		FROM products WHERE is_active
	`).Scan(&total)
	return total, err
}

func (r *repository) SalesTotalSince(ctx context.Context, since time.Time) (float64, error) {
	var total float64
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(grand_total), 0) FROM sales WHERE invoice_date >= $1
	`, since).Scan(&total)
	return total, err
}

func (r *repository) ReturnsTotalSince(ctx context.Context, since time.Time) (float64, error) {
	var total float64
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(grand_total), 0) FROM sales_returns WHERE return_date >= $1
	`, since).Scan(&total)
	return total, err
}

func (r *repository) ExpensesTotalSince(ctx context.Context, since time.Time) (float64, error) {
	var total float64
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE expense_date >= $1
	`, since).Scan(&total)
	return total, err
}
