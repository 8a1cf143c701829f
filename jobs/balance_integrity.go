package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/karbar-erp/karbar-erp/internal/shared"
)

// idempotencyRetention bounds how long processed request keys are kept.
const idempotencyRetention = 30 * 24 * time.Hour

// BalanceIntegrityJob rebuilds each customer's due and each product's stock
// from the underlying documents and compares the result with the denormalized
// counters. Drift is logged, never auto-corrected: a mismatch means some flow
// moved a counter outside its transaction and deserves a human look.
type BalanceIntegrityJob struct {
	pool   *pgxpool.Pool
	idem   *shared.IdempotencyStore
	logger *slog.Logger
}

func NewBalanceIntegrityJob(pool *pgxpool.Pool, idem *shared.IdempotencyStore, logger *slog.Logger) *BalanceIntegrityJob {
	return &BalanceIntegrityJob{pool: pool, idem: idem, logger: logger}
}

// Handle processes TaskBalanceIntegrity tasks.
func (j *BalanceIntegrityJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload BalanceIntegrityPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	dueDrift, err := j.scanCustomerDue(ctx)
	if err != nil {
		return err
	}
	stockDrift, err := j.scanProductStock(ctx)
	if err != nil {
		return err
	}

	// nightly housekeeping rides along with the scan
	if err := j.idem.Cleanup(ctx, idempotencyRetention); err != nil {
		j.logger.Warn("idempotency cleanup", slog.Any("error", err))
	}

	j.logger.Info("balance integrity scan finished",
		slog.Time("scheduled_for", payload.ScheduledFor),
		slog.Int("customer_drift", dueDrift),
		slog.Int("product_drift", stockDrift))
	return nil
}

// scanCustomerDue recomputes due per customer as invoiced-unpaid minus
// payments minus returns, and logs rows where the counter disagrees.
func (j *BalanceIntegrityJob) scanCustomerDue(ctx context.Context) (int, error) {
	rows, err := j.pool.Query(ctx, `
		SELECT c.id, c.code, c.total_due,
		       COALESCE(s.amt, 0) - COALESCE(p.amt, 0) - COALESCE(r.amt, 0) AS expected
		FROM customers c
		LEFT JOIN (SELECT customer_id, SUM(grand_total - paid) AS amt FROM sales GROUP BY customer_id) s
			ON s.customer_id = c.id
		LEFT JOIN (SELECT customer_id, SUM(amount) AS amt FROM payments GROUP BY customer_id) p
			ON p.customer_id = c.id
		LEFT JOIN (SELECT customer_id, SUM(grand_total) AS amt FROM sales_returns GROUP BY customer_id) r
			ON r.customer_id = c.id
		WHERE ABS(c.total_due - (COALESCE(s.amt, 0) - COALESCE(p.amt, 0) - COALESCE(r.amt, 0))) > 0.005
	`)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var id int64
		var code string
		var actual, expected float64
		if err := rows.Scan(&id, &code, &actual, &expected); err != nil {
			return count, err
		}
		count++
		j.logger.Warn("customer due drift",
			slog.Int64("customer_id", id),
			slog.String("code", code),
			slog.Float64("counter", actual),
			slog.Float64("ledger", expected))
	}
	return count, rows.Err()
}

// scanProductStock recomputes stock per product as opening plus productions
// plus returned pieces minus sold pieces.
func (j *BalanceIntegrityJob) scanProductStock(ctx context.Context) (int, error) {
	rows, err := j.pool.Query(ctx, `
		SELECT p.id, p.code, p.stock_pieces,
		       p.opening_stock + COALESCE(pr.n, 0) + COALESCE(ri.n, 0) - COALESCE(si.n, 0) AS expected
		FROM products p
		LEFT JOIN (SELECT product_id, SUM(total_pieces) AS n FROM productions GROUP BY product_id) pr
			ON pr.product_id = p.id
		LEFT JOIN (SELECT product_id, SUM(total_pieces) AS n FROM sale_items GROUP BY product_id) si
			ON si.product_id = p.id
		LEFT JOIN (SELECT product_id, SUM(total_pieces) AS n FROM sales_return_items
			WHERE product_id IS NOT NULL GROUP BY product_id) ri
			ON ri.product_id = p.id
		WHERE p.stock_pieces <> p.opening_stock + COALESCE(pr.n, 0) + COALESCE(ri.n, 0) - COALESCE(si.n, 0)
	`)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var id int64
		var code string
		var actual, expected int
		if err := rows.Scan(&id, &code, &actual, &expected); err != nil {
			return count, err
		}
		count++
		j.logger.Warn("product stock drift",
			slog.Int64("product_id", id),
			slog.String("code", code),
			slog.Int("counter", actual),
			slog.Int("ledger", expected))
	}
	return count, rows.Err()
}
