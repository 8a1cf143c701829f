package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LowStockScanJob logs active products with fewer pieces on hand than the
// configured threshold.
type LowStockScanJob struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewLowStockScanJob(pool *pgxpool.Pool, logger *slog.Logger) *LowStockScanJob {
	return &LowStockScanJob{pool: pool, logger: logger}
}

// Handle processes TaskLowStockScan tasks.
func (j *LowStockScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload LowStockScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	rows, err := j.pool.Query(ctx, `
		SELECT id, code, name, stock_pieces
		FROM products
		WHERE is_active AND stock_pieces < $1
		ORDER BY stock_pieces ASC
	`, payload.Threshold)
	if err != nil {
		return err
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var id int64
		var code, name string
		var stock int
		if err := rows.Scan(&id, &code, &name, &stock); err != nil {
			return err
		}
		count++
		j.logger.Warn("low stock",
			slog.Int64("product_id", id),
			slog.String("code", code),
			slog.String("name", name),
			slog.Int("stock_pieces", stock),
			slog.Int("threshold", payload.Threshold))
	}
	if err := rows.Err(); err != nil {
		return err
	}

	j.logger.Info("low stock scan finished", slog.Int("flagged", count))
	return nil
}
