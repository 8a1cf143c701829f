package productions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/karbar-erp/karbar-erp/internal/platform/db"
	"github.com/karbar-erp/karbar-erp/internal/platform/httpx"
)

var ErrNotFound = httpx.ErrNotFound

type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	Get(ctx context.Context, id int64) (*Production, error)
	List(ctx context.Context, req ListProductionsRequest) ([]ProductionWithProduct, int, error)
	Create(ctx context.Context, p Production) (int64, error)
	Delete(ctx context.Context, id int64) error
	GenerateNumber(ctx context.Context, date time.Time) (string, error)
	AdjustStock(ctx context.Context, productID int64, deltaPieces int) error
}

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

type repository struct {
	db   dbtx
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

// AdjustStock moves a product's on-hand pieces by delta in a single UPDATE.
func (r *repository) AdjustStock(ctx context.Context, productID int64, deltaPieces int) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE products SET stock_pieces = stock_pieces + $2, updated_at = now()
		WHERE id = $1
	`, productID, deltaPieces)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const productionColumns = `id, production_no, product_id, bundles, extra_pieces, total_pieces,
	production_date, note, created_by, created_at, updated_at`

func (r *repository) Get(ctx context.Context, id int64) (*Production, error) {
	var p Production
	err := r.db.QueryRow(ctx, fmt.Sprintf(`SELECT %s FROM productions WHERE id = $1`, productionColumns), id).
		Scan(&p.ID, &p.ProductionNo, &p.ProductID, &p.Bundles, &p.ExtraPieces, &p.TotalPieces,
			&p.ProductionDate, &p.Note, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) List(ctx context.Context, req ListProductionsRequest) ([]ProductionWithProduct, int, error) {
	var conditions []string
	var args []interface{}
	argPos := 1

	if req.ProductID != nil {
		conditions = append(conditions, fmt.Sprintf("pr.product_id = $%d", argPos))
		args = append(args, *req.ProductID)
		argPos++
	}
	if req.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("pr.production_date >= $%d", argPos))
		args = append(args, *req.DateFrom)
		argPos++
	}
	if req.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("pr.production_date <= $%d", argPos))
		args = append(args, *req.DateTo)
		argPos++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + conditions[0]
		for i := 1; i < len(conditions); i++ {
			whereClause += " AND " + conditions[i]
		}
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM productions pr JOIN products p ON pr.product_id = p.id %s`, whereClause)
	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT pr.id, pr.production_no, pr.product_id, pr.bundles, pr.extra_pieces, pr.total_pieces,
		       pr.production_date, pr.note, pr.created_by, pr.created_at, pr.updated_at,
		       p.name AS product_name
		FROM productions pr
		JOIN products p ON pr.product_id = p.id
		%s
		ORDER BY pr.production_date DESC, pr.id DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argPos, argPos+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []ProductionWithProduct
	for rows.Next() {
		var p ProductionWithProduct
		if err := rows.Scan(&p.ID, &p.ProductionNo, &p.ProductID, &p.Bundles, &p.ExtraPieces,
			&p.TotalPieces, &p.ProductionDate, &p.Note, &p.CreatedBy, &p.CreatedAt,
			&p.UpdatedAt, &p.ProductName); err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, p Production) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO productions (production_no, product_id, bundles, extra_pieces, total_pieces,
			production_date, note, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
		RETURNING id
	`, p.ProductionNo, p.ProductID, p.Bundles, p.ExtraPieces, p.TotalPieces,
		p.ProductionDate, p.Note, p.CreatedBy).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM productions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GenerateNumber allocates the next PRD-YYYYMM-NNNN for the production month.
// The sequence starts at character 12, after the "PRD-YYYYMM-" prefix.
func (r *repository) GenerateNumber(ctx context.Context, date time.Time) (string, error) {
	period := date.Format("200601")
	like := fmt.Sprintf("PRD-%s-%%", period)
	var seq int64
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(MAX(CAST(SUBSTRING(production_no FROM 12) AS BIGINT)), 0) + 1
		FROM productions
		WHERE production_no LIKE $1
	`, like).Scan(&seq)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("PRD-%s-%04d", period, seq), nil
}
