package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/karbar-erp/karbar-erp/internal/platform/db"
	"github.com/karbar-erp/karbar-erp/internal/platform/httpx"
)

var (
	ErrNotFound      = httpx.ErrNotFound
	ErrAlreadyExists = httpx.ErrDuplicate
)

type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	Get(ctx context.Context, id int64) (*Product, error)
	GetByCode(ctx context.Context, code string) (*Product, error)
	List(ctx context.Context, req ListProductsRequest) ([]Product, int, error)
	Create(ctx context.Context, product Product) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) error
	GenerateCode(ctx context.Context) (string, error)
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

const productColumns = `id, code, name, category, pieces_per_bundle, weight_per_piece_kg, rate_per_kg, opening_stock, stock_pieces, is_active, created_at, updated_at`

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Code, &p.Name, &p.Category, &p.PiecesPerBundle, &p.WeightPerPieceKg, &p.RatePerKg, &p.OpeningStock, &p.StockPieces, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) Get(ctx context.Context, id int64) (*Product, error) {
	row := r.db.QueryRow(ctx, fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns), id)
	return scanProduct(row)
}

func (r *repository) GetByCode(ctx context.Context, code string) (*Product, error) {
	row := r.db.QueryRow(ctx, fmt.Sprintf(`SELECT %s FROM products WHERE code = $1`, productColumns), code)
	return scanProduct(row)
}

func (r *repository) List(ctx context.Context, req ListProductsRequest) ([]Product, int, error) {
	var conditions []string
	var args []interface{}
	argPos := 1

	if req.IsActive != nil {
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", argPos))
		args = append(args, *req.IsActive)
		argPos++
	}
	if req.Category != nil && *req.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argPos))
		args = append(args, *req.Category)
		argPos++
	}
	if req.Search != nil && *req.Search != "" {
		pattern := "%" + *req.Search + "%"
		conditions = append(conditions, fmt.Sprintf("(code ILIKE $%d OR name ILIKE $%d)", argPos, argPos))
		args = append(args, pattern)
		argPos++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + conditions[0]
		for i := 1; i < len(conditions); i++ {
			whereClause += " AND " + conditions[i]
		}
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM products %s", whereClause)
	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s FROM products %s
		ORDER BY name ASC, id ASC
		LIMIT $%d OFFSET $%d
	`, productColumns, whereClause, argPos, argPos+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Code, &p.Name, &p.Category, &p.PiecesPerBundle, &p.WeightPerPieceKg, &p.RatePerKg, &p.OpeningStock, &p.StockPieces, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, product Product) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO products (code, name, category, pieces_per_bundle, weight_per_piece_kg, rate_per_kg, opening_stock, stock_pieces, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7, TRUE, now(), now())
		RETURNING id
	`, product.Code, product.Name, product.Category, product.PiecesPerBundle, product.WeightPerPieceKg, product.RatePerKg, product.OpeningStock).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, ErrAlreadyExists
		}
		return 0, err
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	setClause := ""
	var args []interface{}
	argPos := 1
	for col, val := range updates {
		if setClause != "" {
			setClause += ", "
		}
		setClause += fmt.Sprintf("%s = $%d", col, argPos)
		args = append(args, val)
		argPos++
	}
	setClause += ", updated_at = now()"
	args = append(args, id)

	tag, err := r.db.Exec(ctx, fmt.Sprintf("UPDATE products SET %s WHERE id = $%d", setClause, argPos), args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) GenerateCode(ctx context.Context) (string, error) {
	var seq int64
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(MAX(CAST(SUBSTRING(code FROM 6) AS BIGINT)), 0) + 1
		FROM products
		WHERE code LIKE 'PROD-%'
	`).Scan(&seq)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("PROD-%04d", seq), nil
}
