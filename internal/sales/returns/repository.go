package returns

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

var (
	ErrNotFound      = httpx.ErrNotFound
	ErrAlreadyExists = httpx.ErrDuplicate
)

type Repository interface {
	CounterStore
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	Get(ctx context.Context, id int64) (*SalesReturn, error)
	GetByReturnNo(ctx context.Context, returnNo string) (*SalesReturn, error)
	List(ctx context.Context, req ListSalesReturnsRequest) ([]SalesReturnWithCustomer, int, error)
	Create(ctx context.Context, ret SalesReturn) (int64, error)
	UpdateHeader(ctx context.Context, id int64, updates map[string]interface{}) error
	InsertItem(ctx context.Context, item SalesReturnItem) (int64, error)
	DeleteItems(ctx context.Context, returnID int64) error
	Delete(ctx context.Context, id int64) error
	GenerateNumber(ctx context.Context, prefix string, date time.Time) (string, error)
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

// AdjustStock moves a product's on-hand pieces by delta in place. The
// increment happens entirely inside the UPDATE so concurrent returns against
// the same product cannot lose each other's delta.
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

// AdjustDue moves a customer's running due balance by delta in place.
func (r *repository) AdjustDue(ctx context.Context, customerID int64, delta float64) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE customers SET total_due = total_due + $2, updated_at = now()
		WHERE id = $1
	`, customerID, delta)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const returnColumns = `id, return_no, customer_id, sale_id, return_date, is_scrap_purchase,
	total_weight_kg, sub_total, discount, grand_total, note, created_by, created_at, updated_at`

func (r *repository) scanReturn(ctx context.Context, row pgx.Row) (*SalesReturn, error) {
	var ret SalesReturn
	err := row.Scan(&ret.ID, &ret.ReturnNo, &ret.CustomerID, &ret.SaleID, &ret.ReturnDate,
		&ret.IsScrapPurchase, &ret.TotalWeightKg, &ret.SubTotal, &ret.Discount, &ret.GrandTotal,
		&ret.Note, &ret.CreatedBy, &ret.CreatedAt, &ret.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	items, err := r.getItems(ctx, ret.ID)
	if err != nil {
		return nil, err
	}
	ret.Items = items
	return &ret, nil
}

func (r *repository) Get(ctx context.Context, id int64) (*SalesReturn, error) {
	row := r.db.QueryRow(ctx, fmt.Sprintf(`SELECT %s FROM sales_returns WHERE id = $1`, returnColumns), id)
	return r.scanReturn(ctx, row)
}

func (r *repository) GetByReturnNo(ctx context.Context, returnNo string) (*SalesReturn, error) {
	row := r.db.QueryRow(ctx, fmt.Sprintf(`SELECT %s FROM sales_returns WHERE return_no = $1`, returnColumns), returnNo)
	return r.scanReturn(ctx, row)
}

func (r *repository) getItems(ctx context.Context, returnID int64) ([]SalesReturnItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, sales_return_id, product_id, description, bundles, extra_pieces,
		       total_pieces, weight_kg, rate_per_kg, sub_total
		FROM sales_return_items
		WHERE sales_return_id = $1
		ORDER BY id ASC
	`, returnID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []SalesReturnItem
	for rows.Next() {
		var it SalesReturnItem
		if err := rows.Scan(&it.ID, &it.SalesReturnID, &it.ProductID, &it.Description,
			&it.Bundles, &it.ExtraPieces, &it.TotalPieces, &it.WeightKg, &it.RatePerKg, &it.SubTotal); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *repository) List(ctx context.Context, req ListSalesReturnsRequest) ([]SalesReturnWithCustomer, int, error) {
	var conditions []string
	var args []interface{}
	argPos := 1

	if req.CustomerID != nil {
		conditions = append(conditions, fmt.Sprintf("sr.customer_id = $%d", argPos))
		args = append(args, *req.CustomerID)
		argPos++
	}
	if req.IsScrapPurchase != nil {
		conditions = append(conditions, fmt.Sprintf("sr.is_scrap_purchase = $%d", argPos))
		args = append(args, *req.IsScrapPurchase)
		argPos++
	}
	if req.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("sr.return_date >= $%d", argPos))
		args = append(args, *req.DateFrom)
		argPos++
	}
	if req.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("sr.return_date <= $%d", argPos))
		args = append(args, *req.DateTo)
		argPos++
	}
	if req.Search != nil && *req.Search != "" {
		pattern := "%" + *req.Search + "%"
		conditions = append(conditions, fmt.Sprintf("(sr.return_no ILIKE $%d OR c.name ILIKE $%d)", argPos, argPos))
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

	countQuery := fmt.Sprintf(`
		SELECT COUNT(*) FROM sales_returns sr
		JOIN customers c ON sr.customer_id = c.id
		%s
	`, whereClause)
	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT sr.id, sr.return_no, sr.customer_id, sr.sale_id, sr.return_date, sr.is_scrap_purchase,
		       sr.total_weight_kg, sr.sub_total, sr.discount, sr.grand_total, sr.note,
		       sr.created_by, sr.created_at, sr.updated_at,
		       c.name AS customer_name
		FROM sales_returns sr
		JOIN customers c ON sr.customer_id = c.id
		%s
		ORDER BY sr.return_date DESC, sr.id DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argPos, argPos+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []SalesReturnWithCustomer
	for rows.Next() {
		var ret SalesReturnWithCustomer
		if err := rows.Scan(&ret.ID, &ret.ReturnNo, &ret.CustomerID, &ret.SaleID, &ret.ReturnDate,
			&ret.IsScrapPurchase, &ret.TotalWeightKg, &ret.SubTotal, &ret.Discount, &ret.GrandTotal,
			&ret.Note, &ret.CreatedBy, &ret.CreatedAt, &ret.UpdatedAt, &ret.CustomerName); err != nil {
			return nil, 0, err
		}
		out = append(out, ret)
	}
	return out, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, ret SalesReturn) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO sales_returns (return_no, customer_id, sale_id, return_date, is_scrap_purchase,
			total_weight_kg, sub_total, discount, grand_total, note, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now(), now())
		RETURNING id
	`, ret.ReturnNo, ret.CustomerID, ret.SaleID, ret.ReturnDate, ret.IsScrapPurchase,
		ret.TotalWeightKg, ret.SubTotal, ret.Discount, ret.GrandTotal, ret.Note, ret.CreatedBy).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, ErrAlreadyExists
		}
		return 0, err
	}
	return id, nil
}

func (r *repository) UpdateHeader(ctx context.Context, id int64, updates map[string]interface{}) error {
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

	tag, err := r.db.Exec(ctx, fmt.Sprintf("UPDATE sales_returns SET %s WHERE id = $%d", setClause, argPos), args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) InsertItem(ctx context.Context, item SalesReturnItem) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO sales_return_items (sales_return_id, product_id, description, bundles,
			extra_pieces, total_pieces, weight_kg, rate_per_kg, sub_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, item.SalesReturnID, item.ProductID, item.Description, item.Bundles,
		item.ExtraPieces, item.TotalPieces, item.WeightKg, item.RatePerKg, item.SubTotal).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repository) DeleteItems(ctx context.Context, returnID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM sales_return_items WHERE sales_return_id = $1`, returnID)
	return err
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM sales_returns WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) GenerateNumber(ctx context.Context, prefix string, date time.Time) (string, error) {
	period := date.Format("200601")
	like := fmt.Sprintf("%s-%s-%%", prefix, period)
	var seq int64
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(MAX(CAST(SUBSTRING(return_no FROM 11) AS BIGINT)), 0) + 1
		FROM sales_returns
		WHERE return_no LIKE $1
	`, like).Scan(&seq)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s-%04d", prefix, period, seq), nil
}
