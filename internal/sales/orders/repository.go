package orders

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
	Get(ctx context.Context, id int64) (*Order, error)
	List(ctx context.Context, req ListOrdersRequest) ([]OrderWithCustomer, int, error)
	Create(ctx context.Context, order Order) (int64, error)
	UpdateHeader(ctx context.Context, id int64, updates map[string]interface{}) error
	UpdateStatus(ctx context.Context, id int64, status OrderStatus) error
	InsertItem(ctx context.Context, item OrderItem) (int64, error)
	DeleteItems(ctx context.Context, orderID int64) error
	GenerateNumber(ctx context.Context, date time.Time) (string, error)
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

const orderColumns = `id, order_no, customer_id, order_date, expected_delivery_date, status, note,
	created_by, created_at, updated_at`

func (r *repository) Get(ctx context.Context, id int64) (*Order, error) {
	var o Order
	err := r.db.QueryRow(ctx, fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1`, orderColumns), id).
		Scan(&o.ID, &o.OrderNo, &o.CustomerID, &o.OrderDate, &o.ExpectedDeliveryDate, &o.Status,
			&o.Note, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, order_id, product_id, bundles, extra_pieces, total_pieces
		FROM order_items WHERE order_id = $1 ORDER BY id ASC
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Bundles, &it.ExtraPieces, &it.TotalPieces); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) List(ctx context.Context, req ListOrdersRequest) ([]OrderWithCustomer, int, error) {
	var conditions []string
	var args []interface{}
	argPos := 1

	if req.CustomerID != nil {
		conditions = append(conditions, fmt.Sprintf("o.customer_id = $%d", argPos))
		args = append(args, *req.CustomerID)
		argPos++
	}
	if req.Status != nil {
		conditions = append(conditions, fmt.Sprintf("o.status = $%d", argPos))
		args = append(args, *req.Status)
		argPos++
	}
	if req.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("o.order_date >= $%d", argPos))
		args = append(args, *req.DateFrom)
		argPos++
	}
	if req.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("o.order_date <= $%d", argPos))
		args = append(args, *req.DateTo)
		argPos++
	}
	if req.Search != nil && *req.Search != "" {
		pattern := "%" + *req.Search + "%"
		conditions = append(conditions, fmt.Sprintf("(o.order_no ILIKE $%d OR c.name ILIKE $%d)", argPos, argPos))
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

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM orders o JOIN customers c ON o.customer_id = c.id %s`, whereClause)
	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT o.id, o.order_no, o.customer_id, o.order_date, o.expected_delivery_date, o.status,
		       o.note, o.created_by, o.created_at, o.updated_at, c.name AS customer_name
		FROM orders o
		JOIN customers c ON o.customer_id = c.id
		%s
		ORDER BY o.order_date DESC, o.id DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argPos, argPos+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []OrderWithCustomer
	for rows.Next() {
		var o OrderWithCustomer
		if err := rows.Scan(&o.ID, &o.OrderNo, &o.CustomerID, &o.OrderDate, &o.ExpectedDeliveryDate,
			&o.Status, &o.Note, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt, &o.CustomerName); err != nil {
			return nil, 0, err
		}
		out = append(out, o)
	}
	return out, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, order Order) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO orders (order_no, customer_id, order_date, expected_delivery_date, status, note,
			created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		RETURNING id
	`, order.OrderNo, order.CustomerID, order.OrderDate, order.ExpectedDeliveryDate,
		order.Status, order.Note, order.CreatedBy).Scan(&id)
	if err != nil {
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

	tag, err := r.db.Exec(ctx, fmt.Sprintf("UPDATE orders SET %s WHERE id = $%d", setClause, argPos), args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, status OrderStatus) error {
	tag, err := r.db.Exec(ctx, `UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) InsertItem(ctx context.Context, item OrderItem) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO order_items (order_id, product_id, bundles, extra_pieces, total_pieces)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, item.OrderID, item.ProductID, item.Bundles, item.ExtraPieces, item.TotalPieces).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repository) DeleteItems(ctx context.Context, orderID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, orderID)
	return err
}

func (r *repository) GenerateNumber(ctx context.Context, date time.Time) (string, error) {
	period := date.Format("200601")
	like := fmt.Sprintf("SO-%s-%%", period)
	var seq int64
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(MAX(CAST(SUBSTRING(order_no FROM 11) AS BIGINT)), 0) + 1
		FROM orders
		WHERE order_no LIKE $1
	`, like).Scan(&seq)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("SO-%s-%04d", period, seq), nil
}
