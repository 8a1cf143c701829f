package invoices

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
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	Get(ctx context.Context, id int64) (*Invoice, error)
	List(ctx context.Context, req ListInvoicesRequest) ([]InvoiceWithCustomer, int, error)
	Create(ctx context.Context, inv Invoice) (int64, error)
	InsertItem(ctx context.Context, item InvoiceItem) (int64, error)
	DeleteItems(ctx context.Context, saleID int64) error
	Delete(ctx context.Context, id int64) error
	GenerateNumber(ctx context.Context, date time.Time) (string, error)
	AdjustStock(ctx context.Context, productID int64, deltaPieces int) error
	AdjustDue(ctx context.Context, customerID int64, delta float64) error
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

// AdjustStock moves a product's on-hand pieces by delta in a single UPDATE so
// concurrent sales against the same product cannot lose each other's delta.
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

const invoiceColumns = `id, invoice_no, customer_id, order_id, invoice_date, total_weight_kg,
	sub_total, discount, grand_total, paid, note, created_by, created_at, updated_at`

func (r *repository) Get(ctx context.Context, id int64) (*Invoice, error) {
	var inv Invoice
	err := r.db.QueryRow(ctx, fmt.Sprintf(`SELECT %s FROM sales WHERE id = $1`, invoiceColumns), id).
		Scan(&inv.ID, &inv.InvoiceNo, &inv.CustomerID, &inv.OrderID, &inv.InvoiceDate,
			&inv.TotalWeightKg, &inv.SubTotal, &inv.Discount, &inv.GrandTotal, &inv.Paid,
			&inv.Note, &inv.CreatedBy, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, sale_id, product_id, bundles, extra_pieces, total_pieces, weight_kg, rate_per_kg, sub_total
		FROM sale_items WHERE sale_id = $1 ORDER BY id ASC
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var it InvoiceItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.Bundles, &it.ExtraPieces,
			&it.TotalPieces, &it.WeightKg, &it.RatePerKg, &it.SubTotal); err != nil {
			return nil, err
		}
		inv.Items = append(inv.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *repository) List(ctx context.Context, req ListInvoicesRequest) ([]InvoiceWithCustomer, int, error) {
	var conditions []string
	var args []interface{}
	argPos := 1

	if req.CustomerID != nil {
		conditions = append(conditions, fmt.Sprintf("s.customer_id = $%d", argPos))
		args = append(args, *req.CustomerID)
		argPos++
	}
	if req.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("s.invoice_date >= $%d", argPos))
		args = append(args, *req.DateFrom)
		argPos++
	}
	if req.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("s.invoice_date <= $%d", argPos))
		args = append(args, *req.DateTo)
		argPos++
	}
	if req.Search != nil && *req.Search != "" {
		pattern := "%" + *req.Search + "%"
		conditions = append(conditions, fmt.Sprintf("(s.invoice_no ILIKE $%d OR c.name ILIKE $%d)", argPos, argPos))
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

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM sales s JOIN customers c ON s.customer_id = c.id %s`, whereClause)
	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT s.id, s.invoice_no, s.customer_id, s.order_id, s.invoice_date, s.total_weight_kg,
		       s.sub_total, s.discount, s.grand_total, s.paid, s.note,
		       s.created_by, s.created_at, s.updated_at, c.name AS customer_name
		FROM sales s
		JOIN customers c ON s.customer_id = c.id
		%s
		ORDER BY s.invoice_date DESC, s.id DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argPos, argPos+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []InvoiceWithCustomer
	for rows.Next() {
		var inv InvoiceWithCustomer
		if err := rows.Scan(&inv.ID, &inv.InvoiceNo, &inv.CustomerID, &inv.OrderID, &inv.InvoiceDate,
			&inv.TotalWeightKg, &inv.SubTotal, &inv.Discount, &inv.GrandTotal, &inv.Paid,
			&inv.Note, &inv.CreatedBy, &inv.CreatedAt, &inv.UpdatedAt, &inv.CustomerName); err != nil {
			return nil, 0, err
		}
		out = append(out, inv)
	}
	return out, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, inv Invoice) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO sales (invoice_no, customer_id, order_id, invoice_date, total_weight_kg,
			sub_total, discount, grand_total, paid, note, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now(), now())
		RETURNING id
	`, inv.InvoiceNo, inv.CustomerID, inv.OrderID, inv.InvoiceDate, inv.TotalWeightKg,
		inv.SubTotal, inv.Discount, inv.GrandTotal, inv.Paid, inv.Note, inv.CreatedBy).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, ErrAlreadyExists
		}
		return 0, err
	}
	return id, nil
}

func (r *repository) InsertItem(ctx context.Context, item InvoiceItem) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO sale_items (sale_id, product_id, bundles, extra_pieces, total_pieces,
			weight_kg, rate_per_kg, sub_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, item.SaleID, item.ProductID, item.Bundles, item.ExtraPieces, item.TotalPieces,
		item.WeightKg, item.RatePerKg, item.SubTotal).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repository) DeleteItems(ctx context.Context, saleID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM sale_items WHERE sale_id = $1`, saleID)
	return err
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GenerateNumber allocates the next INV-YYYYMM-NNNN for the invoice month.
// The sequence starts at character 12, after the "INV-YYYYMM-" prefix.
func (r *repository) GenerateNumber(ctx context.Context, date time.Time) (string, error) {
	period := date.Format("200601")
	like := fmt.Sprintf("INV-%s-%%", period)
	var seq int64
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(MAX(CAST(SUBSTRING(invoice_no FROM 12) AS BIGINT)), 0) + 1
		FROM sales
		WHERE invoice_no LIKE $1
	`, like).Scan(&seq)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("INV-%s-%04d", period, seq), nil
}
