package payments

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
	Get(ctx context.Context, id int64) (*Payment, error)
	List(ctx context.Context, req ListPaymentsRequest) ([]PaymentWithCustomer, int, error)
	Create(ctx context.Context, p Payment) (int64, error)
	UpdateStatus(ctx context.Context, id int64, status PaymentStatus) error
	Delete(ctx context.Context, id int64) error
	GenerateNumber(ctx context.Context, date time.Time) (string, error)
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

const paymentColumns = `id, payment_no, customer_id, sale_id, amount, method, status, reference,
	payment_date, note, created_by, created_at, updated_at`

func (r *repository) Get(ctx context.Context, id int64) (*Payment, error) {
	var p Payment
	err := r.db.QueryRow(ctx, fmt.Sprintf(`SELECT %s FROM payments WHERE id = $1`, paymentColumns), id).
		Scan(&p.ID, &p.PaymentNo, &p.CustomerID, &p.SaleID, &p.Amount, &p.Method, &p.Status,
			&p.Reference, &p.PaymentDate, &p.Note, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) List(ctx context.Context, req ListPaymentsRequest) ([]PaymentWithCustomer, int, error) {
	var conditions []string
	var args []interface{}
	argPos := 1

	if req.CustomerID != nil {
		conditions = append(conditions, fmt.Sprintf("p.customer_id = $%d", argPos))
		args = append(args, *req.CustomerID)
		argPos++
	}
	if req.Method != nil {
		conditions = append(conditions, fmt.Sprintf("p.method = $%d", argPos))
		args = append(args, *req.Method)
		argPos++
	}
	if req.Status != nil {
		conditions = append(conditions, fmt.Sprintf("p.status = $%d", argPos))
		args = append(args, *req.Status)
		argPos++
	}
	if req.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("p.payment_date >= $%d", argPos))
		args = append(args, *req.DateFrom)
		argPos++
	}
	if req.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("p.payment_date <= $%d", argPos))
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

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM payments p JOIN customers c ON p.customer_id = c.id %s`, whereClause)
	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT p.id, p.payment_no, p.customer_id, p.sale_id, p.amount, p.method, p.status,
		       p.reference, p.payment_date, p.note, p.created_by, p.created_at, p.updated_at,
		       c.name AS customer_name
		FROM payments p
		JOIN customers c ON p.customer_id = c.id
		%s
		ORDER BY p.payment_date DESC, p.id DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argPos, argPos+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []PaymentWithCustomer
	for rows.Next() {
		var p PaymentWithCustomer
		if err := rows.Scan(&p.ID, &p.PaymentNo, &p.CustomerID, &p.SaleID, &p.Amount, &p.Method,
			&p.Status, &p.Reference, &p.PaymentDate, &p.Note, &p.CreatedBy, &p.CreatedAt,
			&p.UpdatedAt, &p.CustomerName); err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, p Payment) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO payments (payment_no, customer_id, sale_id, amount, method, status, reference,
			payment_date, note, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())
		RETURNING id
	`, p.PaymentNo, p.CustomerID, p.SaleID, p.Amount, p.Method, p.Status, p.Reference,
		p.PaymentDate, p.Note, p.CreatedBy).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, ErrAlreadyExists
		}
		return 0, err
	}
	return id, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, status PaymentStatus) error {
	tag, err := r.db.Exec(ctx, `UPDATE payments SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GenerateNumber allocates the next PAY-YYYYMM-NNNN for the payment month.
// The sequence starts at character 12, after the "PAY-YYYYMM-" prefix.
func (r *repository) GenerateNumber(ctx context.Context, date time.Time) (string, error) {
	period := date.Format("200601")
	like := fmt.Sprintf("PAY-%s-%%", period)
	var seq int64
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(MAX(CAST(SUBSTRING(payment_no FROM 12) AS BIGINT)), 0) + 1
		FROM payments
		WHERE payment_no LIKE $1
	`, like).Scan(&seq)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("PAY-%s-%04d", period, seq), nil
}
