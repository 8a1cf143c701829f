package expenses

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
	Get(ctx context.Context, id int64) (*Expense, error)
	List(ctx context.Context, req ListExpensesRequest) ([]Expense, int, error)
	Create(ctx context.Context, e Expense) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
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

const expenseColumns = `id, expense_no, category, amount, expense_date, note, recorded_by, created_at, updated_at`

func (r *repository) Get(ctx context.Context, id int64) (*Expense, error) {
	var e Expense
	err := r.db.QueryRow(ctx, fmt.Sprintf(`SELECT %s FROM expenses WHERE id = $1`, expenseColumns), id).
		Scan(&e.ID, &e.ExpenseNo, &e.Category, &e.Amount, &e.ExpenseDate, &e.Note,
			&e.RecordedBy, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *repository) List(ctx context.Context, req ListExpensesRequest) ([]Expense, int, error) {
	var conditions []string
	var args []interface{}
	argPos := 1

	if req.Category != nil && *req.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argPos))
		args = append(args, *req.Category)
		argPos++
	}
	if req.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("expense_date >= $%d", argPos))
		args = append(args, *req.DateFrom)
		argPos++
	}
	if req.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("expense_date <= $%d", argPos))
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

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM expenses %s`, whereClause)
	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s FROM expenses
		%s
		ORDER BY expense_date DESC, id DESC
		LIMIT $%d OFFSET $%d
	`, expenseColumns, whereClause, argPos, argPos+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Expense
	for rows.Next() {
		var e Expense
		if err := rows.Scan(&e.ID, &e.ExpenseNo, &e.Category, &e.Amount, &e.ExpenseDate,
			&e.Note, &e.RecordedBy, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, e)
	}
	return out, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, e Expense) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO expenses (expense_no, category, amount, expense_date, note, recorded_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		RETURNING id
	`, e.ExpenseNo, e.Category, e.Amount, e.ExpenseDate, e.Note, e.RecordedBy).Scan(&id)
	if err != nil {
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

	tag, err := r.db.Exec(ctx, fmt.Sprintf("UPDATE expenses SET %s WHERE id = $%d", setClause, argPos), args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GenerateNumber allocates the next EXP-YYYYMM-NNNN for the expense month.
// The sequence starts at character 12, after the "EXP-YYYYMM-" prefix.
func (r *repository) GenerateNumber(ctx context.Context, date time.Time) (string, error) {
	period := date.Format("200601")
	like := fmt.Sprintf("EXP-%s-%%", period)
	var seq int64
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(MAX(CAST(SUBSTRING(expense_no FROM 12) AS BIGINT)), 0) + 1
		FROM expenses
		WHERE expense_no LIKE $1
	`, like).Scan(&seq)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("EXP-%s-%04d", period, seq), nil
}
