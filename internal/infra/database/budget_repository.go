package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/salescope/pipeline-insights/internal/entity"
)

type BudgetRepository struct {
	DB *sql.DB
}

func NewBudgetRepository(db *sql.DB) *BudgetRepository {
	return &BudgetRepository{DB: db}
}

// Upsert writes one row per week key. budgets.week_start carries a unique
// index, so concurrent submissions race on a single atomic statement instead
// of a read-then-write; last write wins.
func (r *BudgetRepository) Upsert(ctx context.Context, weekStart time.Time, amount float64) (*entity.Budget, error) {
	query := `
		INSERT INTO budgets (week_start, amount, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (week_start)
		DO UPDATE SET
			amount = EXCLUDED.amount,
			updated_at = NOW()
		RETURNING id, week_start, amount, created_at, updated_at
	`

	budget := &entity.Budget{}
	err := r.DB.QueryRowContext(ctx, query, weekStart, amount).Scan(
		&budget.ID,
		&budget.WeekStart,
		&budget.Amount,
		&budget.CreatedAt,
		&budget.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return budget, nil
}

func (r *BudgetRepository) GetBudgets(ctx context.Context, window entity.TimeWindow) ([]entity.Budget, error) {
	query := "SELECT id, week_start, amount, created_at, updated_at FROM budgets"
	var args []interface{}
	if !window.IsZero() {
		query += " WHERE week_start >= $1 AND week_start < $2"
		args = append(args, window.From, window.To)
	}
	query += " ORDER BY week_start"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var budgets []entity.Budget
	for rows.Next() {
		var b entity.Budget
		if err := rows.Scan(&b.ID, &b.WeekStart, &b.Amount, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}
