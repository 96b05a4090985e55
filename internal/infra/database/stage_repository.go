package database

import (
	"context"
	"database/sql"

	"github.com/salescope/pipeline-insights/internal/entity"
)

// StageRepository resolves the stage catalog from the mutable stages table.
// WON is whatever rows say it is at request time, so the pipeline can evolve
// without touching aggregation code.
type StageRepository struct {
	DB *sql.DB
}

func NewStageRepository(db *sql.DB) *StageRepository {
	return &StageRepository{DB: db}
}

func (r *StageRepository) Resolve(ctx context.Context) (*entity.StageCatalog, error) {
	query := `
		SELECT id, label, position, is_active, is_won
		FROM stages
		ORDER BY position
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stages []entity.Stage
	for rows.Next() {
		var st entity.Stage
		if err := rows.Scan(&st.ID, &st.Label, &st.Position, &st.IsActive, &st.IsWon); err != nil {
			return nil, err
		}
		stages = append(stages, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entity.NewStageCatalog(stages), nil
}
