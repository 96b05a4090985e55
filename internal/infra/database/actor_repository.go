package database

import (
	"context"
	"database/sql"

	"github.com/salescope/pipeline-insights/internal/entity"
)

type ActorRepository struct {
	DB *sql.DB
}

func NewActorRepository(db *sql.DB) *ActorRepository {
	return &ActorRepository{DB: db}
}

func (r *ActorRepository) ListActors(ctx context.Context, role entity.Role) ([]entity.Actor, error) {
	query := `
		SELECT id, first_name, last_name, email, role
		FROM actors
		WHERE role = $1
		ORDER BY created_at
	`
	rows, err := r.DB.QueryContext(ctx, query, string(role))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var actors []entity.Actor
	for rows.Next() {
		var a entity.Actor
		var firstName, lastName sql.NullString
		if err := rows.Scan(&a.ID, &firstName, &lastName, &a.Email, &a.Role); err != nil {
			return nil, err
		}
		a.FirstName = firstName.String
		a.LastName = lastName.String
		actors = append(actors, a)
	}
	return actors, rows.Err()
}
