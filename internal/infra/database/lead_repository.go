package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/salescope/pipeline-insights/internal/entity"
	"github.com/salescope/pipeline-insights/internal/usecase"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

const leadColumns = `l.id, l.name, l.email, l.phone, l.stage, l.stage_updated_at,
	l.setter_id, l.closer_id, l.assigned_at, l.opportunity_value, l.sale_value,
	l.created_at, l.updated_at`

func scanLead(rows *sql.Rows) (entity.Lead, error) {
	var lead entity.Lead
	var name, email, phone, setterID, closerID sql.NullString
	var assignedAt sql.NullTime

	err := rows.Scan(
		&lead.ID, &name, &email, &phone, &lead.Stage, &lead.StageUpdatedAt,
		&setterID, &closerID, &assignedAt, &lead.OpportunityValue, &lead.SaleValue,
		&lead.CreatedAt, &lead.UpdatedAt,
	)
	if err != nil {
		return lead, err
	}

	lead.Name = name.String
	lead.Email = email.String
	lead.Phone = phone.String
	if setterID.Valid {
		lead.SetterID = &setterID.String
	}
	if closerID.Valid {
		lead.CloserID = &closerID.String
	}
	if assignedAt.Valid {
		t := assignedAt.Time
		lead.AssignedAt = &t
	}
	return lead, nil
}

func (r *LeadRepository) ListLeads(ctx context.Context, filter usecase.LeadFilter) ([]entity.Lead, error) {
	var conds []string
	var args []interface{}

	if !filter.CreatedIn.IsZero() {
		conds = append(conds, fmt.Sprintf("l.created_at >= $%d", len(args)+1))
		args = append(args, filter.CreatedIn.From)
		conds = append(conds, fmt.Sprintf("l.created_at < $%d", len(args)+1))
		args = append(args, filter.CreatedIn.To)
	}
	if filter.SetterID != nil {
		conds = append(conds, fmt.Sprintf("l.setter_id = $%d", len(args)+1))
		args = append(args, *filter.SetterID)
	}
	if filter.CloserID != nil {
		conds = append(conds, fmt.Sprintf("l.closer_id = $%d", len(args)+1))
		args = append(args, *filter.CloserID)
	}

	query := "SELECT " + leadColumns + " FROM leads l"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY l.created_at"

	return r.queryLeads(ctx, query, args...)
}

// ListWonLeads resolves the WON stage set through the catalog at query time.
// Cohort: created inside the window, won whenever (even after it ends).
// Weekly production: won inside the window, created whenever.
func (r *LeadRepository) ListWonLeads(ctx context.Context, catalog *entity.StageCatalog, window entity.TimeWindow, model usecase.AttributionModel) ([]entity.Lead, error) {
	wonLabels := pq.Array(catalog.WonLabels())

	var query string
	var args []interface{}

	switch model {
	case usecase.AttributionCohort:
		query = "SELECT " + leadColumns + ` FROM leads l
			WHERE EXISTS (
				SELECT 1 FROM stage_events e
				WHERE e.lead_id = l.id AND e.to_stage = ANY($1)
			)`
		args = append(args, wonLabels)
		if !window.IsZero() {
			query += " AND l.created_at >= $2 AND l.created_at < $3"
			args = append(args, window.From, window.To)
		}
	case usecase.AttributionWeeklyProduction:
		query = "SELECT " + leadColumns + ` FROM leads l
			WHERE EXISTS (
				SELECT 1 FROM stage_events e
				WHERE e.lead_id = l.id AND e.to_stage = ANY($1)`
		args = append(args, wonLabels)
		if !window.IsZero() {
			query += " AND e.occurred_at >= $2 AND e.occurred_at < $3"
			args = append(args, window.From, window.To)
		}
		query += ")"
	default:
		return nil, fmt.Errorf("unknown attribution model %q", model)
	}
	query += " ORDER BY l.created_at"

	return r.queryLeads(ctx, query, args...)
}

func (r *LeadRepository) CountCreated(ctx context.Context, window entity.TimeWindow) (int, error) {
	query := "SELECT COUNT(*) FROM leads l"
	var args []interface{}
	if !window.IsZero() {
		query += " WHERE l.created_at >= $1 AND l.created_at < $2"
		args = append(args, window.From, window.To)
	}

	var count int
	if err := r.DB.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *LeadRepository) CountCreatedBySetter(ctx context.Context, window entity.TimeWindow) (map[string]int, error) {
	query := "SELECT l.setter_id, COUNT(*) FROM leads l WHERE l.setter_id IS NOT NULL"
	var args []interface{}
	if !window.IsZero() {
		query += " AND l.created_at >= $1 AND l.created_at < $2"
		args = append(args, window.From, window.To)
	}
	query += " GROUP BY l.setter_id"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var setterID string
		var count int
		if err := rows.Scan(&setterID, &count); err != nil {
			return nil, err
		}
		out[setterID] = count
	}
	return out, rows.Err()
}

func (r *LeadRepository) queryLeads(ctx context.Context, query string, args ...interface{}) ([]entity.Lead, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []entity.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}
