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

// EventRepository is the counting primitive over the append-only
// stage_events log. Windows arrive as absolute instants (already derived
// from local calendar days upstream), so every comparison here is a plain
// instant comparison against occurred_at.
type EventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{DB: db}
}

// eventFilter accumulates WHERE conditions with numbered placeholders.
type eventFilter struct {
	conds []string
	args  []interface{}
}

func (f *eventFilter) where() string {
	if len(f.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(f.conds, " AND ")
}

func buildEventFilter(catalog *entity.StageCatalog, q usecase.EventQuery) *eventFilter {
	f := &eventFilter{}

	labels := catalog.Labels(q.Stages...)
	f.conds = append(f.conds, fmt.Sprintf("e.to_stage = ANY($%d)", len(f.args)+1))
	f.args = append(f.args, pq.Array(labels))

	if !q.Window.IsZero() {
		f.conds = append(f.conds, fmt.Sprintf("e.occurred_at >= $%d", len(f.args)+1))
		f.args = append(f.args, q.Window.From)
		f.conds = append(f.conds, fmt.Sprintf("e.occurred_at < $%d", len(f.args)+1))
		f.args = append(f.args, q.Window.To)
	}
	if q.LeadID != nil {
		f.conds = append(f.conds, fmt.Sprintf("e.lead_id = $%d", len(f.args)+1))
		f.args = append(f.args, *q.LeadID)
	}
	if q.SetterID != nil {
		f.conds = append(f.conds, fmt.Sprintf("l.setter_id = $%d", len(f.args)+1))
		f.args = append(f.args, *q.SetterID)
	}
	if q.CloserID != nil {
		f.conds = append(f.conds, fmt.Sprintf("l.closer_id = $%d", len(f.args)+1))
		f.args = append(f.args, *q.CloserID)
	}
	if q.AttributedUserID != nil {
		f.conds = append(f.conds, fmt.Sprintf("e.attributed_user_id = $%d", len(f.args)+1))
		f.args = append(f.args, *q.AttributedUserID)
	}
	return f
}

func eventFrom(q usecase.EventQuery) string {
	// Ownership attribution joins through the lead's current setter/closer;
	// event-level attribution stays on the event row. Different semantics,
	// never conflated.
	if q.SetterID != nil || q.CloserID != nil {
		return "stage_events e JOIN leads l ON l.id = e.lead_id"
	}
	return "stage_events e"
}

func (r *EventRepository) CountEvents(ctx context.Context, catalog *entity.StageCatalog, q usecase.EventQuery) (int, error) {
	sel := "COUNT(*)"
	if q.DistinctByLead {
		sel = "COUNT(DISTINCT e.lead_id)"
	}

	f := buildEventFilter(catalog, q)
	query := fmt.Sprintf("SELECT %s FROM %s%s", sel, eventFrom(q), f.where())

	var count int
	if err := r.DB.QueryRowContext(ctx, query, f.args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// CountEventsByActor is the grouped variant: one round trip for all actors.
func (r *EventRepository) CountEventsByActor(ctx context.Context, catalog *entity.StageCatalog, stages []entity.StageKey, window entity.TimeWindow, field usecase.ActorField, distinctByLead bool) (map[string]int, error) {
	var groupCol, from string
	switch field {
	case usecase.ActorFieldSetter:
		groupCol, from = "l.setter_id", "stage_events e JOIN leads l ON l.id = e.lead_id"
	case usecase.ActorFieldCloser:
		groupCol, from = "l.closer_id", "stage_events e JOIN leads l ON l.id = e.lead_id"
	case usecase.ActorFieldAttributed:
		groupCol, from = "e.attributed_user_id", "stage_events e"
	default:
		return nil, fmt.Errorf("unknown actor field %q", field)
	}

	sel := "COUNT(*)"
	if distinctByLead {
		sel = "COUNT(DISTINCT e.lead_id)"
	}

	f := buildEventFilter(catalog, usecase.EventQuery{Stages: stages, Window: window})
	f.conds = append(f.conds, groupCol+" IS NOT NULL")
	query := fmt.Sprintf("SELECT %s, %s FROM %s%s GROUP BY %s", groupCol, sel, from, f.where(), groupCol)

	rows, err := r.DB.QueryContext(ctx, query, f.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var actorID string
		var count int
		if err := rows.Scan(&actorID, &count); err != nil {
			return nil, err
		}
		out[actorID] = count
	}
	return out, rows.Err()
}

func (r *EventRepository) ListEvents(ctx context.Context, catalog *entity.StageCatalog, q usecase.EventQuery) ([]entity.StageEvent, error) {
	f := buildEventFilter(catalog, q)
	query := fmt.Sprintf(
		"SELECT e.id, e.lead_id, e.to_stage, e.occurred_at, e.attributed_user_id FROM %s%s ORDER BY e.occurred_at",
		eventFrom(q), f.where())

	rows, err := r.DB.QueryContext(ctx, query, f.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []entity.StageEvent
	for rows.Next() {
		var ev entity.StageEvent
		var attributed sql.NullString
		if err := rows.Scan(&ev.ID, &ev.LeadID, &ev.ToStage, &ev.OccurredAt, &attributed); err != nil {
			return nil, err
		}
		if attributed.Valid {
			ev.AttributedUserID = &attributed.String
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// AvgMinutesToFirstCall averages, per setter, the delay between a lead's
// creation and its first call attempt. Leads never called do not drag the
// average; setters with no called leads are absent from the map.
func (r *EventRepository) AvgMinutesToFirstCall(ctx context.Context, catalog *entity.StageCatalog, window entity.TimeWindow) (map[string]float64, error) {
	labels := catalog.Labels(entity.StageCallAttempt, entity.StageCallAnswered)

	query := `
		SELECT l.setter_id,
		       AVG(EXTRACT(EPOCH FROM (fc.first_call - l.created_at)) / 60.0)
		FROM leads l
		JOIN (
			SELECT lead_id, MIN(occurred_at) AS first_call
			FROM stage_events
			WHERE to_stage = ANY($1)
			GROUP BY lead_id
		) fc ON fc.lead_id = l.id
		WHERE l.setter_id IS NOT NULL
	`
	args := []interface{}{pq.Array(labels)}
	if !window.IsZero() {
		query += " AND l.created_at >= $2 AND l.created_at < $3"
		args = append(args, window.From, window.To)
	}
	query += " GROUP BY l.setter_id"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]float64)
	for rows.Next() {
		var setterID string
		var avg float64
		if err := rows.Scan(&setterID, &avg); err != nil {
			return nil, err
		}
		out[setterID] = avg
	}
	return out, rows.Err()
}
