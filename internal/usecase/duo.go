package usecase

import (
	"context"
	"sort"

	"github.com/salescope/pipeline-insights/internal/entity"
)

type DuoRow struct {
	SetterID   string `json:"setter_id"`
	CloserID   string `json:"closer_id"`
	SetterName string `json:"setter_name"`
	CloserName string `json:"closer_name"`

	SalesCount int     `json:"sales_count"`
	Revenue    float64 `json:"revenue"`
	AvgDeal    float64 `json:"avg_deal"`

	RV1Planned   int      `json:"rv1_planned"`
	RV1Honored   int      `json:"rv1_honored"`
	RV1HonorRate *float64 `json:"rv1_honor_rate"`
}

type DuoUseCase struct {
	Events  EventStore
	Leads   LeadReader
	Actors  ActorDirectory
	Catalog StageCatalogProvider
}

func NewDuoUseCase(events EventStore, leads LeadReader, actors ActorDirectory, catalog StageCatalogProvider) *DuoUseCase {
	return &DuoUseCase{Events: events, Leads: leads, Actors: actors, Catalog: catalog}
}

type duoKey struct {
	setterID string
	closerID string
}

// Compute rolls WON leads up by (setter, closer) pair. Appointment counters
// only include events inside the intersection of the report window and the
// lead's assignment-to-this-pair interval: a lead reassigned mid-lifecycle
// must not leak its earlier pair's appointments into the new pair's numbers.
// Pairs whose intersection is empty simply contribute zero appointments.
func (uc *DuoUseCase) Compute(ctx context.Context, window entity.TimeWindow) ([]DuoRow, error) {
	catalog, err := uc.Catalog.Resolve(ctx)
	if err != nil {
		return nil, ReportingUnavailable(err)
	}

	won, err := uc.Leads.ListWonLeads(ctx, catalog, window, AttributionWeeklyProduction)
	if err != nil {
		return nil, ReportingUnavailable(err)
	}

	rowsByPair := make(map[duoKey]*DuoRow)
	leadPair := make(map[string]duoKey)
	leadAssignment := make(map[string]entity.TimeWindow)
	var order []duoKey

	for _, lead := range won {
		setterID, closerID, ok := lead.PairKey()
		if !ok {
			continue
		}
		key := duoKey{setterID: setterID, closerID: closerID}
		row, exists := rowsByPair[key]
		if !exists {
			row = &DuoRow{SetterID: setterID, CloserID: closerID}
			rowsByPair[key] = row
			order = append(order, key)
		}
		row.SalesCount++
		row.Revenue += lead.SaleValue

		assignedFrom := lead.CreatedAt
		if lead.AssignedAt != nil {
			assignedFrom = *lead.AssignedAt
		}
		leadPair[lead.ID] = key
		leadAssignment[lead.ID] = entity.TimeWindow{From: assignedFrom, To: window.To, Loc: window.Loc}
	}

	if len(rowsByPair) > 0 {
		events, err := uc.Events.ListEvents(ctx, catalog, EventQuery{
			Stages: []entity.StageKey{entity.StageRV1Planned, entity.StageRV1Honored},
			Window: window,
		})
		if err != nil {
			return nil, ReportingUnavailable(err)
		}
		for _, ev := range events {
			key, ok := leadPair[ev.LeadID]
			if !ok {
				continue
			}
			counting, ok := window.Intersect(leadAssignment[ev.LeadID])
			if !ok || !counting.Contains(ev.OccurredAt) {
				continue
			}
			switch entity.NormalizeStage(ev.ToStage) {
			case entity.StageRV1Planned:
				rowsByPair[key].RV1Planned++
			case entity.StageRV1Honored:
				rowsByPair[key].RV1Honored++
			}
		}
	}

	names, err := uc.actorNames(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]DuoRow, 0, len(order))
	for _, key := range order {
		row := rowsByPair[key]
		row.AvgDeal = row.Revenue / float64(row.SalesCount)
		row.RV1HonorRate = Rate(row.RV1Honored, row.RV1Planned)
		row.SetterName = names[key.setterID]
		row.CloserName = names[key.closerID]
		rows = append(rows, *row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Revenue > rows[j].Revenue
	})
	return rows, nil
}

func (uc *DuoUseCase) actorNames(ctx context.Context) (map[string]string, error) {
	names := make(map[string]string)
	for _, role := range []entity.Role{entity.RoleSetter, entity.RoleCloser} {
		actors, err := uc.Actors.ListActors(ctx, role)
		if err != nil {
			return nil, ReportingUnavailable(err)
		}
		for _, a := range actors {
			names[a.ID] = a.DisplayName()
		}
	}
	return names, nil
}
