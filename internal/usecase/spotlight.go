package usecase

import (
	"context"
	"sort"

	"github.com/salescope/pipeline-insights/internal/entity"
)

type SetterRow struct {
	ActorID       string `json:"actor_id"`
	Name          string `json:"name"`
	LeadsReceived int    `json:"leads_received"`
	RV1Planned    int    `json:"rv1_planned"`
	RV1Honored    int    `json:"rv1_honored"`
	RV1Canceled   int    `json:"rv1_canceled"`
	Sales         int    `json:"sales"`
	Revenue       float64 `json:"revenue"`

	TTFCAvgMinutes    *float64 `json:"ttfc_avg_minutes"`
	QualificationRate *float64 `json:"qualification_rate"`
	CancelRate        *float64 `json:"cancel_rate"`
	SettingRate       *float64 `json:"setting_rate"`
}

type CloserRow struct {
	ActorID      string  `json:"actor_id"`
	Name         string  `json:"name"`
	RV1Planned   int     `json:"rv1_planned"`
	RV1Honored   int     `json:"rv1_honored"`
	RV1Canceled  int     `json:"rv1_canceled"`
	RV2Planned   int     `json:"rv2_planned"`
	RV2Canceled  int     `json:"rv2_canceled"`
	SalesClosed  int     `json:"sales_closed"`
	RevenueTotal float64 `json:"revenue_total"`

	ClosingRate   *float64 `json:"closing_rate"`
	RV1CancelRate *float64 `json:"rv1_cancel_rate"`
	RV2CancelRate *float64 `json:"rv2_cancel_rate"`
}

type SpotlightUseCase struct {
	Events  EventStore
	Leads   LeadReader
	Actors  ActorDirectory
	Catalog StageCatalogProvider
}

func NewSpotlightUseCase(events EventStore, leads LeadReader, actors ActorDirectory, catalog StageCatalogProvider) *SpotlightUseCase {
	return &SpotlightUseCase{Events: events, Leads: leads, Actors: actors, Catalog: catalog}
}

// SetterRows builds one row per setter over the window: counters attributed
// by current lead ownership, WON revenue from leads the setter originated,
// TTFC, and the derived rates. Rows come back ranked.
func (uc *SpotlightUseCase) SetterRows(ctx context.Context, window entity.TimeWindow) ([]SetterRow, error) {
	catalog, err := uc.Catalog.Resolve(ctx)
	if err != nil {
		return nil, ReportingUnavailable(err)
	}
	setters, err := uc.Actors.ListActors(ctx, entity.RoleSetter)
	if err != nil {
		return nil, ReportingUnavailable(err)
	}

	leadsReceived, err := uc.Leads.CountCreatedBySetter(ctx, window)
	if err != nil {
		return nil, ReportingUnavailable(err)
	}

	planned, err := uc.countByActor(ctx, catalog, []entity.StageKey{entity.StageRV1Planned}, window, ActorFieldSetter, setters)
	if err != nil {
		return nil, err
	}
	honored, err := uc.countByActor(ctx, catalog, []entity.StageKey{entity.StageRV1Honored}, window, ActorFieldSetter, setters)
	if err != nil {
		return nil, err
	}
	canceled, err := uc.countByActor(ctx, catalog, []entity.StageKey{entity.StageRV1Canceled}, window, ActorFieldSetter, setters)
	if err != nil {
		return nil, err
	}

	ttfc, err := uc.Events.AvgMinutesToFirstCall(ctx, catalog, window)
	if err != nil {
		return nil, ReportingUnavailable(err)
	}

	won, err := uc.Leads.ListWonLeads(ctx, catalog, window, AttributionWeeklyProduction)
	if err != nil {
		return nil, ReportingUnavailable(err)
	}
	salesBySetter := make(map[string]int)
	revenueBySetter := make(map[string]float64)
	for _, lead := range won {
		if lead.SetterID == nil {
			continue
		}
		salesBySetter[*lead.SetterID]++
		revenueBySetter[*lead.SetterID] += lead.SaleValue
	}

	rows := make([]SetterRow, 0, len(setters))
	for _, actor := range setters {
		row := SetterRow{
			ActorID:       actor.ID,
			Name:          actor.DisplayName(),
			LeadsReceived: leadsReceived[actor.ID],
			RV1Planned:    planned[actor.ID],
			RV1Honored:    honored[actor.ID],
			RV1Canceled:   canceled[actor.ID],
			Sales:         salesBySetter[actor.ID],
			Revenue:       revenueBySetter[actor.ID],
		}
		if avg, ok := ttfc[actor.ID]; ok {
			row.TTFCAvgMinutes = &avg
		}
		row.QualificationRate = Rate(row.RV1Planned, row.LeadsReceived)
		row.CancelRate = Rate(row.RV1Canceled, row.RV1Planned)
		row.SettingRate = Rate(row.RV1Planned, row.LeadsReceived)
		rows = append(rows, row)
	}

	RankSetters(rows)
	return rows, nil
}

// CloserRows builds one ranked row per closer, attributed by closer
// ownership of the lead.
func (uc *SpotlightUseCase) CloserRows(ctx context.Context, window entity.TimeWindow) ([]CloserRow, error) {
	catalog, err := uc.Catalog.Resolve(ctx)
	if err != nil {
		return nil, ReportingUnavailable(err)
	}
	closers, err := uc.Actors.ListActors(ctx, entity.RoleCloser)
	if err != nil {
		return nil, ReportingUnavailable(err)
	}

	counts := make(map[entity.StageKey]map[string]int)
	for _, key := range []entity.StageKey{
		entity.StageRV1Planned, entity.StageRV1Honored, entity.StageRV1Canceled,
		entity.StageRV2Planned, entity.StageRV2Canceled,
	} {
		m, err := uc.countByActor(ctx, catalog, []entity.StageKey{key}, window, ActorFieldCloser, closers)
		if err != nil {
			return nil, err
		}
		counts[key] = m
	}

	won, err := uc.Leads.ListWonLeads(ctx, catalog, window, AttributionWeeklyProduction)
	if err != nil {
		return nil, ReportingUnavailable(err)
	}
	salesByCloser := make(map[string]int)
	revenueByCloser := make(map[string]float64)
	for _, lead := range won {
		if lead.CloserID == nil {
			continue
		}
		salesByCloser[*lead.CloserID]++
		revenueByCloser[*lead.CloserID] += lead.SaleValue
	}

	rows := make([]CloserRow, 0, len(closers))
	for _, actor := range closers {
		row := CloserRow{
			ActorID:      actor.ID,
			Name:         actor.DisplayName(),
			RV1Planned:   counts[entity.StageRV1Planned][actor.ID],
			RV1Honored:   counts[entity.StageRV1Honored][actor.ID],
			RV1Canceled:  counts[entity.StageRV1Canceled][actor.ID],
			RV2Planned:   counts[entity.StageRV2Planned][actor.ID],
			RV2Canceled:  counts[entity.StageRV2Canceled][actor.ID],
			SalesClosed:  salesByCloser[actor.ID],
			RevenueTotal: revenueByCloser[actor.ID],
		}
		row.ClosingRate = Rate(row.SalesClosed, row.RV1Honored)
		row.RV1CancelRate = Rate(row.RV1Canceled, row.RV1Planned)
		row.RV2CancelRate = Rate(row.RV2Canceled, row.RV2Planned)
		rows = append(rows, row)
	}

	RankClosers(rows)
	return rows, nil
}

// countByActor runs the grouped query when the store supports it and
// otherwise falls back to one ownership-filtered count per actor. Same
// numbers either way, the grouped path is just one round trip.
func (uc *SpotlightUseCase) countByActor(ctx context.Context, catalog *entity.StageCatalog, stages []entity.StageKey, window entity.TimeWindow, field ActorField, actors []entity.Actor) (map[string]int, error) {
	if grouped, ok := uc.Events.(GroupedEventStore); ok {
		m, err := grouped.CountEventsByActor(ctx, catalog, stages, window, field, true)
		if err != nil {
			return nil, ReportingUnavailable(err)
		}
		return m, nil
	}

	out := make(map[string]int, len(actors))
	for _, actor := range actors {
		id := actor.ID
		q := EventQuery{Stages: stages, Window: window, DistinctByLead: true}
		switch field {
		case ActorFieldSetter:
			q.SetterID = &id
		case ActorFieldCloser:
			q.CloserID = &id
		case ActorFieldAttributed:
			q.AttributedUserID = &id
		}
		n, err := uc.Events.CountEvents(ctx, catalog, q)
		if err != nil {
			return nil, ReportingUnavailable(err)
		}
		out[id] = n
	}
	return out, nil
}

// RankSetters orders by rv1 planned, then qualification rate (nil lowest),
// then leads received. Stable, so remaining ties keep insertion order.
func RankSetters(rows []SetterRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if c := compareIntDesc(a.RV1Planned, b.RV1Planned); c != 0 {
			return c < 0
		}
		if c := compareRateDesc(a.QualificationRate, b.QualificationRate); c != 0 {
			return c < 0
		}
		return compareIntDesc(a.LeadsReceived, b.LeadsReceived) < 0
	})
}

// RankClosers orders by closing rate (nil lowest), then sales, then revenue.
func RankClosers(rows []CloserRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if c := compareRateDesc(a.ClosingRate, b.ClosingRate); c != 0 {
			return c < 0
		}
		if c := compareIntDesc(a.SalesClosed, b.SalesClosed); c != 0 {
			return c < 0
		}
		return compareFloatDesc(a.RevenueTotal, b.RevenueTotal) < 0
	})
}
