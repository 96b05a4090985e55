package usecase

import (
	"context"
	"time"

	"github.com/salescope/pipeline-insights/internal/entity"
)

type AppointmentTotals struct {
	Planned  int `json:"planned"`
	Honored  int `json:"honored"`
	NoShow   int `json:"no_show"`
	Canceled int `json:"canceled"`
}

// FunnelTotals is the fixed report shape. Lead-level fields count each lead
// once (a lead re-planned and re-cancelled twice still counts once per
// stage); call attempts are raw event counts.
type FunnelTotals struct {
	Leads         int `json:"leads"`
	CallRequests  int `json:"call_requests"`
	CallsTotal    int `json:"calls_total"`
	CallsAnswered int `json:"calls_answered"`
	SetterNoShow  int `json:"setter_no_show"`

	RV0 AppointmentTotals `json:"rv0"`
	RV1 AppointmentTotals `json:"rv1"`
	RV2 AppointmentTotals `json:"rv2"`

	NotQualified int `json:"not_qualified"`
	Lost         int `json:"lost"`
	WonCount     int `json:"won_count"`
}

type WeeklyFunnel struct {
	WeekStart time.Time    `json:"week_start"`
	WeekEnd   time.Time    `json:"week_end"`
	Totals    FunnelTotals `json:"totals"`
}

type FunnelUseCase struct {
	Events  EventStore
	Catalog StageCatalogProvider
}

func NewFunnelUseCase(events EventStore, catalog StageCatalogProvider) *FunnelUseCase {
	return &FunnelUseCase{Events: events, Catalog: catalog}
}

func (uc *FunnelUseCase) ComputeTotals(ctx context.Context, window entity.TimeWindow) (*FunnelTotals, error) {
	catalog, err := uc.Catalog.Resolve(ctx)
	if err != nil {
		return nil, ReportingUnavailable(err)
	}
	return uc.totals(ctx, catalog, window)
}

// ComputeWeekly splits the window into gapless Monday-start local weeks and
// distributes the window's events over them. Buckets come from calendar
// iteration, so a week with zero events still shows up. A distinct-counted
// lead lands in exactly one bucket, the week of its first matching event in
// the window; counting it per week would make the weekly series sum past the
// single-call total whenever a lead re-enters a stage across a week boundary.
func (uc *FunnelUseCase) ComputeWeekly(ctx context.Context, window entity.TimeWindow) ([]WeeklyFunnel, error) {
	catalog, err := uc.Catalog.Resolve(ctx)
	if err != nil {
		return nil, ReportingUnavailable(err)
	}

	weeks := window.Weeks()
	out := make([]WeeklyFunnel, len(weeks))
	for i, week := range weeks {
		out[i] = WeeklyFunnel{WeekStart: week.Start, WeekEnd: week.End}
	}

	for _, f := range funnelFields() {
		// ListEvents comes back ordered by occurred_at, so the first event
		// seen per lead is its first in the window.
		events, err := uc.Events.ListEvents(ctx, catalog, EventQuery{Stages: f.stages, Window: window})
		if err != nil {
			return nil, ReportingUnavailable(err)
		}
		seen := make(map[string]bool)
		for _, ev := range events {
			if f.distinct {
				if seen[ev.LeadID] {
					continue
				}
				seen[ev.LeadID] = true
			}
			for i := range weeks {
				if weeks[i].Counting.Contains(ev.OccurredAt) {
					*f.dst(&out[i].Totals)++
					break
				}
			}
		}
	}
	return out, nil
}

// funnelField maps one report counter to its stage set and counting mode.
type funnelField struct {
	dst      func(*FunnelTotals) *int
	stages   []entity.StageKey
	distinct bool
}

func funnelFields() []funnelField {
	return []funnelField{
		{func(t *FunnelTotals) *int { return &t.Leads }, []entity.StageKey{entity.StageNew}, true},
		{func(t *FunnelTotals) *int { return &t.CallRequests }, []entity.StageKey{entity.StageCallRequested}, true},
		{func(t *FunnelTotals) *int { return &t.CallsTotal }, []entity.StageKey{entity.StageCallAttempt}, false},
		{func(t *FunnelTotals) *int { return &t.CallsAnswered }, []entity.StageKey{entity.StageCallAnswered}, false},
		{func(t *FunnelTotals) *int { return &t.SetterNoShow }, []entity.StageKey{entity.StageSetterNoShow}, true},

		{func(t *FunnelTotals) *int { return &t.RV0.Planned }, []entity.StageKey{entity.StageRV0Planned}, true},
		{func(t *FunnelTotals) *int { return &t.RV0.Honored }, []entity.StageKey{entity.StageRV0Honored}, true},
		{func(t *FunnelTotals) *int { return &t.RV0.NoShow }, []entity.StageKey{entity.StageRV0NoShow}, true},
		{func(t *FunnelTotals) *int { return &t.RV0.Canceled }, []entity.StageKey{entity.StageRV0Canceled}, true},

		{func(t *FunnelTotals) *int { return &t.RV1.Planned }, []entity.StageKey{entity.StageRV1Planned}, true},
		{func(t *FunnelTotals) *int { return &t.RV1.Honored }, []entity.StageKey{entity.StageRV1Honored}, true},
		{func(t *FunnelTotals) *int { return &t.RV1.NoShow }, []entity.StageKey{entity.StageRV1NoShow}, true},
		{func(t *FunnelTotals) *int { return &t.RV1.Canceled }, []entity.StageKey{entity.StageRV1Canceled}, true},

		{func(t *FunnelTotals) *int { return &t.RV2.Planned }, []entity.StageKey{entity.StageRV2Planned}, true},
		{func(t *FunnelTotals) *int { return &t.RV2.Honored }, []entity.StageKey{entity.StageRV2Honored}, true},
		{func(t *FunnelTotals) *int { return &t.RV2.NoShow }, []entity.StageKey{entity.StageRV2NoShow}, true},
		{func(t *FunnelTotals) *int { return &t.RV2.Canceled }, []entity.StageKey{entity.StageRV2Canceled}, true},

		{func(t *FunnelTotals) *int { return &t.NotQualified }, []entity.StageKey{entity.StageNotQualified}, true},
		{func(t *FunnelTotals) *int { return &t.Lost }, []entity.StageKey{entity.StageLost}, true},
		{func(t *FunnelTotals) *int { return &t.WonCount }, []entity.StageKey{entity.StageWon}, true},
	}
}

func (uc *FunnelUseCase) totals(ctx context.Context, catalog *entity.StageCatalog, window entity.TimeWindow) (*FunnelTotals, error) {
	t := &FunnelTotals{}
	for _, f := range funnelFields() {
		n, err := uc.Events.CountEvents(ctx, catalog, EventQuery{
			Stages:         f.stages,
			Window:         window,
			DistinctByLead: f.distinct,
		})
		if err != nil {
			return nil, ReportingUnavailable(err)
		}
		*f.dst(t) = n
	}
	return t, nil
}
