package usecase

import (
	"context"
	"time"

	"github.com/salescope/pipeline-insights/internal/entity"
)

type Summary struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`

	Leads    int      `json:"leads"`
	WonCount int      `json:"won_count"`
	Revenue  float64  `json:"revenue"`
	Spend    float64  `json:"spend"`
	ROAS     *float64 `json:"roas"`
}

type SummaryUseCase struct {
	Events  EventStore
	Leads   LeadReader
	Budgets BudgetLedger
	Catalog StageCatalogProvider
}

func NewSummaryUseCase(events EventStore, leads LeadReader, budgets BudgetLedger, catalog StageCatalogProvider) *SummaryUseCase {
	return &SummaryUseCase{Events: events, Leads: leads, Budgets: budgets, Catalog: catalog}
}

// Compute is the headline card: lead volume, closed revenue (weekly
// production attribution), spend over the same window and the resulting ROAS.
func (uc *SummaryUseCase) Compute(ctx context.Context, window entity.TimeWindow) (*Summary, error) {
	catalog, err := uc.Catalog.Resolve(ctx)
	if err != nil {
		return nil, ReportingUnavailable(err)
	}

	leads, err := uc.Leads.CountCreated(ctx, window)
	if err != nil {
		return nil, ReportingUnavailable(err)
	}

	won, err := uc.Leads.ListWonLeads(ctx, catalog, window, AttributionWeeklyProduction)
	if err != nil {
		return nil, ReportingUnavailable(err)
	}
	revenue := 0.0
	for _, lead := range won {
		revenue += lead.SaleValue
	}

	// Week budgets are keyed by Monday; a mid-week window start must still
	// pick up the straddling week's row.
	budgets, err := uc.Budgets.GetBudgets(ctx, bucketSpan(window, window.Weeks()))
	if err != nil {
		return nil, ReportingUnavailable(err)
	}
	spend := 0.0
	for _, b := range budgets {
		spend += b.Amount
	}

	return &Summary{
		From:     window.From,
		To:       window.To,
		Leads:    leads,
		WonCount: len(won),
		Revenue:  revenue,
		Spend:    spend,
		ROAS:     Roas(revenue, spend),
	}, nil
}
