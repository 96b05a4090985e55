package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/salescope/pipeline-insights/internal/entity"
)

type UpsertBudgetInput struct {
	Week   string  `json:"week"`
	Amount float64 `json:"amount"`
}

// WeekROASRow carries both attribution models under distinct names. Cohort
// follows leads created in the week to wherever they convert; weekly
// production counts deals closed during the week. They answer different
// questions and a single "revenue" field toggled by a flag is how the two
// get silently mixed, so the API never offers one.
type WeekROASRow struct {
	WeekStart time.Time `json:"week_start"`
	WeekEnd   time.Time `json:"week_end"`
	Spend     float64   `json:"spend"`

	CohortSales   int      `json:"cohort_sales"`
	CohortRevenue float64  `json:"cohort_revenue"`
	CohortROAS    *float64 `json:"cohort_roas"`

	WeeklyProductionSales   int      `json:"weekly_production_sales"`
	WeeklyProductionRevenue float64  `json:"weekly_production_revenue"`
	WeeklyProductionROAS    *float64 `json:"weekly_production_roas"`
}

type BudgetUseCase struct {
	Budgets     BudgetLedger
	Leads       LeadReader
	Catalog     StageCatalogProvider
	ReferenceTZ *time.Location
}

func NewBudgetUseCase(budgets BudgetLedger, leads LeadReader, catalog StageCatalogProvider, referenceTZ *time.Location) *BudgetUseCase {
	return &BudgetUseCase{Budgets: budgets, Leads: leads, Catalog: catalog, ReferenceTZ: referenceTZ}
}

// UpsertBudget floors the submitted date to its Monday in the reference zone
// and writes through the ledger's atomic upsert. Any day of the week is an
// acceptable key; resubmitting a week overwrites the previous amount.
func (uc *BudgetUseCase) UpsertBudget(ctx context.Context, in UpsertBudgetInput) (*entity.Budget, []ValidationError, error) {
	var errors []ValidationError
	if strings.TrimSpace(in.Week) == "" {
		errors = append(errors, ValidationError{"week", "is required"})
	}
	if in.Amount < 0 {
		errors = append(errors, ValidationError{"amount", "must not be negative"})
	}
	if len(errors) > 0 {
		return nil, errors, nil
	}

	day, err := time.ParseInLocation("2006-01-02", in.Week, uc.ReferenceTZ)
	if err != nil {
		return nil, []ValidationError{{"week", "must be a valid date (YYYY-MM-DD)"}}, nil
	}

	weekStart := entity.BudgetWeekKey(day, uc.ReferenceTZ)
	budget, err := uc.Budgets.Upsert(ctx, weekStart, in.Amount)
	if err != nil {
		return nil, nil, ReportingUnavailable(err)
	}
	return budget, nil, nil
}

// bucketSpan widens a window to cover its week buckets whole, Monday to
// Monday. Empty buckets leave the window untouched.
func bucketSpan(window entity.TimeWindow, weeks []entity.WeekBucket) entity.TimeWindow {
	if len(weeks) == 0 {
		return window
	}
	return entity.TimeWindow{
		From: weeks[0].Start,
		To:   weeks[len(weeks)-1].End,
		Loc:  window.Loc,
	}
}

// WeeklyROAS joins the spend ledger with both revenue attributions per
// Monday-start week of the window.
func (uc *BudgetUseCase) WeeklyROAS(ctx context.Context, window entity.TimeWindow) ([]WeekROASRow, error) {
	catalog, err := uc.Catalog.Resolve(ctx)
	if err != nil {
		return nil, ReportingUnavailable(err)
	}
	weeks := window.Weeks()

	// Budgets are keyed by Monday, which precedes window.From when the range
	// starts mid-week. Query over the full bucket span so the straddling
	// week's ledger row is not lost.
	budgets, err := uc.Budgets.GetBudgets(ctx, bucketSpan(window, weeks))
	if err != nil {
		return nil, ReportingUnavailable(err)
	}
	spendByWeek := make(map[time.Time]float64, len(budgets))
	for _, b := range budgets {
		spendByWeek[entity.BudgetWeekKey(b.WeekStart, uc.ReferenceTZ)] = b.Amount
	}

	rows := make([]WeekROASRow, 0, len(weeks))
	for _, week := range weeks {
		row := WeekROASRow{
			WeekStart: week.Start,
			WeekEnd:   week.End,
			Spend:     spendByWeek[entity.BudgetWeekKey(week.Start, uc.ReferenceTZ)],
		}

		cohort, err := uc.Leads.ListWonLeads(ctx, catalog, week.Counting, AttributionCohort)
		if err != nil {
			return nil, ReportingUnavailable(err)
		}
		for _, lead := range cohort {
			row.CohortSales++
			row.CohortRevenue += lead.SaleValue
		}

		production, err := uc.Leads.ListWonLeads(ctx, catalog, week.Counting, AttributionWeeklyProduction)
		if err != nil {
			return nil, ReportingUnavailable(err)
		}
		for _, lead := range production {
			row.WeeklyProductionSales++
			row.WeeklyProductionRevenue += lead.SaleValue
		}

		row.CohortROAS = Roas(row.CohortRevenue, row.Spend)
		row.WeeklyProductionROAS = Roas(row.WeeklyProductionRevenue, row.Spend)
		rows = append(rows, row)
	}
	return rows, nil
}
