package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salescope/pipeline-insights/internal/entity"
)

func TestSummaryCompute(t *testing.T) {
	paris := parisLoc(t)
	window, err := entity.DayWindow("2024-01-01", "2024-01-14", paris)
	require.NoError(t, err)

	day := func(d int) time.Time { return time.Date(2024, 1, d, 10, 0, 0, 0, paris) }

	leads := []*entity.Lead{
		{ID: "l1", SaleValue: 6000, CreatedAt: day(2)},
		{ID: "l2", SaleValue: 3000, CreatedAt: day(3)},
		{ID: "l3", CreatedAt: day(4)},
		// Created before the window, closed inside it: counts for revenue
		// but not for lead volume.
		{ID: "l0", SaleValue: 2000, CreatedAt: time.Date(2023, 12, 10, 10, 0, 0, 0, paris)},
	}
	events := []entity.StageEvent{
		eventAt("l1", "WON", day(10)),
		eventAt("l0", "Gagné", day(11)),
		// l2 closes after the window.
		eventAt("l2", "WON", time.Date(2024, 2, 5, 10, 0, 0, 0, paris)),
	}

	ledger := newFakeBudgetLedger()
	_, err = ledger.Upsert(context.Background(), time.Date(2024, 1, 1, 0, 0, 0, 0, paris), 1000)
	require.NoError(t, err)
	_, err = ledger.Upsert(context.Background(), time.Date(2024, 1, 8, 0, 0, 0, 0, paris), 1000)
	require.NoError(t, err)

	uc := NewSummaryUseCase(
		&fakeEventStore{events: events},
		&fakeLeadReader{leads: leads, events: events},
		ledger,
		&fakeCatalogProvider{},
	)

	summary, err := uc.Compute(context.Background(), window)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Leads)
	assert.Equal(t, 2, summary.WonCount)
	assert.Equal(t, 8000.0, summary.Revenue)
	assert.Equal(t, 2000.0, summary.Spend)
	require.NotNil(t, summary.ROAS)
	assert.InDelta(t, 4.0, *summary.ROAS, 1e-9)
}

func TestSummaryMidWeekStartKeepsStraddlingSpend(t *testing.T) {
	paris := parisLoc(t)
	window, err := entity.DayWindow("2024-01-03", "2024-01-07", paris)
	require.NoError(t, err)

	ledger := newFakeBudgetLedger()
	_, err = ledger.Upsert(context.Background(), time.Date(2024, 1, 1, 0, 0, 0, 0, paris), 1500)
	require.NoError(t, err)

	uc := NewSummaryUseCase(&fakeEventStore{}, &fakeLeadReader{}, ledger, &fakeCatalogProvider{})

	summary, err := uc.Compute(context.Background(), window)
	require.NoError(t, err)
	assert.Equal(t, 1500.0, summary.Spend, "the Monday-keyed row of the straddling week counts")
}
