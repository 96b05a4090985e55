package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salescope/pipeline-insights/internal/entity"
)

type spotlightFixture struct {
	events *fakeEventStore
	leads  *fakeLeadReader
	actors *fakeActorDirectory
	window entity.TimeWindow
}

func newSpotlightFixture(t *testing.T) spotlightFixture {
	t.Helper()
	paris := parisLoc(t)
	window, err := entity.DayWindow("2024-01-01", "2024-01-14", paris)
	require.NoError(t, err)

	day := func(d, hour int) time.Time {
		return time.Date(2024, 1, d, hour, 0, 0, 0, paris)
	}

	var leads []*entity.Lead
	addLead := func(id string, setterID, closerID *string, saleValue float64) *entity.Lead {
		lead := &entity.Lead{
			ID: id, SetterID: setterID, CloserID: closerID,
			SaleValue: saleValue, CreatedAt: day(2, 9),
		}
		leads = append(leads, lead)
		return lead
	}

	s1, s2, c1 := strPtr("s1"), strPtr("s2"), strPtr("c1")

	// Alice received ten leads, five of which booked an RV1.
	addLead("l1", s1, c1, 5000)
	for _, id := range []string{"l2", "l3", "l4", "l5"} {
		addLead(id, s1, c1, 0)
	}
	for _, id := range []string{"l6", "l7", "l8", "l9", "l10"} {
		addLead(id, s1, nil, 0)
	}
	// Bruno received four.
	for _, id := range []string{"m1", "m2", "m3", "m4"} {
		addLead(id, s2, nil, 0)
	}

	events := []entity.StageEvent{
		eventAt("l1", "CALL_ATTEMPT", day(2, 9).Add(30*time.Minute)),

		eventAt("l1", "RV1_PLANNED", day(3, 10)),
		eventAt("l1", "RV1_PLANNED", day(4, 10)), // re-plan, same lead
		eventAt("l1", "RV1_HONORED", day(5, 10)),
		eventAt("l2", "RV1_PLANNED", day(3, 11)),
		eventAt("l2", "RV1_HONORED", day(4, 11)),
		eventAt("l3", "RV1_PLANNED", day(3, 12)),
		eventAt("l3", "RV1_HONORED", day(5, 12)),
		eventAt("l4", "RV1_PLANNED", day(3, 14)),
		eventAt("l4", "RV1_CANCELED", day(4, 14)),
		eventAt("l5", "RV1_PLANNED", day(3, 15)),

		eventAt("m1", "RV1_PLANNED", day(6, 10)),

		eventAt("l1", "WON", day(10, 16)),
	}

	leadIndex := make(map[string]*entity.Lead, len(leads))
	for _, lead := range leads {
		leadIndex[lead.ID] = lead
	}

	return spotlightFixture{
		events: &fakeEventStore{events: events, leads: leadIndex},
		leads:  &fakeLeadReader{leads: leads, events: events},
		actors: &fakeActorDirectory{actors: []entity.Actor{
			{ID: "s1", FirstName: "Alice", LastName: "Martin", Role: entity.RoleSetter},
			{ID: "s2", FirstName: "Bruno", LastName: "Costa", Role: entity.RoleSetter},
			{ID: "c1", FirstName: "Chloé", LastName: "Durand", Role: entity.RoleCloser},
		}},
		window: window,
	}
}

func TestSetterRows(t *testing.T) {
	fx := newSpotlightFixture(t)
	uc := NewSpotlightUseCase(fx.events, fx.leads, fx.actors, &fakeCatalogProvider{})

	rows, err := uc.SetterRows(context.Background(), fx.window)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	alice := rows[0]
	assert.Equal(t, "Alice Martin", alice.Name)
	assert.Equal(t, 10, alice.LeadsReceived)
	assert.Equal(t, 5, alice.RV1Planned, "the re-planned lead counts once")
	assert.Equal(t, 3, alice.RV1Honored)
	assert.Equal(t, 1, alice.RV1Canceled)
	assert.Equal(t, 1, alice.Sales)
	assert.Equal(t, 5000.0, alice.Revenue)
	require.NotNil(t, alice.QualificationRate)
	assert.InDelta(t, 0.5, *alice.QualificationRate, 1e-9)
	require.NotNil(t, alice.CancelRate)
	assert.InDelta(t, 0.2, *alice.CancelRate, 1e-9)
	require.NotNil(t, alice.TTFCAvgMinutes)
	assert.InDelta(t, 30.0, *alice.TTFCAvgMinutes, 1e-9)

	bruno := rows[1]
	assert.Equal(t, 4, bruno.LeadsReceived)
	assert.Equal(t, 1, bruno.RV1Planned)
	require.NotNil(t, bruno.QualificationRate)
	assert.InDelta(t, 0.25, *bruno.QualificationRate, 1e-9)
	assert.Nil(t, bruno.TTFCAvgMinutes, "no call attempt, no average")
	require.NotNil(t, bruno.CancelRate)
	assert.Equal(t, 0.0, *bruno.CancelRate)
}

func TestCloserRows(t *testing.T) {
	fx := newSpotlightFixture(t)
	uc := NewSpotlightUseCase(fx.events, fx.leads, fx.actors, &fakeCatalogProvider{})

	rows, err := uc.CloserRows(context.Background(), fx.window)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	chloe := rows[0]
	assert.Equal(t, "Chloé Durand", chloe.Name)
	assert.Equal(t, 5, chloe.RV1Planned)
	assert.Equal(t, 3, chloe.RV1Honored)
	assert.Equal(t, 1, chloe.SalesClosed)
	assert.Equal(t, 5000.0, chloe.RevenueTotal)
	require.NotNil(t, chloe.ClosingRate)
	assert.InDelta(t, 1.0/3.0, *chloe.ClosingRate, 1e-9)
	require.NotNil(t, chloe.RV1CancelRate)
	assert.InDelta(t, 0.2, *chloe.RV1CancelRate, 1e-9)
	assert.Nil(t, chloe.RV2CancelRate, "no RV2 planned means no rate")
}

func TestSetterRowsGroupedPathMatchesFallback(t *testing.T) {
	fx := newSpotlightFixture(t)

	perActor := NewSpotlightUseCase(fx.events, fx.leads, fx.actors, &fakeCatalogProvider{})
	grouped := NewSpotlightUseCase(&groupedFakeEventStore{fx.events}, fx.leads, fx.actors, &fakeCatalogProvider{})

	fallbackRows, err := perActor.SetterRows(context.Background(), fx.window)
	require.NoError(t, err)
	groupedRows, err := grouped.SetterRows(context.Background(), fx.window)
	require.NoError(t, err)

	assert.Equal(t, fallbackRows, groupedRows)
}

func TestRankSetters(t *testing.T) {
	rate := func(v float64) *float64 { return &v }
	rows := []SetterRow{
		{ActorID: "a", RV1Planned: 3, QualificationRate: rate(0.3), LeadsReceived: 10},
		{ActorID: "b", RV1Planned: 5, QualificationRate: rate(0.2), LeadsReceived: 25},
		{ActorID: "c", RV1Planned: 5, QualificationRate: rate(0.4), LeadsReceived: 12},
		{ActorID: "d", RV1Planned: 3, QualificationRate: nil, LeadsReceived: 50},
	}

	RankSetters(rows)

	ids := []string{rows[0].ActorID, rows[1].ActorID, rows[2].ActorID, rows[3].ActorID}
	// Planned first, rate breaks the 5-5 tie, nil rate ranks below a real one.
	assert.Equal(t, []string{"c", "b", "a", "d"}, ids)
}

func TestRankClosers(t *testing.T) {
	rate := func(v float64) *float64 { return &v }
	rows := []CloserRow{
		{ActorID: "a", ClosingRate: rate(0.5), SalesClosed: 2, RevenueTotal: 8000},
		{ActorID: "b", ClosingRate: nil, SalesClosed: 9, RevenueTotal: 90000},
		{ActorID: "c", ClosingRate: rate(0.5), SalesClosed: 2, RevenueTotal: 12000},
		{ActorID: "d", ClosingRate: rate(0.8), SalesClosed: 1, RevenueTotal: 3000},
	}

	RankClosers(rows)

	ids := []string{rows[0].ActorID, rows[1].ActorID, rows[2].ActorID, rows[3].ActorID}
	assert.Equal(t, []string{"d", "c", "a", "b"}, ids)
}
