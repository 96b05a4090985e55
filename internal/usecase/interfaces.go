package usecase

import (
	"context"
	"time"

	"github.com/salescope/pipeline-insights/internal/entity"
)

// AttributionModel picks how WON leads are tied to a period. The two models
// answer different questions and must never be mixed in one computation:
// cohort follows leads created in the window wherever they convert, weekly
// production counts conversions that happened in the window.
type AttributionModel string

const (
	AttributionCohort           AttributionModel = "COHORT"
	AttributionWeeklyProduction AttributionModel = "WEEKLY_PRODUCTION"
)

// ActorField selects which side of the lead's ownership a grouped count is
// keyed by. Ownership attribution (setter/closer) and event-level attribution
// (the user who caused the transition) are different semantics.
type ActorField string

const (
	ActorFieldSetter     ActorField = "SETTER"
	ActorFieldCloser     ActorField = "CLOSER"
	ActorFieldAttributed ActorField = "ATTRIBUTED"
)

type EventQuery struct {
	Stages           []entity.StageKey
	Window           entity.TimeWindow
	LeadID           *string
	SetterID         *string
	CloserID         *string
	AttributedUserID *string
	DistinctByLead   bool
}

type EventStore interface {
	// CountEvents counts stage transitions matching the query. With
	// DistinctByLead a lead counts at most once no matter how many matching
	// events it produced; for any query, distinct ≤ raw.
	CountEvents(ctx context.Context, catalog *entity.StageCatalog, q EventQuery) (int, error)
	ListEvents(ctx context.Context, catalog *entity.StageCatalog, q EventQuery) ([]entity.StageEvent, error)
	// AvgMinutesToFirstCall returns, per setter, the mean minutes between
	// lead creation and the first call attempt. Setters whose leads were
	// never called are absent from the map.
	AvgMinutesToFirstCall(ctx context.Context, catalog *entity.StageCatalog, window entity.TimeWindow) (map[string]float64, error)
}

// GroupedEventStore is the richer per-actor counting query. Stores that do
// not implement it degrade to one CountEvents call per actor; both paths feed
// the same rate helpers so callers never observe a different formula.
type GroupedEventStore interface {
	CountEventsByActor(ctx context.Context, catalog *entity.StageCatalog, stages []entity.StageKey, window entity.TimeWindow, field ActorField, distinctByLead bool) (map[string]int, error)
}

type LeadFilter struct {
	CreatedIn entity.TimeWindow
	SetterID  *string
	CloserID  *string
}

type LeadReader interface {
	ListLeads(ctx context.Context, filter LeadFilter) ([]entity.Lead, error)
	// ListWonLeads resolves the WON stage set through the catalog. Cohort:
	// created in window, won whenever. Weekly production: won in window.
	ListWonLeads(ctx context.Context, catalog *entity.StageCatalog, window entity.TimeWindow, model AttributionModel) ([]entity.Lead, error)
	CountCreated(ctx context.Context, window entity.TimeWindow) (int, error)
	CountCreatedBySetter(ctx context.Context, window entity.TimeWindow) (map[string]int, error)
}

type ActorDirectory interface {
	ListActors(ctx context.Context, role entity.Role) ([]entity.Actor, error)
}

type BudgetLedger interface {
	GetBudgets(ctx context.Context, window entity.TimeWindow) ([]entity.Budget, error)
	// Upsert is a single atomic insert-or-update on the week key, never a
	// read-then-write. Last write wins.
	Upsert(ctx context.Context, weekStart time.Time, amount float64) (*entity.Budget, error)
}

type StageCatalogProvider interface {
	Resolve(ctx context.Context) (*entity.StageCatalog, error)
}
