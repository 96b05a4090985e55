package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/salescope/pipeline-insights/internal/entity"
)

// In-memory doubles that reproduce the repository semantics over slices, so
// the aggregation invariants can be checked without a database.

type fakeEventStore struct {
	events []entity.StageEvent
	leads  map[string]*entity.Lead
	err    error
}

func labelSet(catalog *entity.StageCatalog, keys ...entity.StageKey) map[string]bool {
	set := make(map[string]bool)
	for _, label := range catalog.Labels(keys...) {
		set[label] = true
	}
	return set
}

func (f *fakeEventStore) match(catalog *entity.StageCatalog, q EventQuery) []entity.StageEvent {
	set := labelSet(catalog, q.Stages...)
	var out []entity.StageEvent
	for _, ev := range f.events {
		if !set[ev.ToStage] {
			continue
		}
		if !q.Window.Contains(ev.OccurredAt) {
			continue
		}
		if q.LeadID != nil && ev.LeadID != *q.LeadID {
			continue
		}
		if q.SetterID != nil {
			lead := f.leads[ev.LeadID]
			if lead == nil || lead.SetterID == nil || *lead.SetterID != *q.SetterID {
				continue
			}
		}
		if q.CloserID != nil {
			lead := f.leads[ev.LeadID]
			if lead == nil || lead.CloserID == nil || *lead.CloserID != *q.CloserID {
				continue
			}
		}
		if q.AttributedUserID != nil {
			if ev.AttributedUserID == nil || *ev.AttributedUserID != *q.AttributedUserID {
				continue
			}
		}
		out = append(out, ev)
	}
	return out
}

func (f *fakeEventStore) CountEvents(ctx context.Context, catalog *entity.StageCatalog, q EventQuery) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	matched := f.match(catalog, q)
	if !q.DistinctByLead {
		return len(matched), nil
	}
	leads := make(map[string]bool)
	for _, ev := range matched {
		leads[ev.LeadID] = true
	}
	return len(leads), nil
}

func (f *fakeEventStore) ListEvents(ctx context.Context, catalog *entity.StageCatalog, q EventQuery) ([]entity.StageEvent, error) {
	if f.err != nil {
		return nil, f.err
	}
	matched := f.match(catalog, q)
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].OccurredAt.Before(matched[j].OccurredAt)
	})
	return matched, nil
}

func (f *fakeEventStore) AvgMinutesToFirstCall(ctx context.Context, catalog *entity.StageCatalog, window entity.TimeWindow) (map[string]float64, error) {
	if f.err != nil {
		return nil, f.err
	}
	set := labelSet(catalog, entity.StageCallAttempt, entity.StageCallAnswered)

	firstCall := make(map[string]time.Time)
	for _, ev := range f.events {
		if !set[ev.ToStage] {
			continue
		}
		if at, ok := firstCall[ev.LeadID]; !ok || ev.OccurredAt.Before(at) {
			firstCall[ev.LeadID] = ev.OccurredAt
		}
	}

	sums := make(map[string]float64)
	counts := make(map[string]int)
	for leadID, at := range firstCall {
		lead := f.leads[leadID]
		if lead == nil || lead.SetterID == nil || !window.Contains(lead.CreatedAt) {
			continue
		}
		sums[*lead.SetterID] += at.Sub(lead.CreatedAt).Minutes()
		counts[*lead.SetterID]++
	}

	out := make(map[string]float64)
	for setterID, sum := range sums {
		out[setterID] = sum / float64(counts[setterID])
	}
	return out, nil
}

// groupedFakeEventStore adds the grouped query on top of the per-actor
// semantics, to prove both spotlight paths agree.
type groupedFakeEventStore struct {
	*fakeEventStore
}

func (g *groupedFakeEventStore) CountEventsByActor(ctx context.Context, catalog *entity.StageCatalog, stages []entity.StageKey, window entity.TimeWindow, field ActorField, distinctByLead bool) (map[string]int, error) {
	if g.err != nil {
		return nil, g.err
	}
	matched := g.match(catalog, EventQuery{Stages: stages, Window: window})
	raw := make(map[string]map[string]bool)
	counts := make(map[string]int)
	for _, ev := range matched {
		var actorID *string
		switch field {
		case ActorFieldSetter:
			if lead := g.leads[ev.LeadID]; lead != nil {
				actorID = lead.SetterID
			}
		case ActorFieldCloser:
			if lead := g.leads[ev.LeadID]; lead != nil {
				actorID = lead.CloserID
			}
		case ActorFieldAttributed:
			actorID = ev.AttributedUserID
		}
		if actorID == nil {
			continue
		}
		if distinctByLead {
			if raw[*actorID] == nil {
				raw[*actorID] = make(map[string]bool)
			}
			raw[*actorID][ev.LeadID] = true
		} else {
			counts[*actorID]++
		}
	}
	if distinctByLead {
		for actorID, leads := range raw {
			counts[actorID] = len(leads)
		}
	}
	return counts, nil
}

type fakeLeadReader struct {
	leads  []*entity.Lead
	events []entity.StageEvent
	err    error
}

func (f *fakeLeadReader) ListLeads(ctx context.Context, filter LeadFilter) ([]entity.Lead, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []entity.Lead
	for _, lead := range f.leads {
		if !filter.CreatedIn.Contains(lead.CreatedAt) {
			continue
		}
		if filter.SetterID != nil && (lead.SetterID == nil || *lead.SetterID != *filter.SetterID) {
			continue
		}
		if filter.CloserID != nil && (lead.CloserID == nil || *lead.CloserID != *filter.CloserID) {
			continue
		}
		out = append(out, *lead)
	}
	return out, nil
}

func (f *fakeLeadReader) ListWonLeads(ctx context.Context, catalog *entity.StageCatalog, window entity.TimeWindow, model AttributionModel) ([]entity.Lead, error) {
	if f.err != nil {
		return nil, f.err
	}
	wonSet := make(map[string]bool)
	for _, label := range catalog.WonLabels() {
		wonSet[label] = true
	}

	var out []entity.Lead
	for _, lead := range f.leads {
		switch model {
		case AttributionCohort:
			if !window.Contains(lead.CreatedAt) {
				continue
			}
			if f.hasWonEvent(lead.ID, wonSet, entity.TimeWindow{}) {
				out = append(out, *lead)
			}
		case AttributionWeeklyProduction:
			if f.hasWonEvent(lead.ID, wonSet, window) {
				out = append(out, *lead)
			}
		}
	}
	return out, nil
}

func (f *fakeLeadReader) hasWonEvent(leadID string, wonSet map[string]bool, window entity.TimeWindow) bool {
	for _, ev := range f.events {
		if ev.LeadID == leadID && wonSet[ev.ToStage] && window.Contains(ev.OccurredAt) {
			return true
		}
	}
	return false
}

func (f *fakeLeadReader) CountCreated(ctx context.Context, window entity.TimeWindow) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	count := 0
	for _, lead := range f.leads {
		if window.Contains(lead.CreatedAt) {
			count++
		}
	}
	return count, nil
}

func (f *fakeLeadReader) CountCreatedBySetter(ctx context.Context, window entity.TimeWindow) (map[string]int, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]int)
	for _, lead := range f.leads {
		if lead.SetterID != nil && window.Contains(lead.CreatedAt) {
			out[*lead.SetterID]++
		}
	}
	return out, nil
}

type fakeActorDirectory struct {
	actors []entity.Actor
}

func (f *fakeActorDirectory) ListActors(ctx context.Context, role entity.Role) ([]entity.Actor, error) {
	var out []entity.Actor
	for _, a := range f.actors {
		if a.Role == role {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeBudgetLedger struct {
	budgets map[int64]entity.Budget
}

func newFakeBudgetLedger() *fakeBudgetLedger {
	return &fakeBudgetLedger{budgets: make(map[int64]entity.Budget)}
}

func (f *fakeBudgetLedger) Upsert(ctx context.Context, weekStart time.Time, amount float64) (*entity.Budget, error) {
	key := weekStart.Unix()
	b, ok := f.budgets[key]
	if !ok {
		b = entity.Budget{ID: uuid.New().String(), WeekStart: weekStart, CreatedAt: time.Now()}
	}
	b.Amount = amount
	b.UpdatedAt = time.Now()
	f.budgets[key] = b
	return &b, nil
}

func (f *fakeBudgetLedger) GetBudgets(ctx context.Context, window entity.TimeWindow) ([]entity.Budget, error) {
	var out []entity.Budget
	for _, b := range f.budgets {
		if window.Contains(b.WeekStart) {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].WeekStart.Before(out[j].WeekStart) })
	return out, nil
}

type fakeCatalogProvider struct {
	stages []entity.Stage
	err    error
}

func (f *fakeCatalogProvider) Resolve(ctx context.Context) (*entity.StageCatalog, error) {
	if f.err != nil {
		return nil, f.err
	}
	return entity.NewStageCatalog(f.stages), nil
}

func strPtr(s string) *string { return &s }

func eventAt(leadID string, stage string, at time.Time) entity.StageEvent {
	return entity.StageEvent{ID: uuid.New().String(), LeadID: leadID, ToStage: stage, OccurredAt: at}
}
