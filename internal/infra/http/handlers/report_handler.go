package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/salescope/pipeline-insights/internal/entity"
	"github.com/salescope/pipeline-insights/internal/infra/cache"
	"github.com/salescope/pipeline-insights/internal/infra/http/middleware"
	"github.com/salescope/pipeline-insights/internal/usecase"
)

type ReportHandler struct {
	Summary   *usecase.SummaryUseCase
	Funnel    *usecase.FunnelUseCase
	Spotlight *usecase.SpotlightUseCase
	Duos      *usecase.DuoUseCase

	Cache       cache.Cache
	CacheTTL    time.Duration
	ReferenceTZ *time.Location
}

func NewReportHandler(
	summary *usecase.SummaryUseCase,
	funnel *usecase.FunnelUseCase,
	spotlight *usecase.SpotlightUseCase,
	duos *usecase.DuoUseCase,
	reportCache cache.Cache,
	cacheTTL time.Duration,
	referenceTZ *time.Location,
) *ReportHandler {
	return &ReportHandler{
		Summary:     summary,
		Funnel:      funnel,
		Spotlight:   spotlight,
		Duos:        duos,
		Cache:       reportCache,
		CacheTTL:    cacheTTL,
		ReferenceTZ: referenceTZ,
	}
}

func (h *ReportHandler) window(r *http.Request) (entity.TimeWindow, []usecase.ValidationError) {
	q := r.URL.Query()
	return usecase.ValidateReportRange(usecase.ReportRangeInput{
		From: q.Get("from"),
		To:   q.Get("to"),
		TZ:   q.Get("tz"),
	}, h.ReferenceTZ)
}

// cached serves summary/funnel style reports through the short-TTL cache.
// Cache failures only cost the shortcut, never the request.
func (h *ReportHandler) cached(w http.ResponseWriter, r *http.Request, report string, compute func(ctx context.Context, window entity.TimeWindow) (interface{}, error)) {
	window, verrs := h.window(r)
	if len(verrs) > 0 {
		writeValidationErrors(w, verrs)
		return
	}

	q := r.URL.Query()
	key := cache.ReportKey(report, q.Get("from"), q.Get("to"), q.Get("tz"))
	if body, hit, err := h.Cache.Get(r.Context(), key); err == nil && hit {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(body)
		return
	}

	payload, err := compute(r.Context(), window)
	if err != nil {
		writeError(w, err)
		return
	}
	middleware.RecordReport(report)

	body, err := json.Marshal(payload)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.Cache.Set(r.Context(), key, body, h.CacheTTL); err != nil {
		log.Printf("report cache write failed: %s", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func (h *ReportHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	h.cached(w, r, "summary", func(ctx context.Context, window entity.TimeWindow) (interface{}, error) {
		return h.Summary.Compute(ctx, window)
	})
}

type funnelResponse struct {
	Totals *usecase.FunnelTotals  `json:"totals"`
	Weekly []usecase.WeeklyFunnel `json:"weekly"`
}

func (h *ReportHandler) HandleFunnel(w http.ResponseWriter, r *http.Request) {
	h.cached(w, r, "funnel", func(ctx context.Context, window entity.TimeWindow) (interface{}, error) {
		totals, err := h.Funnel.ComputeTotals(ctx, window)
		if err != nil {
			return nil, err
		}
		weekly, err := h.Funnel.ComputeWeekly(ctx, window)
		if err != nil {
			return nil, err
		}
		return funnelResponse{Totals: totals, Weekly: weekly}, nil
	})
}

type spotlightResponse struct {
	Rows     interface{} `json:"rows"`
	Analysis string      `json:"analysis"`
}

func (h *ReportHandler) HandleSpotlightSetters(w http.ResponseWriter, r *http.Request) {
	window, verrs := h.window(r)
	if len(verrs) > 0 {
		writeValidationErrors(w, verrs)
		return
	}
	rows, err := h.Spotlight.SetterRows(r.Context(), window)
	if err != nil {
		writeError(w, err)
		return
	}
	middleware.RecordReport("spotlight-setters")
	writeJSON(w, http.StatusOK, spotlightResponse{Rows: rows, Analysis: usecase.SetterAnalysis(rows)})
}

func (h *ReportHandler) HandleSpotlightClosers(w http.ResponseWriter, r *http.Request) {
	window, verrs := h.window(r)
	if len(verrs) > 0 {
		writeValidationErrors(w, verrs)
		return
	}
	rows, err := h.Spotlight.CloserRows(r.Context(), window)
	if err != nil {
		writeError(w, err)
		return
	}
	middleware.RecordReport("spotlight-closers")
	writeJSON(w, http.StatusOK, spotlightResponse{Rows: rows, Analysis: usecase.CloserAnalysis(rows)})
}

func (h *ReportHandler) HandleDuos(w http.ResponseWriter, r *http.Request) {
	window, verrs := h.window(r)
	if len(verrs) > 0 {
		writeValidationErrors(w, verrs)
		return
	}
	rows, err := h.Duos.Compute(r.Context(), window)
	if err != nil {
		writeError(w, err)
		return
	}
	middleware.RecordReport("duos")
	writeJSON(w, http.StatusOK, map[string]interface{}{"rows": rows})
}
