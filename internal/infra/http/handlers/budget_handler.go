package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/salescope/pipeline-insights/internal/usecase"
)

type BudgetHandler struct {
	Budgets     *usecase.BudgetUseCase
	ReferenceTZ *time.Location
}

func NewBudgetHandler(budgets *usecase.BudgetUseCase, referenceTZ *time.Location) *BudgetHandler {
	return &BudgetHandler{Budgets: budgets, ReferenceTZ: referenceTZ}
}

// HandleUpsert writes the ad spend for one week. Submitting the same week
// twice overwrites the amount, it never creates a second row.
func (h *BudgetHandler) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	var in usecase.UpsertBudgetInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON"})
		return
	}

	budget, verrs, err := h.Budgets.UpsertBudget(r.Context(), in)
	if len(verrs) > 0 {
		writeValidationErrors(w, verrs)
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, budget)
}

func (h *BudgetHandler) HandleWeeklyROAS(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	window, verrs := usecase.ValidateReportRange(usecase.ReportRangeInput{
		From: q.Get("from"),
		To:   q.Get("to"),
		TZ:   q.Get("tz"),
	}, h.ReferenceTZ)
	if len(verrs) > 0 {
		writeValidationErrors(w, verrs)
		return
	}

	rows, err := h.Budgets.WeeklyROAS(r.Context(), window)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"weeks": rows})
}
