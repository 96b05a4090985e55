package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salescope/pipeline-insights/internal/entity"
	"github.com/salescope/pipeline-insights/internal/usecase"
)

type memoryLedger struct {
	budgets map[int64]entity.Budget
}

func (m *memoryLedger) Upsert(ctx context.Context, weekStart time.Time, amount float64) (*entity.Budget, error) {
	if m.budgets == nil {
		m.budgets = make(map[int64]entity.Budget)
	}
	b := entity.Budget{ID: "b1", WeekStart: weekStart, Amount: amount}
	m.budgets[weekStart.Unix()] = b
	return &b, nil
}

func (m *memoryLedger) GetBudgets(ctx context.Context, window entity.TimeWindow) ([]entity.Budget, error) {
	return nil, nil
}

func newBudgetHandler(t *testing.T) (*BudgetHandler, *memoryLedger) {
	t.Helper()
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)
	ledger := &memoryLedger{}
	uc := usecase.NewBudgetUseCase(ledger, nil, nil, paris)
	return NewBudgetHandler(uc, paris), ledger
}

func TestHandleUpsertFloorsWeek(t *testing.T) {
	handler, ledger := newBudgetHandler(t)

	body := bytes.NewBufferString(`{"week":"2024-01-03","amount":1500}`)
	req := httptest.NewRequest(http.MethodPost, "/budgets", body)
	rec := httptest.NewRecorder()

	handler.HandleUpsert(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var budget entity.Budget
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&budget))
	assert.Equal(t, 1500.0, budget.Amount)
	assert.Equal(t, time.Monday, budget.WeekStart.Weekday())
	assert.Len(t, ledger.budgets, 1)
}

func TestHandleUpsertRejectsInvalidJSON(t *testing.T) {
	handler, _ := newBudgetHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/budgets", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()

	handler.HandleUpsert(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleUpsertRejectsNegativeAmount(t *testing.T) {
	handler, ledger := newBudgetHandler(t)

	body := bytes.NewBufferString(`{"week":"2024-01-03","amount":-50}`)
	req := httptest.NewRequest(http.MethodPost, "/budgets", body)
	rec := httptest.NewRecorder()

	handler.HandleUpsert(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp errorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "VALIDATION", resp.Code)
	require.Len(t, resp.Fields, 1)
	assert.Equal(t, "amount", resp.Fields[0].Field)
	assert.Empty(t, ledger.budgets)
}

func TestHandleWeeklyROASRejectsBadRange(t *testing.T) {
	handler, _ := newBudgetHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/budgets/roas?from=2024-01-20&to=2024-01-01", nil)
	rec := httptest.NewRecorder()

	handler.HandleWeeklyROAS(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
