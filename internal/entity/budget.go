package entity

import "time"

// Budget is the ad spend for one calendar week. WeekStart is always Monday
// 00:00 in the reference timezone; the table holds at most one row per week
// (unique index, upsert semantics — resubmitting a week overwrites it).
type Budget struct {
	ID        string    `json:"id"`
	WeekStart time.Time `json:"week_start"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BudgetWeekKey floors any instant to its budget week key.
func BudgetWeekKey(t time.Time, referenceTZ *time.Location) time.Time {
	return MondayFloor(t, referenceTZ)
}
