package entity

import (
	"time"

	"github.com/google/uuid"
)

type Lead struct {
	ID               string     `json:"id"`
	Name             string     `json:"name,omitempty"`
	Email            string     `json:"email,omitempty"`
	Phone            string     `json:"phone,omitempty"`
	Stage            string     `json:"stage"`
	StageUpdatedAt   time.Time  `json:"stage_updated_at"`
	SetterID         *string    `json:"setter_id,omitempty"`
	CloserID         *string    `json:"closer_id,omitempty"`
	AssignedAt       *time.Time `json:"assigned_at,omitempty"`
	OpportunityValue float64    `json:"opportunity_value"`
	SaleValue        float64    `json:"sale_value"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// NewLead creates a lead at the top of the funnel. Stage transitions are
// recorded separately as StageEvents; Lead.Stage is only the latest one.
func NewLead(name, email, phone string) *Lead {
	now := time.Now()
	return &Lead{
		ID:             uuid.New().String(),
		Name:           name,
		Email:          email,
		Phone:          phone,
		Stage:          string(StageNew),
		StageUpdatedAt: now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// PairKey identifies the setter×closer duo currently owning the lead.
// Second return is false while either side of the pair is unassigned.
func (l *Lead) PairKey() (setterID, closerID string, ok bool) {
	if l.SetterID == nil || l.CloserID == nil {
		return "", "", false
	}
	return *l.SetterID, *l.CloserID, true
}
