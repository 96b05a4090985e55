package entity

import (
	"time"

	"github.com/google/uuid"
)

// StageEvent is the system of record for the funnel: one immutable row per
// transition, append-only. Aggregations always count events, never Lead.Stage.
type StageEvent struct {
	ID               string    `json:"id"`
	LeadID           string    `json:"lead_id"`
	ToStage          string    `json:"to_stage"`
	OccurredAt       time.Time `json:"occurred_at"`
	AttributedUserID *string   `json:"attributed_user_id,omitempty"`
}

func NewStageEvent(leadID, toStage string, occurredAt time.Time, attributedUserID *string) *StageEvent {
	return &StageEvent{
		ID:               uuid.New().String(),
		LeadID:           leadID,
		ToStage:          toStage,
		OccurredAt:       occurredAt,
		AttributedUserID: attributedUserID,
	}
}
