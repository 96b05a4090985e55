package usecase

import (
	"fmt"
	"strings"
)

// Narrative thresholds the coaching team asked for. The generated paragraph
// is a pure function of already-computed rows: no extra queries, and the same
// rows always produce the same text.
const (
	lowQualificationRate = 0.25
	lowPresenceRate      = 0.60
	highCancelRate       = 0.20
)

const emptyAnalysis = "No activity was recorded over the selected period, so there is no individual performance to highlight."

// SetterAnalysis writes the commentary paragraph for a ranked setter report.
// Rows must already be in ranking order; the first one is the top performer.
func SetterAnalysis(rows []SetterRow) string {
	if len(rows) == 0 {
		return emptyAnalysis
	}

	var sentences []string
	top := rows[0]
	sentences = append(sentences, fmt.Sprintf(
		"%s leads the period with %d RV1 booked out of %d leads received.",
		top.Name, top.RV1Planned, top.LeadsReceived))

	for _, row := range rows {
		if row.QualificationRate != nil && *row.QualificationRate < lowQualificationRate {
			sentences = append(sentences, fmt.Sprintf(
				"%s converts only %s of received leads into RV1: review lead qualification scripts and response speed.",
				row.Name, formatPct(*row.QualificationRate)))
		}
		if presence := Rate(row.RV1Honored, row.RV1Planned); presence != nil && *presence < lowPresenceRate {
			sentences = append(sentences, fmt.Sprintf(
				"%s has an RV1 show-up rate of %s: reinforce appointment confirmation the day before.",
				row.Name, formatPct(*presence)))
		}
		if row.CancelRate != nil && *row.CancelRate >= highCancelRate {
			sentences = append(sentences, fmt.Sprintf(
				"%s loses %s of booked RV1 to cancellations: qualify urgency before booking.",
				row.Name, formatPct(*row.CancelRate)))
		}
	}
	return strings.Join(sentences, " ")
}

// CloserAnalysis writes the commentary paragraph for a ranked closer report.
func CloserAnalysis(rows []CloserRow) string {
	if len(rows) == 0 {
		return emptyAnalysis
	}

	var sentences []string
	top := rows[0]
	if top.ClosingRate != nil {
		sentences = append(sentences, fmt.Sprintf(
			"%s leads the period with a closing rate of %s over %d honored RV1.",
			top.Name, formatPct(*top.ClosingRate), top.RV1Honored))
	} else {
		sentences = append(sentences, fmt.Sprintf(
			"%s tops the ranking, though no RV1 was honored over the period.", top.Name))
	}

	for _, row := range rows {
		if row.RV1CancelRate != nil && *row.RV1CancelRate >= highCancelRate {
			sentences = append(sentences, fmt.Sprintf(
				"%s sees %s of RV1 canceled: revisit the handover between setting and closing.",
				row.Name, formatPct(*row.RV1CancelRate)))
		}
		if row.RV2CancelRate != nil && *row.RV2CancelRate >= highCancelRate {
			sentences = append(sentences, fmt.Sprintf(
				"%s sees %s of RV2 canceled: lock next steps at the end of each RV1.",
				row.Name, formatPct(*row.RV2CancelRate)))
		}
	}
	return strings.Join(sentences, " ")
}

func formatPct(rate float64) string {
	return fmt.Sprintf("%.0f%%", rate*100)
}
