package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/salescope/pipeline-insights/internal/entity"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// MaxRangeDays bounds a single report request. Anything longer belongs in an
// export pipeline, not a synchronous aggregation.
const MaxRangeDays = 400

type ReportRangeInput struct {
	From string
	To   string
	TZ   string
}

// ValidateReportRange checks the raw (from, to, tz) query before any database
// work happens. A missing or unknown tz is not an error: it falls back to the
// reference zone so a bad client locale never fails the request.
func ValidateReportRange(in ReportRangeInput, referenceTZ *time.Location) (entity.TimeWindow, []ValidationError) {
	var errors []ValidationError

	loc := referenceTZ
	if tz := strings.TrimSpace(in.TZ); tz != "" {
		if parsed, err := time.LoadLocation(tz); err == nil {
			loc = parsed
		}
	}

	if strings.TrimSpace(in.From) == "" {
		errors = append(errors, ValidationError{"from", "is required"})
	}
	if strings.TrimSpace(in.To) == "" {
		errors = append(errors, ValidationError{"to", "is required"})
	}
	if len(errors) > 0 {
		return entity.TimeWindow{}, errors
	}

	window, err := entity.DayWindow(in.From, in.To, loc)
	if err != nil {
		errors = append(errors, ValidationError{"from/to", "must be valid dates (YYYY-MM-DD)"})
		return entity.TimeWindow{}, errors
	}

	if window.To.Before(window.From) || window.To.Equal(window.From) {
		errors = append(errors, ValidationError{"to", "must not be before from"})
	}
	if window.To.Sub(window.From) > MaxRangeDays*24*time.Hour {
		errors = append(errors, ValidationError{"to", fmt.Sprintf("range must not exceed %d days", MaxRangeDays)})
	}

	if len(errors) > 0 {
		return entity.TimeWindow{}, errors
	}
	return window, nil
}
