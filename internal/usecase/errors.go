package usecase

import "fmt"

type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	_, ok := err.(*DomainError)
	return ok
}

type TechnicalError struct {
	Code    string
	Message string
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func IsTechnicalError(err error) bool {
	_, ok := err.(*TechnicalError)
	return ok
}

// ReportingUnavailable wraps an event-store failure. Kept distinct from
// validation errors, which are rejected before any query executes.
func ReportingUnavailable(err error) *TechnicalError {
	return &TechnicalError{
		Code:    "REPORTING_UNAVAILABLE",
		Message: fmt.Sprintf("reporting temporarily unavailable: %v", err),
	}
}

// RangeTooLarge rejects exports above the configured row bound. Truncating
// would produce a misleading report, so the caller has to narrow the range.
func RangeTooLarge(rows, max int) *DomainError {
	return &DomainError{
		Code:    "RANGE_TOO_LARGE",
		Message: fmt.Sprintf("range produces %d rows, maximum for export is %d", rows, max),
	}
}
