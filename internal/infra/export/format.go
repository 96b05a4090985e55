package export

import (
	"fmt"
	"strconv"
)

// Formatting for report cells. Every formatter renders a missing optional
// value as the empty string so a sparse row never breaks an export.

func FormatPct(rate *float64) string {
	if rate == nil {
		return ""
	}
	return fmt.Sprintf("%.1f%%", *rate*100)
}

func FormatEuro(amount float64) string {
	return fmt.Sprintf("%.2f €", amount)
}

func FormatMinutes(minutes *float64) string {
	if minutes == nil {
		return ""
	}
	return fmt.Sprintf("%.0f min", *minutes)
}

func FormatRatio(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *v)
}

func FormatInt(v int) string {
	return strconv.Itoa(v)
}
