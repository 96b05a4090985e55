package usecase

// Rate returns num/den as a fraction, or nil when the denominator is zero.
// "0% because 0/0" and "0% because 0/N" must stay distinguishable: display
// layers render nil as 0, ranking treats nil as lowest.
func Rate(num, den int) *float64 {
	if den == 0 {
		return nil
	}
	v := float64(num) / float64(den)
	return &v
}

// Roas is revenue/spend, nil when nothing was spent. Never 0 or +Inf.
func Roas(revenue, spend float64) *float64 {
	if spend <= 0 {
		return nil
	}
	v := revenue / spend
	return &v
}

// compareRateDesc orders two nullable rates descending, nil last.
// Returns <0 when a ranks before b, >0 when after, 0 on tie.
func compareRateDesc(a, b *float64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case *a > *b:
		return -1
	case *a < *b:
		return 1
	default:
		return 0
	}
}

func compareIntDesc(a, b int) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	default:
		return 0
	}
}

func compareFloatDesc(a, b float64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	default:
		return 0
	}
}
