package entity

import "time"

// TimeWindow is a half-open instant range [From, To) built from local calendar
// days in Loc. The zero value means unbounded (lifetime totals).
//
// Bounds are local-day boundaries, not UTC clock time: "2024-01-05" in
// America/New_York and in Europe/Paris are different instant ranges, and the
// same event log can legitimately produce different counts for each.
type TimeWindow struct {
	From time.Time
	To   time.Time
	Loc  *time.Location
}

// DayWindow builds the window [fromDay 00:00, toDay+1d 00:00) in loc.
func DayWindow(fromDay, toDay string, loc *time.Location) (TimeWindow, error) {
	from, err := time.ParseInLocation("2006-01-02", fromDay, loc)
	if err != nil {
		return TimeWindow{}, err
	}
	to, err := time.ParseInLocation("2006-01-02", toDay, loc)
	if err != nil {
		return TimeWindow{}, err
	}
	return TimeWindow{
		From: from,
		To:   to.AddDate(0, 0, 1),
		Loc:  loc,
	}, nil
}

func (w TimeWindow) IsZero() bool {
	return w.From.IsZero() && w.To.IsZero()
}

func (w TimeWindow) Contains(t time.Time) bool {
	if w.IsZero() {
		return true
	}
	return !t.Before(w.From) && t.Before(w.To)
}

// Intersect clips w against other. An unbounded side gives way to the bounded
// one. The second return is false when the ranges do not overlap at all.
func (w TimeWindow) Intersect(other TimeWindow) (TimeWindow, bool) {
	if w.IsZero() {
		return other, true
	}
	if other.IsZero() {
		return w, true
	}
	out := w
	if other.From.After(out.From) {
		out.From = other.From
	}
	if other.To.Before(out.To) {
		out.To = other.To
	}
	if !out.From.Before(out.To) {
		return TimeWindow{}, false
	}
	return out, true
}

// WeekBucket is one Monday-start local week. End is the next Monday 00:00
// (exclusive), Counting is the bucket clipped to the requested window.
type WeekBucket struct {
	Start    time.Time
	End      time.Time
	Counting TimeWindow
}

// MondayFloor returns Monday 00:00 of t's local week in loc.
func MondayFloor(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	daysBack := (int(lt.Weekday()) + 6) % 7
	return time.Date(lt.Year(), lt.Month(), lt.Day()-daysBack, 0, 0, 0, 0, loc)
}

// Weeks splits a bounded window into contiguous Monday-start buckets covering
// it entirely. Buckets are generated by calendar iteration, so weeks with no
// data still appear; the last bucket may extend past the window but its
// Counting range never does. Date arithmetic runs through time.Date so DST
// transitions cannot produce 23h or 25h drift on the Monday boundary.
func (w TimeWindow) Weeks() []WeekBucket {
	if w.IsZero() {
		return nil
	}
	loc := w.Loc
	if loc == nil {
		loc = time.UTC
	}
	var buckets []WeekBucket
	start := MondayFloor(w.From, loc)
	for start.Before(w.To) {
		end := time.Date(start.Year(), start.Month(), start.Day()+7, 0, 0, 0, 0, loc)
		counting, ok := w.Intersect(TimeWindow{From: start, To: end, Loc: loc})
		if !ok {
			break
		}
		buckets = append(buckets, WeekBucket{Start: start, End: end, Counting: counting})
		start = end
	}
	return buckets
}
