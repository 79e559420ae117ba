package pipeline

import (
	"time"

	"github.com/dashie/calfeed/internal"
)

// IsEffectivelyAllDay reports whether a raw event should be displayed as
// all-day. Besides events the source already marks with a date-only start,
// it catches two timed encodings some upstreams use for all-day events:
// multi-day spans at a constant clock hour, and midnight-to-midnight (or
// midnight-to-23:59) single days.
func IsEffectivelyAllDay(ev internal.RawEvent) bool {
	if ev.Start.Date != "" {
		return true
	}
	if ev.Start.DateTime == "" || ev.End.DateTime == "" {
		return false
	}

	start, err := parseInstant(ev.Start)
	if err != nil {
		return false
	}
	end, err := parseInstant(ev.End)
	if err != nil {
		return false
	}

	sameDate := sameCivilDate(start, end)
	if start.Hour() == end.Hour() && !sameDate {
		return true
	}
	if isMidnight(start) {
		if !sameDate && isMidnight(end) && end.After(start) {
			return true
		}
		if sameDate && end.Hour() == 23 && end.Minute() >= 59 {
			return true
		}
	}
	return false
}

// parseInstant resolves a timed boundary in its own time zone, so date and
// clock components reflect the event's local wall time, not UTC.
func parseInstant(b internal.RawBoundary) (time.Time, error) {
	loc := time.Local
	if b.TimeZone != "" {
		if l, err := time.LoadLocation(b.TimeZone); err == nil {
			loc = l
		}
	}
	if t, err := time.Parse(time.RFC3339, b.DateTime); err == nil {
		if b.TimeZone != "" {
			return t.In(loc), nil
		}
		return t, nil
	}
	// some sources omit the offset
	return time.ParseInLocation("2006-01-02T15:04:05", b.DateTime, loc)
}

func sameCivilDate(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func isMidnight(t time.Time) bool {
	return t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0
}
