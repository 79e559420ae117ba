package pipeline

import (
	"github.com/dashie/calfeed/internal"
)

// Anomaly records a malformed field found while normalizing one event. A
// bad event never aborts its batch; it is passed through as timed and the
// anomaly is returned for the caller to log.
type Anomaly struct {
	EventID    string
	CalendarID string
	Field      string
	Value      string
	Err        error
}

// NormalizeEvent classifies one raw event and rewrites its boundaries into
// canonical form: all-day events get an inclusive civil date range, timed
// events keep their source instants untouched. The returned event is a new
// value; the input is never mutated.
func NormalizeEvent(raw internal.RawEvent) (internal.NormalizedEvent, []Anomaly) {
	ev := internal.NormalizedEvent{
		ID:           raw.ID,
		CalendarID:   raw.CalendarID,
		Summary:      raw.Summary,
		DisplayTitle: raw.Summary,
		Description:  raw.Description,
		Location:     raw.Location,
		Attendees:    raw.Attendees,
	}
	if ev.DisplayTitle == "" {
		ev.DisplayTitle = internal.UntitledEvent
	}

	var anomalies []Anomaly
	switch {
	case raw.Start.Date != "":
		anomalies = normalizeSourceAllDay(raw, &ev)
	case IsEffectivelyAllDay(raw):
		anomalies = normalizeTimedAllDay(raw, &ev)
	default:
		anomalies = checkTimedBoundaries(raw)
		passThroughTimed(raw, &ev)
	}
	return ev, anomalies
}

// checkTimedBoundaries flags unparseable dateTime values on events that
// stay timed. The values are still passed through untouched; the widget
// may render what it can, but diagnostics should show the bad field.
func checkTimedBoundaries(raw internal.RawEvent) []Anomaly {
	var anomalies []Anomaly
	if raw.Start.DateTime != "" {
		if _, err := parseInstant(raw.Start); err != nil {
			anomalies = append(anomalies, anomaly(raw, "start.dateTime", raw.Start.DateTime, err))
		}
	}
	if raw.End.DateTime != "" {
		if _, err := parseInstant(raw.End); err != nil {
			anomalies = append(anomalies, anomaly(raw, "end.dateTime", raw.End.DateTime, err))
		}
	}
	return anomalies
}

// normalizeSourceAllDay handles events the source already marks all-day.
// The source end date is exclusive: it names the day after the last actual
// day. The correction is one calendar day of component arithmetic; epoch
// subtraction could land on the wrong day across a DST transition.
func normalizeSourceAllDay(raw internal.RawEvent, ev *internal.NormalizedEvent) []Anomaly {
	start, err := internal.ParseDate(raw.Start.Date)
	if err != nil {
		passThroughTimed(raw, ev)
		return []Anomaly{anomaly(raw, "start.date", raw.Start.Date, err)}
	}

	end := start
	if raw.End.Date != "" {
		parsed, err := internal.ParseDate(raw.End.Date)
		if err != nil {
			passThroughTimed(raw, ev)
			return []Anomaly{anomaly(raw, "end.date", raw.End.Date, err)}
		}
		end = parsed.AddDays(-1)
		if end.Before(start) {
			end = start
		}
	}

	ev.Start = internal.DateBoundary(start)
	ev.End = internal.DateBoundary(end)
	ev.IsAllDay = true
	return nil
}

// normalizeTimedAllDay handles timed events the classifier decided are
// really all-day. Dates come from the local components of each instant in
// its own zone; converting to UTC first could shift either date across
// midnight. Unlike the source all-day convention, the end date here is
// already inclusive, so no day is subtracted.
func normalizeTimedAllDay(raw internal.RawEvent, ev *internal.NormalizedEvent) []Anomaly {
	startInstant, err := parseInstant(raw.Start)
	if err != nil {
		passThroughTimed(raw, ev)
		return []Anomaly{anomaly(raw, "start.dateTime", raw.Start.DateTime, err)}
	}
	endInstant, err := parseInstant(raw.End)
	if err != nil {
		passThroughTimed(raw, ev)
		return []Anomaly{anomaly(raw, "end.dateTime", raw.End.DateTime, err)}
	}

	start := internal.NewDateFromTime(startInstant)
	end := start
	if !sameCivilDate(startInstant, endInstant) {
		end = internal.NewDateFromTime(endInstant)
	}

	ev.Start = internal.DateBoundary(start)
	ev.End = internal.DateBoundary(end)
	ev.IsAllDay = true
	return nil
}

func passThroughTimed(raw internal.RawEvent, ev *internal.NormalizedEvent) {
	ev.Start = internal.TimeBoundary(raw.Start.DateTime)
	ev.End = internal.TimeBoundary(raw.End.DateTime)
	ev.IsAllDay = false
}

func anomaly(raw internal.RawEvent, field, value string, err error) Anomaly {
	return Anomaly{
		EventID:    raw.ID,
		CalendarID: raw.CalendarID,
		Field:      field,
		Value:      value,
		Err:        err,
	}
}
