package internal

import "encoding/json"

// UntitledEvent is the display title used when the source event has no
// summary.
const UntitledEvent = "(No title)"

// RawBoundary is one edge of a raw event exactly as the source sent it.
// Sources use either Date (all-day, YYYY-MM-DD, exclusive end convention)
// or DateTime (RFC3339) plus an optional IANA TimeZone, never both. The
// strings are untrusted; parsing happens in the pipeline.
type RawBoundary struct {
	Date     string
	DateTime string
	TimeZone string
}

// RawEvent is one calendar item as fetched from a source account, before
// normalization. The source-assigned ID is opaque and not trusted for
// identity across accounts.
type RawEvent struct {
	ID          string
	Summary     string
	Description string
	Location    string
	Attendees   []Attendee
	Start       RawBoundary
	End         RawBoundary
	CalendarID  string
}

type Attendee struct {
	Email          string `json:"email"`
	DisplayName    string `json:"displayName,omitempty"`
	ResponseStatus string `json:"responseStatus,omitempty"`
	Self           bool   `json:"self,omitempty"`
}

// Boundary is one edge of a normalized event: either a civil date (all-day,
// inclusive) or an RFC3339 instant. The two are mutually exclusive; use
// DateBoundary or TimeBoundary, never the zero value directly.
type Boundary struct {
	date     Date
	dateTime string
}

func DateBoundary(d Date) Boundary {
	return Boundary{date: d}
}

func TimeBoundary(rfc3339 string) Boundary {
	return Boundary{dateTime: rfc3339}
}

func (b Boundary) AllDay() bool {
	return !b.date.IsZero()
}

// Date is the civil date of an all-day boundary; zero for timed boundaries.
func (b Boundary) Date() Date {
	return b.date
}

// DateTime is the RFC3339 instant of a timed boundary; empty for all-day.
func (b Boundary) DateTime() string {
	return b.dateTime
}

// Value is the date string for all-day boundaries or the RFC3339 string for
// timed ones. It is what deduplication keys on.
func (b Boundary) Value() string {
	if b.AllDay() {
		return b.date.String()
	}
	return b.dateTime
}

func (b Boundary) MarshalJSON() ([]byte, error) {
	if b.AllDay() {
		return json.Marshal(struct {
			Date string `json:"date"`
		}{b.date.String()})
	}
	return json.Marshal(struct {
		DateTime string `json:"dateTime"`
	}{b.dateTime})
}

// NormalizedEvent is a display-ready event. For all-day events Start/End
// carry inclusive dates (End >= Start, equal for single-day events); for
// timed events they carry the source instants untouched. Description has
// been sanitized for direct HTML embedding.
type NormalizedEvent struct {
	ID           string     `json:"id"`
	CalendarID   string     `json:"calendarId"`
	Summary      string     `json:"summary,omitempty"`
	DisplayTitle string     `json:"displayTitle"`
	Description  string     `json:"description,omitempty"`
	Location     string     `json:"location,omitempty"`
	Attendees    []Attendee `json:"attendees,omitempty"`
	Start        Boundary   `json:"start"`
	End          Boundary   `json:"end"`
	IsAllDay     bool       `json:"isAllDay"`
}
