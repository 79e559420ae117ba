package google

import (
	"github.com/dashie/calfeed/internal"

	"google.golang.org/api/calendar/v3"
)

type eventOrError struct {
	e   *internal.RawEvent
	err error
}

type eventIterator struct {
	events  chan eventOrError
	current eventOrError
}

func newEventIterator() *eventIterator {
	return &eventIterator{
		events: make(chan eventOrError),
	}
}

func (it *eventIterator) Next() (ok bool) {
	it.current, ok = <-it.events
	if it.current.err != nil {
		return false
	}
	return ok
}

func (it *eventIterator) Event() *internal.RawEvent {
	c := it.current
	if c.e == nil && c.err == nil {
		panic("google: Event() called before Next()")
	}
	return c.e
}

func (it *eventIterator) Err() error {
	return it.current.err
}

// newRawEvent carries the Google event over without interpreting its start
// and end shapes. Date vs dateTime stays exactly as the API sent it; the
// pipeline owns classification and normalization.
func newRawEvent(cal *internal.Calendar, event *calendar.Event) *internal.RawEvent {
	raw := &internal.RawEvent{
		ID:          event.Id,
		Summary:     event.Summary,
		Description: event.Description,
		Location:    event.Location,
		CalendarID:  cal.ProviderID,
	}
	if event.Start != nil {
		raw.Start = internal.RawBoundary{
			Date:     event.Start.Date,
			DateTime: event.Start.DateTime,
			TimeZone: event.Start.TimeZone,
		}
	}
	if event.End != nil {
		raw.End = internal.RawBoundary{
			Date:     event.End.Date,
			DateTime: event.End.DateTime,
			TimeZone: event.End.TimeZone,
		}
	}
	for _, attendee := range event.Attendees {
		raw.Attendees = append(raw.Attendees, internal.Attendee{
			Email:          attendee.Email,
			DisplayName:    attendee.DisplayName,
			ResponseStatus: attendee.ResponseStatus,
			Self:           attendee.Self,
		})
	}
	return raw
}
