package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/dashie/calfeed/internal"
)

type fakeStorage struct {
	cals []*internal.Calendar
}

func (s fakeStorage) ActiveCalendars(context.Context) ([]*internal.Calendar, error) {
	return s.cals, nil
}

type fakeProvider struct {
	events map[string][]internal.RawEvent
	fail   map[string]bool
	infos  []*internal.CalendarInfo
}

func (p fakeProvider) Login(context.Context, func(string)) ([]byte, error) {
	return nil, errors.New("not supported")
}

func (p fakeProvider) Events(_ context.Context, cal *internal.Calendar, from, to internal.Date) (internal.Iterator, error) {
	if p.fail[cal.ProviderID] {
		return nil, fmt.Errorf("calendar %s is unreachable", cal.ProviderID)
	}
	return &sliceIterator{events: p.events[cal.ProviderID]}, nil
}

func (p fakeProvider) Calendars(context.Context, *internal.Account) ([]*internal.CalendarInfo, error) {
	return p.infos, nil
}

type fakeMux struct {
	provider internal.Provider
}

func (m fakeMux) Get(platform string) (internal.Provider, error) {
	if platform != "fake" {
		return nil, fmt.Errorf("calendar %q is not implemented", platform)
	}
	return m.provider, nil
}

type sliceIterator struct {
	events []internal.RawEvent
	i      int
}

func (it *sliceIterator) Next() bool {
	if it.i >= len(it.events) {
		return false
	}
	it.i++
	return true
}

func (it *sliceIterator) Event() *internal.RawEvent {
	return &it.events[it.i-1]
}

func (it *sliceIterator) Err() error {
	return nil
}

func testCalendar(providerID string) *internal.Calendar {
	return &internal.Calendar{
		ID:         "fake/user@example.com/" + providerID,
		Name:       providerID,
		ProviderID: providerID,
		Account: internal.Account{
			Platform: "fake",
			Name:     "user@example.com",
		},
	}
}

func testWindow(t *testing.T) Window {
	t.Helper()
	from, err := internal.ParseDate("2025-07-01")
	if err != nil {
		t.Fatal(err)
	}
	return Window{From: from, To: from.AddDays(30)}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func timedRaw(id, calID, summary, start, end string) internal.RawEvent {
	return internal.RawEvent{
		ID:         id,
		CalendarID: calID,
		Summary:    summary,
		Start:      internal.RawBoundary{DateTime: start},
		End:        internal.RawBoundary{DateTime: end},
	}
}

func TestRefreshMergesAndDeduplicates(t *testing.T) {
	shared := timedRaw("id-a", "cal-1", "Swim practice", "2025-07-01T17:00:00Z", "2025-07-01T18:00:00Z")
	sharedCopy := timedRaw("id-b", "cal-2", "Swim practice", "2025-07-01T17:00:00Z", "2025-07-01T18:00:00Z")
	other := timedRaw("id-c", "cal-2", "Dentist", "2025-07-02T09:00:00Z", "2025-07-02T10:00:00Z")

	provider := fakeProvider{
		events: map[string][]internal.RawEvent{
			"cal-1": {shared},
			"cal-2": {sharedCopy, other},
		},
		infos: []*internal.CalendarInfo{
			{ID: "cal-1", Name: "Family", BackgroundColor: "#9fe1e7"},
			{ID: "cal-2", Name: "Work", BackgroundColor: "#fbd75b"},
		},
	}
	refresher := New(fakeMux{provider}, fakeStorage{
		cals: []*internal.Calendar{testCalendar("cal-1"), testCalendar("cal-2")},
	}, discardLogger())

	feed, err := refresher.Refresh(context.Background(), testWindow(t), nil)
	if err != nil {
		t.Fatal(err)
	}
	if feed.DataError {
		t.Error("no calendar failed, DataError should be false")
	}
	if len(feed.Events) != 2 {
		t.Fatalf("got %d events, want 2 after deduplication", len(feed.Events))
	}
	if feed.Events[0].ID != "id-a" {
		t.Errorf("survivor = %s, want the copy from the first calendar", feed.Events[0].ID)
	}
	if info, ok := feed.Calendars["cal-1"]; !ok || info.BackgroundColor != "#9fe1e7" {
		t.Errorf("calendar metadata missing or wrong: %+v", feed.Calendars)
	}
	if feed.RefreshID == "" {
		t.Error("feed should carry a refresh id")
	}
}

func TestRefreshPartialFailure(t *testing.T) {
	provider := fakeProvider{
		events: map[string][]internal.RawEvent{
			"cal-1": {timedRaw("id-a", "cal-1", "Dentist", "2025-07-02T09:00:00Z", "2025-07-02T10:00:00Z")},
		},
		fail: map[string]bool{"cal-2": true},
	}
	refresher := New(fakeMux{provider}, fakeStorage{
		cals: []*internal.Calendar{testCalendar("cal-1"), testCalendar("cal-2")},
	}, discardLogger())

	feed, err := refresher.Refresh(context.Background(), testWindow(t), nil)
	if err != nil {
		t.Fatalf("a failing calendar must not fail the refresh: %v", err)
	}
	if !feed.DataError {
		t.Error("DataError should be set when a calendar fetch fails")
	}
	if len(feed.Events) != 1 {
		t.Fatalf("got %d events, want the partial result from the healthy calendar", len(feed.Events))
	}
	if feed.Events[0].ID != "id-a" {
		t.Errorf("event = %s, want id-a", feed.Events[0].ID)
	}
}

func TestRefreshCalendarFilter(t *testing.T) {
	provider := fakeProvider{
		events: map[string][]internal.RawEvent{
			"cal-1": {timedRaw("id-a", "cal-1", "Dentist", "2025-07-02T09:00:00Z", "2025-07-02T10:00:00Z")},
			"cal-2": {timedRaw("id-b", "cal-2", "Standup", "2025-07-02T09:00:00Z", "2025-07-02T09:15:00Z")},
		},
	}
	refresher := New(fakeMux{provider}, fakeStorage{
		cals: []*internal.Calendar{testCalendar("cal-1"), testCalendar("cal-2")},
	}, discardLogger())

	feed, err := refresher.Refresh(context.Background(), testWindow(t), []string{"fake/user@example.com/cal-2"})
	if err != nil {
		t.Fatal(err)
	}
	if len(feed.Events) != 1 || feed.Events[0].ID != "id-b" {
		t.Fatalf("filter should keep only cal-2 events, got %+v", feed.Events)
	}
}
