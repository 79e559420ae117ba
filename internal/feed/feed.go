// Package feed orchestrates a dashboard refresh: it reads the user's
// active calendars from storage, fetches raw events from every one of them
// concurrently, runs the normalization pipeline over the combined batch,
// and attaches per-calendar display colors. One failing calendar never
// fails the refresh; the feed carries partial results and a data-error
// flag for the widget to surface.
package feed

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/dashie/calfeed/internal"
	"github.com/dashie/calfeed/internal/pipeline"
)

type Storage interface {
	ActiveCalendars(ctx context.Context) ([]*internal.Calendar, error)
}

type Window struct {
	From internal.Date `json:"from"`
	To   internal.Date `json:"to"`
}

type Feed struct {
	RefreshID string                           `json:"refreshId"`
	Window    Window                           `json:"window"`
	Events    []internal.NormalizedEvent       `json:"events"`
	Calendars map[string]internal.CalendarInfo `json:"calendars"`
	DataError bool                             `json:"dataError,omitempty"`
}

type Refresher struct {
	mux     internal.Mux
	storage Storage
	logger  *slog.Logger
}

func New(mux internal.Mux, storage Storage, logger *slog.Logger) *Refresher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Refresher{
		mux:     mux,
		storage: storage,
		logger:  logger,
	}
}

// Refresh builds the feed for a date window. calIDs narrows the refresh to
// specific calendars; empty means every active one.
func (r Refresher) Refresh(ctx context.Context, w Window, calIDs []string) (*Feed, error) {
	cals, err := r.storage.ActiveCalendars(ctx)
	if err != nil {
		return nil, err
	}
	cals = filterCalendars(cals, calIDs)

	feed := &Feed{
		RefreshID: uuid.NewString(),
		Window:    w,
		Calendars: make(map[string]internal.CalendarInfo),
	}
	logger := r.logger.With("refresh_id", feed.RefreshID)

	// One fetch per calendar, one metadata call per account, all in
	// flight at once. Results land in per-calendar slots so the combined
	// batch keeps a deterministic order; first-seen-wins deduplication
	// depends on it.
	batches := make([][]internal.RawEvent, len(cals))
	errs := make([]error, len(cals))

	var wg sync.WaitGroup
	for i, cal := range cals {
		wg.Add(1)
		go func(i int, cal *internal.Calendar) {
			defer wg.Done()
			batches[i], errs[i] = r.fetchEvents(ctx, cal, w)
		}(i, cal)
	}

	var infoMu sync.Mutex
	for _, acc := range uniqueAccounts(cals) {
		wg.Add(1)
		go func(acc *internal.Account) {
			defer wg.Done()
			infos, err := r.fetchCalendarInfo(ctx, acc)
			if err != nil {
				logger.Warn("unable to get calendar metadata", "account", acc.ID(), "error", err)
				return
			}
			infoMu.Lock()
			defer infoMu.Unlock()
			for _, info := range infos {
				feed.Calendars[info.ID] = *info
			}
		}(acc)
	}
	wg.Wait()

	var batch []internal.RawEvent
	for i, cal := range cals {
		if errs[i] != nil {
			logger.Warn("calendar fetch failed, continuing with partial results", "calendar", cal, "error", errs[i])
			feed.DataError = true
			continue
		}
		batch = append(batch, batches[i]...)
	}

	events, anomalies := pipeline.Run(batch)
	for _, a := range anomalies {
		logger.Warn("event with malformed data passed through unnormalized",
			"event_id", a.EventID, "calendar_id", a.CalendarID,
			"field", a.Field, "value", a.Value, "error", a.Err)
	}

	feed.Events = events
	logger.Info("feed refreshed",
		"calendars", len(cals), "fetched", len(batch),
		"events", len(events), "anomalies", len(anomalies))
	return feed, nil
}

func (r Refresher) fetchEvents(ctx context.Context, cal *internal.Calendar, w Window) ([]internal.RawEvent, error) {
	provider, err := r.mux.Get(cal.Account.Platform)
	if err != nil {
		return nil, err
	}
	it, err := provider.Events(ctx, cal, w.From, w.To)
	if err != nil {
		return nil, err
	}

	var events []internal.RawEvent
	for it.Next() {
		events = append(events, *it.Event())
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (r Refresher) fetchCalendarInfo(ctx context.Context, acc *internal.Account) ([]*internal.CalendarInfo, error) {
	provider, err := r.mux.Get(acc.Platform)
	if err != nil {
		return nil, err
	}
	return provider.Calendars(ctx, acc)
}

func filterCalendars(cals []*internal.Calendar, calIDs []string) []*internal.Calendar {
	if len(calIDs) == 0 {
		return cals
	}
	wanted := make(map[string]struct{}, len(calIDs))
	for _, id := range calIDs {
		wanted[id] = struct{}{}
	}
	filtered := cals[:0]
	for _, cal := range cals {
		if _, ok := wanted[cal.ID]; ok {
			filtered = append(filtered, cal)
		}
	}
	return filtered
}

func uniqueAccounts(cals []*internal.Calendar) []*internal.Account {
	seen := make(map[string]struct{}, len(cals))
	var accounts []*internal.Account
	for _, cal := range cals {
		if _, ok := seen[cal.Account.ID()]; ok {
			continue
		}
		seen[cal.Account.ID()] = struct{}{}
		acc := cal.Account
		accounts = append(accounts, &acc)
	}
	return accounts
}
