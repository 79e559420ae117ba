package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/dashie/calfeed/internal"
)

type Client struct {
	oauthCfg *oauth2.Config
}

func NewClient(credJSON []byte) (*Client, error) {
	oauthCfg, err := google.ConfigFromJSON(credJSON, calendar.CalendarReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("google: parsing credentials file: %v", err)
	}

	return &Client{
		oauthCfg: oauthCfg,
	}, nil
}

const defaultSleep = 5 * time.Second

// Events streams the raw events of one calendar for the [from, to) window.
// Recurring events are expanded into single instances so the pipeline only
// ever sees concrete occurrences.
func (c Client) Events(ctx context.Context, cal *internal.Calendar, from, to internal.Date) (internal.Iterator, error) {
	svc, err := c.calendarSvc(ctx, cal.Account.Auth)
	if err != nil {
		return nil, err
	}
	eventsCall := svc.Events.
		List(cal.ProviderID).
		Context(ctx).
		ShowDeleted(false).
		SingleEvents(true).
		OrderBy("startTime")
	if !from.IsZero() {
		eventsCall = eventsCall.TimeMin(from.Time.Format(time.RFC3339))
	}
	if !to.IsZero() {
		eventsCall = eventsCall.TimeMax(to.Time.Format(time.RFC3339))
	}

	it := newEventIterator()
	go c.events(ctx, cal, eventsCall, it.events)
	return it, nil
}

func (c Client) events(
	ctx context.Context,
	cal *internal.Calendar,
	call *calendar.EventsListCall,
	eventCh chan eventOrError,
) {
	defer close(eventCh)

	var nextPageToken string
	for {
		events, err := call.PageToken(nextPageToken).Do()
		if err != nil {
			if shouldRetry(err) {
				time.Sleep(defaultSleep)
				continue
			}
			slog.Error("google: unable to get list of events", "calendar", cal, "error", err)
			eventCh <- eventOrError{err: err}
			return
		}

		for _, item := range events.Items {
			if item.Status == "cancelled" {
				continue
			}
			eventCh <- eventOrError{e: newRawEvent(cal, item)}
		}
		nextPageToken = events.NextPageToken
		if nextPageToken == "" {
			return
		}
	}
}

// Calendars returns the account's calendar list with the display colors the
// dashboard uses to tint events per source calendar.
func (c Client) Calendars(ctx context.Context, acc *internal.Account) ([]*internal.CalendarInfo, error) {
	svc, err := c.calendarSvc(ctx, acc.Auth)
	if err != nil {
		return nil, err
	}

	var (
		infos         []*internal.CalendarInfo
		nextPageToken string
	)
	for {
		list, err := svc.CalendarList.List().Context(ctx).PageToken(nextPageToken).Do()
		if err != nil {
			if shouldRetry(err) {
				time.Sleep(defaultSleep)
				continue
			}
			return nil, fmt.Errorf("google: listing calendars for %s: %w", acc.ID(), err)
		}
		for _, item := range list.Items {
			infos = append(infos, &internal.CalendarInfo{
				ID:              item.Id,
				Name:            item.Summary,
				BackgroundColor: item.BackgroundColor,
				ForegroundColor: item.ForegroundColor,
				Primary:         item.Primary,
			})
		}
		nextPageToken = list.NextPageToken
		if nextPageToken == "" {
			return infos, nil
		}
	}
}

// Email resolves the account's address from its primary calendar entry.
func (c Client) Email(ctx context.Context, authToken []byte) (string, error) {
	infos, err := c.Calendars(ctx, &internal.Account{Auth: string(authToken)})
	if err != nil {
		return "", err
	}
	for _, info := range infos {
		if info.Primary {
			return info.ID, nil
		}
	}
	return "", errors.New("google: no primary calendar found")
}

func (c Client) Login(ctx context.Context, openURL func(authURL string)) ([]byte, error) {
	state := fmt.Sprintf("calfeed-%d", time.Now().UTC().Nanosecond())
	authURL := c.oauthCfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	openURL(authURL)

	mux := http.NewServeMux()
	server := &http.Server{
		Addr:    ":8080",
		Handler: mux,
	}

	var (
		token   *oauth2.Token
		authErr error
	)

	mux.HandleFunc("/calfeed", func(w http.ResponseWriter, req *http.Request) {
		defer func() {
			go server.Shutdown(ctx)
		}()

		query := req.URL.Query()
		if query.Get("state") != state {
			authErr = errors.New("oauth link is not valid")
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		token, authErr = c.oauthCfg.Exchange(ctx, query.Get("code"))
		if authErr != nil {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintln(w, "Unable to retrieve token:", authErr)
			return
		}

		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "All good, you can close this window!")
	})

	serverCh := make(chan struct{})
	var svrErr error
	go func() {
		svrErr = server.ListenAndServe()
		close(serverCh)
	}()

	<-serverCh

	if svrErr != nil && svrErr != http.ErrServerClosed {
		return nil, svrErr
	}

	if authErr != nil {
		return nil, authErr
	}

	return json.Marshal(token)
}

func (c Client) calendarSvc(ctx context.Context, auth string) (*calendar.Service, error) {
	var tok *oauth2.Token
	err := json.Unmarshal([]byte(auth), &tok)
	if err != nil {
		return nil, err
	}
	httpClient := c.oauthCfg.Client(ctx, tok)
	return calendar.NewService(ctx, option.WithHTTPClient(httpClient))
}

func shouldRetry(err error) bool {
	var gErr *googleapi.Error
	if !errors.As(err, &gErr) {
		return false
	}

	for _, err := range gErr.Errors {
		if err.Reason == "rateLimitExceeded" {
			return true
		}
	}
	return false
}
