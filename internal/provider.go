package internal

import (
	"context"
)

type Mux interface {
	Get(platform string) (Provider, error)
}

type Provider interface {
	Login(_ context.Context, openURL func(authURL string)) (authToken []byte, _ error)
	Events(_ context.Context, _ *Calendar, from, to Date) (Iterator, error)
	Calendars(_ context.Context, _ *Account) ([]*CalendarInfo, error)
}

type Iterator interface {
	Next() bool
	Event() *RawEvent
	Err() error
}
