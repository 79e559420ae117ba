package internal

type Account struct {
	Platform string
	Name     string
	Auth     string
}

func (a Account) ID() string {
	return a.Platform + "/" + a.Name
}

// Calendar is one source calendar the user enabled for the dashboard feed.
type Calendar struct {
	ID         string
	Name       string
	ProviderID string
	Account    Account
}

func (c Calendar) String() string {
	return c.ID
}

// CalendarInfo is display metadata for a calendar, merged into the feed so
// the widget can color events per source calendar.
type CalendarInfo struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	BackgroundColor string `json:"backgroundColor,omitempty"`
	ForegroundColor string `json:"foregroundColor,omitempty"`
	Primary         bool   `json:"primary,omitempty"`
}
