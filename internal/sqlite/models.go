package sqlite

import (
	"strings"

	"github.com/dashie/calfeed/internal"
)

type Calendar struct {
	AccountID   string `db:"account_id"`
	ProviderID  string `db:"provider_id"`
	Name        string
	Active      bool
	AccountAuth string `db:"auth"`
}

func (c Calendar) Convert() *internal.Calendar {
	acc := internal.Account{
		Auth: c.AccountAuth,
	}
	acc.Platform, acc.Name, _ = strings.Cut(c.AccountID, "/")
	return &internal.Calendar{
		ID:         c.AccountID + "/" + c.ProviderID,
		Name:       c.Name,
		ProviderID: c.ProviderID,
		Account:    acc,
	}
}
