// Package sqlite persists the dashboard's calendar settings: connected
// accounts with their oauth tokens and the set of calendars the user chose
// to display.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/dashie/calfeed/internal"
)

const DriverName = "sqlite3"

type Storage struct {
	db *sqlx.DB
}

func NewStorage(db *sql.DB) *Storage {
	s := &Storage{
		db: sqlx.NewDb(db, DriverName),
	}
	err := s.RunMigrations()
	if err != nil {
		panic(fmt.Sprintf("sqlite: running migrations: %v", err))
	}
	return s
}

func (s Storage) AddAccount(ctx context.Context, account *internal.Account) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (id, auth) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET auth=?;
	`, account.ID(), account.Auth, account.Auth)
	return err
}

func (s Storage) AddCalendar(ctx context.Context, cal *internal.Calendar, active bool) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO calendars (account_id, provider_id, name, active)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(account_id, provider_id) DO UPDATE
			SET name = ?, active = ?;
	`, cal.Account.ID(), cal.ProviderID, cal.Name, active, cal.Name, active)
	return err
}

func (s Storage) SetCalendarActive(ctx context.Context, accountID, providerID string, active bool) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE calendars SET active = ? WHERE account_id = ? AND provider_id = ?
	`, active, accountID, providerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return fmt.Errorf("sqlite: calendar %s/%s is not configured", accountID, providerID)
	}
	return err
}

// ActiveCalendars returns the calendars the user enabled for the feed,
// with each account's auth attached so providers can fetch from them.
func (s Storage) ActiveCalendars(ctx context.Context) ([]*internal.Calendar, error) {
	var cals []Calendar

	err := s.db.SelectContext(ctx, &cals, `
		SELECT c.account_id, c.provider_id, c.name, c.active, a.auth
		FROM calendars c
		INNER JOIN accounts a ON a.id = c.account_id
		WHERE c.active
		ORDER BY c.account_id, c.provider_id
	`)
	if err != nil {
		return nil, err
	}

	res := make([]*internal.Calendar, len(cals))
	for i, c := range cals {
		res[i] = c.Convert()
	}
	return res, nil
}
