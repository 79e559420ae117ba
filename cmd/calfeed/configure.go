package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/dashie/calfeed/calendar/google"
	"github.com/dashie/calfeed/internal"
	"github.com/dashie/calfeed/internal/sqlite"
)

const googleProvider = "google"

var ConfigureCommand = _configureCommand{
	Name:        "configure",
	Description: "Connect a Google account and choose the calendars to display",
}

type _configureCommand struct {
	Name        string
	Description string
}

func (s _configureCommand) Run(ctx context.Context, dbFilename, credFile string, args []string) error {
	db, err := sql.Open(sqlite.DriverName, dbFilename)
	if err != nil {
		return err
	}
	storage := sqlite.NewStorage(db)

	credJSON, err := os.ReadFile(credFile)
	if err != nil {
		return fmt.Errorf("reading credentials file: %v", err)
	}
	googleCal, err := google.NewClient(credJSON)
	if err != nil {
		return fmt.Errorf("creating client: %v", err)
	}

	w := flag.CommandLine.Output()

	authToken, err := googleCal.Login(ctx, func(authURL string) {
		fmt.Fprintf(w, "Go to the following link in your browser\n%s\n", authURL)
	})
	if err != nil {
		return fmt.Errorf("google: logging in: %v", err)
	}
	userEmail, err := googleCal.Email(ctx, authToken)
	if err != nil {
		return fmt.Errorf("google: getting email: %v", err)
	}

	acc := internal.Account{
		Platform: googleProvider,
		Name:     userEmail,
		Auth:     string(authToken),
	}
	fmt.Fprintf(w, "Saving account %q for %q provider...\n", acc.Name, acc.Platform)
	err = storage.AddAccount(ctx, &acc)
	if err != nil {
		return fmt.Errorf("saving account: %v", err)
	}

	infos, err := googleCal.Calendars(ctx, &acc)
	if err != nil {
		return fmt.Errorf("google: listing calendars: %v", err)
	}
	for _, info := range infos {
		fmt.Fprintf(w, "Display calendar %q (%s)? [y/N] ", info.Name, info.ID)
		var answer string
		fmt.Scanln(&answer)
		active := strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes")

		cal := &internal.Calendar{
			ID:         acc.ID() + "/" + info.ID,
			Name:       info.Name,
			ProviderID: info.ID,
			Account:    acc,
		}
		err = storage.AddCalendar(ctx, cal, active)
		if err != nil {
			return fmt.Errorf("saving calendar %s: %v", info.ID, err)
		}
	}
	return nil
}
