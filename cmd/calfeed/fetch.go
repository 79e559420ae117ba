package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/dashie/calfeed/calendar"
	"github.com/dashie/calfeed/calendar/google"
	"github.com/dashie/calfeed/internal"
	"github.com/dashie/calfeed/internal/feed"
	"github.com/dashie/calfeed/internal/sqlite"
)

var FetchCommand = _fetchCommand{
	Name:        "fetch",
	Description: "Fetch the display-ready event feed and print it as JSON",
}

type _fetchCommand struct {
	Name        string
	Description string
}

func (s _fetchCommand) Run(ctx context.Context, dbFilename, credFile string, args []string) error {
	var (
		from       internal.Date
		windowDays int
		pretty     bool
		calIDs     Strings
	)

	fs := flag.NewFlagSet(s.Name, flag.ExitOnError)
	fs.Usage = func() {
		w := flag.CommandLine.Output()
		fmt.Fprintf(w, "Usage of %s %s:\n", os.Args[0], fs.Name())
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Options:\n")
		fs.PrintDefaults()
	}
	fs.Var(&from, "from", "start of the window (e.g. 2025-03-10), defaults to yesterday")
	fs.IntVar(&windowDays, "window-days", 30, "number of days to fetch from the window start")
	fs.BoolVar(&pretty, "pretty", false, "indent the JSON output")
	fs.Var(&calIDs, "calendar-id", "calendar to include, repeatable; default is every active calendar")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if from.IsZero() {
		from = internal.Today().AddDays(-1)
	}
	window := feed.Window{
		From: from,
		To:   from.AddDays(windowDays),
	}

	db, err := sql.Open(sqlite.DriverName, dbFilename)
	if err != nil {
		return err
	}
	storage := sqlite.NewStorage(db)

	mux, err := newMux(credFile)
	if err != nil {
		return err
	}

	refresher := feed.New(mux, storage, slog.Default())
	f, err := refresher.Refresh(ctx, window, calIDs)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(f)
}

func newMux(credFile string) (internal.Mux, error) {
	credJSON, err := os.ReadFile(credFile)
	if err != nil {
		return nil, fmt.Errorf("reading credentials file: %v", err)
	}
	googleCal, err := google.NewClient(credJSON)
	if err != nil {
		return nil, err
	}

	mux := calendar.NewMux()
	mux.Register(googleProvider, googleCal)
	return mux, nil
}
