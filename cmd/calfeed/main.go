package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
)

var cfg struct {
	DBFilename string
	Verbose    bool
	Google     struct {
		CredentialsFile string
	}
}

func init() {
	if err := godotenv.Load(); err != nil {
		slog.Debug(err.Error())
	}
	flag.StringVar(&cfg.DBFilename, "db", envOr("CALFEED_DB", "calfeed.db"), "settings database file")
	flag.BoolVar(&cfg.Verbose, "verbose", false, "enable debug logging")
	flag.StringVar(&cfg.Google.CredentialsFile, "google-cred", envOr("GOOGLE_CREDENTIALS_FILE", "credentials.json"), "credentials file for google")
}

func main() {
	flag.Usage = usage
	flag.Parse()

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.RFC1123Z,
		}),
	))

	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, os.Interrupt)
		<-ch
		cancel()
	}()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	var err error
	switch args[0] {
	case ConfigureCommand.Name:
		err = ConfigureCommand.Run(ctx, cfg.DBFilename, cfg.Google.CredentialsFile, args[1:])
	case FetchCommand.Name:
		err = FetchCommand.Run(ctx, cfg.DBFilename, cfg.Google.CredentialsFile, args[1:])
	default:
		fmt.Fprintf(flag.CommandLine.Output(), "unknown command %q\n\n", args[0])
		usage()
		os.Exit(2)
	}
	if err != nil {
		slog.Error(args[0]+" failed", "error", err)
		os.Exit(1)
	}
}

func usage() {
	w := flag.CommandLine.Output()
	fmt.Fprintf(w, "Usage of %s <command>:\n", os.Args[0])
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintf(w, "  %s\t%s\n", ConfigureCommand.Name, ConfigureCommand.Description)
	fmt.Fprintf(w, "  %s\t%s\n", FetchCommand.Name, FetchCommand.Description)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	flag.PrintDefaults()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
