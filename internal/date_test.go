package internal_test

import (
	"testing"
	"time"

	"github.com/dashie/calfeed/internal"
)

func TestDateAddDaysAcrossDSTStart(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatal(err)
	}

	// DST starts 2025-03-09 in New York; a 23-hour day must still count
	// as one calendar day.
	d := internal.NewDate(2025, time.March, 9, loc)
	if got := d.AddDays(1).String(); got != "2025-03-10" {
		t.Errorf("AddDays(1) = %s, want 2025-03-10", got)
	}
	if got := d.AddDays(-1).String(); got != "2025-03-08" {
		t.Errorf("AddDays(-1) = %s, want 2025-03-08", got)
	}
}

func TestDateAddDaysAcrossDSTEnd(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatal(err)
	}

	// DST ends 2025-11-02; the 25-hour day is still one day.
	d := internal.NewDate(2025, time.November, 3, loc)
	if got := d.AddDays(-1).String(); got != "2025-11-02" {
		t.Errorf("AddDays(-1) = %s, want 2025-11-02", got)
	}
}

func TestParseDate(t *testing.T) {
	d, err := internal.ParseDate("2025-03-10")
	if err != nil {
		t.Fatal(err)
	}
	if d.String() != "2025-03-10" {
		t.Errorf("got %s, want 2025-03-10", d)
	}

	if _, err := internal.ParseDate("10/03/2025"); err == nil {
		t.Error("expected error for non YYYY-MM-DD input")
	}
}

func TestDateCompare(t *testing.T) {
	a := internal.NewDate(2025, time.March, 10, time.UTC)
	b := internal.NewDate(2025, time.March, 11, time.UTC)

	if !a.Before(b) {
		t.Error("a should be before b")
	}
	if b.Before(a) {
		t.Error("b should not be before a")
	}
	if !a.Equal(internal.NewDate(2025, time.March, 10, time.Local)) {
		t.Error("same civil date in different locations should be equal")
	}
}

func TestDateMarshalJSON(t *testing.T) {
	d := internal.NewDate(2025, time.March, 10, time.UTC)
	got, err := d.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `"2025-03-10"` {
		t.Errorf("got %s, want %q", got, "2025-03-10")
	}
}
