package pipeline

import (
	"strings"

	"github.com/dashie/calfeed/internal"
)

// dedupeKey identifies a logical event by content, not by source ID. The
// source-assigned ID and the calendarID are both excluded: a shared
// calendar visible under two connected accounts yields copies with
// different IDs and different calendarIDs, and those must collapse.
type dedupeKey struct {
	summary string
	start   string
	end     string
}

// Deduplicate collapses events that appear identically on more than one
// connected calendar. The first copy in fetch order wins; fields are never
// merged. Surviving events keep their first-occurrence order.
func Deduplicate(events []internal.NormalizedEvent) []internal.NormalizedEvent {
	seen := make(map[dedupeKey]struct{}, len(events))
	out := make([]internal.NormalizedEvent, 0, len(events))
	for _, ev := range events {
		key := dedupeKey{
			summary: strings.ToLower(strings.TrimSpace(ev.Summary)),
			start:   ev.Start.Value(),
			end:     ev.End.Value(),
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, ev)
	}
	return out
}
