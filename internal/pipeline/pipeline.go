// Package pipeline turns raw calendar events fetched from one or more
// accounts into a display-ready batch: all-day classification, canonical
// inclusive date ranges, cross-account deduplication, and description
// sanitization. Every stage is a pure function over the batch; diagnostics
// come back as a list of anomalies instead of being logged in place.
package pipeline

import (
	"github.com/dashie/calfeed/internal"
)

// Run processes one freshly fetched batch. Events keep their fetch order
// (minus collapsed duplicates). The input slice is not modified.
func Run(events []internal.RawEvent) ([]internal.NormalizedEvent, []Anomaly) {
	normalized := make([]internal.NormalizedEvent, 0, len(events))
	var anomalies []Anomaly
	for _, raw := range events {
		ev, anoms := NormalizeEvent(raw)
		normalized = append(normalized, ev)
		anomalies = append(anomalies, anoms...)
	}

	normalized = Deduplicate(normalized)
	for i := range normalized {
		normalized[i].Description = SanitizeDescription(normalized[i].Description)
	}
	return normalized, anomalies
}
