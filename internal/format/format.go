// Package format turns raw board payload values into the text herd prints.
package format

import (
	"fmt"
	"strings"
	"time"
)

// NotAvailable is rendered in place of a date that is missing or unparsable.
const NotAvailable = "N/A"

// timestampLayout matches the board's activity timestamps, e.g.
// 2023-06-15T10:00:00.000Z. Fractional seconds are optional when parsing.
const timestampLayout = "2006-01-02T15:04:05.999999999Z"

// displayOffset is a fixed shift applied before rendering dates.
// It is not DST aware.
const displayOffset = -5 * time.Hour

const dateLayout = "2 Jan 2006"

// Names joins names with newlines. An entry with an empty name is treated
// like one with no name at all and skipped, so listings never carry blank
// lines. An empty input yields an empty string.
func Names(names []string) string {
	kept := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		kept = append(kept, n)
	}
	return strings.Join(kept, "\n")
}

// Detail holds the values shown for a single card.
type Detail struct {
	Name         string
	List         string
	Description  string
	LastActivity string // raw timestamp as returned by the board
}

// CardDetail renders the four-line card view.
func CardDetail(d Detail) string {
	return fmt.Sprintf("Name: %s\nList: %s\nDescription: %s\nLast updated: %s",
		d.Name, d.List, d.Description, Date(d.LastActivity))
}

// Date renders a raw UTC timestamp as "D Mon YYYY" after the display offset.
// Missing or malformed timestamps render as NotAvailable.
func Date(raw string) string {
	t, ok := ParseTimestamp(raw)
	if !ok {
		return NotAvailable
	}
	return t.Add(displayOffset).Format(dateLayout)
}

// ParseTimestamp parses a board timestamp as UTC.
func ParseTimestamp(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(timestampLayout, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}
