package lead

import (
	"strings"
	"time"
)

var epoch = time.Unix(0, 0).UTC()

// Upstream dates arrive in two shapes: call times like
// "Friday, 29 Aug 2025, 9:50 am" and inquiry dates like
// "2025-08-28 09:50:08". Locally created leads write the display
// form "29 Aug 2025, 9:50 am". The first comma is stripped before
// matching, which collapses the weekday prefix.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"Monday 2 Jan 2006, 3:04 pm",
	"Monday 2 Jan 2006, 3:04 PM",
	"Monday 2 Jan 2006 3:04 pm",
	"2 Jan 2006 3:04 pm",
	"2 Jan 2006 3:04 PM",
	"Jan 2 2006 3:04 pm",
	"Jan 2 2006 3:04 PM",
	"2 Jan 2006",
	"2006-01-02",
}

// ParseDate parses a loosely formatted upstream date. Anything that
// does not parse collapses to the Unix epoch, which callers treat as
// "unknown" and which sorts last in newest-first ordering.
func ParseDate(raw string) time.Time {
	s := strings.TrimSpace(raw)
	if s == "" {
		return epoch
	}
	s = strings.Replace(s, ",", "", 1)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return epoch
}

// Unknown reports whether a parsed date collapsed to the epoch.
func Unknown(t time.Time) bool {
	return !t.After(epoch)
}

// DisplayDate renders a timestamp in the board's display form.
func DisplayDate(t time.Time) string {
	return t.Format("2 Jan 2006, 3:04 pm")
}

// FormatDate renders a raw upstream date for display. Unparseable
// values are shown as received, or as an em dash when empty.
func FormatDate(raw string) string {
	t := ParseDate(raw)
	if Unknown(t) {
		if strings.TrimSpace(raw) == "" {
			return "—"
		}
		return raw
	}
	return DisplayDate(t)
}
