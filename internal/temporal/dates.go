package temporal

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ppiankov/curator/internal/logging"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"2006.01.02",
	"01/02/2006",
	"1/2/2006",
	"02-01-2006",
	"2-1-2006",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"02 Jan 2006",
	"2 Jan 2006",
	"2006-01",
}

var yearToken = regexp.MustCompile(`\b(1[89]\d{2}|2\d{3})\b`)

// ParseDate parses a publication date. Unrecognised formats fall back to
// January 1 of any four-digit year in the string.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	if m := yearToken.FindString(s); m != "" {
		year, _ := strconv.Atoi(m)
		return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC), true
	}

	logging.Debug("unparseable published date", "value", s)
	return time.Time{}, false
}
