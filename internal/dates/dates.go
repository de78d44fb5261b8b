// Package dates converts between the textual date forms accepted on the
// command line and the canonical absolute-time representation used by every
// sighting record: seconds since the Unix epoch at midnight UTC.
package dates

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DisplayFormat is the canonical rendering of a sighting date.
const DisplayFormat = "2006.01.02"

// now is swapped out in tests that exercise the assumed-date parser.
var now = time.Now

// Timestamp returns the Unix timestamp for midnight UTC on the given
// calendar date.
func Timestamp(year int, month time.Month, day int) int64 {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Unix()
}

// ParseText parses a full date in either "YYYY.MM.DD" or "YYYY-MM-DD" form,
// with or without zero-padded month and day. The separator is chosen by
// inspecting the character at offset 4.
func ParseText(text string) (int64, error) {
	trimmed := strings.TrimSpace(text)
	layout, unpadded := "2006-01-02", "2006-1-2"
	if len(trimmed) > 4 && trimmed[4] == '.' {
		layout, unpadded = "2006.01.02", "2006.1.2"
	}
	parsed, err := time.ParseInLocation(layout, trimmed, time.UTC)
	if err != nil {
		parsed, err = time.ParseInLocation(unpadded, trimmed, time.UTC)
	}
	if err != nil {
		return 0, fmt.Errorf("parsing date %q: use something like 2022.02.13", trimmed)
	}
	return parsed.Unix(), nil
}

// ParseAssumed parses a partial dot-separated date against the current date:
// one component is a day of the current month, two are month.day of the
// current year, three are year.month.day with two-digit years mapped to 20yy.
func ParseAssumed(text string) (int64, error) {
	parts := strings.Split(strings.TrimSpace(text), ".")

	var year, day int
	var month time.Month
	current := now().UTC()

	switch len(parts) {
	case 1:
		d, err := atoiComponent(parts[0])
		if err != nil {
			return 0, err
		}
		year, month, day = current.Year(), current.Month(), d
	case 2:
		m, err := atoiComponent(parts[0])
		if err != nil {
			return 0, err
		}
		d, err := atoiComponent(parts[1])
		if err != nil {
			return 0, err
		}
		year, month, day = current.Year(), time.Month(m), d
	case 3:
		y, err := atoiComponent(parts[0])
		if err != nil {
			return 0, err
		}
		switch len(parts[0]) {
		case 2:
			year = 2000 + y
		case 4:
			year = y
		default:
			return 0, fmt.Errorf("cannot convert date from %q", text)
		}
		m, err := atoiComponent(parts[1])
		if err != nil {
			return 0, err
		}
		d, err := atoiComponent(parts[2])
		if err != nil {
			return 0, err
		}
		month, day = time.Month(m), d
	default:
		return 0, fmt.Errorf("incorrect number of terms in date %q", text)
	}

	return Timestamp(year, month, day), nil
}

// Display renders a timestamp in the canonical "YYYY.MM.DD" form.
func Display(ts int64) string {
	return time.Unix(ts, 0).UTC().Format(DisplayFormat)
}

func atoiComponent(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("cannot convert date component %q", s)
	}
	return n, nil
}
