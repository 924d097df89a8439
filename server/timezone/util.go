// Package timezone resolves the server reference frame.
//
// Date strings reaching the API are read as already being in this frame and
// are never shifted between zones, so the frame only decides how wall clock
// fields map to instants when a time.Time is needed.
package timezone

import (
	"fmt"
	"strings"
	"time"

	gotz "github.com/tkuchiki/go-timezone"
)

const (
	// TimezoneLocal selects the zone of the host the server runs on.
	TimezoneLocal = "Local"

	// TimezoneUTC is the UTC timezone identifier
	TimezoneUTC = "UTC"
)

// ParseTimezone parses an IANA timezone identifier (e.g., "America/Chicago").
// An empty identifier or "Local" selects the host zone, and a zone
// abbreviation ("JST") becomes a fixed offset. If the timezone is invalid,
// returns time.Local and an error.
func ParseTimezone(tz string) (*time.Location, error) {
	switch tz {
	case "", TimezoneLocal:
		return time.Local, nil
	case TimezoneUTC:
		return time.UTC, nil
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		if fixed, ok := fromAbbreviation(tz); ok {
			return fixed, nil
		}
		return time.Local, fmt.Errorf("invalid timezone %q: %w", tz, err)
	}

	return loc, nil
}

// fromAbbreviation maps a zone abbreviation such as "JST" or "CEST" to a
// fixed offset. Ambiguous abbreviations take the first known offset.
func fromAbbreviation(abbr string) (*time.Location, bool) {
	abbr = strings.ToUpper(strings.TrimSpace(abbr))
	if abbr == "" {
		return nil, false
	}
	infos, err := gotz.New().GetTzAbbreviationInfo(abbr)
	if err != nil || len(infos) == 0 {
		return nil, false
	}
	return time.FixedZone(abbr, infos[0].Offset()), true
}

// IsValidTimezone checks if a timezone identifier is valid.
func IsValidTimezone(tz string) bool {
	_, err := ParseTimezone(tz)
	return err == nil
}

// NowInTimezone returns the current time in the given timezone.
func NowInTimezone(tz *time.Location) time.Time {
	if tz == nil {
		tz = time.Local
	}
	return time.Now().In(tz)
}
