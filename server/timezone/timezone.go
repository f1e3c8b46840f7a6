// Package timezone provides timezone utilities for the recall engine.
//
// This package handles timezone validation, detection from free text and
// geographic coordinates, and the local-display formatting used in reminder
// confirmations.
package timezone

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/ringsaturn/tzf"
)

// UTC is the coordinated universal time timezone.
var UTC = time.UTC

// ParseTimezone parses an IANA timezone identifier (e.g., "Asia/Shanghai").
// If the timezone is invalid, returns UTC and an error.
func ParseTimezone(tz string) (*time.Location, error) {
	if tz == "" || tz == "UTC" {
		return UTC, nil
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return UTC, fmt.Errorf("invalid timezone %q: %w", tz, err)
	}

	return loc, nil
}

// IsValidTimezone checks if a timezone identifier is valid.
func IsValidTimezone(tz string) bool {
	if tz == "" {
		return false
	}
	if tz == "UTC" {
		return true
	}

	_, err := time.LoadLocation(tz)
	return err == nil
}

// zoneTokenPattern matches IANA-style Area/City tokens in free text, e.g.
// "Europe/Berlin" or "America/Argentina/Buenos_Aires".
var zoneTokenPattern = regexp.MustCompile(`\b[A-Z][A-Za-z_]+(?:/[A-Z][A-Za-z_+\-]+){1,2}\b`)

// intentKeywordPattern requires the text to actually talk about timezones.
// An Area/City-looking token alone is not enough; ordinary prose mentions
// things like "Paris/London flights" all the time.
var intentKeywordPattern = regexp.MustCompile(`(?i)\b(timezone|time zone|tz)\b`)

// FromText scans free text for an IANA Area/City token. A token only counts
// when a timezone-intent keyword co-occurs in the same text, and it must
// name a loadable zone.
func FromText(text string) (string, bool) {
	if !intentKeywordPattern.MatchString(text) {
		return "", false
	}

	for _, candidate := range zoneTokenPattern.FindAllString(text, -1) {
		if IsValidTimezone(candidate) {
			return candidate, true
		}
	}
	return "", false
}

var (
	finderOnce sync.Once
	finder     tzf.F
	finderErr  error
)

// FromCoordinates resolves geographic coordinates to the enclosing IANA zone
// via a polygon lookup. Returns false outside all known zones. The boundary
// index decodes lazily on first use.
func FromCoordinates(lat, lon float64) (string, bool) {
	finderOnce.Do(func() {
		finder, finderErr = tzf.NewDefaultFinder()
	})
	if finderErr != nil {
		return "", false
	}

	name := finder.GetTimezoneName(lon, lat)
	if name == "" || !IsValidTimezone(name) {
		return "", false
	}
	return name, true
}

// NowInTimezone returns the current time in the given timezone.
func NowInTimezone(tz *time.Location) time.Time {
	if tz == nil {
		tz = UTC
	}
	return time.Now().In(tz)
}

// FormatLocal renders an instant for user-facing confirmation:
// "2006-01-02 15:04:05 (Area/City)". Display only, never compared.
func FormatLocal(t time.Time, tz string) string {
	loc, err := ParseTimezone(tz)
	if err != nil {
		loc = UTC
		tz = "UTC"
	}
	return fmt.Sprintf("%s (%s)", t.In(loc).Format("2006-01-02 15:04:05"), strings.TrimSpace(tz))
}
