package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"transitctl/pkg/transit"
)

// ParsePoint reads "lat,lon".
func ParsePoint(s string) (transit.Point, error) {
	latStr, lonStr, ok := strings.Cut(s, ",")
	if !ok {
		return transit.Point{}, fmt.Errorf("expected latitude,longitude")
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return transit.Point{}, fmt.Errorf("invalid latitude %q", latStr)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return transit.Point{}, fmt.Errorf("invalid longitude %q", lonStr)
	}
	return transit.Point{Latitude: lat, Longitude: lon}, nil
}

// ParseWhen reads a user supplied time. It accepts RFC 3339, "2006-01-02 15:04",
// a clock time for today ("15:04"), an offset from now ("+30m") and "now".
// An empty string yields the zero time, which leaves the choice to the API.
func ParseWhen(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return time.Time{}, nil
	case s == "now":
		return now, nil
	case strings.HasPrefix(s, "+"):
		d, err := time.ParseDuration(s[1:])
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid offset %q: %w", s, err)
		}
		return now.Add(d), nil
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04", s, now.Location()); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("15:04", s, now.Location()); err == nil {
		return time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, now.Location()), nil
	}
	return time.Time{}, fmt.Errorf("invalid time %q (use RFC 3339, \"2006-01-02 15:04\", \"15:04\" or \"+30m\")", s)
}
