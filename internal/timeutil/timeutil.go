package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// Location is the business time zone. Day boundaries (today, tomorrow,
// start/end of day filters) are always computed here, never in host time.
var Location *time.Location

// DefaultZone is used when no zone is configured.
const DefaultZone = "Asia/Kolkata"

func init() {
	var err error
	Location, err = time.LoadLocation(DefaultZone)
	if err != nil {
		// Fallback: create fixed zone if Asia/Kolkata not available
		Location = time.FixedZone("IST", 5*60*60+30*60) // UTC+5:30
	}
}

// SetLocation switches the business time zone. Called once at startup.
func SetLocation(name string) error {
	if name == "" {
		return nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return fmt.Errorf("unknown time zone %q: %w", name, err)
	}
	Location = loc
	return nil
}

// Now returns the current time in the business zone
func Now() time.Time {
	return time.Now().In(Location)
}

// In converts any time to the business zone
func In(t time.Time) time.Time {
	return t.In(Location)
}

// StartOfDay returns midnight of t's calendar day in the business zone
func StartOfDay(t time.Time) time.Time {
	l := t.In(Location)
	return time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, Location)
}

// EndOfDay returns the last nanosecond of t's calendar day in the business zone
func EndOfDay(t time.Time) time.Time {
	l := t.In(Location)
	return time.Date(l.Year(), l.Month(), l.Day(), 23, 59, 59, 999999999, Location)
}

// AddDays moves a midnight forward by calendar days (DST safe, unlike Add(24h)).
func AddDays(t time.Time, days int) time.Time {
	return t.AddDate(0, 0, days)
}

// ParseDate accepts a calendar date (YYYY-MM-DD, read as midnight in the
// business zone) or a full RFC3339 timestamp.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if t, err := time.ParseInLocation(DateLayout, value, Location); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD or RFC3339", value)
	}
	return t.In(Location), nil
}

// FormatDisplay renders t as day/month/year (en-IN style, no zero padding).
func FormatDisplay(t time.Time) string {
	return t.In(Location).Format(DisplayLayout)
}

// FormatDate renders t as YYYY-MM-DD in the business zone
func FormatDate(t time.Time) string {
	return t.In(Location).Format(DateLayout)
}

// Common layouts
const (
	DateLayout     = "2006-01-02"
	DisplayLayout  = "2/1/2006"
	DateTimeLayout = "2006-01-02 15:04:05"
)
