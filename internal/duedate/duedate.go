// Package duedate classifies rentals by how their end date relates to the
// current business day and produces the date windows used to query them.
package duedate

import (
	"fmt"
	"math"
	"strings"
	"time"

	"rental-backend/internal/timeutil"
)

// Status is the human readable label shown for a rental
type Status string

const (
	StatusActive   Status = "Active"
	StatusDueToday Status = "Due Today"
	StatusOverdue  Status = "Overdue"
)

// Filter selects rentals by end date window
type Filter string

const (
	FilterNone        Filter = ""
	FilterActive      Filter = "active" // not yet overdue: endDate >= today
	FilterDueToday    Filter = "due_today"
	FilterDueTomorrow Filter = "due_tomorrow"
	FilterOverdue     Filter = "overdue"
)

// ParseFilter accepts the query parameter forms of a filter. Labels as shown
// in the UI ("Due Today") are accepted too.
func ParseFilter(s string) (Filter, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	switch Filter(norm) {
	case FilterNone, FilterActive, FilterDueToday, FilterDueTomorrow, FilterOverdue:
		return Filter(norm), nil
	case "all":
		return FilterNone, nil
	}
	return FilterNone, fmt.Errorf("unknown status filter %q", s)
}

// Windows holds the day boundaries for one evaluation instant
type Windows struct {
	Today    time.Time // start of today
	Tomorrow time.Time // start of tomorrow
	DayAfter time.Time // start of the day after tomorrow
}

// WindowsAt computes the boundaries for now in the business zone
func WindowsAt(now time.Time) Windows {
	today := timeutil.StartOfDay(now)
	return Windows{
		Today:    today,
		Tomorrow: timeutil.AddDays(today, 1),
		DayAfter: timeutil.AddDays(today, 2),
	}
}

// Classify labels a rental by its end date. Exactly one label applies.
// Note the Active label excludes rentals due today while FilterActive
// includes them.
func (w Windows) Classify(endDate time.Time) Status {
	switch {
	case endDate.Before(w.Today):
		return StatusOverdue
	case endDate.Before(w.Tomorrow):
		return StatusDueToday
	default:
		return StatusActive
	}
}

// Bounds returns the half-open [from, to) end date range for a filter.
// A nil bound is unbounded on that side.
func (w Windows) Bounds(f Filter) (from, to *time.Time) {
	switch f {
	case FilterActive:
		return &w.Today, nil
	case FilterDueToday:
		return &w.Today, &w.Tomorrow
	case FilterDueTomorrow:
		return &w.Tomorrow, &w.DayAfter
	case FilterOverdue:
		return nil, &w.Today
	}
	return nil, nil
}

// Classify is a shorthand for WindowsAt(now).Classify(endDate)
func Classify(endDate, now time.Time) Status {
	return WindowsAt(now).Classify(endDate)
}

// DaysRemaining is ceil((endDate - now) / 24h). Negative once overdue.
func DaysRemaining(endDate, now time.Time) int {
	d := endDate.Sub(now)
	days := math.Ceil(d.Hours() / 24)
	if days == 0 {
		return 0 // normalise -0
	}
	return int(days)
}
