// Package window resolves request periods into inclusive YYYY-MM-DD date ranges.
//
// Dates are taken from the UTC wall clock with no timezone conversion, so a
// user far from UTC may see "today" shift near midnight.
package window

import (
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

type Period string

const (
	Rolling7  Period = "7"
	Rolling30 Period = "30"
	Week      Period = "week"
)

type Window struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Contains reports whether date (YYYY-MM-DD) falls inside the window.
func (w Window) Contains(date string) bool {
	return date >= w.Start && date <= w.End
}

// Resolve computes the window for p relative to now. Unknown periods resolve
// like Rolling30.
func Resolve(p Period, now time.Time) Window {
	today := truncate(now)
	switch p {
	case Week:
		// Sunday belongs to the week that started the previous Monday.
		offset := (int(today.Weekday()) + 6) % 7
		monday := today.AddDate(0, 0, -offset)
		return Window{Start: format(monday), End: format(monday.AddDate(0, 0, 6))}
	case Rolling7:
		return LastDays(7, now)
	default:
		return LastDays(30, now)
	}
}

// LastDays is the window of n days ending today, today included.
func LastDays(n int, now time.Time) Window {
	if n < 1 {
		n = 1
	}
	today := truncate(now)
	return Window{Start: format(today.AddDate(0, 0, -(n - 1))), End: format(today)}
}

func Today(now time.Time) string {
	return format(truncate(now))
}

// ParseRolling maps a request value to Rolling7 for 7 or "7" and Rolling30 otherwise.
func ParseRolling(v any) Period {
	switch x := v.(type) {
	case float64:
		if x == 7 {
			return Rolling7
		}
	case int:
		if x == 7 {
			return Rolling7
		}
	case string:
		if strings.TrimSpace(x) == "7" {
			return Rolling7
		}
	}
	return Rolling30
}

// ParseWeekly maps "week" to Week and everything else to Rolling30.
func ParseWeekly(v any) Period {
	if s, ok := v.(string); ok && strings.EqualFold(strings.TrimSpace(s), "week") {
		return Week
	}
	return Rolling30
}

// ParseAny accepts any of the known period spellings.
func ParseAny(v any) Period {
	if ParseWeekly(v) == Week {
		return Week
	}
	return ParseRolling(v)
}

func truncate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func format(t time.Time) string {
	return t.Format(DateLayout)
}
