package clock

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// DATE - Civil calendar date (no time-of-day, no location)
// =============================================================================

// Date is a calendar date. It is comparable with == and serializes as
// "YYYY-MM-DD". Day-of-week and month membership are computed from the
// civil date itself, so they never shift across time zones.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate builds a Date from its components.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses "YYYY-MM-DD".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// At anchors the date at the given time-of-day in loc.
func (d Date) At(hour, minute int, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, hour, minute, 0, 0, loc)
}

// Weekday returns the day of week (Sunday = 0).
func (d Date) Weekday() time.Weekday {
	return d.At(0, 0, time.UTC).Weekday()
}

// InMonth reports whether the date falls in the given month and year.
func (d Date) InMonth(year int, month time.Month) bool {
	return d.Year == year && d.Month == month
}

func (d Date) IsZero() bool { return d == Date{} }

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// =============================================================================
// DISPLAY TIME - 12-hour clock strings shown next to each record
// =============================================================================

// FormatClock renders t as the 12-hour display string stored on a record,
// e.g. "2:30 PM".
func FormatClock(t time.Time) string {
	return t.Format("3:04 PM")
}

// ParseClock parses a 12-hour display string ("2:30 PM", "12:05 am") into
// a 24-hour clock. PM adds twelve hours unless the hour is already 12;
// "12 AM" maps to hour 0. Malformed input degrades to 00:00 rather than
// failing, matching how admin corrections behave on bad input.
func ParseClock(s string) (hour, minute int) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) == 0 {
		return 0, 0
	}
	parts := strings.SplitN(fields[0], ":", 2)
	hour, _ = strconv.Atoi(parts[0])
	if len(parts) > 1 {
		minute, _ = strconv.Atoi(parts[1])
	}
	if len(fields) > 1 {
		switch strings.ToLower(fields[1]) {
		case "pm":
			if hour != 12 {
				hour += 12
			}
		case "am":
			if hour == 12 {
				hour = 0
			}
		}
	}
	return hour, minute
}

// parseTimeOfDay splits a 24-hour "HH:MM" schedule string. Missing or
// malformed components count as zero.
func parseTimeOfDay(s string) (hour, minute int) {
	parts := strings.SplitN(s, ":", 2)
	hour, _ = strconv.Atoi(parts[0])
	if len(parts) > 1 {
		minute, _ = strconv.Atoi(parts[1])
	}
	return hour, minute
}

// FormatWorkedTime renders a minute total as "7h 05m".
func FormatWorkedTime(minutes int) string {
	return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
}
