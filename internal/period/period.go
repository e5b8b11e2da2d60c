// Package period provides the (line, day) addressing space of the planning grid:
// calendar day ranges for month and week zoom, and pixel geometry conversion.
package period

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Validation errors.
var (
	ErrInvalidMonthFormat = errors.New("month must be in YYYY-MM format")
	ErrInvalidZoom        = errors.New("zoom must be 'month' or 'week'")
)

// NoDay marks a week slot that falls outside the month.
const NoDay = 0

// DaysPerWeek is the number of slots in a week view.
const DaysPerWeek = 7

// Zoom selects how many days of the period are visible.
type Zoom string

const (
	ZoomMonth Zoom = "month"
	ZoomWeek  Zoom = "week"
)

// ParseZoom parses a zoom name, case-insensitively.
func ParseZoom(s string) (Zoom, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "month":
		return ZoomMonth, nil
	case "week":
		return ZoomWeek, nil
	default:
		return "", ErrInvalidZoom
	}
}

// DaysInMonth returns the day numbers 1..N of the given month.
func DaysInMonth(year int, month time.Month) []int {
	n := MonthLength(year, month)
	days := make([]int, n)
	for i := 0; i < n; i++ {
		days[i] = i + 1
	}
	return days
}

// MonthLength returns the number of days in the given month.
func MonthLength(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// mondayOffset returns how many Monday-aligned slots precede day 1.
func mondayOffset(year int, month time.Month) int {
	wd := int(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday())
	// Sunday (0) is the last slot of a Monday-based week.
	return (wd + 6) % 7
}

// DaysInWeek returns the seven Monday-aligned slots of the given week of the month.
// Week 1 is the week containing day 1. Slots outside the month hold NoDay.
func DaysInWeek(year int, month time.Month, week int) []int {
	slots := make([]int, DaysPerWeek)
	if week < 1 || week > WeeksInMonth(year, month) {
		return slots
	}
	n := MonthLength(year, month)
	start := (week-1)*DaysPerWeek - mondayOffset(year, month) + 1
	for i := 0; i < DaysPerWeek; i++ {
		if day := start + i; day >= 1 && day <= n {
			slots[i] = day
		}
	}
	return slots
}

// WeeksInMonth returns the number of Monday-aligned weeks touching the month.
func WeeksInMonth(year int, month time.Month) int {
	total := mondayOffset(year, month) + MonthLength(year, month)
	return (total + DaysPerWeek - 1) / DaysPerWeek
}

// WeekOfMonth returns the Monday-aligned week number (1-based) containing date.
func WeekOfMonth(date time.Time) int {
	return (mondayOffset(date.Year(), date.Month())+date.Day()-1)/DaysPerWeek + 1
}

// ParseMonth parses a month string in YYYY-MM format.
// If the string is empty, returns the month containing now.
func ParseMonth(s string, now time.Time) (int, time.Month, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return now.Year(), now.Month(), nil
	}
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return 0, 0, ErrInvalidMonthFormat
	}
	return t.Year(), t.Month(), nil
}

// Period is the calendar month (or a week within it) loaded into the grid.
type Period struct {
	Year  int
	Month time.Month
	Zoom  Zoom
	Week  int // 1-based, only used with ZoomWeek
}

// New creates a month-zoom period.
func New(year int, month time.Month) Period {
	return Period{Year: year, Month: month, Zoom: ZoomMonth, Week: 1}
}

// Containing returns the month period containing t.
func Containing(t time.Time) Period {
	return New(t.Year(), t.Month())
}

// LastDay returns the last day number of the period's month.
func (p Period) LastDay() int {
	return MonthLength(p.Year, p.Month)
}

// Contains reports whether day is a valid day of the period's month.
func (p Period) Contains(day int) bool {
	return day >= 1 && day <= p.LastDay()
}

// Days returns the visible day numbers for the period's zoom level.
func (p Period) Days() []int {
	if p.Zoom != ZoomWeek {
		return DaysInMonth(p.Year, p.Month)
	}
	var days []int
	for _, d := range DaysInWeek(p.Year, p.Month, p.Week) {
		if d != NoDay {
			days = append(days, d)
		}
	}
	return days
}

// WithZoom returns a copy of p at the given zoom level.
// Switching to week zoom keeps the current week when it is valid.
func (p Period) WithZoom(z Zoom) Period {
	p.Zoom = z
	if p.Week < 1 || p.Week > WeeksInMonth(p.Year, p.Month) {
		p.Week = 1
	}
	return p
}

// Next returns the following month, or the following week in week zoom.
// Moving past the last week of a month continues in week 1 of the next month.
func (p Period) Next() Period {
	if p.Zoom == ZoomWeek && p.Week < WeeksInMonth(p.Year, p.Month) {
		p.Week++
		return p
	}
	t := time.Date(p.Year, p.Month+1, 1, 0, 0, 0, 0, time.UTC)
	p.Year, p.Month, p.Week = t.Year(), t.Month(), 1
	return p
}

// Prev returns the preceding month, or the preceding week in week zoom.
func (p Period) Prev() Period {
	if p.Zoom == ZoomWeek && p.Week > 1 {
		p.Week--
		return p
	}
	t := time.Date(p.Year, p.Month-1, 1, 0, 0, 0, 0, time.UTC)
	p.Year, p.Month = t.Year(), t.Month()
	p.Week = 1
	if p.Zoom == ZoomWeek {
		p.Week = WeeksInMonth(p.Year, p.Month)
	}
	return p
}

// Date returns the calendar date of a day in the period.
func (p Period) Date(day int) time.Time {
	return time.Date(p.Year, p.Month, day, 0, 0, 0, 0, time.Local)
}

// Label returns a human-readable period name, e.g. "March 2025" or "March 2025, week 2".
func (p Period) Label() string {
	label := fmt.Sprintf("%s %d", p.Month, p.Year)
	if p.Zoom == ZoomWeek {
		label += fmt.Sprintf(", week %d", p.Week)
	}
	return label
}

// Key returns the YYYY-MM key of the period's month.
func (p Period) Key() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}
