package period

import (
	"errors"
	"slices"
	"testing"
	"time"
)

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		month time.Month
		want  int
	}{
		{"january", 2025, time.January, 31},
		{"april", 2025, time.April, 30},
		{"february leap year", 2024, time.February, 29},
		{"february common year", 2023, time.February, 28},
		{"december", 2025, time.December, 31},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days := DaysInMonth(tt.year, tt.month)
			if len(days) != tt.want {
				t.Fatalf("len = %d, want %d", len(days), tt.want)
			}
			for i, d := range days {
				if d != i+1 {
					t.Errorf("days[%d] = %d, want %d", i, d, i+1)
				}
			}
		})
	}
}

func TestDaysInWeek(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		month time.Month
		week  int
		want  []int
	}{
		{"month starting monday", 2025, time.September, 1, []int{1, 2, 3, 4, 5, 6, 7}},
		{"month starting saturday", 2025, time.March, 1, []int{0, 0, 0, 0, 0, 1, 2}},
		{"month starting sunday", 2025, time.June, 1, []int{0, 0, 0, 0, 0, 0, 1}},
		{"middle week", 2025, time.March, 2, []int{3, 4, 5, 6, 7, 8, 9}},
		{"last partial week", 2025, time.March, 6, []int{31, 0, 0, 0, 0, 0, 0}},
		{"week zero", 2025, time.March, 0, []int{0, 0, 0, 0, 0, 0, 0}},
		{"week past end", 2025, time.September, 6, []int{0, 0, 0, 0, 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DaysInWeek(tt.year, tt.month, tt.week)
			if !slices.Equal(got, tt.want) {
				t.Errorf("DaysInWeek = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWeeksInMonth(t *testing.T) {
	if got := WeeksInMonth(2025, time.March); got != 6 {
		t.Errorf("March 2025: got %d weeks, want 6", got)
	}
	if got := WeeksInMonth(2025, time.September); got != 5 {
		t.Errorf("September 2025: got %d weeks, want 5", got)
	}
	// February 2021 starts on Monday and has exactly 4 weeks.
	if got := WeeksInMonth(2021, time.February); got != 4 {
		t.Errorf("February 2021: got %d weeks, want 4", got)
	}
}

func TestWeekOfMonth(t *testing.T) {
	tests := []struct {
		date string
		want int
	}{
		{"2025-06-01", 1},
		{"2025-06-02", 2},
		{"2025-09-07", 1},
		{"2025-09-08", 2},
		{"2025-03-31", 6},
	}
	for _, tt := range tests {
		d, _ := time.Parse("2006-01-02", tt.date)
		if got := WeekOfMonth(d); got != tt.want {
			t.Errorf("WeekOfMonth(%s) = %d, want %d", tt.date, got, tt.want)
		}
	}
}

func TestEveryDayAppearsInExactlyOneWeek(t *testing.T) {
	for m := time.January; m <= time.December; m++ {
		seen := make(map[int]int)
		for w := 1; w <= WeeksInMonth(2026, m); w++ {
			for _, d := range DaysInWeek(2026, m, w) {
				if d != NoDay {
					seen[d]++
				}
			}
		}
		for d := 1; d <= MonthLength(2026, m); d++ {
			if seen[d] != 1 {
				t.Errorf("%s: day %d seen %d times", m, d, seen[d])
			}
		}
	}
}

func TestParseMonth(t *testing.T) {
	now := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)

	y, m, err := ParseMonth("", now)
	if err != nil || y != 2025 || m != time.July {
		t.Errorf("empty: got %d-%v, %v", y, m, err)
	}

	y, m, err = ParseMonth("2024-02", now)
	if err != nil || y != 2024 || m != time.February {
		t.Errorf("2024-02: got %d-%v, %v", y, m, err)
	}

	if _, _, err := ParseMonth("02-2024", now); !errors.Is(err, ErrInvalidMonthFormat) {
		t.Errorf("expected ErrInvalidMonthFormat, got %v", err)
	}
}

func TestParseZoom(t *testing.T) {
	if z, err := ParseZoom("Week"); err != nil || z != ZoomWeek {
		t.Errorf("Week: got %q, %v", z, err)
	}
	if z, err := ParseZoom(""); err != nil || z != ZoomMonth {
		t.Errorf("empty: got %q, %v", z, err)
	}
	if _, err := ParseZoom("year"); !errors.Is(err, ErrInvalidZoom) {
		t.Errorf("expected ErrInvalidZoom, got %v", err)
	}
}

func TestPeriodDays(t *testing.T) {
	p := New(2025, time.March)
	if got := len(p.Days()); got != 31 {
		t.Errorf("month zoom: got %d days, want 31", got)
	}

	p = p.WithZoom(ZoomWeek)
	if got := p.Days(); !slices.Equal(got, []int{1, 2}) {
		t.Errorf("week 1: got %v, want [1 2]", got)
	}
}

func TestPeriodNavigation(t *testing.T) {
	p := New(2025, time.December).Next()
	if p.Year != 2026 || p.Month != time.January {
		t.Errorf("Next from December: got %s", p.Key())
	}

	p = New(2025, time.January).Prev()
	if p.Year != 2024 || p.Month != time.December {
		t.Errorf("Prev from January: got %s", p.Key())
	}

	w := Period{Year: 2025, Month: time.March, Zoom: ZoomWeek, Week: 6}.Next()
	if w.Month != time.April || w.Week != 1 {
		t.Errorf("Next from last week: got %s week %d", w.Key(), w.Week)
	}

	w = Period{Year: 2025, Month: time.April, Zoom: ZoomWeek, Week: 1}.Prev()
	if w.Month != time.March || w.Week != 6 {
		t.Errorf("Prev from first week: got %s week %d", w.Key(), w.Week)
	}
}

func TestPeriodContains(t *testing.T) {
	p := New(2024, time.February)
	if !p.Contains(29) {
		t.Error("expected day 29 in leap February")
	}
	if p.Contains(30) || p.Contains(0) {
		t.Error("expected days 0 and 30 outside February")
	}
	if p.Label() != "February 2024" {
		t.Errorf("Label = %q", p.Label())
	}
}
