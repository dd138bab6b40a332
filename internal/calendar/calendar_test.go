package calendar

import (
	"testing"
	"time"
)

var weekdays = MaskOf(time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday)

func TestCountMatchingWeekdaysLeapYear(t *testing.T) {
	wantWeekdays := []int{23, 21, 21, 22, 23, 20, 23, 22, 21, 23, 21, 22}
	wantSaturdays := []int{4, 4, 5, 4, 4, 5, 4, 5, 4, 4, 5, 4}
	sat := MaskOf(time.Saturday)
	for i := 0; i < 12; i++ {
		m := time.Month(i + 1)
		if got := CountMatchingWeekdays(2024, m, weekdays); got != wantWeekdays[i] {
			t.Errorf("2024-%02d weekdays = %d, want %d", i+1, got, wantWeekdays[i])
		}
		if got := CountMatchingWeekdays(2024, m, sat); got != wantSaturdays[i] {
			t.Errorf("2024-%02d saturdays = %d, want %d", i+1, got, wantSaturdays[i])
		}
	}
}

func TestCountMatchingWeekdaysNonLeapYear(t *testing.T) {
	wantWeekdays := []int{23, 20, 21, 22, 22, 21, 23, 21, 22, 23, 20, 23}
	wantMWF := []int{14, 12, 13, 13, 13, 13, 13, 13, 13, 14, 12, 14}
	mwf := MaskOf(time.Monday, time.Wednesday, time.Friday)
	for i := 0; i < 12; i++ {
		m := time.Month(i + 1)
		if got := CountMatchingWeekdays(2025, m, weekdays); got != wantWeekdays[i] {
			t.Errorf("2025-%02d weekdays = %d, want %d", i+1, got, wantWeekdays[i])
		}
		if got := CountMatchingWeekdays(2025, m, mwf); got != wantMWF[i] {
			t.Errorf("2025-%02d mon/wed/fri = %d, want %d", i+1, got, wantMWF[i])
		}
	}
}

func TestCountMatchingWeekdaysFullWeekIsMonthLength(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2024, time.February, 29},
		{2025, time.February, 28},
		{2100, time.February, 28},
		{2000, time.February, 29},
		{2025, time.April, 30},
		{2025, time.December, 31},
	}
	for _, tt := range tests {
		if got := CountMatchingWeekdays(tt.year, tt.month, AllWeek); got != tt.want {
			t.Errorf("CountMatchingWeekdays(%d, %v, all) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}

func TestCountMatchingWeekdaysEmptyMask(t *testing.T) {
	if got := CountMatchingWeekdays(2025, time.March, 0); got != 0 {
		t.Errorf("empty mask = %d, want 0", got)
	}
}

func TestParseMask(t *testing.T) {
	tests := []struct {
		input string
		want  WeekdayMask
		ok    bool
	}{
		{"一二三四五", weekdays, true},
		{"12345", weekdays, true},
		{"1,3,5", MaskOf(time.Monday, time.Wednesday, time.Friday), true},
		{"六日", MaskOf(time.Saturday, time.Sunday), true},
		{"0", MaskOf(time.Sunday), true},
		{"7", MaskOf(time.Sunday), true},
		{"天", MaskOf(time.Sunday), true},
		{"8", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, err := ParseMask(tt.input)
		if tt.ok && err != nil {
			t.Errorf("ParseMask(%q) error: %v", tt.input, err)
			continue
		}
		if !tt.ok {
			if err == nil {
				t.Errorf("ParseMask(%q) expected error", tt.input)
			}
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMask(%q) = %07b, want %07b", tt.input, got, tt.want)
		}
	}
}

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		input string
		want  time.Weekday
		ok    bool
	}{
		{"三", time.Wednesday, true},
		{"週三", time.Wednesday, true},
		{"周六", time.Saturday, true},
		{"星期日", time.Sunday, true},
		{"禮拜天", time.Sunday, true},
		{"天", time.Sunday, true},
		{"x", 0, false},
		{"三四", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseWeekday(tt.input)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseWeekday(%q) = %v, %v, want %v, %v", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}

func TestMaskString(t *testing.T) {
	if got := MaskOf(time.Sunday, time.Monday, time.Saturday).String(); got != "日一六" {
		t.Errorf("String() = %q, want %q", got, "日一六")
	}
}

func TestNearestYear(t *testing.T) {
	tests := []struct {
		today time.Time
		month time.Month
		want  int
	}{
		{time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC), time.December, 2024},
		{time.Date(2025, time.December, 28, 0, 0, 0, 0, time.UTC), time.January, 2026},
		{time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), time.November, 2025},
		{time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC), time.May, 2025},
		{time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), time.March, 2025},
	}
	for _, tt := range tests {
		if got := NearestYear(tt.today, tt.month); got != tt.want {
			t.Errorf("NearestYear(%s, %v) = %d, want %d", tt.today.Format("2006-01-02"), tt.month, got, tt.want)
		}
	}
}

func TestParseMonth(t *testing.T) {
	m, err := ParseMonth("2025/11")
	if err != nil {
		t.Fatalf("ParseMonth error: %v", err)
	}
	if m.Year != 2025 || m.Month != time.November {
		t.Errorf("got %v, want 2025-11", m)
	}
	if m.String() != "2025-11" {
		t.Errorf("String() = %q", m.String())
	}
	if m.Next().String() != "2025-12" {
		t.Errorf("Next() = %q", m.Next().String())
	}
	if _, err := ParseMonth("2025-13"); err == nil {
		t.Error("expected error for month 13")
	}
}
