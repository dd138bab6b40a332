// Package calendar counts business days for recurring cost settlement.
package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// WeekdayMask is a set of weekdays; bit i stands for time.Weekday(i), so
// bit 0 is Sunday and bit 6 is Saturday.
type WeekdayMask uint8

const AllWeek WeekdayMask = 1<<7 - 1

var zhDays = []rune("日一二三四五六")

func MaskOf(days ...time.Weekday) WeekdayMask {
	var m WeekdayMask
	for _, d := range days {
		m |= 1 << uint(d)
	}
	return m
}

func (m WeekdayMask) Has(d time.Weekday) bool {
	return m&(1<<uint(d)) != 0
}

func (m WeekdayMask) Empty() bool { return m&AllWeek == 0 }

// String renders the mask the way it is typed in chat, e.g. "一三五".
func (m WeekdayMask) String() string {
	var sb strings.Builder
	for d := time.Sunday; d <= time.Saturday; d++ {
		if m.Has(d) {
			sb.WriteRune(zhDays[d])
		}
	}
	return sb.String()
}

// ParseMask accepts weekday characters 日一二三四五六 (also 天), digits 0-6
// (0 = Sunday, 7 is accepted as Sunday too) and separators ",、".
func ParseMask(s string) (WeekdayMask, error) {
	var m WeekdayMask
	for _, r := range s {
		switch {
		case r == ',' || r == '、' || r == ' ':
			continue
		case r >= '0' && r <= '7':
			m |= 1 << uint((r-'0')%7)
		case r == '天':
			m |= 1 << uint(time.Sunday)
		default:
			d, ok := weekdayOfRune(r)
			if !ok {
				return 0, fmt.Errorf("invalid weekday %q", r)
			}
			m |= 1 << uint(d)
		}
	}
	if m.Empty() {
		return 0, fmt.Errorf("empty weekday set")
	}
	return m, nil
}

func weekdayOfRune(r rune) (time.Weekday, bool) {
	for i, z := range zhDays {
		if z == r {
			return time.Weekday(i), true
		}
	}
	return 0, false
}

// ParseWeekday reads a date's weekday marker: 三, 週三, 周三, 星期三, 禮拜三
// (天 stands for Sunday as well).
func ParseWeekday(s string) (time.Weekday, bool) {
	for _, prefix := range []string{"星期", "禮拜", "週", "周"} {
		s = strings.TrimPrefix(s, prefix)
	}
	r := []rune(s)
	if len(r) != 1 {
		return 0, false
	}
	if r[0] == '天' {
		return time.Sunday, true
	}
	return weekdayOfRune(r[0])
}

// WeekdayLabel returns the single-character chat label of d.
func WeekdayLabel(d time.Weekday) string {
	return string(zhDays[d])
}

// DaysIn returns the number of days of the given month, leap years included.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// CountMatchingWeekdays counts the days of year/month whose weekday is in mask.
func CountMatchingWeekdays(year int, month time.Month, mask WeekdayMask) int {
	if mask.Empty() {
		return 0
	}
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday()
	n := 0
	for day := 0; day < DaysIn(year, month); day++ {
		if mask.Has(time.Weekday((int(first) + day) % 7)) {
			n++
		}
	}
	return n
}

// Month is a calendar month used as the settlement key.
type Month struct {
	Year  int
	Month time.Month
}

func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// First returns the first day of the month at UTC midnight.
func (m Month) First() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Next returns the following month.
func (m Month) Next() Month {
	return MonthOf(m.First().AddDate(0, 1, 0))
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// ParseMonth parses "2025-11" or "2025/11".
func ParseMonth(s string) (Month, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), "/", "-")
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return Month{}, fmt.Errorf("invalid month %q", s)
	}
	y, err := strconv.Atoi(parts[0])
	if err != nil || y < 1900 || y > 9999 {
		return Month{}, fmt.Errorf("invalid year in %q", s)
	}
	mo, err := strconv.Atoi(parts[1])
	if err != nil || mo < 1 || mo > 12 {
		return Month{}, fmt.Errorf("invalid month in %q", s)
	}
	return Month{Year: y, Month: time.Month(mo)}, nil
}

// NearestYear picks the year for a month given without one: the candidate
// closest to today, so that December entries typed in January resolve to the
// previous year and the other way round.
func NearestYear(today time.Time, month time.Month) int {
	y := today.Year()
	diff := int(month) - int(today.Month())
	switch {
	case diff > 6:
		return y - 1
	case diff < -6:
		return y + 1
	}
	return y
}
