package interpreter

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

type dateRule struct {
	pattern *regexp.Regexp
	resolve func(now time.Time) time.Time
}

func addDays(n int) func(time.Time) time.Time {
	return func(now time.Time) time.Time { return now.AddDate(0, 0, n) }
}

func addMonths(n int) func(time.Time) time.Time {
	return func(now time.Time) time.Time { return now.AddDate(0, n, 0) }
}

// nextWeekday returns the next occurrence of target strictly after now (1 to 7 days ahead)
func nextWeekday(target time.Weekday) func(time.Time) time.Time {
	return func(now time.Time) time.Time {
		days := (int(target) - int(now.Weekday()) + 7) % 7
		if days == 0 {
			days = 7
		}
		return now.AddDate(0, 0, days)
	}
}

// Relative phrases, first match wins
var relativeDateRules = []dateRule{
	{regexp.MustCompile(`hôm qua|hom qua|yesterday`), addDays(-1)},
	{regexp.MustCompile(`ngày mai|hôm sau|mai|tomorrow`), addDays(1)},
	{regexp.MustCompile(`ngày kia|mốt|ngày mốt`), addDays(2)},
	{regexp.MustCompile(`hôm kia|2 ngày trước`), addDays(-2)},
	{regexp.MustCompile(`tuần sau|next week`), addDays(7)},
	{regexp.MustCompile(`tuần trước|last week`), addDays(-7)},
	{regexp.MustCompile(`tháng sau|next month`), addMonths(1)},
	{regexp.MustCompile(`tháng trước|last month`), addMonths(-1)},
	{regexp.MustCompile(`cuối tuần|weekend`), nextWeekday(time.Saturday)},
	{regexp.MustCompile(`đầu tuần|thứ 2|thứ hai|monday`), nextWeekday(time.Monday)},
	{regexp.MustCompile(`thứ 3|thứ ba|tuesday`), nextWeekday(time.Tuesday)},
	{regexp.MustCompile(`thứ 4|thứ tư|wednesday`), nextWeekday(time.Wednesday)},
	{regexp.MustCompile(`thứ 5|thứ năm|thursday`), nextWeekday(time.Thursday)},
	{regexp.MustCompile(`thứ 6|thứ sáu|friday`), nextWeekday(time.Friday)},
	{regexp.MustCompile(`thứ 7|thứ bảy|saturday`), nextWeekday(time.Saturday)},
	{regexp.MustCompile(`chủ nhật|cn|sunday`), nextWeekday(time.Sunday)},
}

var absoluteDateRe = regexp.MustCompile(`(?:ngày\s+(\d{1,2}))|(?:(\d{1,2})[/\-](\d{1,2})(?:[/\-](\d{4}))?)`)

// ResolveDate maps relative and absolute date phrases in text to a date anchored at now.
// An absolute date ("ngày 15", "15/3", "15-3-2025") overrides the relative result.
// When nothing matches, now is returned unchanged.
func ResolveDate(text string, now time.Time) time.Time {
	lower := strings.ToLower(text)
	date := now

	for _, rule := range relativeDateRules {
		if rule.pattern.MatchString(lower) {
			date = rule.resolve(now)
			break
		}
	}

	m := absoluteDateRe.FindStringSubmatch(lower)
	if m == nil {
		return date
	}

	switch {
	case m[1] != "":
		day, _ := strconv.Atoi(m[1])
		if day >= 1 && day <= 31 {
			date = withDate(date, date.Year(), date.Month(), day)
		}
	case m[2] != "" && m[3] != "":
		day, _ := strconv.Atoi(m[2])
		month, _ := strconv.Atoi(m[3])
		if day >= 1 && day <= 31 && month >= 1 && month <= 12 {
			year := date.Year()
			if m[4] != "" {
				year, _ = strconv.Atoi(m[4])
			}
			date = withDate(date, year, time.Month(month), day)
		}
	}

	return date
}

// withDate replaces the calendar date of t, keeping its clock and location.
// Out-of-range days roll over into the next month.
func withDate(t time.Time, year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// dateOnly truncates t to midnight in its own location
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
