package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"agenda-backend/utils"
)

// Clock is a time of day in minutes since midnight.
type Clock int

const minutesPerDay = 24 * 60

// ParseClock accepts "H:MM" and "HH:MM" in 24-hour form.
func ParseClock(s string) (Clock, error) {
	s = strings.TrimSpace(s)
	hh, mm, ok := strings.Cut(s, ":")
	if !ok || len(hh) < 1 || len(hh) > 2 || len(mm) != 2 {
		return 0, validationf("time must be HH:MM, got %q", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, validationf("time must be HH:MM, got %q", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, validationf("time must be HH:MM, got %q", s)
	}
	return Clock(h*60 + m), nil
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// NormalizeSlotLabels parses, dedupes and sorts slot labels.
func NormalizeSlotLabels(labels []string) ([]string, error) {
	seen := make(map[Clock]struct{}, len(labels))
	clocks := make([]Clock, 0, len(labels))
	for _, l := range labels {
		c, err := ParseClock(l)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		clocks = append(clocks, c)
	}
	return formatClocks(clocks), nil
}

// GenerateSlots yields start, start+interval, ... strictly before end.
func GenerateSlots(start, end string, intervalMin int) ([]string, error) {
	if intervalMin < 1 {
		return nil, validationf("interval must be at least 1 minute")
	}
	from, err := ParseClock(start)
	if err != nil {
		return nil, err
	}
	to, err := ParseClock(end)
	if err != nil {
		return nil, err
	}

	out := []string{}
	for cur := from; cur < to && cur < minutesPerDay; cur += Clock(intervalMin) {
		out = append(out, cur.String())
	}
	return out, nil
}

// ParseDate accepts YYYY-MM-DD only.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(utils.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, validationf("date must be YYYY-MM-DD, got %q", s)
	}
	return t, nil
}

// WeekdayIndex maps a date to 0=Monday..6=Sunday.
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func formatClocks(clocks []Clock) []string {
	sort.Slice(clocks, func(i, j int) bool { return clocks[i] < clocks[j] })
	out := make([]string, 0, len(clocks))
	for _, c := range clocks {
		out = append(out, c.String())
	}
	return out
}
