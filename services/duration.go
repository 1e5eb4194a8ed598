package services

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// NormalizeDuration turns the accepted duration forms into minutes:
// nil -> 0, 45 -> 45, "45" -> 45, "01:30" / "1:30" -> 90.
func NormalizeDuration(v any) (int, error) {
	switch d := v.(type) {
	case nil:
		return 0, nil
	case int:
		return nonNegative(d)
	case int32:
		return nonNegative(int(d))
	case int64:
		return nonNegative(int(d))
	case float64:
		if d != math.Trunc(d) {
			return 0, validationf("duration must be whole minutes, got %v", d)
		}
		return nonNegative(int(d))
	case json.Number:
		return NormalizeDuration(d.String())
	case string:
		return parseDurationString(d)
	default:
		return 0, validationf("unsupported duration %v", v)
	}
}

func parseDurationString(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, validationf("duration must be minutes or HH:MM, got %q", s)
		}
		return nonNegative(n)
	}

	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || len(mm) != 2 {
		return 0, validationf("duration must be minutes or HH:MM, got %q", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, validationf("duration must be minutes or HH:MM, got %q", s)
	}
	return h*60 + m, nil
}

func nonNegative(n int) (int, error) {
	if n < 0 {
		return 0, validationf("duration must not be negative")
	}
	return n, nil
}

// DurationInput decodes any accepted JSON duration form into minutes.
type DurationInput struct {
	Minutes int
}

func (d *DurationInput) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	minutes, err := NormalizeDuration(raw)
	if err != nil {
		return err
	}
	d.Minutes = minutes
	return nil
}
