package admission

import (
	"fmt"
	"strconv"
	"strings"
)

// TimeOfDay is a local wall-clock time in minutes since midnight.
type TimeOfDay int

// MinutesPerDay bounds TimeOfDay; 24:00 is accepted as an end of day.
const MinutesPerDay = 24 * 60

// ParseTimeOfDay accepts "HH:MM" or "HH:MM:SS". Seconds must be zero.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	h, ok := parseDigits(parts[0], 1, 2)
	if !ok {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, ok := parseDigits(parts[1], 2, 2)
	if !ok {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	if len(parts) == 3 {
		sec, ok := parseDigits(parts[2], 2, 2)
		if !ok || sec != 0 {
			return 0, fmt.Errorf("invalid seconds in %q", s)
		}
	}
	if m > 59 {
		return 0, fmt.Errorf("time %q out of range", s)
	}
	t := TimeOfDay(h*60 + m)
	if t > MinutesPerDay {
		return 0, fmt.Errorf("time %q out of range", s)
	}
	return t, nil
}

// parseDigits reads an unsigned decimal field of minLen to maxLen ASCII digits.
func parseDigits(field string, minLen, maxLen int) (int, bool) {
	if len(field) < minLen || len(field) > maxLen {
		return 0, false
	}
	for i := 0; i < len(field); i++ {
		if field[i] < '0' || field[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(field)
	return n, err == nil
}

// String formats t as HH:MM.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Interval is the half-open range [Start, End).
type Interval struct {
	Start TimeOfDay
	End   TimeOfDay
}

// NewInterval parses start and end and requires end > start.
func NewInterval(start, end string) (Interval, error) {
	s, err := ParseTimeOfDay(start)
	if err != nil {
		return Interval{}, err
	}
	e, err := ParseTimeOfDay(end)
	if err != nil {
		return Interval{}, err
	}
	if e <= s {
		return Interval{}, fmt.Errorf("end time %s must be after start time %s", e, s)
	}
	return Interval{Start: s, End: e}, nil
}

// Minutes is the length of the interval.
func (i Interval) Minutes() int { return int(i.End - i.Start) }

// Overlaps reports whether two half-open intervals share any instant.
// Touching intervals ([09:00,10:00) and [10:00,11:00)) do not overlap.
func (i Interval) Overlaps(o Interval) bool {
	return !(i.End <= o.Start || i.Start >= o.End)
}

func (i Interval) String() string {
	return "[" + i.Start.String() + "," + i.End.String() + ")"
}
