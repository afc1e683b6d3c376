package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MinutesPerDay bounds every minute-of-day value.
const MinutesPerDay = 24 * 60

// FormatLabel renders minutes since midnight as a zero padded "HH:MM".
func FormatLabel(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseLabel is the inverse of FormatLabel. It accepts "HH:MM" and the
// compact "HHMM" form used by timetable exports.
func ParseLabel(label string) (int, error) {
	s := strings.TrimSpace(label)
	var hh, mm string
	switch {
	case len(s) == 5 && s[2] == ':':
		hh, mm = s[:2], s[3:]
	case len(s) == 4:
		hh, mm = s[:2], s[2:]
	default:
		return 0, fmt.Errorf("invalid clock label %q", label)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 24 {
		return 0, fmt.Errorf("invalid hour in %q", label)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", label)
	}
	total := h*60 + m
	if total > MinutesPerDay {
		return 0, fmt.Errorf("clock label %q past end of day", label)
	}
	return total, nil
}

// FormatCountdown renders seconds as "MM:SS". Negative input renders as zero
// and minutes are allowed to exceed 59.
func FormatCountdown(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// SecondOfDay returns the seconds elapsed since local midnight for t.
func SecondOfDay(t time.Time) int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}
