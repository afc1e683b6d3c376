package timetable

import (
	"fmt"
	"strings"
	"time"
)

// Weekday is the short day key used throughout the schedule.
type Weekday string

const (
	Sun  Weekday = "Sun"
	Mon  Weekday = "Mon"
	Tue  Weekday = "Tue"
	Wed  Weekday = "Wed"
	Thur Weekday = "Thur"
	Fri  Weekday = "Fri"
	Sat  Weekday = "Sat"
)

// week is indexed by time.Weekday.
var week = [7]Weekday{Sun, Mon, Tue, Wed, Thur, Fri, Sat}

// SchoolDays returns the five keys present in every Schedule, in week order.
func SchoolDays() []Weekday {
	return []Weekday{Mon, Tue, Wed, Thur, Fri}
}

// WeekdayOf returns the day key for t in its own location.
func WeekdayOf(t time.Time) Weekday {
	return week[t.Weekday()]
}

// IsSchoolDay is false for Saturday, Sunday and unknown keys.
func (d Weekday) IsSchoolDay() bool {
	switch d {
	case Mon, Tue, Wed, Thur, Fri:
		return true
	}
	return false
}

// Next returns the following day, wrapping Saturday to Sunday.
func (d Weekday) Next() Weekday {
	for i, w := range week {
		if w == d {
			return week[(i+1)%len(week)]
		}
	}
	return Mon
}

// ParseWeekday accepts a canonical key or a full English day name in any case.
func ParseWeekday(raw string) (Weekday, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	for i, w := range week {
		if s == strings.ToLower(string(w)) || s == strings.ToLower(time.Weekday(i).String()) {
			return w, nil
		}
	}
	switch s {
	case "thu", "thurs":
		return Thur, nil
	case "tues":
		return Tue, nil
	}
	return "", fmt.Errorf("timetable: unknown weekday %q", raw)
}
