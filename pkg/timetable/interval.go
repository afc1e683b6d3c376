package timetable

import (
	"encoding/json"

	"tableflip.dev/recess/pkg/timeutil"
)

// Interval is one scheduled break. Minutes count from local midnight and the
// end is exclusive.
type Interval struct {
	Day         Weekday
	Kind        Kind
	StartMinute int
	EndMinute   int
	// Major marks long gaps when the schedule is derived from lesson gaps.
	Major bool
}

// StartLabel renders the start as "HH:MM".
func (i Interval) StartLabel() string { return timeutil.FormatLabel(i.StartMinute) }

// EndLabel renders the end as "HH:MM".
func (i Interval) EndLabel() string { return timeutil.FormatLabel(i.EndMinute) }

// StartSecond is the inclusive start as seconds since midnight.
func (i Interval) StartSecond() int { return i.StartMinute * 60 }

// EndSecond is the exclusive end as seconds since midnight.
func (i Interval) EndSecond() int { return i.EndMinute * 60 }

// Duration is the length in minutes.
func (i Interval) Duration() int { return i.EndMinute - i.StartMinute }

// Contains reports whether second falls inside [start, end).
func (i Interval) Contains(second int) bool {
	return second >= i.StartSecond() && second < i.EndSecond()
}

type intervalJSON struct {
	Day          Weekday `json:"day"`
	Kind         Kind    `json:"kind"`
	StartMinutes int     `json:"startMinutes"`
	EndMinutes   int     `json:"endMinutes"`
	StartLabel   string  `json:"startLabel"`
	EndLabel     string  `json:"endLabel"`
	Duration     int     `json:"duration"`
	Major        bool    `json:"major,omitempty"`
}

// MarshalJSON includes the derived labels so debug dumps are readable.
func (i Interval) MarshalJSON() ([]byte, error) {
	return json.Marshal(intervalJSON{
		Day:          i.Day,
		Kind:         i.Kind,
		StartMinutes: i.StartMinute,
		EndMinutes:   i.EndMinute,
		StartLabel:   i.StartLabel(),
		EndLabel:     i.EndLabel(),
		Duration:     i.Duration(),
		Major:        i.Major,
	})
}
