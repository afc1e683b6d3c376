// Package engine derives the live break state from a schedule and the time.
package engine

import "tableflip.dev/recess/pkg/timetable"

// State is one group's view of the current day at one instant. Active and
// Next are never both set.
type State struct {
	Active *timetable.Interval `json:"active"`
	Next   *timetable.Interval `json:"next"`
}

// Exhausted reports that nothing is running or left today.
func (s State) Exhausted() bool {
	return s.Active == nil && s.Next == nil
}

// Classify scans day's breaks once. The active break contains now (start
// inclusive, end exclusive); the next break is the first one starting after
// now. A nil schedule is treated as empty.
func Classify(s timetable.Schedule, now int, day timetable.Weekday) State {
	// Breaks are sorted by start, so once one starts after now no later
	// break can contain it.
	for _, iv := range s.Day(day) {
		found := iv
		if iv.Contains(now) {
			return State{Active: &found}
		}
		if iv.StartSecond() > now {
			return State{Next: &found}
		}
	}
	return State{}
}

// NextSchoolDay looks past from, wrapping the week and skipping the weekend,
// for the first school day with any break. It gives up after seven days.
func NextSchoolDay(s timetable.Schedule, from timetable.Weekday) (timetable.Weekday, *timetable.Interval, bool) {
	d := from
	for i := 0; i < 7; i++ {
		d = d.Next()
		if !d.IsSchoolDay() {
			continue
		}
		if list := s.Day(d); len(list) > 0 {
			first := list[0]
			return d, &first, true
		}
	}
	return "", nil, false
}
