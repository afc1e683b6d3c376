package timetable

import "sort"

// Schedule maps every school day to its breaks, sorted by start. A Schedule
// is never mutated after Build returns it; callers replace it wholesale.
type Schedule map[Weekday][]Interval

// NewSchedule returns a schedule with all five school days present and empty.
func NewSchedule() Schedule {
	s := make(Schedule, 5)
	for _, d := range SchoolDays() {
		s[d] = []Interval{}
	}
	return s
}

// Day returns the breaks for d. It is safe on a nil schedule and for weekend
// keys, both of which yield an empty list.
func (s Schedule) Day(d Weekday) []Interval {
	if s == nil {
		return nil
	}
	return s[d]
}

// Len counts the breaks across the week.
func (s Schedule) Len() int {
	n := 0
	for _, list := range s {
		n += len(list)
	}
	return n
}

func sortDays(s Schedule) {
	for d := range s {
		list := s[d]
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].StartMinute < list[j].StartMinute
		})
	}
}
