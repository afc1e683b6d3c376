package printers

import (
	"strings"

	"tableflip.dev/recess/pkg/timetable"
)

// Bounds of the timeline strip in minutes since midnight.
const (
	DayStart     = 8 * 60
	DayEnd       = 16 * 60
	TimelineStep = 15
)

// Timeline draws the day from start to end, one cell per step minutes. A cell
// is '#' when a break covers any part of it, 'L' for lunch and '.' otherwise.
func Timeline(breaks []timetable.Interval, start, end, step int) string {
	if step <= 0 || end <= start {
		return ""
	}
	cells := (end - start + step - 1) / step
	var b strings.Builder
	b.Grow(cells)
	for i := 0; i < cells; i++ {
		from := start + i*step
		to := from + step
		mark := byte('.')
		for _, iv := range breaks {
			if iv.StartMinute < to && iv.EndMinute > from {
				if iv.Kind == timetable.KindLunch {
					mark = 'L'
				} else if mark == '.' {
					mark = '#'
				}
			}
		}
		b.WriteByte(mark)
	}
	return b.String()
}
