// Package timetable turns a raw timetable export into per-day break schedules.
package timetable

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"tableflip.dev/recess/pkg/timeutil"
)

// Reasons a row is skipped.
const (
	ReasonColumns   = "columns"
	ReasonDay       = "day"
	ReasonTitle     = "title"
	ReasonGroup     = "group"
	ReasonStart     = "start"
	ReasonDuration  = "duration"
	ReasonBounds    = "bounds"
	ReasonDuplicate = "duplicate"
)

const (
	colTitle    = 1
	colDay      = 2
	colStart    = 3
	colDuration = 4
	colGroups   = 6
	minColumns  = 7
)

var (
	lineSplit    = regexp.MustCompile(`\r?\n`)
	wideSpace    = regexp.MustCompile(`\s{2,}`)
	anySpace     = regexp.MustCompile(`\s+`)
	startPattern = regexp.MustCompile(`^\d{4}$`)
)

// Stats summarizes one Build. Skipped rows are counted by reason; a row that
// replaced an earlier one with the same start is counted under duplicate but
// is still parsed.
type Stats struct {
	Parsed  int            `json:"parsed"`
	Skipped int            `json:"skipped"`
	Reasons map[string]int `json:"reasons,omitempty"`
}

func (s *Stats) skip(reason string) {
	s.Skipped++
	s.reason(reason)
}

func (s *Stats) reason(reason string) {
	if s.Reasons == nil {
		s.Reasons = make(map[string]int)
	}
	s.Reasons[reason]++
}

// row is the validated timing of one line.
type row struct {
	start int
	dur   int
}

// Build parses raw into the schedule for filter. It never fails: rows that do
// not validate are skipped and counted. The result always holds all five
// school days.
func Build(raw string, filter Filter, rules Rules) (Schedule, Stats) {
	if rules.Strategy == StrategyGaps {
		return buildFromGaps(raw, filter, rules)
	}
	return buildFromRows(raw, filter, rules)
}

func buildFromRows(raw string, filter Filter, rules Rules) (Schedule, Stats) {
	out := NewSchedule()
	stats := Stats{}
	// index of the interval holding a given start, per day
	seen := make(map[Weekday]map[int]int)

	for _, line := range lineSplit.Split(raw, -1) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		cols := splitColumns(line, rules.LooseColumns)
		if len(cols) < minColumns {
			stats.skip(ReasonColumns)
			continue
		}

		day, ok := rules.NormalizeDay(cols[colDay])
		if !ok {
			stats.skip(ReasonDay)
			continue
		}
		kind, ok := rules.Classify(cols[colTitle])
		if !ok {
			stats.skip(ReasonTitle)
			continue
		}
		if !filter.Matches(cols[colGroups]) {
			stats.skip(ReasonGroup)
			continue
		}
		r, reason := parseTiming(cols, rules.MaxDuration)
		if reason != "" {
			stats.skip(reason)
			continue
		}

		iv := Interval{Day: day, Kind: kind, StartMinute: r.start, EndMinute: r.start + r.dur}
		if seen[day] == nil {
			seen[day] = make(map[int]int)
		}
		if idx, dup := seen[day][iv.StartMinute]; dup {
			out[day][idx] = iv
			stats.reason(ReasonDuplicate)
			continue
		}
		seen[day][iv.StartMinute] = len(out[day])
		out[day] = append(out[day], iv)
		stats.Parsed++
	}

	sortDays(out)
	return out, stats
}

func buildFromGaps(raw string, filter Filter, rules Rules) (Schedule, Stats) {
	lessons := make(map[Weekday][]row)
	stats := Stats{}

	for _, line := range lineSplit.Split(raw, -1) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		cols := splitColumns(line, rules.LooseColumns)
		if len(cols) < minColumns {
			stats.skip(ReasonColumns)
			continue
		}
		day, ok := rules.NormalizeDay(cols[colDay])
		if !ok {
			stats.skip(ReasonDay)
			continue
		}
		if rules.ignoredByGaps(cols[colTitle]) {
			stats.skip(ReasonTitle)
			continue
		}
		if !filter.Matches(cols[colGroups]) {
			stats.skip(ReasonGroup)
			continue
		}
		// Lessons are not subject to the break length cap.
		r, reason := parseTiming(cols, 0)
		if reason != "" {
			stats.skip(reason)
			continue
		}
		lessons[day] = append(lessons[day], r)
	}

	out := NewSchedule()
	for day, list := range lessons {
		sort.SliceStable(list, func(i, j int) bool { return list[i].start < list[j].start })
		busyUntil := list[0].start + list[0].dur
		for _, l := range list[1:] {
			if gap := l.start - busyUntil; gap > 0 && gap >= rules.MinGap {
				out[day] = append(out[day], Interval{
					Day:         day,
					Kind:        KindBreak,
					StartMinute: busyUntil,
					EndMinute:   l.start,
					Major:       rules.MajorGap > 0 && gap >= rules.MajorGap,
				})
				stats.Parsed++
			}
			if end := l.start + l.dur; end > busyUntil {
				busyUntil = end
			}
		}
	}

	sortDays(out)
	return out, stats
}

// parseTiming validates the start and duration columns. A non-empty reason
// means the row is rejected.
func parseTiming(cols []string, maxDuration int) (row, string) {
	start := cols[colStart]
	if !startPattern.MatchString(start) {
		return row{}, ReasonStart
	}
	hours, _ := strconv.Atoi(start[:2])
	minutes, _ := strconv.Atoi(start[2:])
	startMinute := hours*60 + minutes

	dur, err := strconv.Atoi(cols[colDuration])
	if err != nil || dur <= 0 || (maxDuration > 0 && dur > maxDuration) {
		return row{}, ReasonDuration
	}
	if startMinute+dur > timeutil.MinutesPerDay {
		return row{}, ReasonBounds
	}
	return row{start: startMinute, dur: dur}, ""
}

// splitColumns splits on tabs when the line has one, otherwise on runs of
// two or more spaces (or any whitespace when loose).
func splitColumns(line string, loose bool) []string {
	var cols []string
	switch {
	case strings.Contains(line, "\t"):
		cols = strings.Split(line, "\t")
	case loose:
		cols = anySpace.Split(strings.TrimSpace(line), -1)
	default:
		cols = wideSpace.Split(line, -1)
	}
	for i := range cols {
		cols[i] = strings.TrimSpace(cols[i])
	}
	return cols
}
