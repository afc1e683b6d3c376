package app

import "tableflip.dev/recess/pkg/timetable"

// ReportDay is one school day of a group's week.
type ReportDay struct {
	Day    timetable.Weekday    `json:"day"`
	Breaks []timetable.Interval `json:"breaks"`
	// Minutes is the total break time that day.
	Minutes int `json:"minutes"`
}

// ReportSection is the week of one group.
type ReportSection struct {
	Group  string                 `json:"group"`
	Days   []ReportDay            `json:"days"`
	ByKind map[timetable.Kind]int `json:"byKind"`
	Status Status                 `json:"status"`
	Error  string                 `json:"error,omitempty"`
}

// ReportResult is the loaded week for every tracked group.
type ReportResult struct {
	Key      string          `json:"key"`
	Location string          `json:"location"`
	Sections []ReportSection `json:"sections"`
	Total    int             `json:"total"`
}

// Report summarizes the schedules currently held, Monday to Friday.
func (s *Service) Report() ReportResult {
	res := ReportResult{Key: s.key.Key}
	if s.Source != nil {
		res.Location = s.Source.Location()
	}
	statuses := s.Statuses()
	for i, g := range s.Groups() {
		sec := ReportSection{
			Group:  g.Name,
			ByKind: make(map[timetable.Kind]int),
			Status: statuses[i],
			Error:  statuses[i].Error(),
		}
		for _, d := range timetable.SchoolDays() {
			day := ReportDay{Day: d, Breaks: append([]timetable.Interval(nil), g.Schedule.Day(d)...)}
			for _, iv := range day.Breaks {
				day.Minutes += iv.Duration()
				sec.ByKind[iv.Kind]++
				res.Total++
			}
			sec.Days = append(sec.Days, day)
		}
		res.Sections = append(res.Sections, sec)
	}
	return res
}
