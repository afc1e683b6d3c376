package engine

import "tableflip.dev/recess/pkg/timetable"

// Phase is the kind of answer surfaced to the display.
type Phase string

const (
	PhaseClosed   Phase = "closed"
	PhaseActive   Phase = "active"
	PhaseUpcoming Phase = "upcoming"
	PhaseNextDay  Phase = "next-day"
	PhaseNone     Phase = "none"
)

// Group is a tracked group and the schedule currently held for it.
type Group struct {
	Name     string
	Schedule timetable.Schedule
}

// Observation pairs a group with its state at the current tick.
type Observation struct {
	Group Group
	State State
}

// Pick is the single answer chosen across all observed groups.
type Pick struct {
	Group    string
	Phase    Phase
	Interval *timetable.Interval
	// Day is the weekday Interval falls on.
	Day timetable.Weekday
}

// Reconcile chooses what to surface. A running break beats everything and the
// one ending soonest wins; otherwise the break starting soonest today wins;
// otherwise the first group, in order, with a break on a later school day.
// Ties keep the earlier group.
func Reconcile(obs []Observation, today timetable.Weekday) Pick {
	var best *Observation
	for i := range obs {
		a := obs[i].State.Active
		if a == nil {
			continue
		}
		if best == nil || a.EndSecond() < best.State.Active.EndSecond() {
			best = &obs[i]
		}
	}
	if best != nil {
		return Pick{Group: best.Group.Name, Phase: PhaseActive, Interval: best.State.Active, Day: today}
	}

	for i := range obs {
		n := obs[i].State.Next
		if n == nil {
			continue
		}
		if best == nil || n.StartSecond() < best.State.Next.StartSecond() {
			best = &obs[i]
		}
	}
	if best != nil {
		return Pick{Group: best.Group.Name, Phase: PhaseUpcoming, Interval: best.State.Next, Day: today}
	}

	for _, o := range obs {
		if day, iv, ok := NextSchoolDay(o.Group.Schedule, today); ok {
			return Pick{Group: o.Group.Name, Phase: PhaseNextDay, Interval: iv, Day: day}
		}
	}
	return Pick{Phase: PhaseNone}
}
