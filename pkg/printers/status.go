package printers

import (
	"fmt"
	"strings"

	"tableflip.dev/recess/pkg/engine"
	"tableflip.dev/recess/pkg/timetable"
	"tableflip.dev/recess/pkg/timeutil"
)

// Message is the headline and detail shown for one snapshot.
type Message struct {
	Icon   string
	Title  string
	Detail string
}

var activeTitles = map[timetable.Kind]string{
	timetable.KindBreak:   "BREAK TIME!",
	timetable.KindLunch:   "LUNCH TIME!",
	timetable.KindPassing: "PASSING TIME!",
	timetable.KindSenior:  "SENIOR BREAK!",
}

// Describe turns a snapshot into display text. The owning group is named
// when combined is set.
func Describe(snap engine.Snapshot, combined bool) Message {
	owner := ""
	if combined && snap.Group != "" {
		owner = " (" + snap.Group + ")"
	}

	switch snap.Phase {
	case engine.PhaseClosed:
		return Message{Icon: "🎒", Title: "School Closed"}
	case engine.PhaseActive:
		k := snap.Interval.Kind
		title, ok := activeTitles[k]
		if !ok {
			title = activeTitles[timetable.KindBreak]
		}
		return Message{
			Icon:   icon(k, true),
			Title:  title,
			Detail: fmt.Sprintf("%s ends in: %s%s", k.Noun(), timeutil.FormatCountdown(snap.Remaining), owner),
		}
	case engine.PhaseUpcoming:
		k := snap.Interval.Kind
		return Message{
			Icon:   icon(k, false),
			Title:  strings.ToUpper(k.Noun()) + " SOON",
			Detail: fmt.Sprintf("%s starts in: %s%s", k.Noun(), timeutil.FormatCountdown(snap.Until), owner),
		}
	case engine.PhaseNextDay:
		return Message{
			Icon:   "🎒",
			Title:  "Class Time",
			Detail: fmt.Sprintf("No more breaks today. Next: %s %s at %s%s", snap.NextDay, snap.Interval.Kind.Noun(), snap.Interval.StartLabel(), owner),
		}
	default:
		return Message{Icon: "🎒", Title: "Class Time", Detail: "Next break unknown"}
	}
}

func icon(k timetable.Kind, active bool) string {
	switch {
	case k == timetable.KindLunch:
		return "🍽️"
	case active:
		return "⚽"
	default:
		return "🕒"
	}
}

// PreviewLine renders the per-group next break shown during class time,
// e.g. "6A next: Break at 09:00 • 6B next: —".
func PreviewLine(previews []engine.Preview) string {
	parts := make([]string, 0, len(previews))
	for _, p := range previews {
		parts = append(parts, fmt.Sprintf("%s next: %s", p.Group, previewText(p)))
	}
	return strings.Join(parts, " • ")
}

func previewText(p engine.Preview) string {
	if p.Next == nil {
		return "—"
	}
	return fmt.Sprintf("%s at %s", p.Next.Kind.Noun(), p.Next.StartLabel())
}

// StatusLine is the single plain line used for non-terminal output.
func StatusLine(snap engine.Snapshot, combined bool) string {
	m := Describe(snap, combined)
	line := snap.Clock + " " + m.Title
	if m.Detail != "" {
		line += " - " + m.Detail
	}
	if len(snap.Previews) > 0 {
		line += " | " + PreviewLine(snap.Previews)
	}
	return line
}
