package printers

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/recess/pkg/app"
	"tableflip.dev/recess/pkg/engine"
	"tableflip.dev/recess/pkg/timetable"
)

// PrettyPrint writes coloured tables to Out, color.Output when nil.
type PrettyPrint struct {
	Out io.Writer
	// Timeline adds a strip of the school day under each day's table.
	Timeline bool
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

// NewLine writes an empty line.
func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out())
}

// Title writes a bold, underlined heading.
func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

// TitleWithCount writes a heading followed by a faint break count.
func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " break")
	default:
		_, _ = c.Fprintln(pp.out(), " breaks")
	}
}

// Report prints every group's week.
func (pp *PrettyPrint) Report(rep app.ReportResult) {
	for _, sec := range rep.Sections {
		pp.Section(sec)
	}
}

// Section prints one group's week and its parse stats.
func (pp *PrettyPrint) Section(sec app.ReportSection) {
	total := 0
	for _, d := range sec.Days {
		total += len(d.Breaks)
	}
	pp.TitleWithCount("Group "+sec.Group, total)
	if sec.Error != "" {
		_, _ = color.New(color.FgRed).Fprintf(pp.out(), "  %s\n", sec.Error)
	}
	for _, d := range sec.Days {
		pp.Day(d.Day, d.Breaks)
	}
	pp.Stats(sec.Status.Stats)
	pp.NewLine()
}

// Day prints the breaks of one day as a table.
func (pp *PrettyPrint) Day(day timetable.Weekday, breaks []timetable.Interval) {
	_, _ = color.New(color.Bold).Fprintln(pp.out(), string(day))
	if len(breaks) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.out(), "  none\n")
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("", bold("Start"), bold("End"), bold("Min"), bold("Kind"))
	for _, iv := range breaks {
		kind := iv.Kind.Noun()
		if iv.Major {
			kind += " *"
		}
		tbl.AddRow("", iv.StartLabel(), iv.EndLabel(), strconv.Itoa(iv.Duration()), KindColor(iv.Kind).Sprint(kind))
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	if pp.Timeline {
		_, _ = fmt.Fprintln(pp.out(), "  "+Timeline(breaks, DayStart, DayEnd, TimelineStep))
	}
}

// Stats prints the parse diagnostics.
func (pp *PrettyPrint) Stats(st timetable.Stats) {
	f := color.New(color.Faint)
	_, _ = f.Fprintf(pp.out(), "parsed %d, skipped %d", st.Parsed, st.Skipped)
	if len(st.Reasons) > 0 {
		keys := make([]string, 0, len(st.Reasons))
		for k := range st.Reasons {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%d", k, st.Reasons[k]))
		}
		_, _ = f.Fprintf(pp.out(), " (%s)", strings.Join(parts, ", "))
	}
	_, _ = f.Fprintln(pp.out())
}

// Status prints a snapshot as a headline and detail line.
func (pp *PrettyPrint) Status(snap engine.Snapshot, combined bool) {
	m := Describe(snap, combined)
	c := TierColor(snap.Tier)
	_, _ = color.New(color.Faint).Fprintf(pp.out(), "%s  ", snap.Clock)
	_, _ = c.Add(color.Bold).Fprintln(pp.out(), m.Title)
	if m.Detail != "" {
		_, _ = fmt.Fprintf(pp.out(), "       %s\n", m.Detail)
	}
	if len(snap.Previews) > 0 {
		_, _ = color.New(color.Faint).Fprintf(pp.out(), "       %s\n", PreviewLine(snap.Previews))
	}
}

// TierColor maps an urgency tier to a terminal colour.
func TierColor(t engine.Tier) *color.Color {
	switch t {
	case engine.TierEnding:
		return color.New(color.FgHiRed)
	case engine.TierWarning:
		return color.New(color.FgYellow)
	case engine.TierSoon:
		return color.New(color.FgHiMagenta)
	default:
		return color.New(color.FgGreen)
	}
}

// KindColor maps a kind to a terminal colour.
func KindColor(k timetable.Kind) *color.Color {
	switch k {
	case timetable.KindLunch:
		return color.New(color.FgCyan)
	case timetable.KindPassing:
		return color.New(color.Faint)
	case timetable.KindSenior:
		return color.New(color.FgBlue)
	default:
		return color.New(color.FgGreen)
	}
}

func bold(s string) string {
	return color.New(color.Bold).Sprint(s)
}
