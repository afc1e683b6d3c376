package now

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/recess/pkg/app"
	"tableflip.dev/recess/pkg/engine"
	"tableflip.dev/recess/pkg/printers"
	"tableflip.dev/recess/pkg/timetable"
)

// Now prints the state at one instant.
type Now struct {
	Service *app.Service
	Engine  engine.Options
	// At is "[Day] HH:MM[:SS]"; empty means the current time.
	At   string
	JSON bool
	Out  io.Writer
	// Clock overrides time.Now, for tests.
	Clock func() time.Time
}

type result struct {
	engine.Snapshot
	Title  string `json:"title"`
	Detail string `json:"detail,omitempty"`
	Error  string `json:"error,omitempty"`
}

func (n *Now) Do(ctx context.Context) error {
	out := n.Out
	if out == nil {
		out = color.Output
	}
	clock := n.Clock
	if clock == nil {
		clock = time.Now
	}

	at := clock()
	if n.At != "" {
		var err error
		if at, err = ParseAt(n.At, at); err != nil {
			return err
		}
	}

	// A failed fetch still yields an (empty) answer.
	loadErr := n.Service.Reload(ctx)

	opts := n.Engine
	opts.Signal = nil
	snap := engine.New(opts).Tick(at, n.Service.Groups())
	combined := n.Service.Key().IsCombined()

	if n.JSON {
		msg := printers.Describe(snap, combined)
		r := result{Snapshot: snap, Title: msg.Title, Detail: msg.Detail}
		if loadErr != nil {
			r.Error = loadErr.Error()
		}
		b, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(b))
		return err
	}

	if loadErr != nil {
		_, _ = color.New(color.FgRed).Fprintln(out, "⚠ "+loadErr.Error())
	}
	pp := &printers.PrettyPrint{Out: out}
	pp.Status(snap, combined)
	return nil
}

// ParseAt resolves "[Day] HH:MM[:SS]" against base. A day moves forward to
// the next matching weekday, today included.
func ParseAt(s string, base time.Time) (time.Time, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 || len(fields) > 2 {
		return time.Time{}, fmt.Errorf("invalid time %q, want [Day] HH:MM[:SS]", s)
	}

	date := base
	if len(fields) == 2 {
		day, err := timetable.ParseWeekday(fields[0])
		if err != nil {
			return time.Time{}, err
		}
		for i := 0; i < 7 && timetable.WeekdayOf(date) != day; i++ {
			date = date.AddDate(0, 0, 1)
		}
	}

	parts := strings.Split(fields[len(fields)-1], ":")
	if len(parts) < 2 || len(parts) > 3 {
		return time.Time{}, fmt.Errorf("invalid clock %q", fields[len(fields)-1])
	}
	limits := []int{23, 59, 59}
	hms := []int{0, 0, 0}
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 || v > limits[i] {
			return time.Time{}, fmt.Errorf("invalid clock %q", fields[len(fields)-1])
		}
		hms[i] = v
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, hms[0], hms[1], hms[2], 0, base.Location()), nil
}
