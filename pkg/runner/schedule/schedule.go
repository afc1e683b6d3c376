package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/recess/pkg/app"
	"tableflip.dev/recess/pkg/printers"
)

// Schedule prints the parsed week of every tracked group.
type Schedule struct {
	Service  *app.Service
	JSON     bool
	Timeline bool
	Out      io.Writer
}

func (s *Schedule) Do(ctx context.Context) error {
	out := s.Out
	if out == nil {
		out = color.Output
	}
	loadErr := s.Service.Reload(ctx)
	rep := s.Service.Report()

	if s.JSON {
		b, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(b))
		return err
	}

	pp := &printers.PrettyPrint{Out: out, Timeline: s.Timeline}
	pp.Title(fmt.Sprintf("Timetable %s", rep.Location))
	pp.NewLine()
	pp.Report(rep)
	return loadErr
}
