package watch

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"tableflip.dev/recess/pkg/alert"
	"tableflip.dev/recess/pkg/app"
	"tableflip.dev/recess/pkg/engine"
	"tableflip.dev/recess/pkg/logging"
	"tableflip.dev/recess/pkg/printers"
	"tableflip.dev/recess/pkg/tui/board"
)

// Watch keeps the state on screen and rings at the end of every break. On a
// terminal it runs the live board; otherwise it prints a line per change.
type Watch struct {
	Service *app.Service
	// Engine.Signal, when nil, is a dispatcher over Alerts.
	Engine  engine.Options
	Alerts  alert.Options
	Refresh time.Duration
	// Plain forces line output even on a terminal.
	Plain  bool
	Out    io.Writer
	Logger zerolog.Logger
	// Clock overrides time.Now, for tests.
	Clock func() time.Time
}

func (w *Watch) Do(ctx context.Context) error {
	live := !w.Plain && w.Out == nil && logging.IsTerminal(os.Stdout)

	opts := w.Engine
	var bell *alert.Dispatcher
	if opts.Signal == nil {
		d, err := w.dispatcher(live)
		if err != nil {
			return err
		}
		defer d.Wait()
		if len(d.Sinks()) > 0 {
			opts.Signal = d
		}
		if live {
			if bell, err = w.bell(); err != nil {
				return err
			}
		}
	}
	eng := engine.New(opts)

	if live {
		bo := board.Options{Refresh: w.Refresh}
		if bell != nil {
			bo.Bell = bell
		}
		return board.Run(ctx, w.Service, eng, bo)
	}
	return w.plain(ctx, eng)
}

// dispatcher builds the alert sinks rung from the engine. The live board
// owns the terminal, so there it keeps only the sinks that do not write to
// it; the bell is rung by the board itself.
func (w *Watch) dispatcher(live bool) (*alert.Dispatcher, error) {
	opts := w.Alerts
	if live {
		var sinks []string
		for _, s := range opts.Sinks {
			if !terminalSink(s) {
				sinks = append(sinks, s)
			}
		}
		opts.Sinks = sinks
	} else if opts.Out == nil {
		opts.Out = w.Out
	}
	return alert.NewDispatcher(opts)
}

// bell builds the dispatcher the live board rings from its update loop. It
// writes to stderr, which the renderer does not buffer. Nil when no bell
// sink is configured.
func (w *Watch) bell() (*alert.Dispatcher, error) {
	for _, s := range w.Alerts.Sinks {
		if normalizeSink(s) == alert.SinkBell {
			opts := w.Alerts
			opts.Sinks = []string{alert.SinkBell}
			opts.Out = os.Stderr
			return alert.NewDispatcher(opts)
		}
	}
	return nil, nil
}

func terminalSink(name string) bool {
	switch normalizeSink(name) {
	case alert.SinkBell, alert.SinkConsole:
		return true
	}
	return false
}

func normalizeSink(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (w *Watch) plain(ctx context.Context, eng *engine.Engine) error {
	out := w.Out
	if out == nil {
		out = os.Stdout
	}
	clock := w.Clock
	if clock == nil {
		clock = time.Now
	}
	if err := w.Service.Reload(ctx); err != nil {
		w.Logger.Warn().Err(err).Msg("initial load failed")
	}
	combined := w.Service.Key().IsCombined()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return w.Service.Follow(ctx, w.Refresh, func(err error) {
			if err != nil {
				w.Logger.Warn().Err(err).Msg("reload failed")
				return
			}
			w.Logger.Info().Msg("timetable reloaded")
		})
	})
	g.Go(func() error {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()

		var prev time.Time
		last := ""
		for {
			now := clock()
			snap := eng.Advance(prev, now, w.Service.Groups())
			prev = now
			for _, end := range snap.Ended {
				fmt.Fprintf(out, "%s %s over for %s\n", now.Format("15:04:05"), end.Kind.Noun(), end.Group)
			}
			if key := changeKey(snap); key != last {
				last = key
				fmt.Fprintln(out, printers.StatusLine(snap, combined))
			}

			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
		}
	})
	return g.Wait()
}

// changeKey identifies what the line describes, ignoring the countdown.
func changeKey(snap engine.Snapshot) string {
	key := string(snap.Phase) + "|" + snap.Group + "|" + string(snap.Tier)
	if snap.Interval != nil {
		key += "|" + string(snap.Interval.Day) + snap.Interval.StartLabel()
	}
	return key
}
