// Package alert delivers the end-of-break bell to the configured sinks.
package alert

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"tableflip.dev/recess/pkg/timetable"
)

// Sink names accepted by NewDispatcher.
const (
	SinkBell    = "bell"
	SinkConsole = "console"
	SinkCommand = "command"
)

// Alert is one end-of-break notification.
type Alert struct {
	Group string         `json:"group"`
	Kind  timetable.Kind `json:"kind"`
	Time  time.Time      `json:"time"`
}

// Message is the human readable text of the alert.
func (a Alert) Message() string {
	if a.Group == "" {
		return a.Kind.Noun() + " is over"
	}
	return fmt.Sprintf("%s is over for %s", a.Kind.Noun(), a.Group)
}

// Sink is an alert destination.
type Sink interface {
	Send(ctx context.Context, a Alert) error
	Name() string
}

// Options configure a Dispatcher.
type Options struct {
	Sinks    []string
	Command  string
	Cooldown time.Duration
	// Out receives terminal sinks; stdout when nil.
	Out    io.Writer
	Logger zerolog.Logger
}

// Dispatcher routes alerts to its sinks. Alerts closer together than the
// cooldown are dropped, as are kinds that do not ring.
type Dispatcher struct {
	sinks    []Sink
	cooldown time.Duration
	logger   zerolog.Logger
	now      func() time.Time

	mu   sync.Mutex
	last time.Time
	wg   sync.WaitGroup
}

// NewDispatcher builds the sinks named in opts.
func NewDispatcher(opts Options) (*Dispatcher, error) {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	d := &Dispatcher{cooldown: opts.Cooldown, logger: opts.Logger, now: time.Now}
	for _, name := range opts.Sinks {
		sink, err := newSink(strings.ToLower(strings.TrimSpace(name)), opts, out)
		if err != nil {
			return nil, fmt.Errorf("alert: creating %s sink: %w", name, err)
		}
		d.sinks = append(d.sinks, sink)
	}
	return d, nil
}

func newSink(name string, opts Options, out io.Writer) (Sink, error) {
	switch name {
	case SinkBell:
		return NewBellSink(out), nil
	case SinkConsole:
		return NewConsoleSink(out), nil
	case SinkCommand:
		return NewCommandSink(opts.Command)
	default:
		return nil, fmt.Errorf("unknown sink %q", name)
	}
}

// Sinks returns the configured sink names.
func (d *Dispatcher) Sinks() []string {
	names := make([]string, 0, len(d.sinks))
	for _, s := range d.sinks {
		names = append(names, s.Name())
	}
	return names
}

// Dispatch sends a to every sink and reports whether it was delivered.
// Sink failures are logged and do not stop the remaining sinks.
func (d *Dispatcher) Dispatch(ctx context.Context, a Alert) bool {
	if !a.Kind.Rings() {
		return false
	}
	if a.Time.IsZero() {
		a.Time = d.now()
	}

	d.mu.Lock()
	if d.cooldown > 0 && !d.last.IsZero() && a.Time.Sub(d.last) < d.cooldown {
		d.mu.Unlock()
		d.logger.Debug().Str("group", a.Group).Msg("alert suppressed by cooldown")
		return false
	}
	d.last = a.Time
	d.mu.Unlock()

	for _, sink := range d.sinks {
		if err := sink.Send(ctx, a); err != nil {
			d.logger.Warn().Err(err).Str("sink", sink.Name()).Msg("alert delivery failed")
		}
	}
	return true
}

// OnBreakEnd dispatches in the background so a slow sink never holds up a
// tick. Call Wait before exiting.
func (d *Dispatcher) OnBreakEnd(group string, kind timetable.Kind) {
	a := Alert{Group: group, Kind: kind, Time: d.now()}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.Dispatch(context.Background(), a)
	}()
}

// Wait blocks until background dispatches finish.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
