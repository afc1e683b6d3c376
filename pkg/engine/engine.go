package engine

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"tableflip.dev/recess/pkg/timetable"
	"tableflip.dev/recess/pkg/timeutil"
)

// Signal receives the one-shot end-of-break notification. It is never called
// for kinds that do not ring.
type Signal interface {
	OnBreakEnd(group string, kind timetable.Kind)
}

// SignalFunc adapts a function to Signal.
type SignalFunc func(group string, kind timetable.Kind)

// OnBreakEnd calls f.
func (f SignalFunc) OnBreakEnd(group string, kind timetable.Kind) { f(group, kind) }

// Marker remembers the end of the break last seen running for a group so its
// end is reported exactly once.
type Marker struct {
	EndSecond int
	Kind      timetable.Kind
}

// Options configure an Engine. Open and Close bound school hours in seconds
// since midnight; equal values disable the gate.
type Options struct {
	Window int
	Open   int
	Close  int
	Signal Signal
	Logger zerolog.Logger
}

// Ending is reported in the snapshot of the tick a break ended on.
type Ending struct {
	Group string         `json:"group"`
	Kind  timetable.Kind `json:"kind"`
	Rang  bool           `json:"rang"`
}

// Preview is one group's next break, shown while every group is in class.
type Preview struct {
	Group    string              `json:"group"`
	Next     *timetable.Interval `json:"next"`
	Until    int                 `json:"until"`
	Progress float64             `json:"progress"`
}

// Snapshot is everything the display needs for one tick.
type Snapshot struct {
	Day       timetable.Weekday   `json:"day"`
	Second    int                 `json:"second"`
	Clock     string              `json:"clock"`
	Phase     Phase               `json:"phase"`
	Group     string              `json:"group,omitempty"`
	Interval  *timetable.Interval `json:"interval,omitempty"`
	NextDay   timetable.Weekday   `json:"nextDay,omitempty"`
	Remaining int                 `json:"remaining,omitempty"`
	Until     int                 `json:"until,omitempty"`
	Tier      Tier                `json:"tier"`
	Progress  float64             `json:"progress"`
	Previews  []Preview           `json:"previews,omitempty"`
	Ended     []Ending            `json:"ended,omitempty"`
}

// Engine owns the per-group end markers. One Engine per display; it is safe
// to Tick from several goroutines but ticks are expected once per second.
type Engine struct {
	opts Options

	mu      sync.Mutex
	markers map[string]Marker
}

// New returns an Engine with no markers set.
func New(opts Options) *Engine {
	if opts.Window <= 0 {
		opts.Window = DefaultWindow
	}
	return &Engine{
		opts:    opts,
		markers: make(map[string]Marker),
	}
}

// Markers returns a copy of the outstanding end markers.
func (e *Engine) Markers() map[string]Marker {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]Marker, len(e.markers))
	for k, v := range e.markers {
		out[k] = v
	}
	return out
}

// Tick evaluates groups at now. End markers are advanced for every group
// even outside school hours so a break ending at closing time still rings.
// The signal is called once the markers are released.
func (e *Engine) Tick(now time.Time, groups []Group) Snapshot {
	day := timetable.WeekdayOf(now)
	sec := timeutil.SecondOfDay(now)

	obs := make([]Observation, 0, len(groups))
	for _, g := range groups {
		obs = append(obs, Observation{Group: g, State: Classify(g.Schedule, sec, day)})
	}

	snap := Snapshot{
		Day:    day,
		Second: sec,
		Clock:  now.Format("15:04"),
		Tier:   TierNormal,
		Ended:  e.advance(obs, sec),
	}
	for _, end := range snap.Ended {
		if end.Rang && e.opts.Signal != nil {
			e.opts.Signal.OnBreakEnd(end.Group, end.Kind)
		}
	}

	if e.closed(sec) {
		snap.Phase = PhaseClosed
		return snap
	}

	pick := Reconcile(obs, day)
	snap.Phase = pick.Phase
	snap.Group = pick.Group
	snap.Interval = pick.Interval

	switch pick.Phase {
	case PhaseActive:
		snap.Remaining = pick.Interval.EndSecond() - sec
		snap.Tier = ActiveTier(snap.Remaining)
		snap.Progress = ActiveProgress(pick.Interval.StartSecond(), pick.Interval.EndSecond(), sec)
	case PhaseUpcoming:
		snap.Until = pick.Interval.StartSecond() - sec
		snap.Tier = UpcomingTier(snap.Until)
		snap.Progress = CountdownProgress(snap.Until, e.opts.Window)
	case PhaseNextDay:
		snap.NextDay = pick.Day
	}

	if len(groups) > 1 && pick.Phase != PhaseActive {
		for _, o := range obs {
			p := Preview{Group: o.Group.Name, Next: o.State.Next}
			if p.Next != nil {
				p.Until = p.Next.StartSecond() - sec
				p.Progress = CountdownProgress(p.Until, e.opts.Window)
			}
			snap.Previews = append(snap.Previews, p)
		}
	}
	return snap
}

func (e *Engine) closed(sec int) bool {
	if e.opts.Open == e.opts.Close {
		return false
	}
	return sec < e.opts.Open || sec > e.opts.Close
}

// advance moves every group's marker forward. A marker equal to now ends and
// clears; a marker left over once nothing is running is dropped silently. At
// most one ending per tick is marked to ring.
func (e *Engine) advance(obs []Observation, now int) []Ending {
	e.mu.Lock()
	defer e.mu.Unlock()

	var ended []Ending
	signalled := false
	for _, o := range obs {
		name := o.Group.Name
		m, ok := e.markers[name]

		if ok && m.EndSecond == now {
			delete(e.markers, name)
			ok = false
			end := Ending{Group: name, Kind: m.Kind}
			if m.Kind.Rings() && !signalled {
				end.Rang = true
				signalled = true
			}
			e.opts.Logger.Debug().Str("group", name).Str("kind", string(m.Kind)).Bool("rang", end.Rang).Msg("break ended")
			ended = append(ended, end)
		}

		active := o.State.Active
		if active == nil {
			if ok {
				e.opts.Logger.Debug().Str("group", name).Int("end", m.EndSecond).Msg("dropping stale end marker")
				delete(e.markers, name)
			}
			continue
		}
		if !ok || m.EndSecond != active.EndSecond() {
			e.markers[name] = Marker{EndSecond: active.EndSecond(), Kind: active.Kind}
		}
	}
	return ended
}

// MaxCatchUp bounds how many skipped seconds Advance replays.
const MaxCatchUp = 60

// Advance ticks every whole second after prev up to and including now so a
// late timer does not skip a break end. Gaps longer than MaxCatchUp seconds,
// or a clock that went backwards, tick now only. The snapshot is the one for
// now, carrying the endings of every replayed second.
func (e *Engine) Advance(prev, now time.Time, groups []Group) Snapshot {
	prev = prev.Truncate(time.Second)
	now = now.Truncate(time.Second)
	gap := int(now.Sub(prev) / time.Second)
	if prev.IsZero() || gap <= 1 || gap > MaxCatchUp {
		return e.Tick(now, groups)
	}

	var ended []Ending
	for t := prev.Add(time.Second); t.Before(now); t = t.Add(time.Second) {
		ended = append(ended, e.Tick(t, groups).Ended...)
	}
	snap := e.Tick(now, groups)
	snap.Ended = append(ended, snap.Ended...)
	return snap
}
