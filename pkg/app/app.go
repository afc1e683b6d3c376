// Package app holds the schedules for the tracked groups and keeps them
// fresh. CLIs and the live board share it.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"tableflip.dev/recess/pkg/engine"
	"tableflip.dev/recess/pkg/source"
	"tableflip.dev/recess/pkg/timetable"
)

// ErrNoSource is returned when the service has nothing to load from.
var ErrNoSource = errors.New("app: no timetable source configured")

// Status describes the last reload of one group.
type Status struct {
	Group    string          `json:"group"`
	Stats    timetable.Stats `json:"stats"`
	LoadedAt time.Time       `json:"loadedAt"`
	Err      error           `json:"-"`
}

// Error returns the reload error text, empty on success.
func (s Status) Error() string {
	if s.Err == nil {
		return ""
	}
	return s.Err.Error()
}

type tracked struct {
	name   string
	filter timetable.Filter

	// reload serializes rebuilds of this group.
	reload   sync.Mutex
	schedule atomic.Pointer[timetable.Schedule]
	status   atomic.Pointer[Status]
}

// Service tracks one group key. A combined key tracks each member separately
// so the engine can reconcile them.
type Service struct {
	Source source.Source
	Rules  timetable.Rules
	Logger zerolog.Logger

	key    timetable.Filter
	groups []*tracked
	flight singleflight.Group
}

// New returns a service for key. Nothing is loaded until Reload.
func New(src source.Source, rules timetable.Rules, key string, logger zerolog.Logger) *Service {
	f := rules.Filter(key)
	s := &Service{Source: src, Rules: rules, Logger: logger, key: f}
	for _, m := range f.Members {
		s.groups = append(s.groups, &tracked{name: m, filter: timetable.Filter{Key: m, Members: []string{m}}})
	}
	return s
}

// Key is the group key the service was created for.
func (s *Service) Key() timetable.Filter { return s.key }

// Groups returns the current schedule of every tracked group in order. A
// group that was never loaded has a nil schedule.
func (s *Service) Groups() []engine.Group {
	out := make([]engine.Group, 0, len(s.groups))
	for _, g := range s.groups {
		var sched timetable.Schedule
		if p := g.schedule.Load(); p != nil {
			sched = *p
		}
		out = append(out, engine.Group{Name: g.name, Schedule: sched})
	}
	return out
}

// Statuses reports the last reload of every tracked group.
func (s *Service) Statuses() []Status {
	out := make([]Status, 0, len(s.groups))
	for _, g := range s.groups {
		if st := g.status.Load(); st != nil {
			out = append(out, *st)
			continue
		}
		out = append(out, Status{Group: g.name})
	}
	return out
}

// Fetch returns the raw export. Concurrent calls share one request.
func (s *Service) Fetch(ctx context.Context) (string, error) {
	if s.Source == nil {
		return "", ErrNoSource
	}
	v, err, shared := s.flight.Do(s.Source.Location(), func() (interface{}, error) {
		return s.Source.Fetch(ctx)
	})
	if shared {
		s.Logger.Debug().Str("location", s.Source.Location()).Msg("sharing in-flight fetch")
	}
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Reload refetches the export and rebuilds every group in parallel. On a
// failed fetch each group is left with an empty schedule and the error is
// returned; readers never see a partly built schedule.
func (s *Service) Reload(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, t := range s.groups {
		t := t
		g.Go(func() error {
			return s.reloadGroup(ctx, t)
		})
	}
	return g.Wait()
}

func (s *Service) reloadGroup(ctx context.Context, t *tracked) error {
	t.reload.Lock()
	defer t.reload.Unlock()

	raw, err := s.Fetch(ctx)
	if err != nil {
		empty := timetable.NewSchedule()
		t.schedule.Store(&empty)
		t.status.Store(&Status{Group: t.name, LoadedAt: time.Now(), Err: err})
		s.Logger.Warn().Err(err).Str("group", t.name).Msg("timetable fetch failed")
		return fmt.Errorf("app: reload %s: %w", t.name, err)
	}

	sched, stats := timetable.Build(raw, t.filter, s.Rules)
	t.schedule.Store(&sched)
	t.status.Store(&Status{Group: t.name, Stats: stats, LoadedAt: time.Now()})
	s.Logger.Debug().
		Str("group", t.name).
		Int("parsed", stats.Parsed).
		Int("skipped", stats.Skipped).
		Interface("reasons", stats.Reasons).
		Msg("schedule rebuilt")
	return nil
}

// Watch streams change events from the source when it supports them.
func (s *Service) Watch(ctx context.Context) (<-chan source.Event, error) {
	if s.Source == nil {
		return nil, ErrNoSource
	}
	w, ok := s.Source.(source.Watcher)
	if !ok {
		return nil, source.ErrNotWatchable
	}
	return w.Watch(ctx)
}

// Follow reloads whenever the source changes and, when every is positive, on
// that interval. A removed file is ignored. done is called after each reload.
// A source that cannot be watched is logged and left to the interval. It
// blocks until ctx ends.
func (s *Service) Follow(ctx context.Context, every time.Duration, done func(error)) error {
	events, err := s.Watch(ctx)
	switch {
	case err == nil:
	case errors.Is(err, source.ErrNotWatchable):
		s.Logger.Debug().Msg("timetable source is not watchable")
	default:
		s.Logger.Warn().Err(err).Msg("not watching timetable for changes")
	}

	var tick <-chan time.Time
	if every > 0 {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		tick = ticker.C
	}

	reload := func() {
		err := s.Reload(ctx)
		if done != nil {
			done(err)
		}
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if ev.Removed {
				// Keep the last schedule until the file comes back.
				s.Logger.Debug().Str("path", ev.Path).Msg("timetable removed")
				continue
			}
			s.Logger.Debug().Str("path", ev.Path).Msg("timetable changed")
			reload()
		case <-tick:
			reload()
		}
	}
}
