package app

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"tableflip.dev/recess/pkg/source"
	"tableflip.dev/recess/pkg/timetable"
)

const export = "1\tBreak\tMon\t0900\t20\tYard\t6A\n" +
	"2\tLunch\tMon\t1230\t40\tHall\t6A,6B\n" +
	"3\tBreak\tTue\t1000\t15\tYard\t6B\n" +
	"4\tMaths\tTue\t1100\t60\tB12\t6B\n"

type fakeSource struct {
	mu    sync.Mutex
	raw   string
	err   error
	calls int32
	// gate, when set, holds every fetch until closed.
	gate chan struct{}
}

func (f *fakeSource) Location() string { return "memory://lessons" }

func (f *fakeSource) Fetch(ctx context.Context) (string, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.raw, f.err
}

func (f *fakeSource) set(raw string, err error) {
	f.mu.Lock()
	f.raw, f.err = raw, err
	f.mu.Unlock()
}

type watchingSource struct {
	*fakeSource
	events chan source.Event
}

func (w *watchingSource) Watch(context.Context) (<-chan source.Event, error) {
	return w.events, nil
}

// brokenWatchSource fails to start watching, like a file in a missing
// directory.
type brokenWatchSource struct {
	*fakeSource
}

func (b *brokenWatchSource) Watch(context.Context) (<-chan source.Event, error) {
	return nil, errors.New("source: watch /missing: no such file or directory")
}

func TestNewSplitsCombinedKey(t *testing.T) {
	svc := New(&fakeSource{}, timetable.DefaultRules(), "6", zerolog.Nop())
	groups := svc.Groups()
	if len(groups) != 2 || groups[0].Name != "6A" || groups[1].Name != "6B" {
		t.Fatalf("unexpected groups %+v", groups)
	}
	for _, g := range groups {
		if g.Schedule != nil {
			t.Fatalf("expected no schedule before reload for %s", g.Name)
		}
	}

	single := New(&fakeSource{}, timetable.DefaultRules(), "6b", zerolog.Nop())
	if got := single.Groups(); len(got) != 1 || got[0].Name != "6B" {
		t.Fatalf("unexpected single group %+v", got)
	}
}

func TestReloadBuildsEveryGroup(t *testing.T) {
	src := &fakeSource{raw: export}
	svc := New(src, timetable.DefaultRules(), "6", zerolog.Nop())
	if err := svc.Reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}

	groups := svc.Groups()
	if n := len(groups[0].Schedule.Day(timetable.Mon)); n != 2 {
		t.Fatalf("6A monday breaks = %d, want 2", n)
	}
	if n := len(groups[1].Schedule.Day(timetable.Tue)); n != 1 {
		t.Fatalf("6B tuesday breaks = %d, want 1", n)
	}
	for _, st := range svc.Statuses() {
		if st.Err != nil || st.LoadedAt.IsZero() {
			t.Fatalf("unexpected status %+v", st)
		}
	}
	if got := svc.Statuses()[1].Stats.Reasons[timetable.ReasonTitle]; got != 1 {
		t.Fatalf("6B title skips = %d, want 1", got)
	}
}

func TestReloadFailureLeavesEmptySchedule(t *testing.T) {
	src := &fakeSource{raw: export}
	svc := New(src, timetable.DefaultRules(), "6A", zerolog.Nop())
	if err := svc.Reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}

	boom := errors.New("unreachable")
	src.set("", boom)
	err := svc.Reload(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped fetch error, got %v", err)
	}

	g := svc.Groups()[0]
	if g.Schedule == nil || g.Schedule.Len() != 0 || len(g.Schedule) != 5 {
		t.Fatalf("expected empty five-day schedule, got %+v", g.Schedule)
	}
	if st := svc.Statuses()[0]; !errors.Is(st.Err, boom) || !strings.Contains(st.Error(), "unreachable") {
		t.Fatalf("expected error status, got %+v", st)
	}
}

func TestFetchIsShared(t *testing.T) {
	src := &fakeSource{raw: export, gate: make(chan struct{})}
	svc := New(src, timetable.DefaultRules(), "6", zerolog.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Fetch(context.Background()); err != nil {
				t.Errorf("fetch: %v", err)
			}
		}()
	}
	// Let every caller join the in-flight request before releasing it.
	time.Sleep(50 * time.Millisecond)
	close(src.gate)
	wg.Wait()

	if calls := atomic.LoadInt32(&src.calls); calls != 1 {
		t.Fatalf("expected one shared fetch, got %d", calls)
	}
}

func TestReadersSeePreviousScheduleDuringReload(t *testing.T) {
	src := &fakeSource{raw: export}
	svc := New(src, timetable.DefaultRules(), "6A", zerolog.Nop())
	if err := svc.Reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}

	src.gate = make(chan struct{})
	src.set("1\tBreak\tFri\t1400\t10\tYard\t6A\n", nil)
	done := make(chan error, 1)
	go func() { done <- svc.Reload(context.Background()) }()

	time.Sleep(20 * time.Millisecond)
	if n := len(svc.Groups()[0].Schedule.Day(timetable.Mon)); n != 2 {
		t.Fatalf("expected old schedule while reloading, got %d monday breaks", n)
	}

	close(src.gate)
	if err := <-done; err != nil {
		t.Fatalf("reload: %v", err)
	}
	g := svc.Groups()[0]
	if len(g.Schedule.Day(timetable.Mon)) != 0 || len(g.Schedule.Day(timetable.Fri)) != 1 {
		t.Fatalf("expected new schedule, got %+v", g.Schedule)
	}
}

func TestWatchUnsupported(t *testing.T) {
	svc := New(&fakeSource{}, timetable.DefaultRules(), "6A", zerolog.Nop())
	if _, err := svc.Watch(context.Background()); !errors.Is(err, source.ErrNotWatchable) {
		t.Fatalf("expected ErrNotWatchable, got %v", err)
	}
	if _, err := New(nil, timetable.DefaultRules(), "6A", zerolog.Nop()).Fetch(context.Background()); !errors.Is(err, ErrNoSource) {
		t.Fatalf("expected ErrNoSource, got %v", err)
	}
}

func TestFollowReloadsOnChange(t *testing.T) {
	src := &watchingSource{fakeSource: &fakeSource{raw: export}, events: make(chan source.Event, 2)}
	svc := New(src, timetable.DefaultRules(), "6A", zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	reloaded := make(chan error, 4)
	stopped := make(chan error, 1)
	go func() {
		stopped <- svc.Follow(ctx, 0, func(err error) { reloaded <- err })
	}()

	src.events <- source.Event{Path: "Lessons.txt", Removed: true}
	src.events <- source.Event{Path: "Lessons.txt"}

	select {
	case err := <-reloaded:
		if err != nil {
			t.Fatalf("reload: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for reload")
	}
	select {
	case <-reloaded:
		t.Fatal("removal should not trigger a reload")
	case <-time.After(50 * time.Millisecond):
	}

	cancel()
	if err := <-stopped; err != nil {
		t.Fatalf("follow: %v", err)
	}
	if calls := atomic.LoadInt32(&src.calls); calls != 1 {
		t.Fatalf("expected one fetch, got %d", calls)
	}
}

func TestFollowRefreshInterval(t *testing.T) {
	src := &fakeSource{raw: export}
	svc := New(src, timetable.DefaultRules(), "6A", zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reloaded := make(chan error, 8)
	go func() { _ = svc.Follow(ctx, 10*time.Millisecond, func(err error) { reloaded <- err }) }()

	for i := 0; i < 2; i++ {
		select {
		case <-reloaded:
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for refresh %d", i+1)
		}
	}
}

func TestFollowKeepsRunningWhenWatchFails(t *testing.T) {
	src := &brokenWatchSource{fakeSource: &fakeSource{raw: export}}
	svc := New(src, timetable.DefaultRules(), "6A", zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	reloaded := make(chan error, 8)
	stopped := make(chan error, 1)
	go func() {
		stopped <- svc.Follow(ctx, 10*time.Millisecond, func(err error) { reloaded <- err })
	}()

	select {
	case err := <-stopped:
		t.Fatalf("follow returned early: %v", err)
	case <-reloaded:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for refresh")
	}

	cancel()
	select {
	case err := <-stopped:
		if err != nil {
			t.Fatalf("follow: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("follow did not stop")
	}
}

func TestReport(t *testing.T) {
	svc := New(&fakeSource{raw: export}, timetable.DefaultRules(), "6", zerolog.Nop())
	if err := svc.Reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}

	rep := svc.Report()
	if rep.Key != "6" || rep.Location != "memory://lessons" || rep.Total != 4 {
		t.Fatalf("unexpected report header %+v", rep)
	}
	a := rep.Sections[0]
	if len(a.Days) != 5 || a.Days[0].Day != timetable.Mon || a.Days[0].Minutes != 60 {
		t.Fatalf("unexpected 6A monday %+v", a.Days[0])
	}
	if a.ByKind[timetable.KindLunch] != 1 || a.ByKind[timetable.KindBreak] != 1 {
		t.Fatalf("unexpected 6A kinds %+v", a.ByKind)
	}
}
