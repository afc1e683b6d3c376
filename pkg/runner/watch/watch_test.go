package watch

import (
	"bytes"
	"context"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"tableflip.dev/recess/pkg/alert"
	"tableflip.dev/recess/pkg/app"
	"tableflip.dev/recess/pkg/engine"
	"tableflip.dev/recess/pkg/source"
	"tableflip.dev/recess/pkg/timetable"
)

type memSource struct{ raw string }

func (s memSource) Location() string { return "memory" }

func (s memSource) Fetch(context.Context) (string, error) { return s.raw, nil }

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestPlainPrintsChangesAndRings(t *testing.T) {
	// Each call advances the fake clock one second, starting just before the
	// end of the 09:00-09:20 break.
	var (
		mu   sync.Mutex
		tick = time.Date(2026, time.October, 12, 9, 19, 58, 0, time.Local)
	)
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now := tick
		tick = tick.Add(time.Second)
		return now
	}

	rang := make(chan string, 4)
	out := &syncBuffer{}
	w := &Watch{
		Service: app.New(memSource{raw: "1\tBreak\tMon\t0900\t20\tYard\t6A\n"}, timetable.DefaultRules(), "6A", zerolog.Nop()),
		Engine:  engine.Options{Signal: engine.SignalFunc(func(g string, _ timetable.Kind) { rang <- g })},
		Out:     out,
		Logger:  zerolog.Nop(),
		Clock:   clock,
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Do(ctx) }()

	select {
	case g := <-rang:
		if g != "6A" {
			t.Fatalf("unexpected group %q", g)
		}
	case <-time.After(5 * time.Second):
		cancel()
		t.Fatal("timed out waiting for the bell")
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("watch: %v", err)
	}

	lines := out.String()
	for _, want := range []string{"09:19 BREAK TIME! - Break ends in: 00:02", "09:20:00 Break over for 6A", "Class Time"} {
		if !strings.Contains(lines, want) {
			t.Fatalf("expected %q in:\n%s", want, lines)
		}
	}
}

func TestPlainSurvivesUnwatchableTimetable(t *testing.T) {
	src, err := source.Open(filepath.Join(t.TempDir(), "missing", "Lessons.txt"), nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	out := &syncBuffer{}
	w := &Watch{
		Service: app.New(src, timetable.DefaultRules(), "6A", zerolog.Nop()),
		Engine:  engine.Options{Signal: engine.SignalFunc(func(string, timetable.Kind) {})},
		Plain:   true,
		Out:     out,
		Logger:  zerolog.Nop(),
		Clock:   func() time.Time { return time.Date(2026, time.October, 12, 10, 0, 0, 0, time.Local) },
	}

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	start := time.Now()
	if err := w.Do(ctx); err != nil {
		t.Fatalf("watch: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 250*time.Millisecond {
		t.Fatalf("watch returned after %s, expected it to run until cancelled", elapsed)
	}
	if !strings.Contains(out.String(), "Next break unknown") {
		t.Fatalf("expected an empty-schedule status line, got:\n%s", out.String())
	}
}

func TestLiveDispatcherLeavesTerminalToBoard(t *testing.T) {
	w := &Watch{Alerts: alert.Options{Sinks: []string{"Bell", alert.SinkConsole, alert.SinkCommand}, Command: "true"}}

	d, err := w.dispatcher(true)
	if err != nil {
		t.Fatalf("dispatcher: %v", err)
	}
	if got := d.Sinks(); !reflect.DeepEqual(got, []string{alert.SinkCommand}) {
		t.Fatalf("live sinks = %v, want only the command sink", got)
	}

	bell, err := w.bell()
	if err != nil {
		t.Fatalf("bell: %v", err)
	}
	if bell == nil || !reflect.DeepEqual(bell.Sinks(), []string{alert.SinkBell}) {
		t.Fatalf("expected a bell-only dispatcher for the board")
	}

	w.Alerts.Sinks = []string{alert.SinkCommand}
	if bell, err := w.bell(); err != nil || bell != nil {
		t.Fatalf("expected no board bell without a bell sink, got %v, %v", bell, err)
	}

	plain, err := (&Watch{Alerts: alert.Options{Sinks: []string{alert.SinkBell, alert.SinkConsole}}, Out: &syncBuffer{}}).dispatcher(false)
	if err != nil {
		t.Fatalf("dispatcher: %v", err)
	}
	if got := plain.Sinks(); !reflect.DeepEqual(got, []string{alert.SinkBell, alert.SinkConsole}) {
		t.Fatalf("plain sinks = %v", got)
	}
}
