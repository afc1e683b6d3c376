package now

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"tableflip.dev/recess/pkg/app"
	"tableflip.dev/recess/pkg/engine"
	"tableflip.dev/recess/pkg/timetable"
)

type memSource struct {
	raw string
	err error
}

func (s memSource) Location() string { return "memory" }

func (s memSource) Fetch(context.Context) (string, error) { return s.raw, s.err }

const export = "1\tBreak\tMon\t0900\t20\tYard\t6A\n"

// Thursday.
var base = time.Date(2026, time.October, 15, 14, 0, 0, 0, time.Local)

func TestParseAt(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"09:10", time.Date(2026, time.October, 15, 9, 10, 0, 0, time.Local)},
		{"Thur 09:10:05", time.Date(2026, time.October, 15, 9, 10, 5, 0, time.Local)},
		{"monday 12:29:50", time.Date(2026, time.October, 19, 12, 29, 50, 0, time.Local)},
		{"Wed 00:00", time.Date(2026, time.October, 21, 0, 0, 0, 0, time.Local)},
	}
	for _, tt := range tests {
		got, err := ParseAt(tt.in, base)
		if err != nil {
			t.Fatalf("ParseAt(%q): %v", tt.in, err)
		}
		if !got.Equal(tt.want) {
			t.Fatalf("ParseAt(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"", "noon", "Mon 9", "Mon 24:00", "Mon 09:60", "Someday 09:00", "Mon 09:00 extra"} {
		if _, err := ParseAt(bad, base); err == nil {
			t.Fatalf("ParseAt(%q): expected error", bad)
		}
	}
}

func run(t *testing.T, src memSource, at string, asJSON bool) string {
	t.Helper()
	var buf bytes.Buffer
	n := &Now{
		Service: app.New(src, timetable.DefaultRules(), "6A", zerolog.Nop()),
		Engine:  engine.Options{Signal: engine.SignalFunc(func(string, timetable.Kind) { t.Fatalf("now must not ring") })},
		At:      at,
		JSON:    asJSON,
		Out:     &buf,
		Clock:   func() time.Time { return base },
	}
	if err := n.Do(context.Background()); err != nil {
		t.Fatalf("now: %v", err)
	}
	return buf.String()
}

func TestNowJSON(t *testing.T) {
	var got struct {
		Phase     string `json:"phase"`
		Day       string `json:"day"`
		Remaining int    `json:"remaining"`
		Title     string `json:"title"`
		Interval  struct {
			Start string `json:"start"`
		} `json:"interval"`
	}
	out := run(t, memSource{raw: export}, "Mon 09:10:00", true)
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if got.Phase != "active" || got.Day != "Mon" || got.Remaining != 600 || got.Title != "BREAK TIME!" {
		t.Fatalf("unexpected result %+v", got)
	}
}

func TestNowPretty(t *testing.T) {
	color.NoColor = true
	out := run(t, memSource{raw: export}, "Thur 10:00", false)
	if !strings.Contains(out, "Class Time") || !strings.Contains(out, "Next: Mon Break at 09:00") {
		t.Fatalf("unexpected output:\n%s", out)
	}

	out = run(t, memSource{err: errors.New("offline")}, "Mon 09:10", false)
	if !strings.Contains(out, "offline") || !strings.Contains(out, "Next break unknown") {
		t.Fatalf("expected fetch error and empty answer:\n%s", out)
	}
}
