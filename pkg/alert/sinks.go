package alert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/fatih/color"

	"tableflip.dev/recess/pkg/timetable"
)

// BellSink rings the terminal bell.
type BellSink struct {
	mu  sync.Mutex
	out io.Writer
}

// NewBellSink writes BEL to out.
func NewBellSink(out io.Writer) *BellSink {
	return &BellSink{out: out}
}

// Name returns the sink identifier.
func (s *BellSink) Name() string { return SinkBell }

// Send writes the BEL character.
func (s *BellSink) Send(context.Context, Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := io.WriteString(s.out, "\a")
	return err
}

// ConsoleSink prints a coloured line per alert.
type ConsoleSink struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsoleSink prints to out.
func NewConsoleSink(out io.Writer) *ConsoleSink {
	return &ConsoleSink{out: out}
}

// Name returns the sink identifier.
func (s *ConsoleSink) Name() string { return SinkConsole }

// Send prints the alert with its time.
func (s *ConsoleSink) Send(_ context.Context, a Alert) error {
	prefix := color.YellowString("[BELL]")
	if a.Kind != timetable.KindBreak {
		prefix = color.CyanString("[BELL]")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := fmt.Fprintf(s.out, "%s %s %s\n", prefix, a.Time.Format("15:04:05"), a.Message())
	return err
}

// CommandSink runs an external program, e.g. an audio player. The group and
// kind are passed as RECESS_GROUP and RECESS_KIND.
type CommandSink struct {
	name string
	args []string
}

// NewCommandSink splits command on whitespace.
func NewCommandSink(command string) (*CommandSink, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil, errors.New("command required")
	}
	return &CommandSink{name: fields[0], args: fields[1:]}, nil
}

// Name returns the sink identifier.
func (s *CommandSink) Name() string { return SinkCommand }

// Send runs the command and waits for it.
func (s *CommandSink) Send(ctx context.Context, a Alert) error {
	cmd := exec.CommandContext(ctx, s.name, s.args...)
	cmd.Env = append(os.Environ(),
		"RECESS_GROUP="+a.Group,
		"RECESS_KIND="+string(a.Kind),
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("running %s: %w: %s", s.name, err, strings.TrimSpace(string(out)))
	}
	return nil
}
