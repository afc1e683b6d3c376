// Package board is the live full-screen break board.
package board

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/v2/help"
	"github.com/charmbracelet/bubbles/v2/key"
	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/recess/pkg/alert"
	"tableflip.dev/recess/pkg/app"
	"tableflip.dev/recess/pkg/engine"
	"tableflip.dev/recess/pkg/source"
	"tableflip.dev/recess/pkg/tui/components/panel"
	"tableflip.dev/recess/pkg/tui/theme"
)

// Ringer sounds an end-of-break alert. *alert.Dispatcher implements it.
type Ringer interface {
	Dispatch(ctx context.Context, a alert.Alert) bool
}

// Options configure the board.
type Options struct {
	// Refresh reloads the timetable on this interval; zero disables it.
	Refresh time.Duration
	// Bell is rung from the update loop when a break ends, so terminal
	// output never races the renderer.
	Bell Ringer
	// Now overrides the clock, for tests.
	Now func() time.Time
}

type keyMap struct {
	Reload key.Binding
	Quit   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding { return []key.Binding{k.Reload, k.Quit} }

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

// Model is the Bubble Tea model for the board.
type Model struct {
	ctx   context.Context
	svc   *app.Service
	eng   *engine.Engine
	theme theme.Theme
	opts  Options

	snap     engine.Snapshot
	lastTick time.Time

	preview panel.Model
	keys    keyMap
	help    help.Model

	width, height int

	reloading  bool
	lastReload time.Time
	reloadErr  error
	status     string

	watchCh     <-chan source.Event
	watchCancel context.CancelFunc
}

// tickMsg carries the clock; rearm schedules the next second.
type tickMsg struct {
	at    time.Time
	rearm bool
}

type reloadedMsg struct{ err error }

type watchStartedMsg struct {
	ch     <-chan source.Event
	cancel context.CancelFunc
	err    error
}

type watchEventMsg struct {
	event source.Event
}

type watchStoppedMsg struct{}

// New builds a board over svc. Bells come from the engine's signal.
func New(ctx context.Context, svc *app.Service, eng *engine.Engine, opts Options) *Model {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	th := theme.Default()
	h := help.New()
	h.Styles.ShortKey = th.Footer.Help.Bold(true)
	h.Styles.ShortDesc = th.Footer.Help
	h.Styles.ShortSeparator = th.Footer.Help
	return &Model{
		ctx:     ctx,
		svc:     svc,
		eng:     eng,
		theme:   th,
		opts:    opts,
		preview: panel.New(th),
		keys:    defaultKeys(),
		help:    h,
	}
}

// Init loads the timetable, starts watching it and starts the clock.
func (m *Model) Init() tea.Cmd {
	m.reloading = true
	return tea.Batch(m.reloadCmd(), startWatchCmd(m.ctx, m.svc), m.tick(), tickCmd())
}

func tickCmd() tea.Cmd {
	return tea.Every(time.Second, func(t time.Time) tea.Msg {
		return tickMsg{at: t, rearm: true}
	})
}

func (m *Model) tick() tea.Cmd {
	now := m.opts.Now()
	return func() tea.Msg { return tickMsg{at: now} }
}

func (m *Model) reloadCmd() tea.Cmd {
	if m.svc == nil {
		return nil
	}
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		return reloadedMsg{err: svc.Reload(ctx)}
	}
}

func startWatchCmd(parent context.Context, svc *app.Service) tea.Cmd {
	if svc == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithCancel(parent)
		ch, err := svc.Watch(ctx)
		if err != nil {
			cancel()
			return watchStartedMsg{err: err}
		}
		return watchStartedMsg{ch: ch, cancel: cancel}
	}
}

func (m *Model) waitForWatch() tea.Cmd {
	ch := m.watchCh
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if ok {
			return watchEventMsg{event: ev}
		}
		return watchStoppedMsg{}
	}
}

func (m *Model) stopWatch() {
	if m.watchCancel != nil {
		m.watchCancel()
		m.watchCancel = nil
	}
	m.watchCh = nil
}

func (m *Model) startReload(status string) tea.Cmd {
	if m.reloading {
		return nil
	}
	m.reloading = true
	m.status = status
	return m.reloadCmd()
}

// Update handles clock ticks, reloads, file changes and keys.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tickMsg:
		now := msg.at
		var groups []engine.Group
		if m.svc != nil {
			groups = m.svc.Groups()
		}
		m.snap = m.eng.Advance(m.lastTick, now, groups)
		m.lastTick = now
		for _, end := range m.snap.Ended {
			m.status = end.Kind.Noun() + " over for " + end.Group
			if end.Rang && m.opts.Bell != nil {
				m.opts.Bell.Dispatch(m.ctx, alert.Alert{Group: end.Group, Kind: end.Kind, Time: now})
			}
		}
		if m.opts.Refresh > 0 && !m.lastReload.IsZero() && now.Sub(m.lastReload) >= m.opts.Refresh {
			cmds = append(cmds, m.startReload("refreshing"))
		}
		if msg.rearm {
			cmds = append(cmds, tickCmd())
		}
	case reloadedMsg:
		m.reloading = false
		m.reloadErr = msg.err
		m.lastReload = m.opts.Now()
		m.status = "loaded " + m.lastReload.Format("15:04:05")
	case watchStartedMsg:
		if msg.err != nil {
			if !errors.Is(msg.err, source.ErrNotWatchable) {
				m.status = "watch: " + msg.err.Error()
			}
			break
		}
		m.watchCh = msg.ch
		m.watchCancel = msg.cancel
		cmds = append(cmds, m.waitForWatch())
	case watchEventMsg:
		if !msg.event.Removed {
			cmds = append(cmds, m.startReload("timetable changed"))
		}
		cmds = append(cmds, m.waitForWatch())
	case watchStoppedMsg:
		m.stopWatch()
		m.status = "watch stopped, press r to reload"
	case tea.KeyPressMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.stopWatch()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Reload):
			cmds = append(cmds, m.startReload("reloading"))
		}
	}
	return m, tea.Batch(cmds...)
}
