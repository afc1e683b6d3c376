package board

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/recess/pkg/app"
	"tableflip.dev/recess/pkg/engine"
	"tableflip.dev/recess/pkg/printers"
	"tableflip.dev/recess/pkg/timeutil"
	"tableflip.dev/recess/pkg/tui/components/panel"
)

const (
	defaultWidth = 60
	barWidth     = 40
)

// View renders the headline, the bar, the group previews and the footer.
func (m *Model) View() string {
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}
	th := m.theme.Board
	snap := m.snap
	msg := printers.Describe(snap, m.combined())

	var blocks []string
	blocks = append(blocks, lipgloss.PlaceHorizontal(width, lipgloss.Right, th.Clock.Render(snap.Clock)))

	title := msg.Icon + "  " + msg.Title
	if snap.Phase == engine.PhaseClosed {
		blocks = append(blocks, th.Closed.Render(title))
	} else {
		blocks = append(blocks, th.Tier(snap.Tier).Render(title))
	}
	if msg.Detail != "" {
		blocks = append(blocks, th.Detail.Render(wordwrap.String(msg.Detail, max(width-4, 20))))
	}
	if snap.Phase == engine.PhaseActive || snap.Phase == engine.PhaseUpcoming {
		blocks = append(blocks, panel.Bar(snap.Progress, min(barWidth, max(width-4, 4)), th.Fill(snap.Tier)))
	}

	if rows := previewRows(snap.Previews); len(rows) > 0 {
		m.preview.SetContent("Next break per group", rows)
		m.preview.SetBarWidth(min(20, max(width/4, 4)))
		view, _ := m.preview.View()
		blocks = append(blocks, "", view)
	}

	body := lipgloss.JoinVertical(lipgloss.Center, blocks...)
	footer := m.footer(width)
	if m.height <= 0 {
		return body + "\n\n" + footer
	}
	bodyHeight := max(m.height-1, 1)
	return lipgloss.Place(width, bodyHeight, lipgloss.Center, lipgloss.Center, body) + "\n" + footer
}

func previewRows(previews []engine.Preview) []panel.Row {
	rows := make([]panel.Row, 0, len(previews))
	for _, p := range previews {
		r := panel.Row{Label: p.Group, Text: "—", Fraction: -1}
		if p.Next != nil {
			r.Text = p.Next.Kind.Noun() + " at " + p.Next.StartLabel() + " (in " + timeutil.FormatCountdown(p.Until) + ")"
			r.Fraction = p.Progress
			r.Tier = engine.UpcomingTier(p.Until)
		}
		rows = append(rows, r)
	}
	return rows
}

func (m *Model) footer(width int) string {
	ft := m.theme.Footer
	help := m.help.View(m.keys)

	var status string
	switch {
	case m.reloadErr != nil:
		status = ft.Error.Render("⚠ " + m.reloadErr.Error())
	case m.reloading:
		status = ft.Status.Render("loading…")
	default:
		status = ft.Status.Render(m.status)
	}
	gap := width - lipgloss.Width(help) - lipgloss.Width(status)
	if gap < 1 {
		return help + " " + status
	}
	return help + strings.Repeat(" ", gap) + status
}

func (m *Model) combined() bool {
	return m.svc != nil && m.svc.Key().IsCombined()
}

// Run launches the board full screen until the user quits.
func Run(ctx context.Context, svc *app.Service, eng *engine.Engine, opts Options) error {
	p := tea.NewProgram(New(ctx, svc, eng, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
