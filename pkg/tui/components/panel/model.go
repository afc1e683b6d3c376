// Package panel renders a framed list of labelled progress rows.
package panel

import (
	"strings"

	"github.com/charmbracelet/bubbles/v2/progress"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/recess/pkg/engine"
	"tableflip.dev/recess/pkg/tui/theme"
)

// Row is one labelled line with an optional bar.
type Row struct {
	Label string
	Text  string
	// Fraction in [0,1]; negative hides the bar.
	Fraction float64
	// Tier picks the bar colour.
	Tier engine.Tier
}

// Model renders a titled panel of rows.
type Model struct {
	title    string
	rows     []Row
	barWidth int

	frameStyle lipgloss.Style
	titleStyle lipgloss.Style
	bodyStyle  lipgloss.Style
	board      theme.BoardTheme
}

// New returns a panel using the theme's panel and bar styles.
func New(th theme.Theme) Model {
	return Model{
		barWidth:   20,
		frameStyle: th.Panel.Frame,
		titleStyle: th.Panel.Title,
		bodyStyle:  th.Panel.Body,
		board:      th.Board,
	}
}

// SetContent replaces the title and rows.
func (m *Model) SetContent(title string, rows []Row) {
	m.title = title
	m.rows = rows
}

// SetBarWidth sets the cell width of row bars.
func (m *Model) SetBarWidth(w int) {
	if w < 4 {
		w = 4
	}
	m.barWidth = w
}

// Empty reports whether there is nothing to draw.
func (m Model) Empty() bool { return len(m.rows) == 0 }

// View returns the rendered panel and its height in lines.
func (m Model) View() (string, int) {
	if m.Empty() {
		return "", 0
	}
	labelWidth := 0
	for _, r := range m.rows {
		if w := lipgloss.Width(r.Label); w > labelWidth {
			labelWidth = w
		}
	}

	var content []string
	if m.title != "" {
		content = append(content, m.titleStyle.Render(m.title))
	}
	for _, r := range m.rows {
		line := m.bodyStyle.Render(r.Label + strings.Repeat(" ", labelWidth-lipgloss.Width(r.Label)) + "  ")
		if r.Fraction >= 0 {
			line += Bar(r.Fraction, m.barWidth, m.board.Fill(r.Tier)) + "  "
		}
		line += m.bodyStyle.Render(r.Text)
		content = append(content, line)
	}
	view := m.frameStyle.Render(strings.Join(content, "\n"))
	return view, strings.Count(view, "\n") + 1
}

// Bar draws a progress bar of width cells filled with color, without a
// percentage label.
func Bar(fraction float64, width int, color string) string {
	if width <= 0 {
		return ""
	}
	bar := progress.New(
		progress.WithSolidFill(lipgloss.Color(color)),
		progress.WithoutPercentage(),
		progress.WithWidth(width),
	)
	return bar.ViewAs(min(max(fraction, 0), 1))
}
