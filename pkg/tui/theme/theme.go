package theme

import (
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/recess/pkg/engine"
)

// Theme centralizes Lip Gloss styles for the live board.
type Theme struct {
	Footer FooterTheme
	Panel  PanelTheme
	Board  BoardTheme
}

// FooterTheme groups styles used by the bottom status bar.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
	Error  lipgloss.Style
}

// PanelTheme styles framed panels and headings.
type PanelTheme struct {
	Frame lipgloss.Style
	Title lipgloss.Style
	Body  lipgloss.Style
}

// BoardTheme styles the headline area.
type BoardTheme struct {
	Clock  lipgloss.Style
	Detail lipgloss.Style
	Closed lipgloss.Style
	// Tiers style the title.
	Tiers map[engine.Tier]lipgloss.Style
	// Fills colour the filled part of the progress bars.
	Fills map[engine.Tier]string
}

// Tier returns the style for t, falling back to the normal tier.
func (b BoardTheme) Tier(t engine.Tier) lipgloss.Style {
	if s, ok := b.Tiers[t]; ok {
		return s
	}
	return b.Tiers[engine.TierNormal]
}

// Fill returns the bar colour for t, falling back to the normal tier.
func (b BoardTheme) Fill(t engine.Tier) string {
	if c, ok := b.Fills[t]; ok {
		return c
	}
	return b.Fills[engine.TierNormal]
}

const (
	colorNormal  = "42"
	colorWarning = "214"
	colorEnding  = "196"
	colorSoon    = "212"
)

// Default returns the built-in theme.
func Default() Theme {
	title := lipgloss.NewStyle().Bold(true)

	return Theme{
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		},
		Panel: PanelTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240")).
				Padding(0, 1),
			Title: lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
			Body:  lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		},
		Board: BoardTheme{
			Clock:  lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			Detail: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
			Closed: title.Foreground(lipgloss.Color("244")),
			Tiers: map[engine.Tier]lipgloss.Style{
				engine.TierNormal:  title.Foreground(lipgloss.Color(colorNormal)),
				engine.TierWarning: title.Foreground(lipgloss.Color(colorWarning)),
				engine.TierEnding:  title.Foreground(lipgloss.Color(colorEnding)).Blink(true),
				engine.TierSoon:    title.Foreground(lipgloss.Color(colorSoon)),
			},
			Fills: map[engine.Tier]string{
				engine.TierNormal:  colorNormal,
				engine.TierWarning: colorWarning,
				engine.TierEnding:  colorEnding,
				engine.TierSoon:    colorSoon,
			},
		},
	}
}
