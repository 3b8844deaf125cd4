package layout

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/vodfall/internal/config"
)

// Styles holds the lipgloss styles used to draw cards.
type Styles struct {
	Card     lipgloss.Style
	Selected lipgloss.Style
	Title    lipgloss.Style
	Badge    lipgloss.Style
	Source   lipgloss.Style
	Muted    lipgloss.Style
	Cover    lipgloss.Style
}

func NewStyles(colors config.UIColors) Styles {
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(colors.Muted)).
		Padding(0, 1)

	return Styles{
		Card:     card,
		Selected: card.BorderForeground(lipgloss.Color(colors.Accent)),
		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(colors.Text)).
			Bold(true),
		Badge: lipgloss.NewStyle().
			Foreground(lipgloss.Color(colors.Background)).
			Background(lipgloss.Color(colors.Secondary)).
			Padding(0, 1),
		Source: lipgloss.NewStyle().
			Foreground(lipgloss.Color(colors.Primary)),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color(colors.Muted)),
		Cover: lipgloss.NewStyle().
			Foreground(lipgloss.Color(colors.Success)),
	}
}
