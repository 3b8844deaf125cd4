package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader puts a bold title and a muted subtitle on one line, cut to width.
func renderHeader(title, subtitle string, width int) string {
	line := HeaderStyle.Render(truncateEnd(title, width/2))
	if subtitle != "" {
		line += "  " + renderMuted(subtitle)
	}
	return truncateEnd(line, width)
}

// renderInputFrame draws a rounded border around an input, accented while focused.
func renderInputFrame(inputView string, focused bool, contentWidth int) string {
	borderColor := MutedColor
	if focused {
		borderColor = AccentColor
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(contentWidth + 4).
		Render(inputView)
}

func renderCentered(width, height int, content string) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// renderEmptyState is the grid placeholder before any card exists.
func renderEmptyState(width, height int, empty string, err error) string {
	switch {
	case empty == MsgNoSources:
		return renderCentered(width, height, GetCompactBanner(MsgNoSources+"\n"+MsgNoSourcesHint))
	case empty != "":
		return renderCentered(width, height, HelpStyle.Render(empty))
	case err != nil:
		return renderCentered(width, height, ErrorMessageStyle.Render(fmt.Sprintf("✗ %v", err)))
	default:
		return renderCentered(width, height, HelpStyle.Render(MsgLoading))
	}
}

func renderMuted(text string) string {
	return lipgloss.NewStyle().Foreground(MutedColor).Render(text)
}
