package layout

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/pders01/vodfall/internal/fetch"
)

const (
	titleLines         = 2
	descriptionLines   = 3
	noDescription      = "No description"
	coverMarker        = "▣ cover"
	sourceMarker       = "◆ "
	minCardWidth       = 12
	cardHorizontalEdge = 4 // border + padding on both sides
)

// Card is one rendered search result placed in a column.
type Card struct {
	Index      int
	Item       *fetch.Item
	SourceName string
	Column     int
	Top        int
	Height     int

	view string
}

func (c *Card) View() string { return c.view }

// Sanitize removes escape sequences and control characters from upstream
// text so it cannot drive the terminal.
func Sanitize(s string) string {
	s = ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, s)
}

func renderCard(styles Styles, item *fetch.Item, sourceName string, width int, selected bool) string {
	inner := width - cardHorizontalEdge
	if inner < minCardWidth-cardHorizontalEdge {
		inner = minCardWidth - cardHorizontalEdge
	}

	var rows []string
	rows = append(rows, clampLines(styles.Title, Sanitize(item.Name), inner, titleLines)...)

	var badges []string
	if t := Sanitize(item.TypeName); t != "" {
		badges = append(badges, styles.Badge.Render(t))
	}
	if y := Sanitize(item.Year.String()); y != "" {
		badges = append(badges, styles.Badge.Render(y))
	}
	if len(badges) > 0 {
		rows = append(rows, ansi.Truncate(strings.Join(badges, " "), inner, "…"))
	}

	remarks := strings.TrimSpace(Sanitize(item.Remarks))
	if remarks == "" {
		rows = append(rows, styles.Muted.Render(noDescription))
	} else {
		rows = append(rows, clampLines(lipgloss.NewStyle(), remarks, inner, descriptionLines)...)
	}

	if item.HasCover() {
		rows = append(rows, styles.Cover.Render(coverMarker))
	}
	rows = append(rows, styles.Source.Render(ansi.Truncate(sourceMarker+Sanitize(sourceName), inner, "…")))

	frame := styles.Card
	if selected {
		frame = styles.Selected
	}
	return frame.Width(inner + 2).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// clampLines wraps text to width and keeps at most max lines, marking a cut
// with an ellipsis.
func clampLines(style lipgloss.Style, text string, width, max int) []string {
	if text == "" {
		return nil
	}
	wrapped := strings.Split(ansi.Wrap(text, width, ""), "\n")
	if len(wrapped) > max {
		last := strings.TrimRight(wrapped[max-1], " ")
		wrapped = wrapped[:max]
		wrapped[max-1] = ansi.Truncate(last+"…", width, "…")
	}
	lines := make([]string, len(wrapped))
	for i, line := range wrapped {
		lines[i] = style.Render(ansi.Truncate(strings.TrimRight(line, " "), width, "…"))
	}
	return lines
}
