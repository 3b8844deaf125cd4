package tui

import "github.com/charmbracelet/x/ansi"

const ellipsis = "…"

// truncateEnd cuts s to at most width terminal cells. Wide runes count as
// two cells, so CJK titles line up with Latin ones.
func truncateEnd(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, ellipsis)
}

// truncateMiddle keeps both ends of s, for URLs where the host and the file
// name both matter.
func truncateMiddle(s string, width int) string {
	total := ansi.StringWidth(s)
	if total <= width {
		return s
	}
	if width <= 1 {
		return truncateEnd(s, width)
	}
	keep := width - 1
	left := keep / 2
	right := keep - left
	return ansi.Truncate(s, left, "") + ellipsis + ansi.TruncateLeft(s, total-right, "")
}
