package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/vodfall/internal/layout"
)

// scrollCheckMsg fires once a burst of scroll events has been quiet for
// the debounce window. Stale ticks carry an old seq and are dropped.
type scrollCheckMsg struct{ seq int }

// scheduleScrollCheck records a scroll event and restarts the debounce.
func (a *App) scheduleScrollCheck() tea.Cmd {
	a.scrollSeq++
	seq := a.scrollSeq
	wait := a.config.Scroll.Debounce
	if wait <= 0 {
		return func() tea.Msg { return scrollCheckMsg{seq: seq} }
	}
	return tea.Tick(wait, func(time.Time) tea.Msg {
		return scrollCheckMsg{seq: seq}
	})
}

func (a *App) handleScrollCheck(msg scrollCheckMsg) tea.Cmd {
	if msg.seq != a.scrollSeq || a.view != ViewGrid {
		return nil
	}
	if !a.nearBottom() {
		return nil
	}
	if a.loading || a.session.InFlight() {
		return nil
	}
	return a.requestMore()
}

// remainingLines is how far the bottom of the grid is below the viewport.
// Negative when the grid is shorter than the viewport.
func (a *App) remainingLines() int {
	return a.viewport.TotalLineCount() - (a.viewport.YOffset + a.viewport.Height)
}

func (a *App) nearBottom() bool {
	return a.remainingLines() < a.config.Scroll.Threshold
}

func (a *App) moveCursor(dir layout.Direction) tea.Cmd {
	if a.grid.Len() == 0 {
		return nil
	}
	return a.selectCard(a.grid.Neighbor(a.grid.Selected(), dir))
}

// selectCard highlights card i and scrolls it into view.
func (a *App) selectCard(i int) tea.Cmd {
	if _, ok := a.grid.CardAt(i); !ok {
		return nil
	}
	before := a.viewport.YOffset
	a.grid.Select(i)
	a.refreshGrid()
	a.ensureVisible(i)
	if a.viewport.YOffset != before {
		return a.scheduleScrollCheck()
	}
	return nil
}

func (a *App) ensureVisible(i int) {
	card, ok := a.grid.CardAt(i)
	if !ok {
		return
	}
	top, bottom := card.Top, card.Top+card.Height
	switch {
	case top < a.viewport.YOffset:
		a.viewport.SetYOffset(top)
	case bottom > a.viewport.YOffset+a.viewport.Height:
		a.viewport.SetYOffset(bottom - a.viewport.Height)
	}
}
