package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/vodfall/internal/detail"
	"github.com/pders01/vodfall/internal/layout"
	"github.com/pders01/vodfall/internal/search"
)

const findDebounce = 150 * time.Millisecond

func (a *App) loadInitial() tea.Cmd {
	ctx, session := a.ctx, a.session
	return func() tea.Msg {
		return initialLoadedMsg{result: session.LoadInitial(ctx)}
	}
}

func (a *App) loadMore() tea.Cmd {
	ctx, session := a.ctx, a.session
	return func() tea.Msg {
		return moreLoadedMsg{result: session.LoadMore(ctx)}
	}
}

// reload discards the grid and starts over from page 1.
func (a *App) reload() tea.Cmd {
	if a.loading || a.session.InFlight() {
		return a.setStatus(MsgBusy, StatusWarn)
	}
	a.loading = true
	return tea.Batch(a.loadInitial(), a.spinner.Tick, a.setStatus(MsgReloading, StatusInfo))
}

// requestMore starts a load-more round unless one is running or nothing is
// left to fetch.
func (a *App) requestMore() tea.Cmd {
	if a.empty != "" {
		return nil
	}
	if a.exhausted {
		if a.grid.Len() == 0 {
			// A failed first round is retried by reload only.
			return nil
		}
		return a.setStatus(MsgExhausted, StatusInfo)
	}
	if a.loading || a.session.InFlight() {
		return nil
	}
	a.loading = true
	return tea.Batch(a.loadMore(), a.spinner.Tick, a.setStatus(MsgLoadingMore, StatusInfo))
}

func (a *App) selectedCard() (*layout.Card, bool) {
	return a.grid.CardAt(a.grid.Selected())
}

func (a *App) activateSelected() tea.Cmd {
	card, ok := a.selectedCard()
	if !ok {
		return a.setStatus(MsgNothingToUse, StatusWarn)
	}
	return a.activate(card)
}

func (a *App) activate(card *layout.Card) tea.Cmd {
	ctx, activator := a.ctx, a.activator
	item, src := card.Item, a.sourceFor(card)
	return func() tea.Msg {
		act, err := activator.Activate(ctx, item, src)
		if err != nil {
			return errorMsg{err: fmt.Errorf("activating %s: %w", item.Name, err)}
		}
		return activatedMsg{activation: act}
	}
}

// playSelected opens the first episode of the selected card in a player.
func (a *App) playSelected() tea.Cmd {
	card, ok := a.selectedCard()
	if !ok {
		return a.setStatus(MsgNothingToUse, StatusWarn)
	}
	episodes := detail.ParsePlayList(card.Item.PlayFrom, card.Item.PlayURL)
	if len(episodes) == 0 {
		return func() tea.Msg { return errorMsg{err: fmt.Errorf("%s: %w", card.Item.Name, detail.ErrNoPlayURL)} }
	}
	return a.openURL(episodes[0].URL)
}

func (a *App) playEpisode() tea.Cmd {
	if a.page == nil || len(a.page.Episodes) == 0 {
		return func() tea.Msg { return errorMsg{err: detail.ErrNoPlayURL} }
	}
	return a.openURL(a.page.Episodes[a.episode].URL)
}

func (a *App) stepEpisode(delta int) tea.Cmd {
	if a.page == nil || len(a.page.Episodes) == 0 {
		return nil
	}
	n := len(a.page.Episodes)
	a.episode = (a.episode + delta + n) % n
	return nil
}

func (a *App) openURL(url string) tea.Cmd {
	opener := a.opener
	return func() tea.Msg {
		if opener == nil {
			return errorMsg{err: detail.ErrNoOpener}
		}
		if err := opener.Open(url); err != nil {
			return errorMsg{err: fmt.Errorf("opening %s: %w", url, err)}
		}
		return openedMsg{target: url}
	}
}

// scheduleFind debounces find-as-you-type; only the latest query runs.
func (a *App) scheduleFind(query string) tea.Cmd {
	a.findSeq++
	seq := a.findSeq
	if query == "" {
		a.clearFind()
		return nil
	}
	return tea.Tick(findDebounce, func(time.Time) tea.Msg {
		return findDebounceFireMsg{seq: seq, query: query}
	})
}

func (a *App) runFind(seq int, query string) tea.Cmd {
	searcher := a.searcher
	return func() tea.Msg {
		results, err := searcher.Search(query, findLimit)
		if err != nil {
			return errorMsg{err: fmt.Errorf("find %q: %w", query, err)}
		}
		return findResultsMsg{seq: seq, query: query, results: results}
	}
}

func (a *App) clearFind() {
	a.findQuery = ""
	a.findResults = nil
	a.findCursor = 0
}

func (a *App) moveFindCursor(delta int) {
	n := len(a.findResults)
	if n == 0 {
		return
	}
	if n > findRows {
		n = findRows
	}
	a.findCursor = (a.findCursor + delta + n) % n
}

func (a *App) currentFindResult() (*search.Result, bool) {
	if a.findCursor < 0 || a.findCursor >= len(a.findResults) {
		return nil, false
	}
	return a.findResults[a.findCursor], true
}
