package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/vodfall/internal/aggregate"
	"github.com/pders01/vodfall/internal/config"
	"github.com/pders01/vodfall/internal/debuglog"
	"github.com/pders01/vodfall/internal/detail"
	"github.com/pders01/vodfall/internal/fetch"
	"github.com/pders01/vodfall/internal/layout"
	"github.com/pders01/vodfall/internal/search"
	"github.com/pders01/vodfall/internal/source"
)

const (
	statusTimeout = 4 * time.Second
	findLimit     = 50
	findRows      = 8
)

type App struct {
	ctx        context.Context
	config     *config.Config
	session    *aggregate.Session
	grid       *layout.Waterfall
	searcher   search.Searcher
	activator  *detail.Activator
	renderer   *detail.Renderer
	opener     detail.Opener
	keyHandler *KeyHandler

	viewport       viewport.Model
	detailViewport viewport.Model
	findInput      textinput.Model
	help           help.Model
	spinner        spinner.Model

	view         View
	previousView View
	width        int
	height       int

	loading   bool
	exhausted bool
	empty     string

	status     string
	statusKind StatusKind
	statusSeq  int

	scrollSeq int

	findSeq     int
	findQuery   string
	findResults []*search.Result
	findCursor  int

	page    *detail.Page
	episode int

	err error
}

// NewApp wires the grid to session. opener launches play and watch URLs;
// it may be nil.
func NewApp(ctx context.Context, cfg *config.Config, session *aggregate.Session, opener detail.Opener) *App {
	if ctx == nil {
		ctx = context.Background()
	}
	ApplyColors(cfg.UI.Colors)

	a := &App{
		ctx:      ctx,
		config:   cfg,
		session:  session,
		grid:     layout.New(1, cfg.UI.CardWidth, layout.NewStyles(cfg.UI.Colors)),
		searcher: search.New(),
		renderer: detail.NewRenderer(),
		opener:   opener,
		view:     ViewGrid,
		loading:  true,
	}

	var shower detail.Shower
	if cfg.UI.DetailView {
		shower = detail.NewProvider(a.lookupItem)
	}
	a.activator = detail.NewActivator(shower, opener, cfg.UI.WatchPage)

	ti := textinput.New()
	ti.Placeholder = "Find in results…"
	ti.Prompt = "/ "
	ti.PromptStyle = InputPromptStyle
	ti.CharLimit = maxFindQuery
	a.findInput = ti

	a.viewport = viewport.New(80, 20)
	a.detailViewport = viewport.New(80, 20)
	a.help = help.New()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(AccentColor)
	a.spinner = sp

	a.keyHandler = NewKeyHandler(a, cfg)
	return a
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.loadInitial(), a.spinner.Tick)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		return a, a.scheduleScrollCheck()

	case tea.KeyMsg:
		return a.keyHandler.HandleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		switch a.view {
		case ViewGrid:
			before := a.viewport.YOffset
			a.viewport, cmd = a.viewport.Update(msg)
			if a.viewport.YOffset != before {
				return a, tea.Batch(cmd, a.scheduleScrollCheck())
			}
		case ViewDetail:
			a.detailViewport, cmd = a.detailViewport.Update(msg)
		}
		return a, cmd

	case spinner.TickMsg:
		if !a.loading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case initialLoadedMsg:
		return a, a.applyInitial(msg.result)

	case moreLoadedMsg:
		return a, a.applyMore(msg.result)

	case scrollCheckMsg:
		return a, a.handleScrollCheck(msg)

	case activatedMsg:
		if msg.activation.Page != nil {
			a.showPage(msg.activation.Page)
			return a, nil
		}
		return a, a.setStatus(MsgOpened(truncateMiddle(msg.activation.Opened, 60)), StatusSuccess)

	case openedMsg:
		return a, a.setStatus(MsgOpened(truncateMiddle(msg.target, 60)), StatusSuccess)

	case findDebounceFireMsg:
		if msg.seq != a.findSeq {
			return a, nil
		}
		return a, a.runFind(msg.seq, msg.query)

	case findResultsMsg:
		if msg.seq != a.findSeq {
			return a, nil
		}
		a.findQuery = msg.query
		a.findResults = msg.results
		a.findCursor = 0
		return a, nil

	case clearStatusMsg:
		if msg.seq == a.statusSeq {
			a.status = ""
		}
		return a, nil

	case errorMsg:
		a.err = msg.err
		debuglog.Errorf("%v", msg.err)
		return a, a.setStatus(fmt.Sprintf("✗ %v", msg.err), StatusError)
	}

	return a, nil
}

// applyInitial replaces the grid with the result of a fresh load.
func (a *App) applyInitial(res aggregate.InitialResult) tea.Cmd {
	if res.Status == aggregate.StatusBusy {
		return nil
	}
	a.loading = false
	a.err = nil
	a.exhausted = false
	a.empty = ""
	a.grid.Reset()
	if err := a.searcher.Reset(); err != nil {
		debuglog.Warnf("resetting search index: %v", err)
	}
	a.viewport.GotoTop()

	switch res.Status {
	case aggregate.StatusNoSources:
		a.empty = MsgNoSources
		a.exhausted = true
		a.refreshGrid()
		return a.setStatus(MsgNoSources, StatusWarn)
	case aggregate.StatusEmpty:
		a.empty = MsgNoResults
		a.exhausted = true
		a.refreshGrid()
		return a.setStatus(MsgNoResults, StatusWarn)
	case aggregate.StatusFailed:
		a.err = res.Err
		a.exhausted = true
		a.refreshGrid()
		return a.setStatus(fmt.Sprintf("✗ %v", res.Err), StatusError)
	}

	n := a.appendBatches(res.Batches)
	a.grid.Select(0)
	a.refreshGrid()
	return tea.Batch(
		a.setStatus(MsgLoaded(n, len(res.Sources)), StatusSuccess),
		a.scheduleScrollCheck(),
	)
}

// applyMore appends the next round below the existing cards.
func (a *App) applyMore(res aggregate.MoreResult) tea.Cmd {
	if res.Status == aggregate.StatusBusy {
		return nil
	}
	a.loading = false

	switch res.Status {
	case aggregate.StatusFailed:
		a.err = res.Err
		return a.setStatus(fmt.Sprintf("✗ %v", res.Err), StatusError)
	case aggregate.StatusExhausted:
		a.exhausted = true
		return a.setStatus(MsgExhausted, StatusInfo)
	}

	n := a.appendBatches(res.Batches)
	if a.grid.Selected() < 0 {
		a.grid.Select(0)
	}
	a.refreshGrid()

	status := MsgAppended(n)
	if res.Exhausted {
		a.exhausted = true
		status += " • " + MsgExhausted
	}
	return tea.Batch(a.setStatus(status, StatusSuccess), a.scheduleScrollCheck())
}

func (a *App) appendBatches(batches []aggregate.Batch) int {
	total := 0
	for _, b := range batches {
		indices := a.grid.Append(b.Source.Name, b.Items)
		docs := make([]search.Doc, 0, len(indices))
		for n, idx := range indices {
			docs = append(docs, docFor(idx, b.Items[n], b.Source.Name))
		}
		if err := a.searcher.Index(docs); err != nil {
			debuglog.Warnf("indexing %d cards from %s: %v", len(docs), b.Source.Name, err)
		}
		total += len(indices)
	}
	return total
}

func docFor(card int, item *fetch.Item, sourceName string) search.Doc {
	cast := item.Actor
	if item.Director != "" {
		cast = strings.TrimSpace(item.Director + " " + cast)
	}
	return search.Doc{
		Card:    card,
		Title:   layout.Sanitize(item.Name),
		Type:    item.TypeName,
		Year:    item.Year.String(),
		Remarks: item.Remarks,
		Cast:    cast,
		Source:  sourceName,
	}
}

func (a *App) refreshGrid() {
	a.viewport.SetContent(a.grid.Render())
}

// resize lays the grid out for the new terminal size.
func (a *App) resize(width, height int) {
	a.width, a.height = width, height
	a.help.Width = width

	body := height - lipgloss.Height(a.getCustomStatusBar()) - 1
	if body < 1 {
		body = 1
	}
	a.viewport.Width = width
	a.viewport.Height = body
	a.detailViewport.Width = width
	a.detailViewport.Height = body
	a.findInput.Width = width - 10

	columns := layout.ColumnsFor(width, a.config.UI.CardWidth, a.config.UI.Columns)
	a.grid.Resize(columns, a.config.UI.CardWidth)
	a.refreshGrid()
	a.ensureVisible(a.grid.Selected())

	if a.page != nil {
		a.renderPage()
	}
}

func (a *App) setStatus(text string, kind StatusKind) tea.Cmd {
	a.statusSeq++
	seq := a.statusSeq
	a.status = text
	a.statusKind = kind
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg { return clearStatusMsg{seq: seq} })
}

// lookupItem resolves a card's item for the detail provider.
func (a *App) lookupItem(sourceCode, itemID string) (*fetch.Item, bool) {
	for _, card := range a.grid.Cards() {
		if card.Item.SourceCode == sourceCode && card.Item.ID.String() == itemID {
			return card.Item, true
		}
	}
	return nil, false
}

func (a *App) sourceFor(card *layout.Card) source.Source {
	for _, src := range a.session.Sources() {
		if src.Name == card.SourceName {
			return src
		}
	}
	return source.Source{Name: card.SourceName, Code: card.Item.SourceCode}
}

func (a *App) showPage(page *detail.Page) {
	a.page = page
	a.episode = 0
	if a.view != ViewDetail {
		a.previousView = a.view
	}
	a.view = ViewDetail
	a.renderPage()
	a.detailViewport.GotoTop()
}

func (a *App) renderPage() {
	out, err := a.renderer.Render(a.page.Markdown, a.width)
	if err != nil {
		debuglog.Warnf("rendering detail page: %v", err)
		out = a.page.Markdown
	}
	a.detailViewport.SetContent(out)
}

func (a *App) View() string {
	var body string
	switch a.view {
	case ViewDetail:
		body = a.detailView()
	case ViewFind:
		body = a.findView()
	default:
		body = a.gridView()
	}
	return lipgloss.JoinVertical(lipgloss.Left, a.headerView(), body, a.getCustomStatusBar())
}

func (a *App) headerView() string {
	if a.view == ViewDetail && a.page != nil {
		return renderHeader(a.page.Title, plural(len(a.page.Episodes), "episode"), a.width)
	}
	title := CompactLogo + " " + AppName
	if q := strings.TrimSpace(a.config.Search.Query); q != "" {
		title += " › " + q
	}
	sub := fmt.Sprintf("%d cards", a.grid.Len())
	if a.loading {
		sub = a.spinner.View() + " " + sub
	} else if a.exhausted && a.grid.Len() > 0 {
		sub += " • end"
	}
	return renderHeader(title, sub, a.width)
}

func (a *App) gridView() string {
	if a.grid.Len() == 0 {
		return renderEmptyState(a.width, a.viewport.Height, a.empty, a.err)
	}
	return a.viewport.View()
}

func (a *App) detailView() string {
	return a.detailViewport.View()
}

func (a *App) findView() string {
	rows := []string{renderInputFrame(a.findInput.View(), a.findInput.Focused(), a.findInput.Width)}
	if a.findQuery != "" {
		rows = append(rows, renderMuted(MsgResultsCount(len(a.findResults))))
	}
	for i, res := range a.findResults {
		if i >= findRows {
			rows = append(rows, renderMuted(fmt.Sprintf("… %d more", len(a.findResults)-findRows)))
			break
		}
		line := truncateEnd(res.Title, a.width-4)
		if i == a.findCursor {
			line = HeaderStyle.Render("› " + line)
		} else {
			line = "  " + line
		}
		rows = append(rows, line)
	}
	return ContentWrapper(a.width, a.viewport.Height).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a *App) getCustomStatusBar() string {
	if a.help.ShowAll {
		return a.help.View(a.keyHandler.keys)
	}

	left := strings.Join(a.keyHandler.GetHelpForCurrentView(), " • ")
	if a.view == ViewDetail && a.page != nil && len(a.page.Episodes) > 0 {
		ep := a.page.Episodes[a.episode]
		left = fmt.Sprintf("▶ %s / %s  ", ep.Group, ep.Name) + left
	}

	if a.status != "" {
		status := a.statusKind.style().Render(a.status)
		return StatusBarStyle.Render(truncateEnd(status+"  "+renderMuted(left), a.width-2))
	}
	return StatusBarStyle.Render(truncateEnd(renderMuted(left), a.width-2))
}

// Status returns the current status line text.
func (a *App) Status() string { return a.status }

// CurrentView reports which view is showing.
func (a *App) CurrentView() View { return a.view }

type initialLoadedMsg struct{ result aggregate.InitialResult }

type moreLoadedMsg struct{ result aggregate.MoreResult }

type activatedMsg struct{ activation detail.Activation }

type openedMsg struct{ target string }

type errorMsg struct{ err error }

type clearStatusMsg struct{ seq int }

type findDebounceFireMsg struct {
	seq   int
	query string
}

type findResultsMsg struct {
	seq     int
	query   string
	results []*search.Result
}
