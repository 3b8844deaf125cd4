package layout

import (
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/vodfall/internal/fetch"
)

const columnGap = 1

// Direction is a cursor move between cards.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Waterfall lays cards out in a fixed number of columns, each new card
// going to the currently shortest column. Cards are only ever appended.
type Waterfall struct {
	mu        sync.RWMutex
	styles    Styles
	columns   int
	cardWidth int
	cards     []*Card
	cols      [][]int
	heights   []int
	selected  int
}

func New(columns, cardWidth int, styles Styles) *Waterfall {
	w := &Waterfall{styles: styles, selected: -1}
	w.configure(columns, cardWidth)
	return w
}

// ColumnsFor returns configured when positive, otherwise as many columns of
// cardWidth as fit into width (at least one).
func ColumnsFor(width, cardWidth, configured int) int {
	if configured > 0 {
		return configured
	}
	if cardWidth <= 0 {
		return 1
	}
	n := (width + columnGap) / (cardWidth + columnGap)
	if n < 1 {
		return 1
	}
	return n
}

func (w *Waterfall) configure(columns, cardWidth int) {
	if columns < 1 {
		columns = 1
	}
	if cardWidth < minCardWidth {
		cardWidth = minCardWidth
	}
	w.columns = columns
	w.cardWidth = cardWidth
	w.cols = make([][]int, columns)
	w.heights = make([]int, columns)
}

// Append adds one card per item in order and returns their indices.
func (w *Waterfall) Append(sourceName string, items []*fetch.Item) []int {
	w.mu.Lock()
	defer w.mu.Unlock()

	added := make([]int, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		card := &Card{Index: len(w.cards), Item: item, SourceName: sourceName}
		card.view = renderCard(w.styles, item, sourceName, w.cardWidth, false)
		card.Height = lipgloss.Height(card.view)
		w.cards = append(w.cards, card)
		w.place(card)
		added = append(added, card.Index)
	}
	return added
}

func (w *Waterfall) place(card *Card) {
	col := w.shortest()
	card.Column = col
	card.Top = w.heights[col]
	w.cols[col] = append(w.cols[col], card.Index)
	w.heights[col] += card.Height
}

// shortest returns the column with the least height, leftmost on ties.
func (w *Waterfall) shortest() int {
	best := 0
	for i := 1; i < len(w.heights); i++ {
		if w.heights[i] < w.heights[best] {
			best = i
		}
	}
	return best
}

// Resize changes the column count or card width and lays the existing
// cards out again in arrival order.
func (w *Waterfall) Resize(columns, cardWidth int) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if columns == w.columns && cardWidth == w.cardWidth {
		return
	}
	w.configure(columns, cardWidth)
	for _, card := range w.cards {
		card.view = renderCard(w.styles, card.Item, card.SourceName, w.cardWidth, false)
		card.Height = lipgloss.Height(card.view)
		w.place(card)
	}
}

// Reset removes every card.
func (w *Waterfall) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.cards = nil
	w.selected = -1
	w.configure(w.columns, w.cardWidth)
}

// Render draws the columns side by side.
func (w *Waterfall) Render() string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if len(w.cards) == 0 {
		return ""
	}

	blank := lipgloss.NewStyle().Width(w.cardWidth).Render("")
	gap := strings.Repeat(" ", columnGap)

	rendered := make([]string, 0, 2*w.columns-1)
	for i, col := range w.cols {
		if i > 0 {
			rendered = append(rendered, gap)
		}
		if len(col) == 0 {
			rendered = append(rendered, blank)
			continue
		}
		views := make([]string, len(col))
		for j, idx := range col {
			card := w.cards[idx]
			if idx == w.selected {
				views[j] = renderCard(w.styles, card.Item, card.SourceName, w.cardWidth, true)
			} else {
				views[j] = card.view
			}
		}
		rendered = append(rendered, lipgloss.JoinVertical(lipgloss.Left, views...))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// Cards returns the cards in arrival order.
func (w *Waterfall) Cards() []*Card {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]*Card(nil), w.cards...)
}

func (w *Waterfall) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.cards)
}

func (w *Waterfall) CardAt(i int) (*Card, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if i < 0 || i >= len(w.cards) {
		return nil, false
	}
	return w.cards[i], true
}

// Position returns the column and first line of card i.
func (w *Waterfall) Position(i int) (column, top int, ok bool) {
	card, ok := w.CardAt(i)
	if !ok {
		return 0, 0, false
	}
	return card.Column, card.Top, true
}

// Height is the line count of the tallest column.
func (w *Waterfall) Height() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	h := 0
	for _, ch := range w.heights {
		if ch > h {
			h = ch
		}
	}
	return h
}

// ColumnHeights returns a copy of the per-column line counts.
func (w *Waterfall) ColumnHeights() []int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]int(nil), w.heights...)
}

func (w *Waterfall) Columns() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.columns
}

// Select highlights card i; -1 clears the selection.
func (w *Waterfall) Select(i int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if i < -1 || i >= len(w.cards) {
		return
	}
	w.selected = i
}

func (w *Waterfall) Selected() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.selected
}

// Neighbor returns the card reached from card i by moving in dir, or i when
// there is nothing in that direction.
func (w *Waterfall) Neighbor(i int, dir Direction) int {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if i < 0 || i >= len(w.cards) {
		if len(w.cards) == 0 {
			return -1
		}
		return 0
	}
	card := w.cards[i]
	col := w.cols[card.Column]

	switch dir {
	case Up, Down:
		pos := indexOf(col, i)
		if dir == Up && pos > 0 {
			return col[pos-1]
		}
		if dir == Down && pos < len(col)-1 {
			return col[pos+1]
		}
		return i
	case Left, Right:
		step := 1
		if dir == Left {
			step = -1
		}
		for c := card.Column + step; c >= 0 && c < len(w.cols); c += step {
			if len(w.cols[c]) > 0 {
				return w.nearest(w.cols[c], card.Top)
			}
		}
	}
	return i
}

// nearest picks the card in col whose span covers line, or else the one
// starting closest to it.
func (w *Waterfall) nearest(col []int, line int) int {
	best, bestDist := col[0], -1
	for _, idx := range col {
		c := w.cards[idx]
		if line >= c.Top && line < c.Top+c.Height {
			return idx
		}
		dist := c.Top - line
		if dist < 0 {
			dist = -dist
		}
		if bestDist < 0 || dist < bestDist {
			best, bestDist = idx, dist
		}
	}
	return best
}

func indexOf(list []int, v int) int {
	for i, x := range list {
		if x == v {
			return i
		}
	}
	return -1
}
