package detail

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// Renderer turns detail markdown into styled terminal text. The glamour
// renderer is rebuilt only when the width changes noticeably.
type Renderer struct {
	mu       sync.Mutex
	renderer *glamour.TermRenderer
	width    int
}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) Render(markdown string, width int) (string, error) {
	wrap := wrapWidth(width)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.renderer == nil || abs(r.width-wrap) > 10 {
		tr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(wrap),
		)
		if err != nil {
			return "", err
		}
		r.renderer = tr
		r.width = wrap
	}
	return r.renderer.Render(markdown)
}

func wrapWidth(width int) int {
	wrap := (width * 9) / 10
	if wrap > 120 {
		wrap = 120
	}
	if wrap < 40 {
		wrap = 40
	}
	if width < 50 {
		wrap = width - 4
		if wrap < 20 {
			wrap = 20
		}
	}
	return wrap
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
