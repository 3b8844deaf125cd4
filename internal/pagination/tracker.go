package pagination

import (
	"sync"

	"github.com/pders01/vodfall/internal/fetch"
	"github.com/pders01/vodfall/internal/source"
)

// PageState is the paging position of one source. Once Ended is set the
// source is not fetched again until the next Initialize.
type PageState struct {
	Page  int
	Ended bool
}

// Tracker holds a PageState per source name.
type Tracker struct {
	mu     sync.RWMutex
	states map[string]PageState
}

func NewTracker() *Tracker {
	return &Tracker{states: make(map[string]PageState)}
}

// Initialize discards all state and starts every source at page 1.
func (t *Tracker) Initialize(sources []source.Source) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.states = make(map[string]PageState, len(sources))
	for _, src := range sources {
		t.states[src.Name] = PageState{Page: 1}
	}
}

// Record folds one fetch outcome into the source's state. A failed or empty
// page ends the source without moving its page counter.
func (t *Tracker) Record(out fetch.Outcome) {
	t.mu.Lock()
	defer t.mu.Unlock()

	name := out.Source.Name
	state, ok := t.states[name]
	if !ok {
		state = PageState{Page: 1}
	}

	if out.Empty() {
		state.Ended = true
		t.states[name] = state
		return
	}

	state.Page = out.Page
	if pc := out.Data.PageCount; pc.Valid && pc.Value > 0 && out.Page >= pc.Value {
		state.Ended = true
	}
	t.states[name] = state
}

// EndAll marks every given source ended at its current page.
func (t *Tracker) EndAll(sources []source.Source) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, src := range sources {
		state, ok := t.states[src.Name]
		if !ok {
			state = PageState{Page: 1}
		}
		state.Ended = true
		t.states[src.Name] = state
	}
}

// State returns a copy of the named source's state.
func (t *Tracker) State(name string) (PageState, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	state, ok := t.states[name]
	return state, ok
}

// AllEnded reports whether every given source has ended. Sources the tracker
// has never seen count as not ended; an empty list is trivially ended.
func (t *Tracker) AllEnded(sources []source.Source) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, src := range sources {
		state, ok := t.states[src.Name]
		if !ok || !state.Ended {
			return false
		}
	}
	return true
}

// Active returns the sources that have not ended, in the given order.
func (t *Tracker) Active(sources []source.Source) []source.Source {
	t.mu.RLock()
	defer t.mu.RUnlock()

	active := make([]source.Source, 0, len(sources))
	for _, src := range sources {
		if state, ok := t.states[src.Name]; ok && state.Ended {
			continue
		}
		active = append(active, src)
	}
	return active
}
