package aggregate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/pders01/vodfall/internal/debuglog"
	"github.com/pders01/vodfall/internal/fetch"
	"github.com/pders01/vodfall/internal/pagination"
	"github.com/pders01/vodfall/internal/source"
)

// ErrAggregation wraps a failure of a round as a whole, as opposed to a
// single source failing.
var ErrAggregation = errors.New("aggregation failed")

// Resolver yields the sources for a new session.
type Resolver interface {
	Resolve() []source.Source
}

// PageFetcher fetches one page of one source. Implementations report
// failures inside the Outcome rather than as an error.
type PageFetcher interface {
	FetchPage(ctx context.Context, src source.Source, page int) fetch.Outcome
}

// Batch is the items one source contributed to a round, in response order.
type Batch struct {
	Source source.Source
	Items  []*fetch.Item
}

type InitialResult struct {
	Status  Status
	Sources []source.Source
	Batches []Batch
	Err     error
}

type MoreResult struct {
	Status  Status
	Batches []Batch
	// Exhausted is set when no further round can produce items.
	Exhausted bool
	Err       error
}

// Option configures a Session.
type Option func(*Session)

// WithToast registers a sink for messages about rounds that failed as a whole.
func WithToast(fn func(msg string)) Option {
	return func(s *Session) { s.toast = fn }
}

// Session owns the resolved sources, their paging state and the in-flight
// flag. One round runs at a time; an overlapping LoadMore is dropped.
type Session struct {
	resolver Resolver
	fetcher  PageFetcher
	tracker  *pagination.Tracker
	toast    func(msg string)

	mu       sync.RWMutex
	sources  []source.Source
	inFlight atomic.Bool
}

func NewSession(resolver Resolver, fetcher PageFetcher, opts ...Option) *Session {
	s := &Session{
		resolver: resolver,
		fetcher:  fetcher,
		tracker:  pagination.NewTracker(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sources returns the sources resolved by the last LoadInitial.
func (s *Session) Sources() []source.Source {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]source.Source(nil), s.sources...)
}

// State returns the paging state of the named source.
func (s *Session) State(name string) (pagination.PageState, bool) {
	return s.tracker.State(name)
}

// InFlight reports whether a round is currently running.
func (s *Session) InFlight() bool {
	return s.inFlight.Load()
}

// LoadInitial resolves the sources again, resets paging and fetches page 1
// of every source.
func (s *Session) LoadInitial(ctx context.Context) InitialResult {
	if !s.inFlight.CompareAndSwap(false, true) {
		return InitialResult{Status: StatusBusy}
	}
	defer s.inFlight.Store(false)

	sources := s.resolver.Resolve()
	s.mu.Lock()
	s.sources = sources
	s.mu.Unlock()
	s.tracker.Initialize(sources)

	if len(sources) == 0 {
		debuglog.Infof("no sources selected")
		return InitialResult{Status: StatusNoSources, Sources: sources}
	}

	jobs := make([]job, len(sources))
	for i, src := range sources {
		jobs[i] = job{src: src, page: 1}
	}

	outcomes, err := s.round(ctx, jobs)
	if err != nil {
		// Page 1 never landed; only a fresh LoadInitial may retry.
		s.tracker.EndAll(sources)
		s.notify(err)
		return InitialResult{Status: StatusFailed, Sources: sources, Err: err}
	}

	batches := s.merge(outcomes)
	if len(batches) == 0 {
		return InitialResult{Status: StatusEmpty, Sources: sources}
	}
	return InitialResult{Status: StatusOK, Sources: sources, Batches: batches}
}

// LoadMore fetches the next page of every source that has not ended.
func (s *Session) LoadMore(ctx context.Context) MoreResult {
	if !s.inFlight.CompareAndSwap(false, true) {
		return MoreResult{Status: StatusBusy}
	}
	defer s.inFlight.Store(false)

	sources := s.Sources()
	active := s.tracker.Active(sources)
	if len(active) == 0 {
		return MoreResult{Status: StatusExhausted, Exhausted: true}
	}

	jobs := make([]job, 0, len(active))
	for _, src := range active {
		page := 1
		if state, ok := s.tracker.State(src.Name); ok {
			page = state.Page
		}
		jobs = append(jobs, job{src: src, page: page + 1})
	}

	outcomes, err := s.round(ctx, jobs)
	if err != nil {
		s.notify(err)
		return MoreResult{Status: StatusFailed, Err: err}
	}

	batches := s.merge(outcomes)
	if len(batches) == 0 {
		// Every source fetched this round has just ended.
		return MoreResult{Status: StatusExhausted, Exhausted: true}
	}
	return MoreResult{Status: StatusOK, Batches: batches, Exhausted: s.tracker.AllEnded(sources)}
}

type job struct {
	src  source.Source
	page int
}

// round fetches every job concurrently and returns once all have settled.
// Outcomes are in job order.
func (s *Session) round(ctx context.Context, jobs []job) ([]fetch.Outcome, error) {
	outcomes := make([]fetch.Outcome, len(jobs))

	var g errgroup.Group
	for i, j := range jobs {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("%w: fetching %s page %d: %v", ErrAggregation, j.src.Name, j.page, r)
				}
			}()
			outcomes[i] = s.fetcher.FetchPage(ctx, j.src, j.page)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		debuglog.Errorf("round failed: %v", err)
		return nil, err
	}
	return outcomes, nil
}

// merge records every outcome and collects the non-empty batches.
func (s *Session) merge(outcomes []fetch.Outcome) []Batch {
	var batches []Batch
	for _, out := range outcomes {
		s.tracker.Record(out)

		if out.Err != nil {
			debuglog.WithFields(map[string]interface{}{"source": out.Source.Name, "page": out.Page}).
				Warnf("source ended after failure: %v", out.Err)
			continue
		}
		if out.Empty() {
			continue
		}
		batches = append(batches, Batch{Source: out.Source, Items: out.Data.Items()})
	}
	return batches
}

func (s *Session) notify(err error) {
	if s.toast != nil {
		s.toast(err.Error())
	}
}
