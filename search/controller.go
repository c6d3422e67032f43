// Package search turns free-text input into a debounced remote search and
// opens the details view for a chosen result.
package search

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/apex/log"
	"github.com/jonboulle/clockwork"

	"reel/catalog"
	"reel/debounce"
)

// MinQueryLength is the longest trimmed query that never reaches the network.
const MinQueryLength = 2

type Searcher interface {
	Search(ctx context.Context, query string) ([]catalog.Item, error)
}

type DetailsFetcher interface {
	GetDetails(ctx context.Context, id int, kind catalog.Kind) (*catalog.Details, error)
}

// Opener shows a hydrated item in the details view.
type Opener func(*catalog.Details)

type DismissReason int

const (
	CloseButton DismissReason = iota
	EscapeKey
	OutsidePointer
)

func (r DismissReason) String() string {
	switch r {
	case CloseButton:
		return "close"
	case EscapeKey:
		return "escape"
	case OutsidePointer:
		return "outside"
	}
	return "unknown"
}

type State struct {
	Query     string
	Results   []catalog.Item
	Searching bool
	Open      bool
}

type Options struct {
	Debounce time.Duration
	Clock    clockwork.Clock
	OnChange func(State)
}

type Controller struct {
	searcher Searcher
	fetcher  DetailsFetcher
	open     Opener
	opts     Options
	debounce *debounce.Debouncer

	ctx    context.Context
	cancel context.CancelFunc

	// dispatch runs network calls off the caller's goroutine; replaced in tests.
	dispatch func(func())

	mu     sync.Mutex
	state  State
	resets uint64
	closed bool
}

func New(searcher Searcher, fetcher DetailsFetcher, open Opener, opts Options) *Controller {
	if opts.Debounce <= 0 {
		opts.Debounce = 500 * time.Millisecond
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		searcher: searcher,
		fetcher:  fetcher,
		open:     open,
		opts:     opts,
		debounce: debounce.New(opts.Clock, opts.Debounce),
		ctx:      ctx,
		cancel:   cancel,
		dispatch: func(f func()) { go f() },
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Show reveals the overlay.
func (c *Controller) Show() {
	c.update(func(s *State) { s.Open = true })
}

// SetQuery records a keystroke. Long enough queries are searched once input
// has been quiet for the debounce delay; short ones clear the results.
func (c *Controller) SetQuery(q string) {
	c.debounce.Cancel()
	c.update(func(s *State) { s.Query = q })

	trimmed := strings.TrimSpace(q)
	if !searchable(trimmed) {
		c.update(func(s *State) { s.Results = nil })
		return
	}
	c.debounce.Call(func() { c.search(trimmed) })
}

// Submit searches the current query right away, skipping the debounce.
func (c *Controller) Submit() {
	if c.debounce.Flush() {
		return
	}
	trimmed := strings.TrimSpace(c.State().Query)
	if !searchable(trimmed) {
		return
	}
	c.search(trimmed)
}

// Select hydrates a result and hands it to the details view, then resets
// and hides the overlay. On failure the overlay is left untouched.
func (c *Controller) Select(ctx context.Context, item catalog.Item) error {
	kind := item.Kind
	if !kind.Valid() {
		return fmt.Errorf("select %d: unknown kind %q", item.ID, kind)
	}

	d, err := c.fetcher.GetDetails(ctx, item.ID, kind)
	if err != nil {
		log.WithField("id", item.ID).WithField("kind", string(kind)).WithError(err).Warn("search result details failed")
		return err
	}

	if c.open != nil {
		c.open(d)
	}
	c.reset()
	return nil
}

// Dismiss resets the query and results and hides the overlay.
func (c *Controller) Dismiss(reason DismissReason) {
	log.WithField("reason", reason.String()).Debug("search dismissed")
	c.reset()
}

// Close tears down the debounce timer; the controller ignores later input.
func (c *Controller) Close() {
	c.debounce.Stop()
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.cancel()
}

func (c *Controller) reset() {
	c.debounce.Cancel()
	c.update(func(s *State) {
		s.Query = ""
		s.Results = nil
		s.Open = false
		c.resets++
	})
}

// search dispatches a query tagged with the current reset count.
func (c *Controller) search(query string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	resets := c.resets
	c.mu.Unlock()

	c.dispatch(func() { c.run(query, resets) })
}

func (c *Controller) run(query string, resets uint64) {
	c.update(func(s *State) { s.Searching = true })

	results, err := c.searcher.Search(c.ctx, query)

	c.update(func(s *State) {
		s.Searching = false
		if err != nil {
			return
		}
		// a completed search still lands after newer keystrokes; only a reset
		// or a too-short query discards it
		if resets != c.resets || !searchable(strings.TrimSpace(s.Query)) {
			return
		}
		s.Results = results
	})

	if err != nil {
		log.WithField("query", query).WithError(err).Warn("search failed")
	}
}

func (c *Controller) update(fn func(*State)) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	fn(&c.state)
	snapshot := c.state
	c.mu.Unlock()

	if c.opts.OnChange != nil {
		c.opts.OnChange(snapshot)
	}
}

func searchable(trimmed string) bool {
	return utf8.RuneCountInString(trimmed) > MinQueryLength
}
