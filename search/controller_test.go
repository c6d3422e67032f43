package search

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reel/catalog"
)

type fakeCatalog struct {
	mu       sync.Mutex
	queries  []string
	failWith error
	details  map[int]*catalog.Details
}

func (f *fakeCatalog) Search(_ context.Context, query string) ([]catalog.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	if f.failWith != nil {
		return nil, f.failWith
	}
	return []catalog.Item{{ID: len(f.queries), Kind: catalog.KindMovie, Title: query}}, nil
}

func (f *fakeCatalog) GetDetails(_ context.Context, id int, kind catalog.Kind) (*catalog.Details, error) {
	d, ok := f.details[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return d, nil
}

func (f *fakeCatalog) Queries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

// queue collects dispatched searches so tests choose completion order.
type queue struct {
	mu  sync.Mutex
	fns []func()
}

func (q *queue) push(fn func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.fns = append(q.fns, fn)
}

func (q *queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.fns)
}

func (q *queue) At(i int) func() {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.fns[i]
}

func newController(t *testing.T, f *fakeCatalog, open Opener) (*Controller, *clockwork.FakeClock) {
	t.Helper()
	clk := clockwork.NewFakeClock()
	c := New(f, f, open, Options{Debounce: 500 * time.Millisecond, Clock: clk})
	c.dispatch = func(fn func()) { fn() }
	t.Cleanup(c.Close)
	return c, clk
}

// settled waits for the debounced search released by the last Advance.
func settled(t *testing.T, c *Controller, f *fakeCatalog, calls int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return len(f.Queries()) == calls && !c.State().Searching
	}, time.Second, time.Millisecond)
}

func TestController_DebouncedSearch(t *testing.T) {
	f := &fakeCatalog{}
	c, clk := newController(t, f, nil)

	c.SetQuery("batman")
	clk.Advance(499 * time.Millisecond)
	assert.Empty(t, f.Queries())

	clk.Advance(time.Millisecond)
	require.Eventually(t, func() bool { return len(c.State().Results) == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, []string{"batman"}, f.Queries())

	s := c.State()
	assert.Equal(t, "batman", s.Results[0].Title)
	assert.False(t, s.Searching)
}

func TestController_RapidTypingSearchesFinalValue(t *testing.T) {
	f := &fakeCatalog{}
	c, clk := newController(t, f, nil)

	for _, q := range []string{"b", "ba", "bat", "batm", "batma", "batman"} {
		c.SetQuery(q)
		clk.Advance(100 * time.Millisecond)
	}
	clk.Advance(time.Second)

	settled(t, c, f, 1)
	assert.Equal(t, []string{"batman"}, f.Queries())
}

func TestController_ShortQueryCancelsPending(t *testing.T) {
	f := &fakeCatalog{}
	c, clk := newController(t, f, nil)

	c.SetQuery("bat")
	clk.Advance(200 * time.Millisecond)
	c.SetQuery("ba")
	clk.Advance(time.Second)

	assert.Empty(t, f.Queries())
	assert.Empty(t, c.State().Results)
}

func TestController_ShortQueryClearsResults(t *testing.T) {
	f := &fakeCatalog{}
	c, clk := newController(t, f, nil)

	c.SetQuery("dune")
	clk.Advance(500 * time.Millisecond)
	settled(t, c, f, 1)
	require.NotEmpty(t, c.State().Results)

	c.SetQuery("  du  ")
	assert.Empty(t, c.State().Results)
	assert.Equal(t, "  du  ", c.State().Query)
}

func TestController_SubmitBypassesDebounce(t *testing.T) {
	f := &fakeCatalog{}
	c, clk := newController(t, f, nil)

	c.SetQuery("alien")
	c.Submit()
	assert.Equal(t, []string{"alien"}, f.Queries())

	clk.Advance(time.Second)
	assert.Equal(t, []string{"alien"}, f.Queries(), "pending search was consumed by submit")

	c.Submit()
	assert.Equal(t, []string{"alien", "alien"}, f.Queries())

	c.SetQuery("al")
	c.Submit()
	assert.Len(t, f.Queries(), 2)
}

func TestController_SearchFailureKeepsResults(t *testing.T) {
	f := &fakeCatalog{}
	c, clk := newController(t, f, nil)

	c.SetQuery("heat")
	clk.Advance(500 * time.Millisecond)
	settled(t, c, f, 1)
	before := c.State().Results

	f.mu.Lock()
	f.failWith = errors.New("offline")
	f.mu.Unlock()
	c.SetQuery("heat 2")
	clk.Advance(500 * time.Millisecond)
	settled(t, c, f, 2)

	s := c.State()
	assert.Equal(t, before, s.Results)
	assert.False(t, s.Searching)
}

func TestController_LastCompletedWins(t *testing.T) {
	f := &fakeCatalog{}
	c, clk := newController(t, f, nil)

	var q queue
	c.dispatch = q.push

	c.SetQuery("star")
	clk.Advance(500 * time.Millisecond)
	require.Eventually(t, func() bool { return q.Len() == 1 }, time.Second, time.Millisecond)
	c.SetQuery("star wars")
	clk.Advance(500 * time.Millisecond)
	require.Eventually(t, func() bool { return q.Len() == 2 }, time.Second, time.Millisecond)

	q.At(1)()
	q.At(0)()

	s := c.State()
	require.Len(t, s.Results, 1)
	assert.Equal(t, "star", s.Results[0].Title, "results follow completion order")
}

func TestController_SelectOpensDetails(t *testing.T) {
	f := &fakeCatalog{details: map[int]*catalog.Details{
		1: {Item: catalog.Item{ID: 1, Kind: catalog.KindMovie, Title: "Batman"}},
	}}
	var opened *catalog.Details
	c, clk := newController(t, f, func(d *catalog.Details) { opened = d })

	c.Show()
	c.SetQuery("batman")
	clk.Advance(500 * time.Millisecond)
	settled(t, c, f, 1)
	result := c.State().Results[0]

	require.NoError(t, c.Select(context.Background(), result))
	require.NotNil(t, opened)
	assert.Equal(t, "Batman", opened.Title)

	s := c.State()
	assert.Empty(t, s.Query)
	assert.Empty(t, s.Results)
	assert.False(t, s.Open)
}

func TestController_SelectFailureLeavesOverlay(t *testing.T) {
	f := &fakeCatalog{details: map[int]*catalog.Details{}}
	opened := false
	c, clk := newController(t, f, func(*catalog.Details) { opened = true })

	c.Show()
	c.SetQuery("batman")
	clk.Advance(500 * time.Millisecond)
	settled(t, c, f, 1)

	err := c.Select(context.Background(), c.State().Results[0])
	assert.ErrorIs(t, err, catalog.ErrNotFound)
	assert.False(t, opened)

	s := c.State()
	assert.True(t, s.Open)
	assert.Equal(t, "batman", s.Query)
}

func TestController_Dismiss(t *testing.T) {
	for _, reason := range []DismissReason{CloseButton, EscapeKey, OutsidePointer} {
		t.Run(reason.String(), func(t *testing.T) {
			f := &fakeCatalog{}
			c, clk := newController(t, f, nil)

			c.Show()
			c.SetQuery("matrix")
			c.Dismiss(reason)
			clk.Advance(time.Second)

			s := c.State()
			assert.False(t, s.Open)
			assert.Empty(t, s.Query)
			assert.Empty(t, s.Results)
			assert.Empty(t, f.Queries(), "pending search is cancelled on dismiss")
		})
	}
}

func TestController_ResultsAfterDismissAreDropped(t *testing.T) {
	f := &fakeCatalog{}
	c, clk := newController(t, f, nil)

	var q queue
	c.dispatch = q.push

	c.Show()
	c.SetQuery("matrix")
	clk.Advance(500 * time.Millisecond)
	require.Eventually(t, func() bool { return q.Len() == 1 }, time.Second, time.Millisecond)
	c.Dismiss(EscapeKey)

	q.At(0)()
	assert.Empty(t, c.State().Results)
}
