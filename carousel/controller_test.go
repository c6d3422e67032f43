package carousel

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

type fakeFetcher struct {
	mu    sync.Mutex
	calls []int
	fail  map[int]bool
}

func (f *fakeFetcher) GetDetails(_ context.Context, id int, kind catalog.Kind) (*catalog.Details, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, id)
	if f.fail[id] {
		return nil, errors.New("boom")
	}
	return &catalog.Details{Item: catalog.Item{ID: id, Kind: kind}}, nil
}

func (f *fakeFetcher) Calls() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.calls...)
}

// queue collects dispatched work so tests choose completion order.
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

const (
	interval   = 8 * time.Second
	settle     = 50 * time.Millisecond
	transition = 500 * time.Millisecond
)

func newController(t *testing.T, f DetailsFetcher) (*Controller, *clockwork.FakeClock) {
	t.Helper()
	clk := clockwork.NewFakeClock()
	c := New(f, Options{Interval: interval, Settle: settle, Transition: transition, Clock: clk})
	c.dispatch = func(fn func()) { fn() }
	t.Cleanup(c.Close)
	return c, clk
}

// waitFor blocks until the timer callbacks released by the last Advance
// have brought the controller into the wanted state.
func waitFor(t *testing.T, c *Controller, cond func(State) bool) {
	t.Helper()
	require.Eventually(t, func() bool { return cond(c.State()) }, time.Second, time.Millisecond)
}

func transitioning(s State) bool { return s.Transitioning }
func idle(s State) bool          { return !s.Transitioning }

func at(i int) func(State) bool {
	return func(s State) bool { return s.Current == i }
}

func TestController_TwoPhaseTiming(t *testing.T) {
	c, clk := newController(t, nil)
	c.SetHovered(true)
	c.SetItems(items(3))

	c.Advance()
	s := c.State()
	assert.True(t, s.Transitioning)
	assert.Equal(t, 0, s.Current)

	clk.Advance(settle - time.Millisecond)
	assert.Equal(t, 0, c.State().Current)

	clk.Advance(time.Millisecond)
	waitFor(t, c, at(1))
	assert.True(t, c.State().Transitioning)

	clk.Advance(transition)
	waitFor(t, c, idle)
}

func TestController_JumpToDuringTransition(t *testing.T) {
	c, clk := newController(t, nil)
	c.SetHovered(true)
	c.SetItems(items(5))

	c.Advance()
	c.JumpTo(3)

	clk.Advance(settle)
	waitFor(t, c, at(1))
	clk.Advance(transition)
	waitFor(t, c, idle)

	assert.Equal(t, 1, c.State().Current)
}

func TestController_Autoplay(t *testing.T) {
	c, clk := newController(t, nil)
	c.SetItems(items(3))

	clk.Advance(interval - time.Millisecond)
	assert.Equal(t, 0, c.State().Current)
	assert.False(t, c.State().Transitioning)

	cycle := func(want int) {
		t.Helper()
		waitFor(t, c, transitioning)
		clk.Advance(settle)
		waitFor(t, c, at(want))
		clk.Advance(transition)
		waitFor(t, c, idle)
	}

	clk.Advance(time.Millisecond)
	cycle(1)

	clk.Advance(interval)
	cycle(2)

	clk.Advance(interval)
	cycle(0)
	assert.Equal(t, Forward, c.State().Direction)
}

func TestController_AutoplaySingleItem(t *testing.T) {
	c, clk := newController(t, nil)
	c.SetItems(items(1))

	clk.Advance(10 * interval)

	s := c.State()
	assert.Equal(t, 0, s.Current)
	assert.False(t, s.Transitioning)
	assert.False(t, s.ShowControls())
}

func TestController_PauseNeedsBothTriggersCleared(t *testing.T) {
	c, clk := newController(t, nil)
	c.SetItems(items(3))

	c.SetHovered(true)
	c.SetDetailsOpen(true)
	clk.Advance(2 * interval)
	assert.False(t, c.State().Transitioning)

	c.SetDetailsOpen(false)
	clk.Advance(2 * interval)
	assert.False(t, c.State().Transitioning, "still hovered")

	c.SetHovered(false)
	clk.Advance(interval)
	waitFor(t, c, transitioning)
	clk.Advance(settle)
	waitFor(t, c, at(1))
}

func TestController_GatingRestartsInterval(t *testing.T) {
	c, clk := newController(t, nil)
	c.SetItems(items(3))

	clk.Advance(interval / 2)
	c.SetHovered(true)
	c.SetHovered(false)

	clk.Advance(interval / 2)
	assert.False(t, c.State().Transitioning, "timer was recreated on hover change")

	clk.Advance(interval / 2)
	waitFor(t, c, transitioning)
}

func TestController_Prewarm(t *testing.T) {
	f := &fakeFetcher{fail: map[int]bool{2: true}}
	c, clk := newController(t, f)
	c.SetHovered(true)
	c.SetItems(items(3))

	require.NotNil(t, c.Details())
	assert.Equal(t, 1, c.Details().ID)

	c.Advance()
	clk.Advance(settle)
	require.Eventually(t, func() bool { return len(f.Calls()) == 2 }, time.Second, time.Millisecond)
	assert.Equal(t, []int{1, 2}, f.Calls())
	assert.Equal(t, 1, c.Details().ID, "failed pre-warm keeps the previous details")

	clk.Advance(transition)
	waitFor(t, c, idle)

	c.Advance()
	clk.Advance(settle)
	require.Eventually(t, func() bool { return c.Details().ID == 3 }, time.Second, time.Millisecond)
}

func TestController_PrewarmDiscardsStale(t *testing.T) {
	f := &fakeFetcher{}
	c, clk := newController(t, f)

	var q queue
	c.dispatch = q.push
	c.SetHovered(true)
	c.SetItems(items(3))

	c.Advance()
	clk.Advance(settle)
	require.Eventually(t, func() bool { return q.Len() == 2 }, time.Second, time.Millisecond)

	// newer response lands first, the older one must not overwrite it
	q.At(1)()
	q.At(0)()

	assert.Equal(t, 2, c.Details().ID)
}

func TestController_CloseClearsTimers(t *testing.T) {
	c, clk := newController(t, nil)
	c.SetItems(items(3))
	c.Advance()

	c.Close()
	clk.Advance(time.Minute)

	s := c.State()
	assert.Equal(t, 0, s.Current)
	assert.True(t, s.Transitioning, "settle never ran after close")
}

func TestController_OnChange(t *testing.T) {
	clk := clockwork.NewFakeClock()

	var (
		mu   sync.Mutex
		seen []int
	)
	snapshot := func() []int {
		mu.Lock()
		defer mu.Unlock()
		return append([]int(nil), seen...)
	}
	c := New(nil, Options{Clock: clk, Settle: settle, Transition: transition, OnChange: func(s State) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, s.Current)
	}})
	defer c.Close()

	c.SetHovered(true)
	c.SetItems(items(2))
	c.Advance()

	clk.Advance(settle)
	require.Eventually(t, func() bool { return len(snapshot()) == 4 }, time.Second, time.Millisecond)
	clk.Advance(transition)
	require.Eventually(t, func() bool { return len(snapshot()) == 5 }, time.Second, time.Millisecond)

	assert.Equal(t, []int{0, 0, 0, 1, 1}, snapshot())
}
