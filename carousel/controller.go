package carousel

import (
	"context"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/jonboulle/clockwork"

	"reel/catalog"
)

type DetailsFetcher interface {
	GetDetails(ctx context.Context, id int, kind catalog.Kind) (*catalog.Details, error)
}

type Options struct {
	Interval   time.Duration
	Settle     time.Duration
	Transition time.Duration
	Clock      clockwork.Clock

	// OnChange is called outside the controller lock after every state or
	// pre-warmed details change.
	OnChange func(State)
}

func (o *Options) defaults() {
	if o.Interval <= 0 {
		o.Interval = 8 * time.Second
	}
	if o.Settle <= 0 {
		o.Settle = 50 * time.Millisecond
	}
	if o.Transition <= 0 {
		o.Transition = 500 * time.Millisecond
	}
	if o.Clock == nil {
		o.Clock = clockwork.NewRealClock()
	}
}

// Controller interprets carousel effects: it arms the two-phase transition
// timers, keeps the auto-play timer in line with the gating conditions and
// pre-warms details for the current item.
type Controller struct {
	opts    Options
	fetcher DetailsFetcher

	ctx    context.Context
	cancel context.CancelFunc

	// dispatch runs pre-warm fetches; replaced in tests.
	dispatch func(func())

	mu            sync.Mutex
	state         State
	closed        bool
	transitionGen uint64
	transitionT   clockwork.Timer
	autoplayGen   uint64
	autoplayT     clockwork.Timer
	lastGating    gating
	prewarmSeq    uint64
	details       *catalog.Details
}

func New(fetcher DetailsFetcher, opts Options) *Controller {
	opts.defaults()
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		opts:     opts,
		fetcher:  fetcher,
		ctx:      ctx,
		cancel:   cancel,
		dispatch: func(f func()) { go f() },
		state:    NewState(nil),
	}
}

func (c *Controller) SetItems(items []catalog.Item) { c.apply(SetItems{Items: items}) }
func (c *Controller) Advance()                      { c.apply(Advance{}) }
func (c *Controller) Retreat()                      { c.apply(Retreat{}) }
func (c *Controller) JumpTo(index int)              { c.apply(JumpTo{Index: index}) }
func (c *Controller) SetHovered(on bool)            { c.apply(Hover{On: on}) }
func (c *Controller) SetDetailsOpen(open bool)      { c.apply(DetailsSet{Open: open}) }

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Details returns the last pre-warmed details for the banner, which may
// belong to an earlier item if the latest fetch failed.
func (c *Controller) Details() *catalog.Details {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.details
}

// Close stops every timer and drops in-flight pre-warm results.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.stopTransitionLocked()
	c.stopAutoplayLocked()
	c.cancel()
}

func (c *Controller) apply(ev Event) {
	c.applyIf(nil, ev)
}

// applyIf applies ev only while guard, checked under the lock, holds.
func (c *Controller) applyIf(guard func() bool, ev Event) {
	c.mu.Lock()
	if c.closed || (guard != nil && !guard()) {
		c.mu.Unlock()
		return
	}

	next, effects := Reduce(c.state, ev)
	c.state = next

	var prewarm func()
	for _, eff := range effects {
		switch eff {
		case ScheduleSettle:
			c.armTransitionLocked(c.opts.Settle, Settle{})
		case ScheduleFinish:
			c.armTransitionLocked(c.opts.Transition, Finish{})
		case CancelTransition:
			c.stopTransitionLocked()
		case Prewarm:
			prewarm = c.prewarmLocked()
		}
	}
	c.syncAutoplayLocked()

	snapshot := c.state
	c.mu.Unlock()

	if prewarm != nil {
		c.dispatch(prewarm)
	}
	c.notify(snapshot)
}

func (c *Controller) notify(s State) {
	if c.opts.OnChange != nil {
		c.opts.OnChange(s)
	}
}

func (c *Controller) armTransitionLocked(d time.Duration, ev Event) {
	c.stopTransitionLocked()
	gen := c.transitionGen
	c.transitionT = c.opts.Clock.AfterFunc(d, func() {
		c.applyIf(func() bool { return gen == c.transitionGen }, ev)
	})
}

func (c *Controller) stopTransitionLocked() {
	c.transitionGen++
	if c.transitionT != nil {
		c.transitionT.Stop()
		c.transitionT = nil
	}
}

// syncAutoplayLocked tears the auto-play timer down and recreates it
// whenever one of the gating conditions changes.
func (c *Controller) syncAutoplayLocked() {
	g := c.state.gating()
	if g == c.lastGating && (c.autoplayT != nil) == c.state.AutoplayEnabled() {
		return
	}
	c.lastGating = g

	c.stopAutoplayLocked()
	if c.state.AutoplayEnabled() {
		c.armAutoplayLocked()
	}
}

func (c *Controller) armAutoplayLocked() {
	gen := c.autoplayGen
	c.autoplayT = c.opts.Clock.AfterFunc(c.opts.Interval, func() {
		c.mu.Lock()
		if c.closed || gen != c.autoplayGen {
			c.mu.Unlock()
			return
		}
		c.armAutoplayLocked()
		c.mu.Unlock()

		c.applyIf(func() bool { return gen == c.autoplayGen }, Advance{})
	})
}

func (c *Controller) stopAutoplayLocked() {
	c.autoplayGen++
	if c.autoplayT != nil {
		c.autoplayT.Stop()
		c.autoplayT = nil
	}
}

func (c *Controller) prewarmLocked() func() {
	item, ok := c.state.CurrentItem()
	if !ok || c.fetcher == nil {
		return nil
	}
	c.prewarmSeq++
	seq := c.prewarmSeq
	ctx := c.ctx

	return func() {
		d, err := c.fetcher.GetDetails(ctx, item.ID, item.Kind)

		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			return
		}
		if seq != c.prewarmSeq {
			c.mu.Unlock()
			log.WithField("id", item.ID).Debug("discarding stale banner details")
			return
		}
		if err != nil {
			c.mu.Unlock()
			log.WithField("id", item.ID).WithField("kind", string(item.Kind)).WithError(err).
				Warn("banner details pre-warm failed")
			return
		}
		c.details = d
		snapshot := c.state
		c.mu.Unlock()

		c.notify(snapshot)
	}
}
