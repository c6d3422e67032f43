// Package carousel cycles a banner set one item at a time with directional
// slides, pausable auto-play and a guard against overlapping transitions.
//
// State changes are pure (Reduce); timers and fetches requested by a
// transition are returned as effects and carried out by Controller.
package carousel

import "reel/catalog"

type Direction string

const (
	Forward  Direction = "forward"
	Backward Direction = "backward"
)

type State struct {
	Items         []catalog.Item
	Current       int
	Previous      int
	Transitioning bool
	Direction     Direction

	// Hovered is the pointer pause; DetailsOpen is set while any details
	// view is showing.
	Hovered     bool
	DetailsOpen bool

	target int
	intent Direction
}

func NewState(items []catalog.Item) State {
	return State{Items: items, Direction: Forward}
}

func (s State) Len() int {
	return len(s.Items)
}

func (s State) CurrentItem() (catalog.Item, bool) {
	if s.Current < 0 || s.Current >= len(s.Items) {
		return catalog.Item{}, false
	}
	return s.Items[s.Current], true
}

// ShowControls reports whether arrows and indicators are rendered.
func (s State) ShowControls() bool {
	return len(s.Items) > 1
}

// AutoplayEnabled is true while nothing pauses the carousel.
func (s State) AutoplayEnabled() bool {
	return !s.Hovered && !s.DetailsOpen && len(s.Items) > 1 && !s.Transitioning
}

type gating struct {
	hovered, detailsOpen, multiple, transitioning bool
}

func (s State) gating() gating {
	return gating{
		hovered:       s.Hovered,
		detailsOpen:   s.DetailsOpen,
		multiple:      len(s.Items) > 1,
		transitioning: s.Transitioning,
	}
}

type Event interface {
	isEvent()
}

type (
	Advance    struct{}
	Retreat    struct{}
	JumpTo     struct{ Index int }
	Settle     struct{}
	Finish     struct{}
	Hover      struct{ On bool }
	DetailsSet struct{ Open bool }
	SetItems   struct{ Items []catalog.Item }
)

func (Advance) isEvent()    {}
func (Retreat) isEvent()    {}
func (JumpTo) isEvent()     {}
func (Settle) isEvent()     {}
func (Finish) isEvent()     {}
func (Hover) isEvent()      {}
func (DetailsSet) isEvent() {}
func (SetItems) isEvent()   {}

type Effect int

const (
	// ScheduleSettle arms the first-phase delay before the index changes.
	ScheduleSettle Effect = iota
	// ScheduleFinish arms the second-phase delay before the flag clears.
	ScheduleFinish
	// CancelTransition drops any armed transition timers.
	CancelTransition
	// Prewarm fetches details for the current item.
	Prewarm
)

// Reduce applies an event and returns the next state with the effects the
// caller must carry out.
func Reduce(s State, ev Event) (State, []Effect) {
	n := len(s.Items)

	switch e := ev.(type) {
	case Advance:
		if s.Transitioning || n < 2 {
			return s, nil
		}
		return begin(s, (s.Current+1)%n, Forward)

	case Retreat:
		if s.Transitioning || n < 2 {
			return s, nil
		}
		return begin(s, (s.Current-1+n)%n, Backward)

	case JumpTo:
		if s.Transitioning || e.Index == s.Current || e.Index < 0 || e.Index >= n {
			return s, nil
		}
		return begin(s, e.Index, "")

	case Settle:
		if !s.Transitioning {
			return s, nil
		}
		s.Current = s.target
		if s.intent != "" {
			s.Direction = s.intent
		} else {
			s.Direction = Derive(s.Previous, s.Current, n)
		}
		effects := []Effect{ScheduleFinish}
		if s.Current != s.Previous {
			effects = append(effects, Prewarm)
		}
		return s, effects

	case Finish:
		s.Transitioning = false
		s.intent = ""
		return s, nil

	case Hover:
		s.Hovered = e.On
		return s, nil

	case DetailsSet:
		s.DetailsOpen = e.Open
		return s, nil

	case SetItems:
		next := NewState(e.Items)
		next.Hovered = s.Hovered
		next.DetailsOpen = s.DetailsOpen
		effects := []Effect{CancelTransition}
		if len(e.Items) > 0 {
			effects = append(effects, Prewarm)
		}
		return next, effects
	}

	return s, nil
}

func begin(s State, target int, intent Direction) (State, []Effect) {
	s.Previous = s.Current
	s.Transitioning = true
	s.target = target
	s.intent = intent
	return s, []Effect{ScheduleSettle}
}

// Derive computes the slide direction from the previous and current index,
// treating last-to-first as forward and first-to-last as backward.
func Derive(previous, current, n int) Direction {
	switch {
	case previous == n-1 && current == 0:
		return Forward
	case previous == 0 && current == n-1:
		return Backward
	case current > previous:
		return Forward
	}
	return Backward
}
