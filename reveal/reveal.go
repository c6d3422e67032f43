// Package reveal delivers one-shot "entered the viewport" notifications.
package reveal

import "sync"

// Observer tracks keyed subscribers. Each key fires at most once: the first
// positive visibility signal runs its callback and drops the subscription.
type Observer struct {
	mu       sync.Mutex
	pending  map[string][]*subscription
	revealed map[string]bool
}

type subscription struct {
	fn func()
}

func NewObserver() *Observer {
	return &Observer{
		pending:  make(map[string][]*subscription),
		revealed: make(map[string]bool),
	}
}

// Observe subscribes onVisible to key. If key was already revealed the
// callback runs immediately. The returned cancel is safe to call repeatedly.
func (o *Observer) Observe(key string, onVisible func()) (cancel func()) {
	o.mu.Lock()
	if o.revealed[key] {
		o.mu.Unlock()
		if onVisible != nil {
			onVisible()
		}
		return func() {}
	}
	sub := &subscription{fn: onVisible}
	o.pending[key] = append(o.pending[key], sub)
	o.mu.Unlock()

	return func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		o.remove(key, sub)
	}
}

// Signal asks visible about every subscribed key and fires the ones that
// answer true. It returns the keys revealed by this call.
func (o *Observer) Signal(visible func(key string) bool) []string {
	var (
		keys  []string
		fired []func()
	)

	o.mu.Lock()
	for key, subs := range o.pending {
		if !visible(key) {
			continue
		}
		o.revealed[key] = true
		delete(o.pending, key)
		keys = append(keys, key)
		for _, s := range subs {
			if s.fn != nil {
				fired = append(fired, s.fn)
			}
		}
	}
	o.mu.Unlock()

	for _, fn := range fired {
		fn()
	}
	return keys
}

// Revealed reports whether key has been seen.
func (o *Observer) Revealed(key string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.revealed[key]
}

// pendingKeys reports how many keys still wait for their first signal.
func (o *Observer) pendingKeys() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.pending)
}

func (o *Observer) remove(key string, sub *subscription) {
	subs := o.pending[key]
	for i, s := range subs {
		if s == sub {
			subs = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	if len(subs) == 0 {
		delete(o.pending, key)
		return
	}
	o.pending[key] = subs
}
