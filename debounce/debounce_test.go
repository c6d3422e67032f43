package debounce

import (
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) add(s string) func() {
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.calls = append(r.calls, s)
	}
}

func (r *recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func TestDebouncer_CancelReplace(t *testing.T) {
	c := clockwork.NewFakeClock()
	d := New(c, 500*time.Millisecond)

	var r recorder
	d.Call(r.add("bat"))
	c.Advance(300 * time.Millisecond)
	d.Call(r.add("batman"))
	c.Advance(300 * time.Millisecond)

	assert.Empty(t, r.Calls())

	c.Advance(200 * time.Millisecond)
	require.Eventually(t, func() bool { return len(r.Calls()) == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, []string{"batman"}, r.Calls())
	assert.False(t, d.Flush(), "nothing left to flush")
}

func TestDebouncer_Flush(t *testing.T) {
	c := clockwork.NewFakeClock()
	d := New(c, 500*time.Millisecond)

	var r recorder
	d.Call(r.add("alien"))

	assert.True(t, d.Flush())
	assert.Equal(t, []string{"alien"}, r.Calls())

	c.Advance(time.Second)
	assert.Equal(t, []string{"alien"}, r.Calls())
	assert.False(t, d.Flush())
}

func TestDebouncer_Cancel(t *testing.T) {
	c := clockwork.NewFakeClock()
	d := New(c, 500*time.Millisecond)

	var r recorder
	d.Call(r.add("alien"))
	assert.True(t, d.Cancel())
	assert.False(t, d.Cancel())

	c.Advance(time.Second)
	assert.Empty(t, r.Calls())
}

func TestDebouncer_Stop(t *testing.T) {
	c := clockwork.NewFakeClock()
	d := New(c, 100*time.Millisecond)

	var r recorder
	d.Call(r.add("first"))
	d.Stop()
	d.Call(r.add("second"))

	c.Advance(time.Second)
	assert.Empty(t, r.Calls())
	assert.False(t, d.Flush())
}
