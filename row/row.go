// Package row models a horizontally scrolling category row.
package row

import (
	"reel/catalog"
	"reel/reveal"
)

// Row is one titled strip of cards. Width is the number of cards that fit
// on screen at once; scrolling moves by a full page.
type Row struct {
	Category catalog.Category
	Title    string
	Items    []catalog.Item

	offset int
	width  int
	obs    *reveal.Observer
}

func New(cat catalog.Category, items []catalog.Item, width int, obs *reveal.Observer) *Row {
	if obs == nil {
		obs = reveal.NewObserver()
	}
	r := &Row{
		Category: cat,
		Title:    cat.Title(),
		Items:    items,
		obs:      obs,
	}
	r.SetWidth(width)

	obs.Observe(r.Key(), func() {
		for _, it := range r.Items {
			obs.Observe(r.cardKey(it), nil)
		}
	})
	return r
}

// Key is the reveal key of the row itself.
func (r *Row) Key() string {
	return "row:" + string(r.Category)
}

func (r *Row) cardKey(it catalog.Item) string {
	return r.Key() + "/" + it.Key()
}

func (r *Row) Offset() int { return r.offset }
func (r *Row) Width() int  { return r.width }

// SetWidth changes the page size and keeps the offset in range.
func (r *Row) SetWidth(n int) {
	if n < 1 {
		n = 1
	}
	r.width = n
	r.offset = r.clamp(r.offset)
}

func (r *Row) CanScrollLeft() bool {
	return r.offset > 0
}

func (r *Row) CanScrollRight() bool {
	return r.offset+r.width < len(r.Items)
}

func (r *Row) ScrollLeft() bool {
	if !r.CanScrollLeft() {
		return false
	}
	r.offset = r.clamp(r.offset - r.width)
	return true
}

func (r *Row) ScrollRight() bool {
	if !r.CanScrollRight() {
		return false
	}
	r.offset = r.clamp(r.offset + r.width)
	return true
}

// Visible returns the items inside the current window.
func (r *Row) Visible() []catalog.Item {
	end := r.offset + r.width
	if end > len(r.Items) {
		end = len(r.Items)
	}
	return r.Items[r.offset:end]
}

// Shown reports whether the row has entered the viewport at least once.
func (r *Row) Shown() bool {
	return r.obs.Revealed(r.Key())
}

// ImageReady reports whether the item's poster may be loaded.
func (r *Row) ImageReady(it catalog.Item) bool {
	return r.obs.Revealed(r.cardKey(it))
}

func (r *Row) inWindow(key string) bool {
	for _, it := range r.Visible() {
		if r.cardKey(it) == key {
			return true
		}
	}
	return false
}

func (r *Row) clamp(offset int) int {
	limit := len(r.Items) - r.width
	if offset > limit {
		offset = limit
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}

// Viewport returns the visibility predicate for rows[first:last+1] being on
// screen. Cards count as visible only inside their row's scroll window.
func Viewport(rows []*Row, first, last int) func(string) bool {
	onScreen := make(map[string]*Row)
	for i, r := range rows {
		if i >= first && i <= last {
			onScreen[r.Key()] = r
		}
	}
	return func(key string) bool {
		if _, ok := onScreen[key]; ok {
			return true
		}
		for _, r := range onScreen {
			if r.inWindow(key) {
				return true
			}
		}
		return false
	}
}

// Reveal signals obs until no further keys fire, so cards subscribed by a
// row's own reveal are checked in the same pass.
func Reveal(obs *reveal.Observer, visible func(string) bool) {
	for {
		if fired := obs.Signal(visible); len(fired) == 0 {
			return
		}
	}
}
