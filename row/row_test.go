package row

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reel/catalog"
	"reel/reveal"
)

func items(n int) []catalog.Item {
	out := make([]catalog.Item, n)
	for i := range out {
		out[i] = catalog.Item{ID: i + 1, Kind: catalog.KindMovie}
	}
	return out
}

func ids(list []catalog.Item) []int {
	out := make([]int, len(list))
	for i, it := range list {
		out[i] = it.ID
	}
	return out
}

func TestRow_Paging(t *testing.T) {
	r := New(catalog.PopularMovies, items(7), 3, nil)
	assert.Equal(t, "Popular Movies", r.Title)

	assert.False(t, r.CanScrollLeft())
	assert.True(t, r.CanScrollRight())
	assert.Equal(t, []int{1, 2, 3}, ids(r.Visible()))

	require.True(t, r.ScrollRight())
	assert.Equal(t, []int{4, 5, 6}, ids(r.Visible()))

	require.True(t, r.ScrollRight())
	assert.Equal(t, []int{5, 6, 7}, ids(r.Visible()), "last page is clamped to a full window")
	assert.False(t, r.CanScrollRight())
	assert.False(t, r.ScrollRight())

	require.True(t, r.ScrollLeft())
	assert.Equal(t, 1, r.Offset())
	require.True(t, r.ScrollLeft())
	assert.Equal(t, 0, r.Offset())
	assert.False(t, r.ScrollLeft())
}

func TestRow_ShortRowHasNoArrows(t *testing.T) {
	r := New(catalog.UpcomingMovies, items(2), 5, nil)
	assert.False(t, r.CanScrollLeft())
	assert.False(t, r.CanScrollRight())
	assert.Len(t, r.Visible(), 2)

	empty := New(catalog.UpcomingMovies, nil, 5, nil)
	assert.Empty(t, empty.Visible())
}

func TestRow_SetWidthClampsOffset(t *testing.T) {
	r := New(catalog.PopularMovies, items(6), 2, nil)
	r.ScrollRight()
	r.ScrollRight()
	require.Equal(t, 4, r.Offset())

	r.SetWidth(4)
	assert.Equal(t, 2, r.Offset())

	r.SetWidth(0)
	assert.Equal(t, 1, r.Width())
}

func TestRow_LazyReveal(t *testing.T) {
	obs := reveal.NewObserver()
	rows := []*Row{
		New(catalog.TrendingMovies, items(4), 2, obs),
		New(catalog.TrendingSeries, items(4), 2, obs),
	}

	Reveal(obs, Viewport(rows, 0, 0))
	assert.True(t, rows[0].Shown())
	assert.False(t, rows[1].Shown())
	assert.True(t, rows[0].ImageReady(rows[0].Items[0]))
	assert.False(t, rows[0].ImageReady(rows[0].Items[2]), "off-window cards wait")

	rows[0].ScrollRight()
	Reveal(obs, Viewport(rows, 0, 0))
	assert.True(t, rows[0].ImageReady(rows[0].Items[2]))

	Reveal(obs, Viewport(rows, 1, 1))
	assert.True(t, rows[1].Shown())
	assert.True(t, rows[0].Shown(), "reveal is one-shot and never reverts")
}
