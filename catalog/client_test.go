package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"status_message":"Invalid API key"}`))
			return
		}
		body, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_ListByCategory(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"/tv/popular": `{"page":1,"results":[
			{"id":1399,"name":"Game of Thrones","poster_path":"/p.jpg","backdrop_path":"/b.jpg","vote_average":8.4,"first_air_date":"2011-04-17","overview":"Seven noble families"},
			{"id":66732,"name":"Stranger Things","first_air_date":"2016-07-15"}
		]}`,
	})
	c := New(srv.URL, "test-key")

	items, err := c.ListByCategory(context.Background(), PopularSeries)
	require.NoError(t, err)
	require.Len(t, items, 2)

	got := items[0]
	assert.Equal(t, 1399, got.ID)
	assert.Equal(t, KindSeries, got.Kind)
	assert.Equal(t, "Game of Thrones", got.Title)
	assert.Equal(t, "/b.jpg", got.BackdropPath)
	assert.Equal(t, "2011-04-17", got.Date)
	assert.Equal(t, "2011", got.Year())
	require.NotNil(t, got.Rating)
	assert.InDelta(t, 8.4, *got.Rating, 0.001)

	assert.Nil(t, items[1].Rating)
	assert.Empty(t, items[1].PosterPath)
}

func TestClient_ListByCategory_MissingIdentifier(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"/movie/popular": `{"results":[{"title":"No id"}]}`,
	})
	c := New(srv.URL, "test-key")

	_, err := c.ListByCategory(context.Background(), PopularMovies)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestClient_StatusErrors(t *testing.T) {
	srv := newTestServer(t, map[string]string{})

	_, err := New(srv.URL, "wrong").ListByCategory(context.Background(), UpcomingMovies)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnauthorized, se.Code)
	assert.Equal(t, "Invalid API key", se.Message)

	_, err = New(srv.URL, "test-key").GetDetails(context.Background(), 1, KindMovie)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_GetDetails_Series(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"/tv/1399": `{
			"id":1399,"name":"Game of Thrones","first_air_date":"2011-04-17",
			"number_of_seasons":3,
			"seasons":[
				{"season_number":0,"episode_count":14},
				{"season_number":1,"episode_count":8},
				{"season_number":2,"episode_count":10}
			],
			"external_ids":{"imdb_id":"tt0944947"},
			"credits":{"cast":[
				{"id":2,"name":"Kit Harington","character":"Jon Snow","order":1},
				{"id":1,"name":"Emilia Clarke","character":"Daenerys","order":0}
			]},
			"videos":{"results":[{"key":"abc","site":"YouTube","type":"Trailer","name":"Trailer"}]},
			"recommendations":{"results":[{"id":1402,"name":"The Walking Dead","media_type":"tv"}]}
		}`,
	})
	c := New(srv.URL, "test-key")

	d, err := c.GetDetails(context.Background(), 1399, KindSeries)
	require.NoError(t, err)

	require.NotNil(t, d.SeasonCount)
	assert.Equal(t, 3, *d.SeasonCount)
	assert.Equal(t, map[int]int{1: 8, 2: 10}, d.EpisodeCounts)
	assert.Equal(t, "tt0944947", d.ExternalID)
	require.Len(t, d.Cast, 2)
	assert.Equal(t, "Emilia Clarke", d.Cast[0].Name)
	assert.True(t, d.Hints.HasSeasons)
	assert.True(t, d.Hints.HasName)
	assert.False(t, d.Hints.HasTitle)

	trailer, ok := d.Trailer()
	require.True(t, ok)
	assert.Equal(t, "abc", trailer.Key)

	require.Len(t, d.Recommendations, 1)
	assert.Equal(t, KindSeries, d.Recommendations[0].Kind)
}

func TestClient_GetDetails_PrefersTopLevelIMDbID(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"/movie/603": `{"id":603,"title":"The Matrix","imdb_id":"tt0133093","external_ids":{"imdb_id":"tt9999999"}}`,
	})
	c := New(srv.URL, "test-key")

	d, err := c.GetDetails(context.Background(), 603, KindMovie)
	require.NoError(t, err)
	assert.Equal(t, "tt0133093", d.ExternalID)
	assert.Nil(t, d.SeasonCount)
	assert.Empty(t, d.EpisodeCounts)
}

func TestClient_Search(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"/search/multi": `{"results":[
			{"id":268,"title":"Batman","media_type":"movie","release_date":"1989-06-23"},
			{"id":2098,"name":"Batman: The Animated Series","media_type":"tv"},
			{"id":3894,"name":"Christian Bale","media_type":"person"},
			{"id":414906,"title":"The Batman"},
			{"id":0,"title":"broken","media_type":"movie"}
		]}`,
	})
	c := New(srv.URL, "test-key")

	items, err := c.Search(context.Background(), "batman")
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, KindMovie, items[0].Kind)
	assert.Equal(t, KindSeries, items[1].Kind)
	assert.Equal(t, "Batman: The Animated Series", items[1].Title)
	assert.Equal(t, KindMovie, items[2].Kind)
}

func TestClient_SeasonEpisodes(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"/tv/1399/season/1": `{"season_number":1,"episodes":[
			{"episode_number":1,"season_number":1,"name":"Winter Is Coming"},
			{"episode_number":2,"season_number":1,"name":"The Kingsroad"}
		]}`,
	})
	c := New(srv.URL, "test-key")

	eps, err := c.SeasonEpisodes(context.Background(), 1399, 1)
	require.NoError(t, err)
	require.Len(t, eps, 2)
	assert.Equal(t, "The Kingsroad", eps[1].Name)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("tv")
	require.NoError(t, err)
	assert.Equal(t, KindSeries, k)
	assert.Equal(t, "tv", k.Path())

	_, err = ParseKind("person")
	assert.Error(t, err)
}

func TestImageURL(t *testing.T) {
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/abc.jpg", ImageURL("https://image.tmdb.org/t/p/", SizeCard, "/abc.jpg"))
	assert.Equal(t, "https://image.tmdb.org/t/p/original/abc.jpg", ImageURL("https://image.tmdb.org/t/p", "", "abc.jpg"))
	assert.Empty(t, ImageURL("https://image.tmdb.org/t/p", SizeCard, ""))
}
