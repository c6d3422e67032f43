// Package details models the details view: kind inference, season and
// episode selection, and the embed URL handed to the third-party player.
package details

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"reel/catalog"
)

// ErrExternalIDFallback is attached to an Embed built from the catalog id
// because the series carries no external identifier. It is not fatal.
var ErrExternalIDFallback = errors.New("no external id, falling back to catalog id")

// InferKind decides whether a fetched object describes a series.
func InferKind(h catalog.KindHints) catalog.Kind {
	switch {
	case h.HasSeasons,
		h.FirstAirDate != "",
		h.MediaType == "tv" || h.MediaType == string(catalog.KindSeries),
		h.HasName && !h.HasTitle:
		return catalog.KindSeries
	}
	return catalog.KindMovie
}

// KindOf prefers the inferred kind and falls back to the requested one when
// the object carries no hints at all.
func KindOf(d *catalog.Details) catalog.Kind {
	h := d.Hints
	if h == (catalog.KindHints{}) && d.Kind.Valid() {
		return d.Kind
	}
	return InferKind(h)
}

type Embed struct {
	URL      string
	Kind     catalog.Kind
	Season   int
	Episode  int
	Fallback bool
	Warning  error
}

// BuildEmbed constructs the player URL for a hydrated item.
func BuildEmbed(base string, d *catalog.Details, season, episode int) Embed {
	base = strings.TrimRight(base, "/")

	if KindOf(d) != catalog.KindSeries {
		return Embed{
			URL:  base + "/embed/movie/" + strconv.Itoa(d.ID),
			Kind: catalog.KindMovie,
		}
	}

	if season < 1 {
		season = 1
	}
	if episode < 1 {
		episode = 1
	}

	q := url.Values{}
	e := Embed{Kind: catalog.KindSeries, Season: season, Episode: episode}
	if d.ExternalID != "" {
		q.Set("imdb", d.ExternalID)
	} else {
		q.Set("tmdb", strconv.Itoa(d.ID))
		e.Fallback = true
		e.Warning = ErrExternalIDFallback
	}
	q.Set("season", strconv.Itoa(season))
	q.Set("episode", strconv.Itoa(episode))

	e.URL = base + "/embed/tv?" + encodeOrdered(q, "imdb", "tmdb", "season", "episode")
	return e
}

// encodeOrdered keeps the parameter order the player documents instead of
// url.Values' alphabetical order.
func encodeOrdered(q url.Values, keys ...string) string {
	var parts []string
	for _, k := range keys {
		if v := q.Get(k); v != "" {
			parts = append(parts, url.QueryEscape(k)+"="+url.QueryEscape(v))
		}
	}
	return strings.Join(parts, "&")
}
