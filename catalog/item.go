package catalog

import (
	"fmt"
	"sort"
)

type Kind string

const (
	KindMovie  Kind = "movie"
	KindSeries Kind = "series"
)

// Path returns the segment the catalog API uses for the kind.
func (k Kind) Path() string {
	if k == KindSeries {
		return "tv"
	}
	return "movie"
}

func (k Kind) Valid() bool {
	return k == KindMovie || k == KindSeries
}

// ParseKind accepts both the catalog's wire names and our own.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "movie":
		return KindMovie, nil
	case "tv", "series":
		return KindSeries, nil
	}
	return "", fmt.Errorf("unknown kind %q", s)
}

// Item is a movie or series summary. It is immutable once built.
type Item struct {
	ID           int      `json:"id"`
	Kind         Kind     `json:"kind"`
	Title        string   `json:"title"`
	PosterPath   string   `json:"poster_path,omitempty"`
	BackdropPath string   `json:"backdrop_path,omitempty"`
	Overview     string   `json:"overview,omitempty"`
	Rating       *float64 `json:"rating,omitempty"`
	Date         string   `json:"date,omitempty"`
}

// Key identifies an item across kinds.
func (i Item) Key() string {
	return fmt.Sprintf("%s:%d", i.Kind, i.ID)
}

func (i Item) Year() string {
	if len(i.Date) >= 4 {
		return i.Date[:4]
	}
	return ""
}

type CastMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character,omitempty"`
	ProfilePath string `json:"profile_path,omitempty"`
}

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Video struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Site string `json:"site"`
	Type string `json:"type"`
}

type Episode struct {
	Number   int      `json:"number"`
	Season   int      `json:"season"`
	Name     string   `json:"name"`
	Overview string   `json:"overview,omitempty"`
	AirDate  string   `json:"air_date,omitempty"`
	Runtime  int      `json:"runtime,omitempty"`
	Rating   *float64 `json:"rating,omitempty"`
}

// KindHints keeps the response fields that reveal whether an arbitrary
// object describes a series.
type KindHints struct {
	MediaType    string `json:"media_type,omitempty"`
	FirstAirDate string `json:"first_air_date,omitempty"`
	HasTitle     bool   `json:"has_title"`
	HasName      bool   `json:"has_name"`
	HasSeasons   bool   `json:"has_seasons"`
}

// Details is a fully hydrated item as held by an open details view.
type Details struct {
	Item

	Cast            []CastMember `json:"cast,omitempty"`
	SeasonCount     *int         `json:"season_count,omitempty"`
	EpisodeCounts   map[int]int  `json:"episode_counts,omitempty"`
	ExternalID      string       `json:"external_id,omitempty"`
	Genres          []Genre      `json:"genres,omitempty"`
	Runtime         int          `json:"runtime,omitempty"`
	Tagline         string       `json:"tagline,omitempty"`
	Status          string       `json:"status,omitempty"`
	Videos          []Video      `json:"videos,omitempty"`
	Recommendations []Item       `json:"recommendations,omitempty"`
	Hints           KindHints    `json:"hints"`
}

// Trailer returns the first YouTube trailer, if any.
func (d *Details) Trailer() (Video, bool) {
	for _, v := range d.Videos {
		if v.Site == "YouTube" && v.Type == "Trailer" {
			return v, true
		}
	}
	return Video{}, false
}

// resolveKind uses the explicit media type when present, else the populated
// title field.
func resolveKind(m rawMedia) (Kind, bool) {
	switch m.MediaType {
	case "movie":
		return KindMovie, true
	case "tv":
		return KindSeries, true
	case "":
	default:
		return "", false
	}
	if m.Title != "" {
		return KindMovie, true
	}
	if m.Name != "" {
		return KindSeries, true
	}
	return "", false
}

func (m rawMedia) item(kind Kind) (Item, error) {
	if m.ID == 0 {
		return Item{}, ErrMalformed
	}

	it := Item{
		ID:           m.ID,
		Kind:         kind,
		PosterPath:   m.PosterPath,
		BackdropPath: m.BackdropPath,
		Overview:     m.Overview,
		Rating:       m.VoteAverage,
	}
	if kind == KindSeries {
		it.Title = firstNonEmpty(m.Name, m.Title)
		it.Date = firstNonEmpty(m.FirstAirDate, m.ReleaseDate)
	} else {
		it.Title = firstNonEmpty(m.Title, m.Name)
		it.Date = firstNonEmpty(m.ReleaseDate, m.FirstAirDate)
	}
	return it, nil
}

func (d rawDetails) details(kind Kind) (*Details, error) {
	it, err := d.rawMedia.item(kind)
	if err != nil {
		return nil, err
	}

	out := &Details{
		Item:        it,
		SeasonCount: d.NumberOfSeasons,
		Genres:      d.Genres,
		Runtime:     d.Runtime,
		Tagline:     d.Tagline,
		Status:      d.Status,
		Hints: KindHints{
			MediaType:    d.MediaType,
			FirstAirDate: d.FirstAirDate,
			HasTitle:     d.Title != "",
			HasName:      d.Name != "",
			HasSeasons:   d.NumberOfSeasons != nil,
		},
	}
	if out.Runtime == 0 && len(d.EpisodeRunTime) > 0 {
		out.Runtime = d.EpisodeRunTime[0]
	}

	out.ExternalID = d.IMDbID
	if out.ExternalID == "" && d.ExternalIDs != nil {
		out.ExternalID = d.ExternalIDs.IMDbID
	}

	for _, s := range d.Seasons {
		if s.SeasonNumber == 0 {
			continue
		}
		if out.EpisodeCounts == nil {
			out.EpisodeCounts = make(map[int]int)
		}
		out.EpisodeCounts[s.SeasonNumber] = s.EpisodeCount
	}

	cast := d.Credits.Cast
	sort.SliceStable(cast, func(i, j int) bool { return cast[i].Order < cast[j].Order })
	for _, c := range cast {
		out.Cast = append(out.Cast, CastMember{
			ID:          c.ID,
			Name:        c.Name,
			Character:   c.Character,
			ProfilePath: c.ProfilePath,
		})
	}

	for _, v := range d.Videos.Results {
		out.Videos = append(out.Videos, Video{Key: v.Key, Name: v.Name, Site: v.Site, Type: v.Type})
	}

	for _, r := range d.Recommendations.Results {
		k, ok := resolveKind(r)
		if !ok {
			k = kind
		}
		rec, err := r.item(k)
		if err != nil {
			continue
		}
		out.Recommendations = append(out.Recommendations, rec)
	}

	return out, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
