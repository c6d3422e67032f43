package catalog

type Category string

const (
	PopularMovies    Category = "popular-movies"
	TopRatedMovies   Category = "top-rated-movies"
	UpcomingMovies   Category = "upcoming-movies"
	NowPlayingMovies Category = "now-playing-movies"
	PopularSeries    Category = "popular-series"
	TopRatedSeries   Category = "top-rated-series"
	TrendingMovies   Category = "trending-movies"
	TrendingSeries   Category = "trending-series"
)

type categoryDef struct {
	path  string
	kind  Kind
	title string
}

var categoryDefs = map[Category]categoryDef{
	PopularMovies:    {path: "/movie/popular", kind: KindMovie, title: "Popular Movies"},
	TopRatedMovies:   {path: "/movie/top_rated", kind: KindMovie, title: "Top Rated Movies"},
	UpcomingMovies:   {path: "/movie/upcoming", kind: KindMovie, title: "Upcoming"},
	NowPlayingMovies: {path: "/movie/now_playing", kind: KindMovie, title: "Now Playing"},
	PopularSeries:    {path: "/tv/popular", kind: KindSeries, title: "Popular Series"},
	TopRatedSeries:   {path: "/tv/top_rated", kind: KindSeries, title: "Top Rated Series"},
	TrendingMovies:   {path: "/trending/movie/week", kind: KindMovie, title: "Trending Movies"},
	TrendingSeries:   {path: "/trending/tv/week", kind: KindSeries, title: "Trending Series"},
}

// Categories lists every category in display order.
func Categories() []Category {
	return []Category{
		TrendingMovies,
		TrendingSeries,
		PopularMovies,
		PopularSeries,
		TopRatedMovies,
		TopRatedSeries,
		NowPlayingMovies,
		UpcomingMovies,
	}
}

func (c Category) Title() string {
	return categoryDefs[c].title
}

func (c Category) Kind() Kind {
	return categoryDefs[c].kind
}

func (c Category) Valid() bool {
	_, ok := categoryDefs[c]
	return ok
}
