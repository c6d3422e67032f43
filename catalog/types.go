package catalog

// Wire shapes of the TMDB v3 responses this client consumes.

type listResponse struct {
	Page         int        `json:"page"`
	Results      []rawMedia `json:"results"`
	TotalPages   int        `json:"total_pages"`
	TotalResults int        `json:"total_results"`
}

type rawMedia struct {
	ID           int      `json:"id"`
	Title        string   `json:"title,omitempty"`
	Name         string   `json:"name,omitempty"`
	Overview     string   `json:"overview"`
	PosterPath   string   `json:"poster_path"`
	BackdropPath string   `json:"backdrop_path"`
	VoteAverage  *float64 `json:"vote_average"`
	ReleaseDate  string   `json:"release_date,omitempty"`
	FirstAirDate string   `json:"first_air_date,omitempty"`
	MediaType    string   `json:"media_type,omitempty"`
}

type rawDetails struct {
	rawMedia

	Genres          []Genre      `json:"genres"`
	Runtime         int          `json:"runtime"`
	EpisodeRunTime  []int        `json:"episode_run_time"`
	Tagline         string       `json:"tagline"`
	Status          string       `json:"status"`
	NumberOfSeasons *int         `json:"number_of_seasons"`
	Seasons         []rawSeason  `json:"seasons"`
	IMDbID          string       `json:"imdb_id"`
	ExternalIDs     *externalIDs `json:"external_ids"`
	Credits         struct {
		Cast []rawCast `json:"cast"`
	} `json:"credits"`
	Videos struct {
		Results []rawVideo `json:"results"`
	} `json:"videos"`
	Recommendations struct {
		Results []rawMedia `json:"results"`
	} `json:"recommendations"`
}

type externalIDs struct {
	IMDbID      string `json:"imdb_id"`
	TVDBID      *int   `json:"tvdb_id"`
	FacebookID  string `json:"facebook_id"`
	InstagramID string `json:"instagram_id"`
	TwitterID   string `json:"twitter_id"`
}

type rawSeason struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	SeasonNumber int    `json:"season_number"`
	EpisodeCount int    `json:"episode_count"`
	AirDate      string `json:"air_date"`
}

type rawSeasonDetails struct {
	ID           int          `json:"id"`
	Name         string       `json:"name"`
	SeasonNumber int          `json:"season_number"`
	Episodes     []rawEpisode `json:"episodes"`
}

type rawEpisode struct {
	ID            int      `json:"id"`
	Name          string   `json:"name"`
	Overview      string   `json:"overview"`
	StillPath     string   `json:"still_path"`
	EpisodeNumber int      `json:"episode_number"`
	SeasonNumber  int      `json:"season_number"`
	VoteAverage   *float64 `json:"vote_average"`
	AirDate       string   `json:"air_date"`
	Runtime       int      `json:"runtime"`
}

type rawCast struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path"`
	Order       int    `json:"order"`
}

type rawVideo struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Site     string `json:"site"`
	Type     string `json:"type"`
	Official bool   `json:"official"`
}
