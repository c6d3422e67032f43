package details

import "reel/catalog"

const (
	defaultSeasons  = 1
	defaultEpisodes = 10
)

// Selector tracks the chosen season and episode for a series.
type Selector struct {
	totalSeasons  int
	episodeCounts map[int]int

	Season  int
	Episode int
}

func NewSelector(d *catalog.Details) *Selector {
	s := &Selector{totalSeasons: defaultSeasons, Season: 1, Episode: 1}
	if d == nil {
		return s
	}
	if d.SeasonCount != nil && *d.SeasonCount > 0 {
		s.totalSeasons = *d.SeasonCount
	}
	s.episodeCounts = make(map[int]int, len(d.EpisodeCounts))
	for season, count := range d.EpisodeCounts {
		if season == 0 || count <= 0 {
			continue
		}
		s.episodeCounts[season] = count
	}
	return s
}

// Seasons lists the selectable season numbers.
func (s *Selector) Seasons() []int {
	return numbers(s.totalSeasons)
}

// EpisodeCount reports how many episodes a season offers.
func (s *Selector) EpisodeCount(season int) int {
	if n, ok := s.episodeCounts[season]; ok {
		return n
	}
	return defaultEpisodes
}

// Episodes lists the selectable episode numbers of the current season.
func (s *Selector) Episodes() []int {
	return numbers(s.EpisodeCount(s.Season))
}

// SelectSeason changes season and resets the episode to the first one.
func (s *Selector) SelectSeason(season int) bool {
	if season < 1 || season > s.totalSeasons {
		return false
	}
	s.Season = season
	s.Episode = 1
	return true
}

func (s *Selector) SelectEpisode(episode int) bool {
	if episode < 1 || episode > s.EpisodeCount(s.Season) {
		return false
	}
	s.Episode = episode
	return true
}

func numbers(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}
