package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/PuerkitoBio/goquery"
)

const imdbTitleURL = "https://www.imdb.com/title/%s/"

var ErrNoRating = errors.New("imdb: rating not found")

type IMDbRating struct {
	Rating string `json:"rating"`
	Votes  string `json:"votes"`
}

// RatingScraper reads the aggregate rating from an IMDb title page.
type RatingScraper struct {
	http    *http.Client
	pageURL string
}

func NewRatingScraper(hc *http.Client) *RatingScraper {
	if hc == nil {
		hc = &http.Client{}
	}
	return &RatingScraper{http: hc, pageURL: imdbTitleURL}
}

func (s *RatingScraper) Fetch(ctx context.Context, imdbID string) (*IMDbRating, error) {
	if imdbID == "" {
		return nil, errors.New("imdb: id is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf(s.pageURL, imdbID), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("imdb %s: %w", imdbID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("imdb %s: parse html: %w", imdbID, err)
	}

	meta := doc.Find("script[type='application/ld+json']").First().Text()
	if meta == "" {
		return nil, ErrNoRating
	}

	var ld struct {
		AggregateRating *struct {
			RatingValue float64 `json:"ratingValue"`
			RatingCount float64 `json:"ratingCount"`
		} `json:"aggregateRating"`
	}
	if err := json.Unmarshal([]byte(meta), &ld); err != nil {
		return nil, fmt.Errorf("imdb %s: %w: %v", imdbID, ErrMalformed, err)
	}
	if ld.AggregateRating == nil || ld.AggregateRating.RatingValue <= 0 {
		return nil, ErrNoRating
	}

	return &IMDbRating{
		Rating: fmt.Sprintf("%.1f", ld.AggregateRating.RatingValue),
		Votes:  FormatVotes(ld.AggregateRating.RatingCount),
	}, nil
}

func FormatVotes(votes float64) string {
	switch {
	case votes <= 0:
		return "N/A"
	case votes >= 1000000:
		return fmt.Sprintf("%.1fM", votes/1000000)
	case votes >= 1000:
		return fmt.Sprintf("%.1fK", votes/1000)
	}
	return fmt.Sprintf("%.0f", votes)
}
