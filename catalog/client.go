package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/apex/log"
)

const detailsAppend = "credits,videos,recommendations,external_ids"

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

func New(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListByCategory fetches the first page of a category listing.
func (c *Client) ListByCategory(ctx context.Context, cat Category) ([]Item, error) {
	def, ok := categoryDefs[cat]
	if !ok {
		return nil, fmt.Errorf("unknown category %q", cat)
	}

	var resp listResponse
	if err := c.get(ctx, def.path, nil, &resp); err != nil {
		return nil, fmt.Errorf("list %s: %w", cat, err)
	}

	items := make([]Item, 0, len(resp.Results))
	for _, m := range resp.Results {
		it, err := m.item(def.kind)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", cat, err)
		}
		items = append(items, it)
	}
	return items, nil
}

// GetDetails fetches a single item with credits, videos, recommendations and
// external identifiers appended.
func (c *Client) GetDetails(ctx context.Context, id int, kind Kind) (*Details, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("details %d: unknown kind %q", id, kind)
	}

	q := url.Values{}
	q.Set("append_to_response", detailsAppend)

	var raw rawDetails
	path := "/" + kind.Path() + "/" + strconv.Itoa(id)
	if err := c.get(ctx, path, q, &raw); err != nil {
		return nil, fmt.Errorf("details %s %d: %w", kind, id, err)
	}

	d, err := raw.details(kind)
	if err != nil {
		return nil, fmt.Errorf("details %s %d: %w", kind, id, err)
	}
	return d, nil
}

// Search runs a multi-type search. People are dropped from the results.
func (c *Client) Search(ctx context.Context, query string) ([]Item, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("include_adult", "false")

	var resp listResponse
	if err := c.get(ctx, "/search/multi", q, &resp); err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	items := make([]Item, 0, len(resp.Results))
	for _, m := range resp.Results {
		kind, ok := resolveKind(m)
		if !ok {
			continue
		}
		it, err := m.item(kind)
		if err != nil {
			log.WithField("query", query).WithError(err).Debug("skipping search result")
			continue
		}
		items = append(items, it)
	}
	return items, nil
}

// SeasonEpisodes lists the episodes of one season of a series.
func (c *Client) SeasonEpisodes(ctx context.Context, seriesID, season int) ([]Episode, error) {
	var raw rawSeasonDetails
	path := fmt.Sprintf("/tv/%d/season/%d", seriesID, season)
	if err := c.get(ctx, path, nil, &raw); err != nil {
		return nil, fmt.Errorf("season %d of %d: %w", season, seriesID, err)
	}

	episodes := make([]Episode, 0, len(raw.Episodes))
	for _, e := range raw.Episodes {
		episodes = append(episodes, Episode{
			Number:   e.EpisodeNumber,
			Season:   e.SeasonNumber,
			Name:     e.Name,
			Overview: e.Overview,
			AirDate:  e.AirDate,
			Runtime:  e.Runtime,
			Rating:   e.VoteAverage,
		})
	}
	return episodes, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	if q == nil {
		q = url.Values{}
	}
	q.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, Message: statusMessage(resp.Body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

func statusMessage(body io.Reader) string {
	var payload struct {
		StatusMessage string `json:"status_message"`
	}
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil {
		return ""
	}
	if json.Unmarshal(data, &payload) == nil && payload.StatusMessage != "" {
		return payload.StatusMessage
	}
	return strings.TrimSpace(string(data))
}
