package tui

import (
	"context"
	"sync"

	"github.com/apex/log"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/browser"

	"reel/catalog"
	"reel/home"
	"reel/search"
)

type homeLoadedMsg struct {
	requestID int
	home      *home.Home
	err       error
}

// carouselMsg and searchMsg only signal a change; the model reads the
// controllers directly so late deliveries cannot roll state back.
type carouselMsg struct{}

type searchMsg struct{}

type detailsMsg struct {
	requestID int
	details   *catalog.Details
	err       error
}

type ratingMsg struct {
	id     int
	rating *catalog.IMDbRating
	err    error
}

type statusMsg string

// notifier forwards controller callbacks into the program. Sends never
// block the caller, which may be the event loop itself. Messages sent before
// a program is bound are dropped.
type notifier struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

func (n *notifier) bind(send func(tea.Msg)) {
	n.mu.Lock()
	n.send = send
	n.mu.Unlock()
}

func (n *notifier) Send(msg tea.Msg) {
	n.mu.Lock()
	send := n.send
	n.mu.Unlock()
	if send != nil {
		go send(msg)
	}
}

func loadHome(ctx context.Context, l home.Lister, requestID int) tea.Cmd {
	return func() tea.Msg {
		h, err := home.Load(ctx, l)
		return homeLoadedMsg{requestID: requestID, home: h, err: err}
	}
}

func fetchDetails(ctx context.Context, c Catalog, item catalog.Item, requestID int) tea.Cmd {
	return func() tea.Msg {
		d, err := c.GetDetails(ctx, item.ID, item.Kind)
		if err != nil {
			log.WithField("id", item.ID).WithField("kind", string(item.Kind)).WithError(err).Warn("details fetch failed")
		}
		return detailsMsg{requestID: requestID, details: d, err: err}
	}
}

func fetchRating(ctx context.Context, r RatingFetcher, id int, imdbID string) tea.Cmd {
	return func() tea.Msg {
		rating, err := r.Fetch(ctx, imdbID)
		if err != nil {
			log.WithField("imdb_id", imdbID).WithError(err).Debug("rating unavailable")
		}
		return ratingMsg{id: id, rating: rating, err: err}
	}
}

func selectResult(ctx context.Context, s *search.Controller, item catalog.Item) tea.Cmd {
	return func() tea.Msg {
		// the controller logs failures and leaves the overlay open
		_ = s.Select(ctx, item)
		return nil
	}
}

func openURL(open func(string) error, url string) tea.Cmd {
	return func() tea.Msg {
		if err := open(url); err != nil {
			log.WithField("url", url).WithError(err).Warn("open browser failed")
			return statusMsg("could not open browser: " + err.Error())
		}
		return statusMsg("opened player in browser")
	}
}

// OpenBrowser launches the system browser on url.
func OpenBrowser(url string) error {
	return browser.OpenURL(url)
}
