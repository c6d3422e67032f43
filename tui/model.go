// Package tui is the terminal front-end: a single page with a navigation
// bar, banner carousel, category rows, search overlay and details modal.
package tui

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/apex/log"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jonboulle/clockwork"
	"github.com/pkg/browser"

	"reel/carousel"
	"reel/catalog"
	"reel/config"
	"reel/details"
	"reel/home"
	"reel/reveal"
	"reel/row"
	"reel/search"
)

type Catalog interface {
	home.Lister
	carousel.DetailsFetcher
	search.Searcher
}

type RatingFetcher interface {
	Fetch(ctx context.Context, imdbID string) (*catalog.IMDbRating, error)
}

type Options struct {
	Config  *config.Config
	Catalog Catalog
	Ratings RatingFetcher
	Clock   clockwork.Clock
	OpenURL func(string) error
}

type focus int

const (
	focusBanner focus = iota
	focusRows
	focusSearch
	focusResults
)

const (
	navHeight    = 1
	bannerHeight = 7
	rowHeight    = 3
	footerHeight = 2
	cardWidth    = 22
)

type Model struct {
	opts   Options
	ctx    context.Context
	cancel context.CancelFunc
	notify *notifier

	keys    keyMap
	help    help.Model
	spinner spinner.Model
	input   textinput.Model

	carousel *carousel.Controller
	search   *search.Controller
	observer *reveal.Observer

	home        *home.Home
	rows        []*row.Row
	rowIdx      int
	rowTop      int
	cardIdx     int
	resultIdx   int
	details     *details.View
	focus       focus
	loading     bool
	loadErr     error
	requestID   int
	detailsReq  int
	status      string
	width       int
	height      int
	overlayRows int
}

func New(opts Options) *Model {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.OpenURL == nil {
		opts.OpenURL = OpenBrowser
	}
	cfg := opts.Config

	ctx, cancel := context.WithCancel(context.Background())
	n := &notifier{}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(colorAccent)

	ti := textinput.New()
	ti.Placeholder = "Titles, people, genres"
	ti.Prompt = "⌕ "
	ti.CharLimit = 80

	m := &Model{
		opts:      opts,
		ctx:       ctx,
		cancel:    cancel,
		notify:    n,
		keys:      keys,
		help:      help.New(),
		spinner:   s,
		input:     ti,
		observer:  reveal.NewObserver(),
		loading:   true,
		requestID: 1,
	}

	m.carousel = carousel.New(opts.Catalog, carousel.Options{
		Interval:   cfg.CarouselInterval,
		Settle:     cfg.CarouselSettle,
		Transition: cfg.CarouselTransition,
		Clock:      opts.Clock,
		OnChange:   func(carousel.State) { n.Send(carouselMsg{}) },
	})
	m.search = search.New(opts.Catalog, opts.Catalog, func(d *catalog.Details) {
		n.Send(detailsMsg{details: d})
	}, search.Options{
		Debounce: cfg.SearchDebounce,
		Clock:    opts.Clock,
		OnChange: func(search.State) { n.Send(searchMsg{}) },
	})
	return m
}

// Run starts the program and blocks until the user quits or ctx ends.
func Run(ctx context.Context, opts Options) error {
	m := New(opts)
	defer m.Close()

	// the launcher writes to the terminal the program owns
	browser.Stdout, browser.Stderr = io.Discard, io.Discard

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	m.notify.bind(p.Send)

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Close tears down the controllers and their timers.
func (m *Model) Close() {
	m.carousel.Close()
	m.search.Close()
	m.cancel()
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, loadHome(m.ctx, m.opts.Catalog, m.requestID))
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.layout()
		return m, nil

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case homeLoadedMsg:
		return m, m.onHomeLoaded(msg)

	case carouselMsg:
		return m, nil

	case searchMsg:
		m.syncSearch()
		return m, nil

	case detailsMsg:
		return m, m.onDetails(msg)

	case ratingMsg:
		if msg.err == nil && m.details != nil && m.details.Details.ID == msg.id {
			m.details.Rating = msg.rating
		}
		return m, nil

	case statusMsg:
		m.status = string(msg)
		return m, nil

	case tea.MouseMsg:
		return m, m.onMouse(msg)

	case tea.KeyMsg:
		return m, m.onKey(msg)
	}
	return m, nil
}

func (m *Model) onHomeLoaded(msg homeLoadedMsg) tea.Cmd {
	if msg.requestID != m.requestID {
		return nil
	}
	m.loading = false
	if msg.err != nil {
		m.loadErr = msg.err
		m.home = nil
		m.rows = nil
		return nil
	}

	m.loadErr = nil
	m.home = msg.home
	m.observer = reveal.NewObserver()
	m.rows = make([]*row.Row, 0, len(msg.home.Sections))
	for _, s := range msg.home.Sections {
		m.rows = append(m.rows, row.New(s.Category, s.Items, m.cardsPerRow(), m.observer))
	}
	m.rowIdx, m.rowTop, m.cardIdx = 0, 0, 0

	banner := home.BannerSet(msg.home, m.opts.Config.BannerSize)
	m.carousel.SetItems(banner)
	m.layout()
	log.WithField("banner", len(banner)).WithField("rows", len(m.rows)).Info("home ready")
	return nil
}

func (m *Model) retry() tea.Cmd {
	m.loading = true
	m.loadErr = nil
	m.requestID++
	return tea.Batch(m.spinner.Tick, loadHome(m.ctx, m.opts.Catalog, m.requestID))
}

// syncSearch follows the overlay being closed by the controller, which
// happens after a result was opened.
func (m *Model) syncSearch() {
	s := m.search.State()
	if m.resultIdx >= len(s.Results) {
		m.resultIdx = 0
	}
	if !s.Open && (m.focus == focusSearch || m.focus == focusResults) {
		m.closeOverlay()
	}
}

func (m *Model) onDetails(msg detailsMsg) tea.Cmd {
	if msg.requestID != 0 && msg.requestID != m.detailsReq {
		return nil
	}
	if msg.err != nil || msg.details == nil {
		return nil
	}

	m.details = details.NewView(msg.details, m.opts.Config.EmbedBaseURL)
	m.carousel.SetDetailsOpen(true)

	if m.opts.Ratings != nil && msg.details.ExternalID != "" {
		return fetchRating(m.ctx, m.opts.Ratings, msg.details.ID, msg.details.ExternalID)
	}
	return nil
}

// openItem shows an item's details. The banner's pre-warmed details are
// used when they match.
func (m *Model) openItem(item catalog.Item) tea.Cmd {
	m.detailsReq++
	if d := m.carousel.Details(); d != nil && d.ID == item.ID && d.Kind == item.Kind {
		return m.onDetails(detailsMsg{requestID: m.detailsReq, details: d})
	}
	return fetchDetails(m.ctx, m.opts.Catalog, item, m.detailsReq)
}

func (m *Model) closeDetails() {
	m.details = nil
	m.carousel.SetDetailsOpen(false)
}

func (m *Model) openOverlay() tea.Cmd {
	m.search.Show()
	m.focus = focusSearch
	m.resultIdx = 0
	return m.input.Focus()
}

func (m *Model) closeOverlay() {
	m.input.Reset()
	m.input.Blur()
	m.resultIdx = 0
	if len(m.rows) > 0 {
		m.focus = focusRows
	} else {
		m.focus = focusBanner
	}
}

func (m *Model) onKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}

	switch {
	case m.details != nil:
		return m.onDetailsKey(msg)
	case m.focus == focusSearch:
		return m.onSearchKey(msg)
	case m.focus == focusResults:
		return m.onResultsKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return nil
	}

	if m.loading {
		return nil
	}
	if m.loadErr != nil {
		if key.Matches(msg, m.keys.Retry) {
			return m.retry()
		}
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Search):
		return m.openOverlay()
	case key.Matches(msg, m.keys.Hover):
		m.carousel.SetHovered(!m.carousel.State().Hovered)
		return nil
	}

	if m.focus == focusBanner {
		return m.onBannerKey(msg)
	}
	return m.onRowsKey(msg)
}

func (m *Model) onBannerKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Left):
		m.carousel.Retreat()
	case key.Matches(msg, m.keys.Right):
		m.carousel.Advance()
	case key.Matches(msg, m.keys.Jump):
		m.carousel.JumpTo(int(msg.Runes[0]-'1'))
	case key.Matches(msg, m.keys.Down):
		if len(m.rows) > 0 {
			m.focus = focusRows
			m.reveal()
		}
	case key.Matches(msg, m.keys.Enter):
		if it, ok := m.carousel.State().CurrentItem(); ok {
			return m.openItem(it)
		}
	}
	return nil
}

func (m *Model) onRowsKey(msg tea.KeyMsg) tea.Cmd {
	r := m.currentRow()
	if r == nil {
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.rowIdx == 0 {
			m.focus = focusBanner
			return nil
		}
		m.selectRow(m.rowIdx - 1)
	case key.Matches(msg, m.keys.Down):
		if m.rowIdx < len(m.rows)-1 {
			m.selectRow(m.rowIdx + 1)
		}
	case key.Matches(msg, m.keys.Left):
		if m.cardIdx > 0 {
			m.cardIdx--
		} else if r.ScrollLeft() {
			m.cardIdx = len(r.Visible()) - 1
		}
	case key.Matches(msg, m.keys.Right):
		if m.cardIdx < len(r.Visible())-1 {
			m.cardIdx++
		} else if r.ScrollRight() {
			m.cardIdx = 0
		}
	case key.Matches(msg, m.keys.PageLeft):
		r.ScrollLeft()
		m.clampCard()
	case key.Matches(msg, m.keys.PageRight):
		r.ScrollRight()
		m.clampCard()
	case key.Matches(msg, m.keys.Enter):
		if visible := r.Visible(); m.cardIdx < len(visible) {
			return m.openItem(visible[m.cardIdx])
		}
		return nil
	default:
		return nil
	}
	m.reveal()
	return nil
}

func (m *Model) onSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Esc):
		m.search.Dismiss(search.EscapeKey)
		m.closeOverlay()
		return nil
	case key.Matches(msg, m.keys.Enter):
		m.search.Submit()
		return nil
	case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.Down):
		if len(m.search.State().Results) > 0 {
			m.focus = focusResults
			m.input.Blur()
		}
		return nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != before {
		m.search.SetQuery(v)
	}
	return cmd
}

func (m *Model) onResultsKey(msg tea.KeyMsg) tea.Cmd {
	results := m.search.State().Results
	switch {
	case key.Matches(msg, m.keys.Esc):
		m.search.Dismiss(search.EscapeKey)
		m.closeOverlay()
	case key.Matches(msg, m.keys.Tab):
		m.focus = focusSearch
		return m.input.Focus()
	case key.Matches(msg, m.keys.Up):
		if m.resultIdx > 0 {
			m.resultIdx--
		} else {
			m.focus = focusSearch
			return m.input.Focus()
		}
	case key.Matches(msg, m.keys.Down):
		if m.resultIdx < len(results)-1 {
			m.resultIdx++
		}
	case key.Matches(msg, m.keys.Enter):
		if m.resultIdx < len(results) {
			return selectResult(m.ctx, m.search, results[m.resultIdx])
		}
	}
	return nil
}

func (m *Model) onDetailsKey(msg tea.KeyMsg) tea.Cmd {
	v := m.details
	switch {
	case key.Matches(msg, m.keys.Esc), key.Matches(msg, m.keys.Quit):
		m.closeDetails()
	case key.Matches(msg, m.keys.Play):
		e := v.Play()
		if e.Fallback {
			m.status = "no IMDb id for this series, using catalog id"
		}
	case key.Matches(msg, m.keys.Back):
		v.Back()
	case key.Matches(msg, m.keys.Open):
		if v.Mode == details.Player && v.Embed.URL != "" {
			return openURL(m.opts.OpenURL, v.Embed.URL)
		}
	case key.Matches(msg, m.keys.SeasonNext):
		v.StepSeason(1)
	case key.Matches(msg, m.keys.SeasonPrev):
		v.StepSeason(-1)
	case key.Matches(msg, m.keys.EpisodeNext):
		v.StepEpisode(1)
	case key.Matches(msg, m.keys.EpisodePrev):
		v.StepEpisode(-1)
	}
	return nil
}

func (m *Model) onMouse(msg tea.MouseMsg) tea.Cmd {
	inBanner := msg.Y >= navHeight && msg.Y < navHeight+bannerHeight

	if m.search.State().Open && msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		if !m.inSearch(msg.X, msg.Y) {
			m.search.Dismiss(search.OutsidePointer)
			m.closeOverlay()
		}
		return nil
	}

	if msg.Action == tea.MouseActionMotion && m.details == nil {
		if inBanner != m.carousel.State().Hovered {
			m.carousel.SetHovered(inBanner)
		}
	}
	return nil
}

// inSearch reports whether a cell lies on the nav bar's search box or on the
// results panel as currently rendered.
func (m *Model) inSearch(x, y int) bool {
	if y < navHeight {
		start, end := m.navSearchSpan()
		return x >= start && x < end
	}
	return y < navHeight+lipgloss.Height(m.renderOverlay())
}

func (m *Model) currentRow() *row.Row {
	if m.rowIdx < 0 || m.rowIdx >= len(m.rows) {
		return nil
	}
	return m.rows[m.rowIdx]
}

func (m *Model) selectRow(i int) {
	m.rowIdx = i
	m.clampCard()
	if vis := m.visibleRowCount(); m.rowIdx >= m.rowTop+vis {
		m.rowTop = m.rowIdx - vis + 1
	}
	if m.rowIdx < m.rowTop {
		m.rowTop = m.rowIdx
	}
}

func (m *Model) clampCard() {
	r := m.currentRow()
	if r == nil {
		m.cardIdx = 0
		return
	}
	if n := len(r.Visible()); m.cardIdx >= n {
		m.cardIdx = n - 1
	}
	if m.cardIdx < 0 {
		m.cardIdx = 0
	}
}

func (m *Model) cardsPerRow() int {
	if m.width <= 0 {
		return 5
	}
	n := (m.width - 4) / cardWidth
	if n < 1 {
		n = 1
	}
	return n
}

func (m *Model) visibleRowCount() int {
	avail := m.height - navHeight - bannerHeight - footerHeight
	if avail < rowHeight {
		return 1
	}
	return avail / rowHeight
}

// layout recomputes widths after a resize and signals newly visible rows.
func (m *Model) layout() {
	for _, r := range m.rows {
		r.SetWidth(m.cardsPerRow())
	}
	m.clampCard()
	m.overlayRows = m.height / 2
	m.reveal()
}

func (m *Model) reveal() {
	if len(m.rows) == 0 || m.height == 0 {
		return
	}
	last := m.rowTop + m.visibleRowCount() - 1
	row.Reveal(m.observer, row.Viewport(m.rows, m.rowTop, last))
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
