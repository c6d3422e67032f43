package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"reel/carousel"
	"reel/catalog"
	"reel/details"
)

var navLinks = []string{"Home", "Series", "Movies", "New & Popular"}

func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	sections := []string{m.renderNav()}

	body := m.height - navHeight - footerHeight
	if body < 1 {
		body = 1
	}

	switch {
	case m.loading:
		spin := m.spinner.View() + " Loading catalog..."
		sections = append(sections, lipgloss.Place(m.width, body, lipgloss.Center, lipgloss.Center, spin))
	case m.loadErr != nil:
		sections = append(sections, lipgloss.Place(m.width, body, lipgloss.Center, lipgloss.Center, m.renderError()))
	case m.details != nil:
		sections = append(sections, lipgloss.Place(m.width, body, lipgloss.Center, lipgloss.Top, m.renderDetails()))
	case m.search.State().Open:
		sections = append(sections, m.renderOverlay())
	default:
		sections = append(sections, m.renderBanner(), m.renderRows())
	}

	page := lipgloss.JoinVertical(lipgloss.Left, sections...)
	if pad := m.height - footerHeight - lipgloss.Height(page); pad > 0 {
		page += strings.Repeat("\n", pad)
	}
	return lipgloss.JoinVertical(lipgloss.Left, page, StatusStyle.Render(m.status), m.help.View(m.keys))
}

const navIcons = "  🔔  👤"

func (m *Model) renderNav() string {
	left, box := m.navLeft(), m.navSearchBox()
	start, _ := m.navSearchSpan()
	return left + strings.Repeat(" ", start-lipgloss.Width(left)) + box + navIcons
}

func (m *Model) navLeft() string {
	parts := []string{BrandStyle.Render("REEL")}
	for i, l := range navLinks {
		if i == 0 {
			parts = append(parts, NavActiveStyle.Render(l))
			continue
		}
		parts = append(parts, NavLinkStyle.Render(l))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) navSearchBox() string {
	if m.focus == focusSearch || m.focus == focusResults {
		return m.input.View()
	}
	return MutedStyle.Render("/ search")
}

// navSearchSpan returns the columns [start, end) the search box occupies in
// the navigation bar. The box is right-aligned before the icons.
func (m *Model) navSearchSpan() (int, int) {
	left := lipgloss.Width(m.navLeft())
	box := lipgloss.Width(m.navSearchBox())
	start := m.width - box - lipgloss.Width(navIcons)
	if start < left+1 {
		start = left + 1
	}
	return start, start + box
}

func (m *Model) renderBanner() string {
	s := m.carousel.State()
	it, ok := s.CurrentItem()
	if !ok {
		return lipgloss.NewStyle().Height(bannerHeight).Render(MutedStyle.Render("Nothing to feature right now."))
	}

	title := BannerTitleStyle.Render(it.Title)
	if s.Transitioning {
		title = FadingStyle.Render(it.Title)
	}
	if m.focus == focusBanner {
		title = "▸ " + title
	}

	meta := []string{}
	if it.Rating != nil {
		meta = append(meta, RatingStyle.Render(fmt.Sprintf("★ %.1f", *it.Rating)))
	}
	if y := it.Year(); y != "" {
		meta = append(meta, y)
	}
	if it.Kind == catalog.KindSeries {
		meta = append(meta, "Series")
	}
	if s.Hovered || s.DetailsOpen {
		meta = append(meta, MutedStyle.Render("paused"))
	}

	lines := []string{
		title,
		strings.Join(meta, "  "),
		lipgloss.NewStyle().Width(m.width - 4).MaxHeight(3).Render(truncate(it.Overview, (m.width-4)*3)),
	}
	if s.ShowControls() {
		lines = append(lines, renderIndicators(s))
	}
	return lipgloss.NewStyle().Height(bannerHeight).Padding(0, 2).Render(strings.Join(lines, "\n"))
}

func renderIndicators(s carousel.State) string {
	dots := make([]string, s.Len())
	for i := range dots {
		dots[i] = IndicatorOff
		if i == s.Current {
			dots[i] = IndicatorOn
		}
	}
	return "‹ " + strings.Join(dots, " ") + " ›"
}

func (m *Model) renderRows() string {
	if len(m.rows) == 0 {
		return ""
	}
	var out []string
	last := m.rowTop + m.visibleRowCount()
	if last > len(m.rows) {
		last = len(m.rows)
	}
	for i := m.rowTop; i < last; i++ {
		r := m.rows[i]
		focused := m.focus == focusRows && i == m.rowIdx

		title := RowTitleStyle.Render(r.Title)
		if focused {
			title = RowFocusStyle.Render("▸ " + r.Title)
		}

		if !r.Shown() {
			out = append(out, title, "", "")
			continue
		}

		var cards []string
		for j, it := range r.Visible() {
			label := "□ "
			if r.ImageReady(it) {
				label = "▣ "
			}
			label += truncate(it.Title, cardWidth-4)
			style := CardStyle.Width(cardWidth)
			if focused && j == m.cardIdx {
				style = CardSelectedStyle.Width(cardWidth)
			}
			cards = append(cards, style.Render(label))
		}
		left, right := " ", " "
		if r.CanScrollLeft() {
			left = "‹"
		}
		if r.CanScrollRight() {
			right = "›"
		}
		line := left + lipgloss.JoinHorizontal(lipgloss.Top, cards...) + right
		out = append(out, title, line, "")
	}
	return strings.Join(out, "\n")
}

func (m *Model) renderOverlay() string {
	s := m.search.State()
	lines := []string{m.input.View()}

	switch {
	case s.Searching:
		lines = append(lines, MutedStyle.Render("Searching..."))
	case len(s.Results) == 0 && len([]rune(strings.TrimSpace(s.Query))) > 2:
		lines = append(lines, MutedStyle.Render("No results"))
	}

	limit := m.overlayRows - 3
	for i, it := range s.Results {
		if i >= limit {
			break
		}
		label := fmt.Sprintf("%s (%s)", it.Title, it.Year())
		if it.Kind == catalog.KindSeries {
			label += " · Series"
		}
		if m.focus == focusResults && i == m.resultIdx {
			label = CardSelectedStyle.Render(label)
		}
		lines = append(lines, label)
	}
	return OverlayStyle.Width(m.width - 4).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderDetails() string {
	v := m.details
	d := v.Details
	width := m.width - 10
	if width < 20 {
		width = 20
	}

	lines := []string{BannerTitleStyle.Render(d.Title)}
	if d.Tagline != "" {
		lines = append(lines, MutedStyle.Render(d.Tagline))
	}

	meta := []string{}
	if d.Rating != nil {
		meta = append(meta, RatingStyle.Render(fmt.Sprintf("★ %.1f", *d.Rating)))
	}
	if v.Rating != nil {
		meta = append(meta, RatingStyle.Render(fmt.Sprintf("IMDb %s (%s)", v.Rating.Rating, v.Rating.Votes)))
	}
	if y := d.Year(); y != "" {
		meta = append(meta, y)
	}
	if d.Runtime > 0 {
		meta = append(meta, fmt.Sprintf("%dm", d.Runtime))
	}
	lines = append(lines, strings.Join(meta, "  "), "")

	if v.Mode == details.Player {
		lines = append(lines, m.renderPlayer(v)...)
	} else {
		lines = append(lines, lipgloss.NewStyle().Width(width).Render(d.Overview), "")
		if len(d.Genres) > 0 {
			names := make([]string, len(d.Genres))
			for i, g := range d.Genres {
				names[i] = g.Name
			}
			lines = append(lines, MutedStyle.Render("Genres: ")+strings.Join(names, ", "))
		}
		if len(d.Cast) > 0 {
			var cast []string
			for i, c := range d.Cast {
				if i == 6 {
					break
				}
				cast = append(cast, c.Name)
			}
			lines = append(lines, MutedStyle.Render("Cast: ")+strings.Join(cast, ", "))
		}
		if t, ok := d.Trailer(); ok {
			lines = append(lines, MutedStyle.Render("Trailer: ")+"https://www.youtube.com/watch?v="+t.Key)
		}
		if d.BackdropPath != "" {
			lines = append(lines, MutedStyle.Render(catalog.ImageURL(m.opts.Config.TMDBImageURL, catalog.SizeBackdrop, d.BackdropPath)))
		}
		lines = append(lines, "", MutedStyle.Render("p play · esc close"))
	}
	return ModalStyle.Width(width).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderPlayer(v *details.View) []string {
	var lines []string
	if v.IsSeries() {
		sel := v.Selector
		lines = append(lines,
			fmt.Sprintf("Season %d of %d · Episode %d of %d", sel.Season, len(sel.Seasons()), sel.Episode, len(sel.Episodes())),
		)
	}
	lines = append(lines, "", v.Embed.URL)
	if v.Embed.Fallback {
		lines = append(lines, ErrorStyle.Render("using catalog id, the player may not find this series"))
	}
	hint := "o open in browser · b synopsis · esc close"
	if v.IsSeries() {
		hint = "s/S season · e/E episode · " + hint
	}
	return append(lines, "", MutedStyle.Render(hint))
}

func (m *Model) renderError() string {
	return lipgloss.JoinVertical(lipgloss.Center,
		ErrorStyle.Render("Could not load the catalog"),
		MutedStyle.Render(truncate(m.loadErr.Error(), m.width-8)),
		"",
		"press r to retry",
	)
}
