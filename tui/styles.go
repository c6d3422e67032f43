package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent = lipgloss.Color("#E50914")
	colorText   = lipgloss.Color("#F5F5F1")
	colorMuted  = lipgloss.Color("#8C8C8C")
	colorGold   = lipgloss.Color("#F5C518")
	colorPanel  = lipgloss.Color("#1F1F1F")

	BrandStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true).
			PaddingRight(2)

	NavLinkStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			PaddingRight(2)

	NavActiveStyle = NavLinkStyle.
			Foreground(colorText).
			Bold(true)

	BannerTitleStyle = lipgloss.NewStyle().
				Foreground(colorText).
				Bold(true)

	FadingStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Faint(true)

	RatingStyle = lipgloss.NewStyle().
			Foreground(colorGold)

	MutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	IndicatorOn  = lipgloss.NewStyle().Foreground(colorText).Render("●")
	IndicatorOff = lipgloss.NewStyle().Foreground(colorMuted).Render("○")

	RowTitleStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Bold(true)

	RowFocusStyle = RowTitleStyle.
			Foreground(colorAccent)

	CardStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Padding(0, 1)

	CardSelectedStyle = CardStyle.
				Background(colorAccent)

	OverlayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Background(colorPanel).
			Padding(0, 1)

	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(colorMuted).
			Padding(1, 2)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	StatusStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true)
)
