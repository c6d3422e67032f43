package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Left        key.Binding
	Right       key.Binding
	Up          key.Binding
	Down        key.Binding
	PageLeft    key.Binding
	PageRight   key.Binding
	Jump        key.Binding
	Hover       key.Binding
	Enter       key.Binding
	Search      key.Binding
	Tab         key.Binding
	Esc         key.Binding
	Play        key.Binding
	Open        key.Binding
	SeasonPrev  key.Binding
	SeasonNext  key.Binding
	EpisodePrev key.Binding
	EpisodeNext key.Binding
	Back        key.Binding
	Retry       key.Binding
	Help        key.Binding
	Quit        key.Binding
}

var keys = keyMap{
	Left:        key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "prev")),
	Right:       key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next")),
	Up:          key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
	Down:        key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
	PageLeft:    key.NewBinding(key.WithKeys("["), key.WithHelp("[", "scroll left")),
	PageRight:   key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "scroll right")),
	Jump:        key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "jump")),
	Hover:       key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "hold banner")),
	Enter:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
	Search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Tab:         key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "results")),
	Esc:         key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
	Play:        key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "play")),
	Open:        key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open in browser")),
	SeasonPrev:  key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "prev season")),
	SeasonNext:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "next season")),
	EpisodePrev: key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "prev episode")),
	EpisodeNext: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "next episode")),
	Back:        key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "synopsis")),
	Retry:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
	Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:        key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Down, k.Enter, k.Search, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Jump, k.Hover},
		{k.Up, k.Down, k.PageLeft, k.PageRight, k.Enter},
		{k.Search, k.Tab, k.Esc},
		{k.Play, k.Open, k.SeasonNext, k.SeasonPrev, k.EpisodeNext, k.EpisodePrev, k.Back},
		{k.Retry, k.Help, k.Quit},
	}
}
