package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application. The home page
// keeps the search input focused, so its bindings avoid printable keys
// other than the history brackets.
type KeyMap struct {
	// Navigation
	Enter key.Binding
	Back  key.Binding

	// History
	HistoryBack    key.Binding
	HistoryForward key.Binding

	// Home
	NextRegion  key.Binding
	PrevRegion  key.Binding
	ClearSearch key.Binding

	// Detail
	OpenFlag    key.Binding
	DetailRetry key.Binding
	DetailQuit  key.Binding

	// Global
	Quit        key.Binding
	Jump        key.Binding
	Retry       key.Binding
	Reload      key.Binding
	ToggleTheme key.Binding
	About       key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Navigation
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "back"),
		),

		// History
		HistoryBack: key.NewBinding(
			key.WithKeys("[", "alt+left"),
			key.WithHelp("[", "history back"),
		),
		HistoryForward: key.NewBinding(
			key.WithKeys("]", "alt+right"),
			key.WithHelp("]", "history forward"),
		),

		// Home
		NextRegion: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next region"),
		),
		PrevRegion: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "previous region"),
		),
		ClearSearch: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear search"),
		),

		// Detail
		OpenFlag: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open flag"),
		),
		DetailRetry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "retry"),
		),
		DetailQuit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),

		// Global
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("C-c", "quit"),
		),
		Jump: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("C-p", "jump to country"),
		),
		Retry: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("C-r", "retry"),
		),
		Reload: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("C-l", "reload (drop cache)"),
		),
		ToggleTheme: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("C-t", "toggle theme"),
		),
		About: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("F1", "about"),
		),
	}
}

// Keys is the global key bindings instance
var Keys = DefaultKeyMap()
