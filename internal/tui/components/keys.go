package components

import "github.com/charmbracelet/bubbles/key"

// CountryListKeyMap defines key bindings for list navigation. The list
// shares the screen with a focused text input, so only non-printable keys
// are bound.
type CountryListKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Home     key.Binding
	End      key.Binding
	HalfUp   key.Binding
	HalfDown key.Binding
	PageUp   key.Binding
	PageDown key.Binding
}

// DefaultCountryListKeyMap returns the default list key bindings
func DefaultCountryListKeyMap() CountryListKeyMap {
	return CountryListKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "down"),
		),
		Home: key.NewBinding(
			key.WithKeys("home"),
			key.WithHelp("home", "go to top"),
		),
		End: key.NewBinding(
			key.WithKeys("end"),
			key.WithHelp("end", "go to bottom"),
		),
		HalfUp: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("C-u", "half page up"),
		),
		HalfDown: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("C-d", "half page down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("PgUp", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("PgDn", "page down"),
		),
	}
}

// PaletteKeyMap defines key bindings for the jump palette
type PaletteKeyMap struct {
	Escape key.Binding
	Enter  key.Binding
	Up     key.Binding
	Down   key.Binding
}

// DefaultPaletteKeyMap returns the default jump palette key bindings
func DefaultPaletteKeyMap() PaletteKeyMap {
	return PaletteKeyMap{
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
			key.WithHelp("↑/C-p", "previous"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
			key.WithHelp("↓/C-n", "next"),
		),
	}
}

// CountryCardKeyMap defines key bindings for the detail card
type CountryCardKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	NextBorder key.Binding
	PrevBorder key.Binding
}

// DefaultCountryCardKeyMap returns the default detail card key bindings
func DefaultCountryCardKeyMap() CountryCardKeyMap {
	return CountryCardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "scroll down"),
		),
		NextBorder: key.NewBinding(
			key.WithKeys("tab", "l", "right"),
			key.WithHelp("tab", "next border"),
		),
		PrevBorder: key.NewBinding(
			key.WithKeys("shift+tab", "h", "left"),
			key.WithHelp("S-tab", "previous border"),
		),
	}
}

// Package-level key map instances
var (
	CountryListKeys = DefaultCountryListKeyMap()
	PaletteKeys     = DefaultPaletteKeyMap()
	CountryCardKeys = DefaultCountryCardKeyMap()
)
