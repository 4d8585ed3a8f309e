package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Command factories for side effects outside the pipeline

// URLOpener opens URLs in an external program
type URLOpener interface {
	Open(url string) error
}

// OpenFlagCmd hands a country's flag image to the opener
func OpenFlagCmd(opener URLOpener, country, url string) tea.Cmd {
	return func() tea.Msg {
		if err := opener.Open(url); err != nil {
			return ErrMsg{Err: err, Context: "opening flag"}
		}
		return FlagOpenedMsg{Country: country}
	}
}

// SaveThemeCmd persists the theme name
func SaveThemeCmd(save func(theme string) error, theme string) tea.Cmd {
	return func() tea.Msg {
		if err := save(theme); err != nil {
			return ErrMsg{Err: err, Context: "saving theme"}
		}
		return ThemeSavedMsg{Theme: theme}
	}
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
