package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/globe/internal/router"
	"github.com/mmcdole/globe/internal/tui/styles"
)

// handleKeyMsg routes keys: the open palette first, then global bindings,
// then the live page.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, Keys.Quit) {
		m.quitting = true
		return nil
	}

	if m.Palette.IsVisible() {
		var cmd tea.Cmd
		var chosen bool
		m.Palette, cmd, chosen = m.Palette.Update(msg)
		if chosen {
			c := m.Palette.Selected()
			m.Palette.Hide()
			m.history.Navigate(router.CountryPath(c.ID))
		}
		return cmd
	}

	switch {
	case key.Matches(msg, Keys.Jump):
		m.Palette.Show(m.opts.Dataset.Data.Get())
		return nil

	case key.Matches(msg, Keys.ToggleTheme):
		return m.toggleTheme()

	case key.Matches(msg, Keys.Reload):
		return m.reload()

	case key.Matches(msg, Keys.About):
		m.history.Navigate(router.AboutPath)
		return nil

	case key.Matches(msg, Keys.HistoryBack):
		m.history.Back()
		return nil

	case key.Matches(msg, Keys.HistoryForward):
		m.history.Forward()
		return nil
	}

	switch {
	case m.home != nil:
		return m.home.handleKey(m, msg)
	case m.detail != nil:
		return m.detail.handleKey(m, msg)
	}

	// About and not-found pages
	switch {
	case key.Matches(msg, Keys.Back):
		m.goBack()
	case key.Matches(msg, Keys.DetailQuit):
		m.quitting = true
	}
	return nil
}

// goBack steps back through history, or lands on home when there is
// nothing behind.
func (m *Model) goBack() {
	if !m.history.Back() {
		m.history.Navigate(router.HomePath)
	}
}

// reload drops every cached response and fetches the live pages again
func (m *Model) reload() tea.Cmd {
	m.opts.Service.Invalidate()
	m.opts.Dataset.Refetch()
	if m.detail != nil {
		m.detail.query.Refetch()
	}
	return func() tea.Msg { return StatusMsg{Message: "Cache cleared, reloading"} }
}

func (m *Model) toggleTheme() tea.Cmd {
	p := styles.Toggle()
	m.Spinner.Style = styles.SpinnerStyle
	m.logger.Info("theme changed", "theme", p.Name)
	if m.opts.SaveTheme == nil {
		return nil
	}
	return SaveThemeCmd(m.opts.SaveTheme, p.Name)
}
