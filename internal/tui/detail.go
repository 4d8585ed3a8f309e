package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/globe/internal/countries"
	"github.com/mmcdole/globe/internal/router"
	"github.com/mmcdole/globe/internal/tui/components"
)

// detailPage shows one country. It lives while consecutive locations are
// detail routes, switching code as the user follows borders.
type detailPage struct {
	query *countries.DetailQuery
	card  *components.CountryCard
}

func newDetailPage(m *Model, code string) *detailPage {
	return &detailPage{
		query: countries.NewDetailQuery(m.ctx, m.opts.Service, code, m.sched),
		card:  components.NewCountryCard(m.opts.Lookup.NameByCode),
	}
}

func (p *detailPage) close() {
	p.query.Close()
}

// handleKey processes keys meant for the detail page
func (p *detailPage) handleKey(m *Model, msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, Keys.Back):
		m.goBack()
		return nil

	case key.Matches(msg, Keys.Enter):
		if code, ok := p.card.SelectedBorder(); ok {
			m.history.Navigate(router.CountryPath(code))
		}
		return nil

	case key.Matches(msg, Keys.OpenFlag):
		d := p.query.Data.Get()
		if d == nil || d.FlagURL == "" {
			return func() tea.Msg { return StatusMsg{Message: "No flag to open", IsError: true} }
		}
		if m.opts.Opener == nil {
			return func() tea.Msg { return StatusMsg{Message: "Flag: " + d.FlagURL} }
		}
		return OpenFlagCmd(m.opts.Opener, d.Name, d.FlagURL)

	case key.Matches(msg, Keys.DetailRetry, Keys.Retry):
		p.query.Refetch()
		return nil

	case key.Matches(msg, Keys.DetailQuit):
		m.quitting = true
		return nil
	}

	p.card.Update(msg)
	return nil
}

func (p *detailPage) setSize(width, height int) {
	p.card.SetSize(width, height)
}

// sync shows the latest fetched detail
func (p *detailPage) sync() {
	p.card.SetDetail(p.query.Data.Get())
}
