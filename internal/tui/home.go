package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/globe/internal/domain"
	"github.com/mmcdole/globe/internal/pipeline"
	"github.com/mmcdole/globe/internal/router"
	"github.com/mmcdole/globe/internal/tui/components"
	"github.com/mmcdole/globe/internal/tui/styles"
)

// Home page chrome: search input, region bar and a blank line
const homeControlsHeight = 3

// homePage is the country list with its pipeline. A new page, and a new
// pipeline, is created every time the home route becomes active.
type homePage struct {
	pipe   *pipeline.Home
	input  textinput.Model
	list   *components.CountryList
	unsubs []func()
}

func newHomePage(m *Model) *homePage {
	pipe := pipeline.NewHome(pipeline.HomeOptions{
		Dataset:        m.opts.Dataset.Dataset(),
		Navigator:      m.history.Scoped(router.HomePath),
		Scheduler:      m.sched,
		Cache:          m.cache,
		Observer:       m.tracker.Factory(),
		PageSize:       m.opts.PageSize,
		Debounce:       m.opts.Debounce,
		ReplaceHistory: m.opts.ReplaceHistory,
		Margin:         m.opts.Margin,
		Logger:         m.logger,
	})
	pipe.SetLoadMoreTrigger(pipeline.DefaultSentinel)

	ti := textinput.New()
	ti.Placeholder = "Search by name, capital or region"
	ti.Prompt = "Search: "
	ti.CharLimit = 100
	ti.Focus()

	p := &homePage{
		pipe:  pipe,
		input: ti,
		list:  components.NewCountryList(),
	}

	// Location changes rewrite the term; keep the input in step
	p.unsubs = append(p.unsubs, pipe.SearchTerm.Subscribe(func(_, term string) {
		if p.input.Value() != term {
			p.input.SetValue(term)
			p.input.CursorEnd()
		}
	}))
	return p
}

func (p *homePage) mount() {
	p.pipe.Mount()
}

func (p *homePage) close() {
	for _, unsub := range p.unsubs {
		unsub()
	}
	p.unsubs = nil
	p.pipe.Close()
}

// handleKey processes keys meant for the home page
func (p *homePage) handleKey(m *Model, msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, Keys.Enter):
		if c := p.list.Selected(); c != nil {
			m.history.Navigate(router.CountryPath(c.ID))
		}
		return nil

	case key.Matches(msg, Keys.NextRegion):
		p.pipe.Region.Set(cycleRegion(p.pipe.Region.Get(), 1))
		return nil

	case key.Matches(msg, Keys.PrevRegion):
		p.pipe.Region.Set(cycleRegion(p.pipe.Region.Get(), -1))
		return nil

	case key.Matches(msg, Keys.ClearSearch):
		if p.input.Value() != "" {
			p.input.SetValue("")
			p.pipe.SearchTerm.Set("")
		} else {
			p.pipe.Region.Set("")
		}
		return nil

	case key.Matches(msg, Keys.Retry):
		p.pipe.HandleRetry()
		return nil

	case isListKey(msg):
		p.list.Update(msg)
		return nil
	}

	return p.updateInput(msg)
}

// updateInput feeds msg to the search input and publishes edits
func (p *homePage) updateInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	if v := p.input.Value(); v != p.pipe.SearchTerm.Get() {
		p.pipe.SearchTerm.Set(v)
	}
	return cmd
}

func (p *homePage) setSize(width, height int) {
	p.input.Width = max(width-len(p.input.Prompt)-16, 10)
	p.list.SetSize(width, height-homeControlsHeight-p.bannerHeight())
}

// syncList copies the revealed prefix into the list component
func (p *homePage) syncList() {
	p.list.SetItems(p.pipe.VisibleCountries(), len(p.pipe.Countries()))
}

// viewport reports where the sentinel row sits relative to the window
func (p *homePage) viewport() Viewport {
	v := Viewport{Offset: p.list.Offset(), Height: p.list.VisibleRows()}
	if row, ok := p.list.SentinelRow(); ok {
		v.Rows = map[pipeline.Sentinel]int{pipeline.DefaultSentinel: row}
	}
	return v
}

// bannerHeight is one line when an error must sit above the list
func (p *homePage) bannerHeight() int {
	if p.pipe.Error() != nil && len(p.pipe.Countries()) > 0 {
		return 1
	}
	return 0
}

func isListKey(msg tea.KeyMsg) bool {
	k := components.CountryListKeys
	return key.Matches(msg, k.Up, k.Down, k.Home, k.End, k.HalfUp, k.HalfDown, k.PageUp, k.PageDown)
}

// cycleRegion steps through domain.Regions, matching current without case
func cycleRegion(current string, step int) string {
	idx := 0
	for i, r := range domain.Regions {
		if strings.EqualFold(r, current) {
			idx = i
			break
		}
	}
	n := len(domain.Regions)
	return domain.Regions[((idx+step)%n+n)%n]
}

// regionLabel names a region facet value for display
func regionLabel(region string) string {
	if region == "" {
		return "All"
	}
	return region
}

func (p *homePage) applyStyles() {
	p.input.PromptStyle = styles.FilterPromptStyle
	p.input.PlaceholderStyle = styles.DimStyle
}
