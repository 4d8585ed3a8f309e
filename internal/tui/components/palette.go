package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/globe/internal/domain"
	"github.com/mmcdole/globe/internal/search"
	"github.com/mmcdole/globe/internal/tui/styles"
)

// paletteMaxResults caps the ranked matches shown at once
const paletteMaxResults = 10

// Palette is the fuzzy "jump to country" modal
type Palette struct {
	input     textinput.Model
	countries []*domain.Country
	results   []search.Match
	cursor    int
	visible   bool
	width     int
	height    int
	prevQuery string
}

// NewPalette creates a hidden palette
func NewPalette() Palette {
	ti := textinput.New()
	ti.Placeholder = "Jump to country..."
	ti.CharLimit = 100
	ti.Width = 40
	ti.Prompt = "› "

	p := Palette{input: ti}
	p.applyStyles()
	return p
}

// Show makes the palette visible over countries and focuses the input
func (p *Palette) Show(countries []*domain.Country) {
	p.applyStyles()
	p.visible = true
	p.countries = countries
	p.input.SetValue("")
	p.input.Focus()
	p.prevQuery = ""
	p.results = nil
	p.cursor = 0
}

// Hide hides the palette
func (p *Palette) Hide() {
	p.visible = false
	p.input.Blur()
}

// IsVisible returns true if the palette is visible
func (p Palette) IsVisible() bool {
	return p.visible
}

// SetSize updates the component dimensions
func (p *Palette) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.input.Width = max(p.modalWidth()-10, 10)
}

// Query returns the current input
func (p Palette) Query() string {
	return p.input.Value()
}

// Results returns the ranked matches for the current query
func (p Palette) Results() []search.Match {
	return p.results
}

// Selected returns the highlighted country, or nil
func (p Palette) Selected() *domain.Country {
	if p.cursor < 0 || p.cursor >= len(p.results) {
		return nil
	}
	return p.results[p.cursor].Country
}

// Update handles messages. The final result reports that a country was
// chosen; the caller reads it with Selected and hides the palette.
func (p Palette) Update(msg tea.Msg) (Palette, tea.Cmd, bool) {
	if !p.visible {
		return p, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, PaletteKeys.Escape):
			p.Hide()
			return p, nil, false
		case key.Matches(keyMsg, PaletteKeys.Enter):
			return p, nil, p.Selected() != nil
		case key.Matches(keyMsg, PaletteKeys.Down):
			if p.cursor < min(len(p.results), paletteMaxResults)-1 {
				p.cursor++
			}
			return p, nil, false
		case key.Matches(keyMsg, PaletteKeys.Up):
			if p.cursor > 0 {
				p.cursor--
			}
			return p, nil, false
		}
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	if q := p.input.Value(); q != p.prevQuery {
		p.prevQuery = q
		p.results = search.Jump(q, p.countries, paletteMaxResults)
		p.cursor = 0
	}
	return p, cmd, false
}

// View renders the component
func (p Palette) View() string {
	if !p.visible {
		return ""
	}

	modalWidth := p.modalWidth()

	var b strings.Builder
	b.WriteString(styles.ModalTitleStyle.Render("Jump to country"))
	b.WriteString("\n")
	b.WriteString(p.input.View())
	b.WriteString("\n\n")
	p.renderResults(&b, modalWidth)

	content := lipgloss.NewStyle().
		Width(modalWidth - 4).
		Render(b.String())

	modal := styles.ModalStyle.
		Width(modalWidth).
		Render(content)

	// Center horizontally and vertically
	return lipgloss.Place(
		p.width,
		p.height,
		lipgloss.Center,
		lipgloss.Center,
		modal,
	)
}

func (p Palette) renderResults(b *strings.Builder, modalWidth int) {
	if len(p.results) == 0 {
		if p.input.Value() != "" {
			b.WriteString(styles.DimStyle.Render("No matches found"))
		}
		return
	}

	nameWidth := modalWidth - 16
	for i, m := range p.results {
		selected := i == p.cursor

		base := styles.NormalItemStyle.UnsetPadding()
		if selected {
			base = styles.SelectedItemStyle.UnsetPadding()
		}

		name := m.Country.Name
		indexes := m.MatchedIndexes
		if truncated := styles.Truncate(name, nameWidth); truncated != name {
			name = truncated
			indexes = nil
		}

		b.WriteString(styles.DimBadgeStyle.Render(fmt.Sprintf("%-3s", m.Country.ID)))
		b.WriteString(" ")
		b.WriteString(styles.Highlight(name, indexes, base, selected))
		b.WriteString("\n")
	}
}

func (p Palette) modalWidth() int {
	return min(max(p.width*2/3, 40), 80)
}

func (p *Palette) applyStyles() {
	p.input.PromptStyle = styles.AccentStyle
	p.input.TextStyle = lipgloss.NewStyle().Foreground(styles.Current.Foreground)
	p.input.PlaceholderStyle = styles.DimStyle
}
