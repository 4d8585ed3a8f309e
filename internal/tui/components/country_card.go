package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/globe/internal/domain"
	"github.com/mmcdole/globe/internal/tui/styles"
)

// cardContent holds the three-zone layout content
type cardContent struct {
	header string // fixed top
	body   string // scrollable middle
	footer string // fixed bottom
}

// NameResolver maps a cca3 code to a country name
type NameResolver func(code string) (string, bool)

// CountryCard displays one country's detail with a selectable list of
// neighbours.
type CountryCard struct {
	detail *domain.CountryDetail
	names  NameResolver

	border     int // selected neighbour
	width      int
	height     int
	offset     int // scroll offset
	maxVisible int // max visible lines
}

// NewCountryCard creates a card that resolves border names with names
func NewCountryCard(names NameResolver) *CountryCard {
	return &CountryCard{names: names}
}

// SetDetail sets the country to display
func (c *CountryCard) SetDetail(detail *domain.CountryDetail) {
	if detail == c.detail {
		return
	}
	if c.detail == nil || detail == nil || c.detail.ID != detail.ID {
		c.offset = 0
		c.border = 0
	}
	c.detail = detail
	if c.detail != nil {
		c.border = min(c.border, max(len(c.detail.Borders)-1, 0))
	}
}

// Detail returns the displayed country, or nil
func (c *CountryCard) Detail() *domain.CountryDetail {
	return c.detail
}

// SetSize updates the component dimensions
func (c *CountryCard) SetSize(width, height int) {
	c.width = width
	c.height = height
	c.maxVisible = max(height-ScrollIndicatorLines, 1)
}

// SelectedBorder returns the cca3 code of the highlighted neighbour
func (c *CountryCard) SelectedBorder() (string, bool) {
	if c.detail == nil || len(c.detail.Borders) == 0 {
		return "", false
	}
	return c.detail.Borders[c.border], true
}

// Update handles scrolling and neighbour selection
func (c *CountryCard) Update(msg tea.Msg) (*CountryCard, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || c.detail == nil {
		return c, nil
	}

	n := len(c.detail.Borders)
	switch {
	case key.Matches(keyMsg, CountryCardKeys.Up):
		c.offset = max(c.offset-1, 0)
	case key.Matches(keyMsg, CountryCardKeys.Down):
		c.offset++ // clamped in View
	case key.Matches(keyMsg, CountryCardKeys.NextBorder):
		if n > 0 {
			c.border = (c.border + 1) % n
		}
	case key.Matches(keyMsg, CountryCardKeys.PrevBorder):
		if n > 0 {
			c.border = (c.border - 1 + n) % n
		}
	}
	return c, nil
}

// View renders the component
func (c *CountryCard) View() string {
	if c.detail == nil {
		return ""
	}

	width := max(c.width-4, 20)
	content := c.render(width)

	headerLines := splitLines(content.header)
	footerLines := splitLines(content.footer)
	bodyLines := splitLines(content.body)

	// Calculate available space for body
	availableForBody := max(c.maxVisible-len(headerLines)-len(footerLines), 1)

	// Clamp body scroll offset
	maxOffset := max(len(bodyLines)-availableForBody, 0)
	c.offset = min(c.offset, maxOffset)

	end := min(c.offset+availableForBody, len(bodyLines))
	visibleBody := bodyLines[c.offset:end]

	// Scroll indicators for body only
	up := " "
	if c.offset > 0 {
		up = styles.DimStyle.Render("↑ more")
	}
	down := " "
	if end < len(bodyLines) {
		down = styles.DimStyle.Render("↓ more")
	}

	var parts []string
	parts = append(parts, headerLines...)
	parts = append(parts, up)
	parts = append(parts, visibleBody...)
	for j := len(visibleBody); j < availableForBody; j++ {
		parts = append(parts, "")
	}
	parts = append(parts, down)
	parts = append(parts, footerLines...)

	return styles.DetailStyle.Render(strings.Join(parts, "\n"))
}

func (c *CountryCard) render(width int) cardContent {
	d := c.detail

	var header strings.Builder
	header.WriteString(styles.TitleStyle.Render(styles.Truncate(d.Name, width)))
	header.WriteString("\n")
	if d.NativeName != "" && d.NativeName != d.Name {
		header.WriteString(styles.SubtitleStyle.Render(styles.Truncate(d.NativeName, width)))
		header.WriteString("\n")
	}
	location := d.Region
	if d.Subregion != "" {
		location = fmt.Sprintf("%s · %s", d.Region, d.Subregion)
	}
	header.WriteString(styles.DimStyle.Render(styles.Truncate(location, width)))

	var body strings.Builder
	fact := func(label, value string) {
		wrapped := wordWrap(value, width-12)
		for i, line := range splitLines(wrapped) {
			if i == 0 {
				body.WriteString(styles.LabelStyle.Render(label))
			} else {
				body.WriteString(styles.LabelStyle.Render(""))
			}
			body.WriteString(line)
			body.WriteString("\n")
		}
		if wrapped == "" {
			body.WriteString(styles.LabelStyle.Render(label) + "—\n")
		}
	}
	fact("Code", d.ID)
	fact("Capital", orDash(d.Capital))
	fact("Population", FormatPopulation(d.Population))
	fact("Domains", joinOrDash(d.TLD))
	fact("Currencies", joinOrDash(d.Currencies))
	fact("Languages", joinOrDash(d.Languages))

	body.WriteString("\n")
	body.WriteString(styles.AccentStyle.Render("Borders"))
	body.WriteString("\n")
	if len(d.Borders) == 0 {
		body.WriteString(styles.DimStyle.Render("  none"))
	}
	for i, code := range d.Borders {
		name := code
		if c.names != nil {
			if resolved, ok := c.names(code); ok {
				name = resolved
			}
		}
		line := styles.Truncate(fmt.Sprintf("%s  %s", code, name), width-2)
		if i == c.border {
			body.WriteString(styles.SelectedItemStyle.Render(line))
		} else {
			body.WriteString(styles.NormalItemStyle.Render(line))
		}
		if i < len(d.Borders)-1 {
			body.WriteString("\n")
		}
	}

	footer := styles.DimStyle.Render(styles.Truncate("Flag: "+orDash(d.FlagURL), width))

	return cardContent{
		header: header.String(),
		body:   strings.TrimRight(body.String(), "\n"),
		footer: footer,
	}
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
