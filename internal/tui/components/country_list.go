package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/globe/internal/domain"
	"github.com/mmcdole/globe/internal/tui/styles"
)

// Layout constants for the country list
const (
	// Scroll indicators ("↑ more" and "↓ more") each take 1 line
	ScrollIndicatorLines = 2

	nameColumnWidth = 28
)

// CountryList is a scrollable list of the revealed countries followed by
// a sentinel row while more remain. Row indexes count the sentinel, so
// the sentinel sits at row len(countries).
type CountryList struct {
	countries []*domain.Country
	total     int // size of the full filtered sequence

	// Selection
	cursor     int
	offset     int
	maxVisible int

	// Dimensions
	width  int
	height int

	loadingMore bool
}

// NewCountryList creates an empty list
func NewCountryList() *CountryList {
	return &CountryList{}
}

// SetSize updates the component dimensions
func (c *CountryList) SetSize(width, height int) {
	c.width = width
	c.height = height
	c.maxVisible = max(height-ScrollIndicatorLines, 1)
	c.ensureVisible()
}

// SetItems replaces the revealed countries. total is the length of the
// full filtered sequence. The selection survives when the new list still
// has the selected country at the same position, which is the case when
// a page is appended.
func (c *CountryList) SetItems(countries []*domain.Country, total int) {
	keep := c.cursor < len(c.countries) && c.cursor < len(countries) &&
		c.countries[c.cursor] == countries[c.cursor]

	c.countries = countries
	c.total = max(total, len(countries))
	if !keep {
		c.cursor = 0
		c.offset = 0
	}
	c.ensureVisible()
}

// SetLoadingMore marks the sentinel row as busy
func (c *CountryList) SetLoadingMore(loading bool) {
	c.loadingMore = loading
}

// HasMore reports whether the sentinel row is rendered
func (c *CountryList) HasMore() bool {
	return c.total > len(c.countries)
}

// Selected returns the country under the cursor, or nil
func (c *CountryList) Selected() *domain.Country {
	if c.cursor < 0 || c.cursor >= len(c.countries) {
		return nil
	}
	return c.countries[c.cursor]
}

// SelectedIndex returns the cursor position
func (c *CountryList) SelectedIndex() int {
	return c.cursor
}

// Offset returns the first visible row
func (c *CountryList) Offset() int {
	return c.offset
}

// VisibleRows returns the number of rows the list can show at once
func (c *CountryList) VisibleRows() int {
	return c.maxVisible
}

// SentinelRow returns the row of the sentinel and whether it is rendered
func (c *CountryList) SentinelRow() (int, bool) {
	return len(c.countries), c.HasMore()
}

// Update handles navigation keys
func (c *CountryList) Update(msg tea.Msg) (*CountryList, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	count := len(c.countries)
	if count == 0 {
		return c, nil
	}

	switch {
	case key.Matches(keyMsg, CountryListKeys.Up):
		c.cursor = max(c.cursor-1, 0)
	case key.Matches(keyMsg, CountryListKeys.Down):
		c.cursor = min(c.cursor+1, count-1)
	case key.Matches(keyMsg, CountryListKeys.Home):
		c.cursor = 0
	case key.Matches(keyMsg, CountryListKeys.End):
		c.cursor = count - 1
	case key.Matches(keyMsg, CountryListKeys.HalfUp):
		c.cursor = max(c.cursor-c.maxVisible/2, 0)
	case key.Matches(keyMsg, CountryListKeys.HalfDown):
		c.cursor = min(c.cursor+c.maxVisible/2, count-1)
	case key.Matches(keyMsg, CountryListKeys.PageUp):
		c.cursor = max(c.cursor-c.maxVisible, 0)
	case key.Matches(keyMsg, CountryListKeys.PageDown):
		c.cursor = min(c.cursor+c.maxVisible, count-1)
	default:
		return c, nil
	}
	c.ensureVisible()
	return c, nil
}

// View renders the visible window
func (c *CountryList) View() string {
	rows := len(c.countries)
	if c.HasMore() {
		rows++
	}

	end := min(c.offset+c.maxVisible, rows)

	var lines []string
	for i := c.offset; i < end; i++ {
		if i == len(c.countries) {
			lines = append(lines, c.renderSentinel())
			continue
		}
		lines = append(lines, c.renderCountry(c.countries[i], i == c.cursor))
	}
	for len(lines) < c.maxVisible {
		lines = append(lines, "")
	}

	// ALWAYS reserve space for header (even if empty) to prevent layout shifts
	header := " "
	if c.offset > 0 {
		header = styles.DimStyle.Render("↑ more")
	}
	footer := " "
	if end < rows {
		footer = styles.DimStyle.Render("↓ more")
	}

	return header + "\n" + strings.Join(lines, "\n") + "\n" + footer
}

func (c *CountryList) ensureVisible() {
	// Don't adjust offset if size hasn't been set yet
	if c.maxVisible <= 0 {
		return
	}
	if c.cursor < c.offset {
		c.offset = c.cursor
	}
	if c.cursor >= c.offset+c.maxVisible {
		c.offset = c.cursor - c.maxVisible + 1
	}
}

func (c *CountryList) renderCountry(country *domain.Country, selected bool) string {
	width := max(c.width, nameColumnWidth+12)
	population := FormatPopulation(country.Population)

	descWidth := width - nameColumnWidth - lipgloss.Width(population) - 6
	dim := styles.Current.Dim

	parts := []styles.RowPart{
		{Text: styles.Pad(styles.Truncate(country.Name, nameColumnWidth), nameColumnWidth)},
		{Text: " "},
		{Text: styles.Pad(styles.Truncate(country.Description(), descWidth), max(descWidth, 0)), Foreground: &dim},
		{Text: " "},
		{Text: population, Foreground: &dim},
	}
	return styles.RenderListRow(parts, selected, width)
}

func (c *CountryList) renderSentinel() string {
	text := fmt.Sprintf("··· showing %d of %d", len(c.countries), c.total)
	if c.loadingMore {
		text = "··· loading more"
	}
	return " " + styles.DimStyle.Render(text)
}
