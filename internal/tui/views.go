package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/globe/internal/domain"
	"github.com/mmcdole/globe/internal/router"
	"github.com/mmcdole/globe/internal/search"
	"github.com/mmcdole/globe/internal/tui/components"
	"github.com/mmcdole/globe/internal/tui/styles"
)

// Vertical chrome: title line, blank line, footer line
const chromeHeight = 3

// suggestionCount caps the "did you mean" names in the empty state
const suggestionCount = 3

// View renders the UI
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.Width == 0 {
		return "Loading..."
	}

	if m.Palette.IsVisible() {
		return m.Palette.View()
	}

	var body string
	switch {
	case m.home != nil:
		body = m.renderHome()
	case m.detail != nil:
		body = m.renderDetail()
	case m.route == router.RouteAbout:
		body = m.renderAbout()
	default:
		body = m.renderNotFound()
	}

	content := lipgloss.NewStyle().
		Height(m.Height - chromeHeight).
		MaxHeight(m.Height - chromeHeight).
		Render(body)

	return m.renderHeader() + "\n\n" + content + "\n" + m.renderFooter()
}

func (m Model) renderHeader() string {
	title := styles.AccentStyle.Bold(true).Render("globe")
	if status := m.datasetState().View(m.Spinner.View()); status != "" {
		title += "  " + status
	}
	location := styles.DimStyle.Render(m.history.Current().String())

	gap := max(m.Width-lipgloss.Width(title)-lipgloss.Width(location)-2, 1)
	return " " + title + strings.Repeat(" ", gap) + location
}

func (m Model) datasetState() components.DatasetSyncState {
	q := m.opts.Dataset
	return components.NewDatasetSyncState(len(q.Data.Get()), q.IsFetching.Get(), q.Error.Get())
}

func (m Model) renderFooter() string {
	if m.StatusMsg != "" {
		style := styles.SuccessStyle
		if m.StatusIsErr {
			style = styles.ErrorStyle
		}
		return " " + style.Render(styles.Truncate(m.StatusMsg, m.Width-2))
	}

	var bindings []key.Binding
	switch {
	case m.home != nil:
		bindings = []key.Binding{Keys.Enter, Keys.NextRegion, Keys.ClearSearch, Keys.Jump, Keys.HistoryBack, Keys.ToggleTheme, Keys.About, Keys.Quit}
	case m.detail != nil:
		bindings = []key.Binding{Keys.Back, components.CountryCardKeys.NextBorder, Keys.Enter, Keys.OpenFlag, Keys.Jump, Keys.HistoryBack, Keys.HistoryForward, Keys.DetailQuit}
	default:
		bindings = []key.Binding{Keys.Back, Keys.Jump, Keys.HistoryBack, Keys.HistoryForward, Keys.DetailQuit}
	}
	return " " + renderHelp(bindings, m.Width-2)
}

// renderHelp lays out "key desc" pairs until width runs out
func renderHelp(bindings []key.Binding, width int) string {
	var parts []string
	used := 0
	for _, b := range bindings {
		h := b.Help()
		part := styles.HelpKeyStyle.Render(h.Key) + " " + styles.HelpDescStyle.Render(h.Desc)
		w := lipgloss.Width(part) + 2
		if used+w > width {
			break
		}
		parts = append(parts, part)
		used += w
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderHome() string {
	p := m.home
	p.applyStyles()

	var b strings.Builder

	// Search input with the pending-recompute indicator
	b.WriteString(" ")
	b.WriteString(p.input.View())
	if p.pipe.IsSearching() {
		b.WriteString("  ")
		b.WriteString(styles.DimStyle.Render("searching…"))
	}
	b.WriteString("\n")

	b.WriteString(" ")
	b.WriteString(renderRegionBar(p.pipe.Region.Get()))
	b.WriteString("\n\n")

	err := p.pipe.Error()
	all := p.pipe.Countries()

	switch {
	case p.pipe.Loading():
		b.WriteString(" ")
		b.WriteString(m.Spinner.View())
		b.WriteString(styles.DimStyle.Render(" Loading countries…"))

	case err != nil && len(all) == 0:
		b.WriteString(" ")
		b.WriteString(styles.ErrorStyle.Render(styles.Truncate("Could not load countries: "+err.Error(), m.Width-2)))
		b.WriteString("\n ")
		b.WriteString(styles.DimStyle.Render("Press " + Keys.Retry.Help().Key + " to retry"))

	case len(all) == 0:
		b.WriteString(m.renderEmptyState())

	default:
		if err != nil {
			b.WriteString(" ")
			b.WriteString(styles.ErrorStyle.Render(styles.Truncate("Refresh failed: "+err.Error()+" (C-r to retry)", m.Width-2)))
			b.WriteString("\n")
		}
		b.WriteString(p.list.View())
	}

	return b.String()
}

func renderRegionBar(current string) string {
	parts := make([]string, 0, len(domain.Regions))
	for _, r := range domain.Regions {
		label := regionLabel(r)
		if strings.EqualFold(r, current) {
			parts = append(parts, styles.HighlightStyle.Render(label))
		} else {
			parts = append(parts, styles.DimStyle.Render(" "+label+" "))
		}
	}
	return strings.Join(parts, "")
}

func (m Model) renderEmptyState() string {
	f := m.home.pipe.Filters()

	var b strings.Builder
	b.WriteString(" ")
	if f.IsZero() {
		b.WriteString(styles.DimStyle.Render("No countries available"))
		return b.String()
	}
	b.WriteString(styles.DimStyle.Render("No countries match your search"))

	term := strings.TrimSpace(f.Query)
	if term == "" {
		return b.String()
	}
	names := search.Names(m.opts.Dataset.Data.Get())
	if suggestions := search.Suggest(term, names, suggestionCount); len(suggestions) > 0 {
		b.WriteString("\n\n ")
		b.WriteString(styles.SubtitleStyle.Render("Did you mean: "))
		b.WriteString(styles.AccentStyle.Render(strings.Join(suggestions, ", ")))
	}
	return b.String()
}

func (m Model) renderDetail() string {
	q := m.detail.query

	if q.Data.Get() == nil {
		switch err := q.Error.Get(); {
		case err != nil && errors.Is(err, domain.ErrCountryNotFound):
			return " " + styles.ErrorStyle.Render(fmt.Sprintf("No country with code %q", q.Code())) +
				"\n " + styles.DimStyle.Render("Press esc to go back")
		case err != nil:
			return " " + styles.ErrorStyle.Render(styles.Truncate("Could not load country: "+err.Error(), m.Width-2)) +
				"\n " + styles.DimStyle.Render("Press r to retry")
		default:
			return " " + m.Spinner.View() + styles.DimStyle.Render(" Loading country…")
		}
	}
	return m.detail.card.View()
}

func (m Model) renderAbout() string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("About globe"))
	b.WriteString("\n\n")
	b.WriteString(styles.SubtitleStyle.Render("Browse the countries of the world from your terminal."))
	b.WriteString("\n")
	b.WriteString(styles.SubtitleStyle.Render("Data: REST Countries (restcountries.com)"))
	b.WriteString("\n\n")

	for _, kb := range []key.Binding{Keys.Jump, Keys.NextRegion, Keys.ClearSearch, Keys.Retry, Keys.Reload, Keys.HistoryBack, Keys.HistoryForward, Keys.OpenFlag, Keys.ToggleTheme, Keys.Quit} {
		h := kb.Help()
		b.WriteString(styles.HelpKeyStyle.Width(8).Render(h.Key))
		b.WriteString(styles.HelpDescStyle.Render(h.Desc))
		b.WriteString("\n")
	}
	return styles.DetailStyle.Render(b.String())
}

func (m Model) renderNotFound() string {
	return " " + styles.ErrorStyle.Render("Page not found: "+m.history.Current().Path) +
		"\n " + styles.DimStyle.Render("Press esc to go back")
}
