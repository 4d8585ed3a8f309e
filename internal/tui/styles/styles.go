package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Palette is the set of colors a theme is built from
type Palette struct {
	Name       string
	Accent     lipgloss.Color
	Surface    lipgloss.Color // modal background
	Selection  lipgloss.Color // selected row background
	Dim        lipgloss.Color
	Muted      lipgloss.Color
	Foreground lipgloss.Color
	Success    lipgloss.Color
	Error      lipgloss.Color
}

// Built-in palettes
var (
	Dark = Palette{
		Name:       "dark",
		Accent:     lipgloss.Color("#38BDF8"),
		Surface:    lipgloss.Color("#1F2937"),
		Selection:  lipgloss.Color("#374151"),
		Dim:        lipgloss.Color("#6B7280"),
		Muted:      lipgloss.Color("#9CA3AF"),
		Foreground: lipgloss.Color("#F9FAFB"),
		Success:    lipgloss.Color("#10B981"),
		Error:      lipgloss.Color("#EF4444"),
	}

	Light = Palette{
		Name:       "light",
		Accent:     lipgloss.Color("#0369A1"),
		Surface:    lipgloss.Color("#F3F4F6"),
		Selection:  lipgloss.Color("#DBEAFE"),
		Dim:        lipgloss.Color("#9CA3AF"),
		Muted:      lipgloss.Color("#4B5563"),
		Foreground: lipgloss.Color("#111827"),
		Success:    lipgloss.Color("#047857"),
		Error:      lipgloss.Color("#B91C1C"),
	}
)

// Current is the palette the styles below were built from
var Current = Dark

// Text styles
var (
	TitleStyle     lipgloss.Style
	SubtitleStyle  lipgloss.Style
	DimStyle       lipgloss.Style
	AccentStyle    lipgloss.Style
	ErrorStyle     lipgloss.Style
	SuccessStyle   lipgloss.Style
	HighlightStyle lipgloss.Style
	LabelStyle     lipgloss.Style
)

// List item styles
var (
	SelectedItemStyle lipgloss.Style
	NormalItemStyle   lipgloss.Style
)

// Modal styles
var (
	ModalStyle      lipgloss.Style
	ModalTitleStyle lipgloss.Style
)

// Help styles
var (
	HelpKeyStyle  lipgloss.Style
	HelpDescStyle lipgloss.Style
)

// Badge styles
var (
	BadgeStyle    lipgloss.Style
	DimBadgeStyle lipgloss.Style
)

// Misc styles
var (
	SpinnerStyle                lipgloss.Style
	FilterPromptStyle           lipgloss.Style
	MatchHighlightStyle         lipgloss.Style
	MatchHighlightSelectedStyle lipgloss.Style
	DetailStyle                 lipgloss.Style
)

func init() {
	Apply(Dark)
}

// Apply rebuilds every style from p
func Apply(p Palette) {
	Current = p

	TitleStyle = lipgloss.NewStyle().Foreground(p.Foreground).Bold(true)
	SubtitleStyle = lipgloss.NewStyle().Foreground(p.Muted)
	DimStyle = lipgloss.NewStyle().Foreground(p.Dim)
	AccentStyle = lipgloss.NewStyle().Foreground(p.Accent)
	ErrorStyle = lipgloss.NewStyle().Foreground(p.Error)
	SuccessStyle = lipgloss.NewStyle().Foreground(p.Success)
	HighlightStyle = lipgloss.NewStyle().
		Foreground(p.Surface).
		Background(p.Accent).
		Padding(0, 1)
	LabelStyle = lipgloss.NewStyle().Foreground(p.Muted).Width(12)

	SelectedItemStyle = lipgloss.NewStyle().
		Foreground(p.Foreground).
		Background(p.Selection).
		Padding(0, 1)
	NormalItemStyle = lipgloss.NewStyle().
		Foreground(p.Muted).
		Padding(0, 1)

	ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Accent).
		Padding(1, 2).
		Background(p.Surface)
	ModalTitleStyle = lipgloss.NewStyle().
		Foreground(p.Foreground).
		Bold(true).
		MarginBottom(1)

	HelpKeyStyle = lipgloss.NewStyle().Foreground(p.Accent)
	HelpDescStyle = lipgloss.NewStyle().Foreground(p.Dim)

	BadgeStyle = lipgloss.NewStyle().
		Foreground(p.Surface).
		Background(p.Accent).
		Padding(0, 1)
	DimBadgeStyle = lipgloss.NewStyle().
		Foreground(p.Muted).
		Background(p.Selection).
		Padding(0, 1)

	SpinnerStyle = lipgloss.NewStyle().Foreground(p.Accent)
	FilterPromptStyle = lipgloss.NewStyle().Foreground(p.Accent).Bold(true)
	MatchHighlightStyle = lipgloss.NewStyle().Foreground(p.Accent).Bold(true)
	MatchHighlightSelectedStyle = lipgloss.NewStyle().
		Foreground(p.Accent).
		Background(p.Selection).
		Bold(true)
	DetailStyle = lipgloss.NewStyle().Padding(1, 2)
}

// Toggle switches between the dark and light palettes and returns the
// new one.
func Toggle() Palette {
	if Current.Name == Light.Name {
		Apply(Dark)
	} else {
		Apply(Light)
	}
	return Current
}

// ByName returns the palette called name, defaulting to Dark.
func ByName(name string) Palette {
	if strings.EqualFold(name, Light.Name) {
		return Light
	}
	return Dark
}

// Helper functions

// Truncate shortens s to width terminal cells, ending with an ellipsis
// when cut.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width == 1 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "…")
}

// Pad pads or cuts s to exactly width terminal cells
func Pad(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.FillRight(runewidth.Truncate(s, width, ""), width)
}

// Highlight renders s with the runes starting at the byte offsets in
// indexes in the match style.
func Highlight(s string, indexes []int, base lipgloss.Style, selected bool) string {
	if len(indexes) == 0 {
		return base.Render(s)
	}
	match := MatchHighlightStyle
	if selected {
		match = MatchHighlightSelectedStyle
	}

	marked := make(map[int]bool, len(indexes))
	for _, i := range indexes {
		marked[i] = true
	}

	var b strings.Builder
	for i, r := range s {
		if marked[i] {
			b.WriteString(match.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}
	return b.String()
}

// RenderListRow renders a complete list row with uniform background when selected.
// This function styles each part explicitly to avoid ANSI reset code issues.
// parts is a slice of {text, fgColor} pairs. Use nil for default foreground.
func RenderListRow(parts []RowPart, selected bool, width int) string {
	bg := Current.Selection

	var b strings.Builder
	visibleLen := 0

	for _, part := range parts {
		style := lipgloss.NewStyle()
		if part.Foreground != nil {
			style = style.Foreground(*part.Foreground)
		} else if selected {
			style = style.Foreground(Current.Foreground)
		} else {
			style = style.Foreground(Current.Muted)
		}
		if selected {
			style = style.Background(bg)
		}
		b.WriteString(style.Render(part.Text))
		visibleLen += lipgloss.Width(part.Text)
	}

	// Add padding to fill width (subtract 2 for left/right margin)
	paddingNeeded := width - visibleLen - 2
	if paddingNeeded > 0 {
		padStyle := lipgloss.NewStyle()
		if selected {
			padStyle = padStyle.Background(bg)
		}
		b.WriteString(padStyle.Render(strings.Repeat(" ", paddingNeeded)))
	}

	// Add margins
	marginStyle := lipgloss.NewStyle()
	if selected {
		marginStyle = marginStyle.Background(bg)
	}
	margin := marginStyle.Render(" ")

	return margin + b.String() + margin
}

// RowPart represents a part of a row with optional foreground color
type RowPart struct {
	Text       string
	Foreground *lipgloss.Color
}
