package formatter

import (
	"fmt"
	"strings"

	"github.com/41rumble/crew-planner/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen      = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow     = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleYellowBold = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
	StyleRed        = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue       = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple     = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim        = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg         = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader     = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold       = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
	StyleSelected   = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
)

// phasePalette colors phase bars in order; it wraps for long phase lists.
var phasePalette = []lipgloss.Style{StyleBlue, StylePurple, StyleGreen, StyleYellow}

// PhaseStyle returns the bar style for the phase at index i.
func PhaseStyle(i int) lipgloss.Style {
	if i < 0 {
		return StyleDim
	}
	return phasePalette[i%len(phasePalette)]
}

// SourceBadge labels where a crew row came from.
func SourceBadge(src domain.CrewSource) string {
	switch src {
	case domain.CrewAuthoritative:
		return StyleYellow.Render("● imported")
	case domain.CrewDerived:
		return StyleGreen.Render("○ ramp")
	default:
		return StyleDim.Render(string(src))
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
