package formatter

import (
	"fmt"
	"strings"

	"github.com/HKK13/hello-bott/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// DisableColor makes every style render plain text.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// StateStyle returns the style for a workday state.
func StateStyle(state domain.WorkdayState) lipgloss.Style {
	switch state {
	case domain.WorkdayActive:
		return StyleGreen
	case domain.WorkdayOnBreak:
		return StyleYellow
	case domain.WorkdayEnded:
		return StyleBlue
	default:
		return StyleDim
	}
}

// StatePill returns a colored indicator such as "● Active".
func StatePill(state domain.WorkdayState) string {
	switch state {
	case domain.WorkdayActive:
		return StateStyle(state).Render("● Active")
	case domain.WorkdayOnBreak:
		return StateStyle(state).Render("◐ On break")
	case domain.WorkdayEnded:
		return StateStyle(state).Render("✔ Ended")
	default:
		return StateStyle(state).Render("○ None")
	}
}

// Header renders a section header with an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold.
func Bold(text string) string {
	return StyleBold.Render(text)
}
