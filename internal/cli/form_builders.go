package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/41rumble/crew-planner/internal/cli/formatter"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// crewplanHuhTheme matches huh forms to the formatter palette.
func crewplanHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// monthsInput returns a huh.Input for a month count that may be zero.
func monthsInput(title string, value *string) *huh.Input {
	return huh.NewInput().
		Title(title).
		Placeholder("0").
		Value(value).
		Validate(validateNonNegativeInt)
}

// rampForm collects ramp-up and ramp-down months for dept. The values start
// as the department's current ramps.
func rampForm(dept string, up, down *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			monthsInput("Ramp-up months", up),
			monthsInput("Ramp-down months", down),
		).Title(dept).Description("Ramps longer than the timeframe allows are shortened."),
	).WithTheme(crewplanHuhTheme()).WithShowHelp(false)
}

// runRampForm shows rampForm and parses its answers.
func runRampForm(dept string, up, down int) (int, int, error) {
	upStr, downStr := strconv.Itoa(up), strconv.Itoa(down)
	if err := rampForm(dept, &upStr, &downStr).Run(); err != nil {
		return 0, 0, err
	}
	return parseRampAnswers(upStr, downStr)
}

func parseRampAnswers(upStr, downStr string) (int, int, error) {
	up, err := parseMonthsAnswer(upStr)
	if err != nil {
		return 0, 0, fmt.Errorf("ramp-up: %w", err)
	}
	down, err := parseMonthsAnswer(downStr)
	if err != nil {
		return 0, 0, fmt.Errorf("ramp-down: %w", err)
	}
	return up, down, nil
}

// parseMonthsAnswer treats a blank answer as 0.
func parseMonthsAnswer(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if err := validateNonNegativeInt(s); err != nil {
		return 0, err
	}
	return strconv.Atoi(s)
}

// validateNonNegativeInt accepts empty or a non-negative integer.
func validateNonNegativeInt(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return fmt.Errorf("enter a non-negative number")
	}
	return nil
}
