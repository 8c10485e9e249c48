package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette. Never use inline lipgloss.Color literals elsewhere.
var (
	// ColorCyan is used for identifiable nouns: module keys, artifact names, paths.
	ColorCyan = lipgloss.Color("14")

	// ColorGreen is used for well-covered ratios.
	ColorGreen = lipgloss.Color("82")

	// ColorYellow is used for partially covered ratios.
	ColorYellow = lipgloss.Color("220")

	// ColorRed is used for poorly covered ratios.
	ColorRed = lipgloss.Color("196")

	// ColorBoldRed is used for failures (matches ERROR level).
	ColorBoldRed = lipgloss.Color("204")

	// ColorGreenCheck is used for the completion checkmark.
	ColorGreenCheck = lipgloss.Color("10")

	// ColorDimGray is used for borders and other structural chrome.
	ColorDimGray = lipgloss.Color("240")

	// ColorBlue is used for table headers.
	ColorBlue = lipgloss.Color("12")
)

// Semantic styles.
var (
	// StyleNoun styles identifiable nouns (module keys, artifact names, paths).
	StyleNoun = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleAction styles action verbs (resolving, writing, reformatting).
	StyleAction = lipgloss.NewStyle().Bold(true)

	// StyleDim styles structural chrome (prefixes, separators).
	StyleDim = lipgloss.NewStyle().Faint(true)

	// StyleSummary styles completion and summary lines.
	StyleSummary = lipgloss.NewStyle().Bold(true)
)

// Coverage thresholds used by RatioStyle.
const (
	ratioGood = 0.8
	ratioFair = 0.5
)

// RatioStyle returns the style for a covered/total ratio.
// A zero total renders dim.
func RatioStyle(covered, total int) lipgloss.Style {
	if total == 0 {
		return StyleDim
	}
	r := float64(covered) / float64(total)
	switch {
	case r >= ratioGood:
		return lipgloss.NewStyle().Foreground(ColorGreen)
	case r >= ratioFair:
		return lipgloss.NewStyle().Foreground(ColorYellow)
	default:
		return lipgloss.NewStyle().Foreground(ColorRed)
	}
}

// FormatRatio renders "covered/total (pct%)". A zero total renders "-".
func FormatRatio(covered, total int) string {
	if total == 0 {
		return "-"
	}
	pct := 100 * float64(covered) / float64(total)
	return fmt.Sprintf("%d/%d (%.1f%%)", covered, total, pct)
}

// minModuleColumnWidth keeps the status suffix aligned across module lines.
const minModuleColumnWidth = 40

// FormatModuleLine renders a module key with a right-aligned suffix.
//
// Format: m:<key>  <suffix>
func FormatModuleLine(key, suffix string) string {
	padding := minModuleColumnWidth - len(key)
	if padding < 2 {
		padding = 2
	}
	return StyleDim.Render("m:") + StyleNoun.Render(key) + strings.Repeat(" ", padding) + suffix
}

// FormatCheckmark renders a green checkmark with a message for stdout output.
func FormatCheckmark(msg string) string {
	check := lipgloss.NewStyle().Foreground(ColorGreenCheck).Render("✔")
	return check + " " + msg
}
