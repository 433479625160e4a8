package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/licensegate/pkg/policy"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success / compliant
	colorYellow = lipgloss.Color("220") // Amber - warnings / review
	colorRed    = lipgloss.Color("167") // Soft red - errors / non-compliant
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleCompliant for compliant verdicts.
	StyleCompliant = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleNonCompliant for non-compliant verdicts.
	StyleNonCompliant = lipgloss.NewStyle().Foreground(colorRed)

	// StyleReview for review-required verdicts.
	StyleReview = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
)

// statusStyle returns the style and icon for a verdict.
func statusStyle(s policy.Status) (lipgloss.Style, string) {
	switch s {
	case policy.StatusCompliant:
		return StyleCompliant, iconSuccess
	case policy.StatusNonCompliant:
		return StyleNonCompliant, iconError
	default:
		return StyleReview, iconWarning
	}
}

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleReview.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// printSummary prints verdict counts on a single line.
func printSummary(counts map[policy.Status]int) {
	parts := []string{
		StyleCompliant.Render(fmt.Sprintf("%d compliant", counts[policy.StatusCompliant])),
		StyleNonCompliant.Render(fmt.Sprintf("%d non-compliant", counts[policy.StatusNonCompliant])),
		StyleReview.Render(fmt.Sprintf("%d review required", counts[policy.StatusReviewRequired])),
	}
	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += part
	}
	fmt.Println(line)
}
