package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// Palette & Styles
// =============================================================================

var (
	colorAccent  = lipgloss.Color("36")  // teal, primary accent
	colorOK      = lipgloss.Color("35")  // success green
	colorWarn    = lipgloss.Color("220") // amber warnings
	colorFail    = lipgloss.Color("167") // soft red errors
	colorCommand = lipgloss.Color("75")  // light blue command hints
	colorBright  = lipgloss.Color("255") // bright white values
	colorMuted   = lipgloss.Color("245") // secondary text
	colorFaint   = lipgloss.Color("240") // dimmest text
)

// Exported styles are shared with the watch dashboard; the lowercase ones
// stay local to the print helpers and table views.
var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorAccent)
	StyleDim       = lipgloss.NewStyle().Foreground(colorFaint)
	StyleValue     = lipgloss.NewStyle().Foreground(colorBright)
	StyleSuccess   = lipgloss.NewStyle().Foreground(colorOK)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorWarn)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorOK)
	styleIconError   = lipgloss.NewStyle().Foreground(colorFail)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorWarn)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorMuted)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorAccent)

	styleCached   = lipgloss.NewStyle().Foreground(colorOK)
	styleComputed = lipgloss.NewStyle().Foreground(colorMuted)
	styleCommand  = lipgloss.NewStyle().Foreground(colorCommand)
	styleKeyLabel = lipgloss.NewStyle().Foreground(colorMuted).Width(12)

	styleTableHeader = lipgloss.NewStyle().Foreground(colorMuted).Bold(true)
	styleTableBorder = lipgloss.NewStyle().Foreground(colorFaint)
	styleTableCell   = lipgloss.NewStyle().Padding(0, 1)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Lines
// =============================================================================

// statusLine prints a styled glyph followed by the message.
func statusLine(glyph string, style lipgloss.Style, msg string) {
	fmt.Println(style.Render(glyph) + " " + msg)
}

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	statusLine(iconSuccess, styleIconSuccess, fmt.Sprintf(format, args...))
}

// printError prints an error message.
func printError(format string, args ...any) {
	statusLine(iconError, styleIconError, fmt.Sprintf(format, args...))
}

// printWarning prints a warning message with the text tinted too.
func printWarning(format string, args ...any) {
	statusLine(iconWarning, styleIconWarning, StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// printInfo prints a status message.
func printInfo(format string, args ...any) {
	statusLine(iconInfo, styleIconInfo, fmt.Sprintf(format, args...))
}

// printDetail prints an indented secondary line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile points at an artifact written to disk.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printKeyValue prints a labeled value in aligned columns.
func printKeyValue(key, value string) {
	fmt.Println(styleKeyLabel.Render(key) + " " + StyleValue.Render(value))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// printNewline prints an empty line.
func printNewline() {
	fmt.Println()
}

// printStats prints run statistics on one dim line separated by middots:
// "  37 trials · 2961 evals · 110ms · fresh".
func printStats(trials int, evals int64, elapsed time.Duration, cached bool) {
	var parts []string
	if trials > 0 {
		parts = append(parts, fmt.Sprintf("%d trials", trials))
	}
	if evals > 0 {
		parts = append(parts, fmt.Sprintf("%d evals", evals))
	}
	if elapsed > 0 {
		parts = append(parts, elapsed.Round(time.Millisecond).String())
	}
	if cached {
		parts = append(parts, styleCached.Render(iconCached))
	} else {
		parts = append(parts, styleComputed.Render(iconFresh))
	}

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	fmt.Println(line)
}

// =============================================================================
// Formatting
// =============================================================================

// formatScore renders a score compactly: exact fits as plain 0, everything
// else with enough digits to compare runs.
func formatScore(score float64) string {
	if score == 0 {
		return "0"
	}
	return fmt.Sprintf("%.4f", score)
}

// formatRelativeTime renders t as a rough age ("3m ago") for list views.
func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "—"
	}

	age := time.Since(t)
	switch {
	case age < time.Minute:
		return "just now"
	case age < time.Hour:
		return fmt.Sprintf("%dm ago", int(age.Minutes()))
	case age < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(age.Hours()))
	case age < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(age.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
