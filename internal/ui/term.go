package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/javiermolinar/planta/internal/catalog"
)

// Color definitions for consistent styling across the UI.
var (
	colorHeader = color.New(color.Bold)

	// Success: green for committed changes and active lines
	colorOK = color.New(color.FgGreen)

	// Warnings: yellow for skipped days and maintenance
	colorWarn = color.New(color.FgYellow)

	// Errors: red for conflicts and inactive lines
	colorError = color.New(color.FgRed, color.Bold)

	// Changeover days stand out in magenta
	colorChangeover = color.New(color.FgMagenta, color.Bold)

	colorMuted = color.New(color.FgWhite, color.Faint)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // sensible default
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

// EnableColor enables color output (if terminal supports it).
func EnableColor() {
	color.NoColor = false
}

func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

func formatOK(s string) string {
	return colorOK.Sprint(s)
}

func formatWarn(s string) string {
	return colorWarn.Sprint(s)
}

func formatError(s string) string {
	return colorError.Sprint(s)
}

func formatChangeover(s string) string {
	return colorChangeover.Sprint(s)
}

func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}

// formatStatus colors a line status.
func formatStatus(s catalog.LineStatus) string {
	switch s {
	case catalog.StatusActive:
		return formatOK(string(s))
	case catalog.StatusMaintenance:
		return formatWarn(string(s))
	default:
		return formatError(string(s))
	}
}
