// Package cli holds the lipgloss-styled console output shared by the
// ticktock commands.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	primaryColor = lipgloss.Color("#A40000") // Ticktock red
	warnColor    = lipgloss.Color("#FFA500") // Orange
	mutedColor   = lipgloss.Color("#888888") // Gray
	textColor    = lipgloss.Color("#FFFFFF") // White
)

// Styles
var (
	// Title style - bold red
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	// Error message style
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	// Warning message style
	WarningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(warnColor)

	// Key-value pair styles
	KeyStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	ValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor)
)

// Stderr is where errors and warnings are written
var Stderr io.Writer = os.Stderr

// PrintVersion prints version information
func PrintVersion(version string) {
	fmt.Println(TitleStyle.Render("Ticktock ⏱"))
	fmt.Printf("%s %s\n", KeyStyle.Render("Version:"), ValueStyle.Render(version))
	fmt.Println()
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Fprintf(Stderr, "%s %s\n", ErrorStyle.Render("Error:"), message)
}

// PrintWarning prints a non-fatal warning
func PrintWarning(message string) {
	fmt.Fprintf(Stderr, "%s %s\n", WarningStyle.Render("Warning:"), message)
}
