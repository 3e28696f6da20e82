// Package color names the terminal colors used by CLI output.
package color

import "github.com/charmbracelet/lipgloss"

// New wraps an ANSI index or hex value.
func New(value string) lipgloss.Color {
	return lipgloss.Color(value)
}

// ANSI
var (
	Red    = New("1")
	Green  = New("2")
	Yellow = New("3")
	Purple = New("5")
	Cyan   = New("6")

	HiRed    = New("9")
	HiPurple = New("13")
)
