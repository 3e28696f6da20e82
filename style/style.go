// Package style wraps lipgloss with the few render helpers the CLI uses.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/viper"
	"github.com/vidscout/vidscout/key"
)

func New() lipgloss.Style {
	return lipgloss.NewStyle()
}

// Fg renders its argument in c.
func Fg(c lipgloss.Color) func(string) string {
	return func(s string) string { return New().Foreground(c).Render(s) }
}

var (
	Faint = func(s string) string { return New().Faint(true).Render(s) }
	Bold  = func(s string) string { return New().Bold(true).Render(s) }
)

// Enabled reports whether cli.colored is on.
func Enabled() bool {
	return viper.GetBool(key.CliColored)
}
