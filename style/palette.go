package style

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/vidscout/vidscout/source"
)

var (
	Overlay  = lipgloss.Color("#6c7086")
	Peach    = lipgloss.Color("#fab387")
	Yellow   = lipgloss.Color("#f9e2af")
	Green    = lipgloss.Color("#a6e3a1")
	Teal     = lipgloss.Color("#94e2d5")
	Sapphire = lipgloss.Color("#74c7ec")
	Lavender = lipgloss.Color("#b4befe")
)

// SourceColor maps provenance to a color, warmest for the most trusted.
func SourceColor(tag source.Tag) lipgloss.Color {
	switch p := source.Priority(tag); {
	case p >= source.SiteParser:
		return Green
	case p >= source.Structured:
		return Teal
	case p >= source.Manifest:
		return Sapphire
	case p >= source.Playing:
		return Lavender
	case p >= source.Inline:
		return Peach
	case p > 0:
		return Yellow
	default:
		return Overlay
	}
}
