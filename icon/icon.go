// Package icon renders CLI status symbols in the variant chosen by the user.
//
// Icons can be displayed as emoji, nerd-font glyphs, plain ASCII, kaomoji,
// or Unicode squares depending on user preference.
package icon

import (
	"github.com/spf13/viper"
	"github.com/vidscout/vidscout/key"
)

const (
	emoji   = "emoji"
	nerd    = "nerd"
	plain   = "plain"
	kaomoji = "kaomoji"
	squares = "squares"
)

// AvailableVariants returns a slice of all registered icon style identifiers.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain, kaomoji, squares}
}

// Icon identifies a symbol in the registry.
type Icon int

const (
	Success Icon = iota
	Fail
	Progress
	Video
	Playlist
	Lua
)

type iconDef struct {
	emoji   string
	nerd    string
	plain   string
	kaomoji string
	squares string
}

func (d *iconDef) Get() string {
	switch viper.GetString(key.IconsVariant) {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case plain:
		return d.plain
	case kaomoji:
		return d.kaomoji
	case squares:
		return d.squares
	default:
		return ""
	}
}

var icons = map[Icon]*iconDef{
	Success:  {emoji: "🎉", nerd: "", plain: "✓", kaomoji: "(ᵔ◡ᵔ)", squares: "🟩"},
	Fail:     {emoji: "💥", nerd: "", plain: "✗", kaomoji: "(╯°□°)╯", squares: "🟥"},
	Progress: {emoji: "⏳", nerd: "", plain: "…", kaomoji: "(・_・ヾ", squares: "🟨"},
	Video:    {emoji: "🎬", nerd: "", plain: "▶", kaomoji: "(▰˘◡˘▰)", squares: "🟦"},
	Playlist: {emoji: "📜", nerd: "", plain: "≡", kaomoji: "(っ˘ω˘ς)", squares: "🟪"},
	Lua:      {emoji: "🌙", nerd: "", plain: "lua", kaomoji: "(☾ᴗ☽)", squares: "⬛"},
}

// Get returns the rendered string for a specified Icon identifier from the global registry.
func Get(i Icon) string {
	d, ok := icons[i]
	if !ok {
		return ""
	}
	return d.Get()
}
