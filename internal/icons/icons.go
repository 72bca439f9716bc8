// Package icons holds the status symbols for the configured icon style.
package icons

// Style is the icon style name used in the config file.
type Style string

const (
	StyleNerd    Style = "nerd"
	StyleUnicode Style = "unicode"
	StyleNone    Style = "none"
)

// Icons is one set of status symbols.
type Icons struct {
	Play    string
	Pause   string
	Stop    string
	Loading string
	Volume  string
}

var (
	nerdIcons = Icons{
		Play:    "󰐊", // nf-md-play
		Pause:   "󰏤", // nf-md-pause
		Stop:    "󰓛", // nf-md-stop
		Loading: "󰔟", // nf-md-timer_sand
		Volume:  "󰕾 ", // nf-md-volume_high
	}

	unicodeIcons = Icons{
		Play:    "▶",
		Pause:   "⏸",
		Stop:    "■",
		Loading: "…",
		Volume:  "vol ",
	}

	noneIcons = Icons{
		Play:    ">",
		Pause:   "=",
		Stop:    "#",
		Loading: ".",
		Volume:  "vol ",
	}

	current = unicodeIcons
)

// Init selects the icon set. Unknown and empty styles select unicode.
func Init(style string) {
	current = ForStyle(Style(style))
}

// ForStyle returns the icon set of style.
func ForStyle(style Style) Icons {
	switch style {
	case StyleNerd:
		return nerdIcons
	case StyleNone:
		return noneIcons
	default:
		return unicodeIcons
	}
}

func Play() string    { return current.Play }
func Pause() string   { return current.Pause }
func Stop() string    { return current.Stop }
func Loading() string { return current.Loading }

// Volume is a prefix for the volume level.
func Volume() string { return current.Volume }
