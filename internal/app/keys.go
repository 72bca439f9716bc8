package app

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
)

const (
	seekStep   = 5 * time.Second
	volumeStep = 0.1
)

type keyMap struct {
	Toggle     key.Binding
	Stop       key.Binding
	Next       key.Binding
	Prev       key.Binding
	SeekBack   key.Binding
	SeekFwd    key.Binding
	VolumeUp   key.Binding
	VolumeDown key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Toggle:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
		Stop:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop")),
		Next:       key.NewBinding(key.WithKeys("n", "pgdown"), key.WithHelp("n", "next")),
		Prev:       key.NewBinding(key.WithKeys("p", "pgup"), key.WithHelp("p", "prev")),
		SeekBack:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "-5s")),
		SeekFwd:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "+5s")),
		VolumeUp:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "vol up")),
		VolumeDown: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "vol down")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Next, k.Prev, k.SeekFwd, k.VolumeUp, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Stop, k.Next, k.Prev},
		{k.SeekBack, k.SeekFwd, k.VolumeUp, k.VolumeDown, k.Quit},
	}
}
