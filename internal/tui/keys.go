package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// Keypad labels with behavior beyond appending text
const (
	KeyEquals    = "="
	KeyClear     = "C"
	KeyMod       = "Mod"
	KeyFactorial = "!"
	KeyBackspace = "<-"
)

// Keypad is the button grid, row by row
var Keypad = [][]string{
	{"7", "8", "9", "/"},
	{"4", "5", "6", "*"},
	{"1", "2", "3", "-"},
	{"0", ".", "=", "+"},
	{"C", "Mod", "%", "!"},
	{"sin", "cos", "tan", "abs"},
	{"log", "ln", "exp", "^"},
}

// keyMap defines the keyboard bindings
type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Press     key.Binding
	Evaluate  key.Binding
	Backspace key.Binding
	Clear     key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "right"),
		),
		Press: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "press key"),
		),
		Evaluate: key.NewBinding(
			key.WithKeys("="),
			key.WithHelp("=", "evaluate"),
		),
		Backspace: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("⌫", "delete"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+l", "delete"),
			key.WithHelp("ctrl+l", "clear"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("esc", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Press, k.Evaluate, k.Clear, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Press, k.Evaluate, k.Backspace, k.Clear},
		{k.Help, k.Quit},
	}
}
