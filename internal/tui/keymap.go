package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the explorer key bindings.
type KeyMap struct {
	Left        key.Binding
	Right       key.Binding
	Up          key.Binding
	Down        key.Binding
	ZoomIn      key.Binding
	ZoomOut     key.Binding
	RotateLeft  key.Binding
	RotateRight key.Binding
	MoreIter    key.Binding
	LessIter    key.Binding
	Reset       key.Binding
	Help        key.Binding
	Quit        key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "pan left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "pan right"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "pan up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "pan down"),
		),
		ZoomIn: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "zoom in"),
		),
		ZoomOut: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "zoom out"),
		),
		RotateLeft: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "rotate left"),
		),
		RotateRight: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "rotate right"),
		),
		MoreIter: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "double iterations"),
		),
		LessIter: key.NewBinding(
			key.WithKeys("I"),
			key.WithHelp("I", "halve iterations"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset view"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ZoomIn, k.ZoomOut, k.MoreIter, k.Reset, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down},
		{k.ZoomIn, k.ZoomOut, k.RotateLeft, k.RotateRight},
		{k.MoreIter, k.LessIter, k.Reset, k.Help, k.Quit},
	}
}
