package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Generate key.Binding
	Start    key.Binding
	Stop     key.Binding
	Undo     key.Binding
	Faster   key.Binding
	Slower   key.Binding
	Pause    key.Binding
	Next     key.Binding
	Pick     key.Binding
	Theme    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Generate: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g", "new array"),
	),
	Start: key.NewBinding(
		key.WithKeys("s", "enter"),
		key.WithHelp("s", "start"),
	),
	Stop: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "stop"),
	),
	Undo: key.NewBinding(
		key.WithKeys("u", "backspace"),
		key.WithHelp("u", "previous step"),
	),
	Faster: key.NewBinding(
		key.WithKeys("+", "=", "right"),
		key.WithHelp("+", "faster"),
	),
	Slower: key.NewBinding(
		key.WithKeys("-", "_", "left"),
		key.WithHelp("-", "slower"),
	),
	Pause: key.NewBinding(
		key.WithKeys("p", " "),
		key.WithHelp("p", "pause/resume"),
	),
	Next: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next algorithm"),
	),
	Pick: key.NewBinding(
		key.WithKeys("1", "2", "3", "4", "5", "6"),
		key.WithHelp("1-6", "pick algorithm"),
	),
	Theme: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "theme"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "more keys"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c", "esc"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Generate, k.Start, k.Stop, k.Undo, k.Pause, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Generate, k.Start, k.Stop, k.Undo},
		{k.Faster, k.Slower, k.Pause},
		{k.Next, k.Pick, k.Theme},
		{k.Help, k.Quit},
	}
}
