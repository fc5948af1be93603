package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit         key.Binding
	SwitchFocus  key.Binding
	PrevCategory key.Binding
	NextCategory key.Binding
	Up           key.Binding
	Down         key.Binding
	Toggle       key.Binding
	Details      key.Binding
	Remove       key.Binding
	ClearAll     key.Binding
	Generate     key.Binding
	Send         key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		SwitchFocus: key.NewBinding(
			key.WithKeys("tab", "esc"),
			key.WithHelp("tab", "browse/chat"),
		),
		PrevCategory: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev category"),
		),
		NextCategory: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next category"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "space", "enter"),
			key.WithHelp("space", "select"),
		),
		Details: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "details"),
		),
		Remove: key.NewBinding(
			key.WithKeys("x", "backspace"),
			key.WithHelp("x", "remove chip"),
		),
		ClearAll: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear all"),
		),
		Generate: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "generate routine"),
		),
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
	}
}

// browseHelp implements help.KeyMap for the product pane.
type browseHelp struct{ keys keyMap }

func (h browseHelp) ShortHelp() []key.Binding {
	k := h.keys
	return []key.Binding{k.PrevCategory, k.NextCategory, k.Toggle, k.Details, k.Remove, k.ClearAll, k.Generate, k.SwitchFocus, k.Quit}
}

func (h browseHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{h.ShortHelp()}
}

// chatHelp implements help.KeyMap for the chat input.
type chatHelp struct{ keys keyMap }

func (h chatHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.keys.Send, h.keys.SwitchFocus}
}

func (h chatHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{h.ShortHelp()}
}
