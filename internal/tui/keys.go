package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	NextCat     key.Binding
	PrevCat     key.Binding
	Toggle      key.Binding
	Delete      key.Binding
	Add         key.Binding
	AddDefault  key.Binding
	RemoveDef   key.Binding
	Reset       key.Binding
	Uncross     key.Binding
	HideCrossed key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		NextCat:     key.NewBinding(key.WithKeys("tab", "J"), key.WithHelp("tab", "next category")),
		PrevCat:     key.NewBinding(key.WithKeys("shift+tab", "K"), key.WithHelp("shift+tab", "prev category")),
		Toggle:      key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "cross out")),
		Delete:      key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Add:         key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		AddDefault:  key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "add to defaults")),
		RemoveDef:   key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "remove from defaults")),
		Reset:       key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reset list")),
		Uncross:     key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "uncross all")),
		HideCrossed: key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "hide crossed")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Add, k.Delete, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextCat, k.PrevCat},
		{k.Toggle, k.Delete, k.Uncross, k.HideCrossed},
		{k.Add, k.AddDefault, k.RemoveDef, k.Reset},
		{k.Help, k.Quit},
	}
}
