package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Add           key.Binding
	Toggle        key.Binding
	Edit          key.Binding
	Delete        key.Binding
	DeleteEditing key.Binding
	Reload        key.Binding
	Submit        key.Binding
	Cancel        key.Binding
	Quit          key.Binding
	ForceQuit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Add:           key.NewBinding(key.WithKeys("a", "n"), key.WithHelp("a", "add")),
		Toggle:        key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
		Edit:          key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete:        key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		DeleteEditing: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "delete")),
		Reload:        key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Submit:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		Cancel:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Quit:          key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit:     key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

// listKeys extend the list's own help line.
func (k keyMap) listKeys() []key.Binding {
	return []key.Binding{k.Add, k.Toggle, k.Edit, k.Delete, k.Reload}
}
