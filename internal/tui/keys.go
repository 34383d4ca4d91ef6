package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Down     key.Binding
	Up       key.Binding
	DownFast key.Binding
	UpFast   key.Binding
	Edit     key.Binding
	Event    key.Binding
	Reset    key.Binding
	Check    key.Binding
	Graph    key.Binding
	Quit     key.Binding
	Submit   key.Binding
	Cancel   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Down:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "-$1")),
		Up:       key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "+$1")),
		DownFast: key.NewBinding(key.WithKeys("shift+left", "H"), key.WithHelp("⇧←", "-$10")),
		UpFast:   key.NewBinding(key.WithKeys("shift+right", "L"), key.WithHelp("⇧→", "+$10")),
		Edit:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "set price")),
		Event:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "random event")),
		Reset:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset market")),
		Check:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "check maximization")),
		Graph:    key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "analysis")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Submit:   key.NewBinding(key.WithKeys("enter")),
		Cancel:   key.NewBinding(key.WithKeys("esc")),
	}
}

// shortHelp lists the bindings shown in the footer.
func (k keyMap) shortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Up, k.DownFast, k.UpFast, k.Edit, k.Event, k.Reset, k.Check, k.Graph, k.Quit}
}
