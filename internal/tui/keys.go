package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Left    key.Binding
	Right   key.Binding
	Up      key.Binding
	Down    key.Binding
	Grab    key.Binding
	Drop    key.Binding
	Cancel  key.Binding
	Open    key.Binding
	Search  key.Binding
	GroupBy key.Binding
	SortBy  key.Binding
	Closed  key.Binding
	Summary key.Binding
	Regen   key.Binding
	Refresh key.Binding
	Mute    key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Grab, k.Search, k.GroupBy, k.Summary, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down},
		{k.Grab, k.Drop, k.Cancel, k.Open},
		{k.Search, k.GroupBy, k.SortBy, k.Closed},
		{k.Summary, k.Regen, k.Refresh, k.Mute},
		{k.Help, k.Quit},
	}
}

func defaultKeyMap() keyMap {
	return keyMap{
		Left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev col")),
		Right:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next col")),
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Grab:    key.NewBinding(key.WithKeys(" ", "m"), key.WithHelp("space", "pick up")),
		Drop:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "drop")),
		Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Open:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open alerted task")),
		Search:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		GroupBy: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "group by")),
		SortBy:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		Closed:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "show closed")),
		Summary: key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "summary")),
		Regen:   key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "regenerate")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Mute:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "mute alerts")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}
