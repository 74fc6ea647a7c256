package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	First     key.Binding
	Last      key.Binding
	Approve   key.Binding
	Reject    key.Binding
	Correct   key.Binding
	Discard   key.Binding
	SkipItem  key.Binding
	Toggle    key.Binding
	SelectAll key.Binding
	ClearSel  key.Binding
	BulkOK    key.Binding
	BulkDrop  key.Binding
	Refresh   key.Binding
	Pause     key.Binding
	Details   key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("k", "up", "h", "left"), key.WithHelp("k/↑/←", "previous")),
		Down:      key.NewBinding(key.WithKeys("j", "down", "l", "right"), key.WithHelp("j/↓/→", "next")),
		First:     key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "first")),
		Last:      key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "last")),
		Approve:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "approve")),
		Reject:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reject (with note)")),
		Correct:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "correct plate")),
		Discard:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "discard")),
		SkipItem:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "skip")),
		Toggle:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select")),
		SelectAll: key.NewBinding(key.WithKeys("*"), key.WithHelp("*", "select all")),
		ClearSel:  key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "clear selection")),
		BulkOK:    key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "approve selected")),
		BulkDrop:  key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "discard selected")),
		Refresh:   key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "refresh")),
		Pause:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause polling")),
		Details:   key.NewBinding(key.WithKeys("d", "tab"), key.WithHelp("d/tab", "details")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Up, k.Approve, k.Reject, k.Correct, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Down, k.Up, k.First, k.Last, k.SkipItem},
		{k.Approve, k.Reject, k.Correct, k.Discard},
		{k.Toggle, k.SelectAll, k.ClearSel, k.BulkOK, k.BulkDrop},
		{k.Refresh, k.Pause, k.Details, k.Help, k.Quit},
	}
}
