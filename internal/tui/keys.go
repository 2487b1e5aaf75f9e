package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Pick   key.Binding
	Enter  key.Binding
	Review key.Binding
	Back   key.Binding
	Quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space", "select"),
		),
		Pick: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "select option"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm"),
		),
		Review: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "review errors"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "menu"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) menuHelp() []key.Binding {
	start := k.Enter
	start.SetHelp("enter", "start daily session")
	return []key.Binding{start, k.Quit}
}

func (k keyMap) quizHelp(revealed bool) []key.Binding {
	if revealed {
		next := k.Enter
		next.SetHelp("enter", "continue")
		return []key.Binding{next, k.Back}
	}
	submit := k.Enter
	submit.SetHelp("enter", "submit")
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Pick, submit, k.Back}
}

func (k keyMap) resultsHelp(canReview bool) []key.Binding {
	menu := k.Enter
	menu.SetHelp("enter/esc", "menu")
	if canReview {
		return []key.Binding{k.Review, menu, k.Quit}
	}
	return []key.Binding{menu, k.Quit}
}
