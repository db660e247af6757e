package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// keyMap names every key the App and its tabs react to. The tag picker keeps
// its own keys.
type keyMap struct {
	Quit      key.Binding
	ForceQuit key.Binding
	Back      key.Binding
	Help      key.Binding
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Enter     key.Binding
	Confirm   key.Binding
	Cancel    key.Binding
	Submit    key.Binding
	NextField key.Binding
	PrevField key.Binding
	Clear     key.Binding
}

var keys = keyMap{
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "Quit")),
	ForceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "Quit")),
	Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "Back")),
	Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "Help")),
	Up:        key.NewBinding(key.WithKeys("up")),
	Down:      key.NewBinding(key.WithKeys("down")),
	Left:      key.NewBinding(key.WithKeys("left")),
	Right:     key.NewBinding(key.WithKeys("right")),
	Enter:     key.NewBinding(key.WithKeys("enter")),
	Confirm:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "Confirm")),
	Cancel:    key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "Cancel")),
	Submit:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "Submit")),
	NextField: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "Next Field")),
	PrevField: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "Prev Field")),
	Clear:     key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("ctrl+u", "Clear")),
}

func isQuit(msg tea.KeyMsg) bool { return key.Matches(msg, keys.Quit) }
func isBack(msg tea.KeyMsg) bool { return key.Matches(msg, keys.Back) }
func isUp(msg tea.KeyMsg) bool { return key.Matches(msg, keys.Up) }
func isDown(msg tea.KeyMsg) bool { return key.Matches(msg, keys.Down) }
func isEnter(msg tea.KeyMsg) bool { return key.Matches(msg, keys.Enter) }
