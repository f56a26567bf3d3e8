package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds every binding. While a text input has focus only the editing
// bindings apply, so letters reach the input.
type keyMap struct {
	// Always active
	ForceQuit key.Binding
	NextFocus key.Binding
	PrevFocus key.Binding

	// Editing
	Submit key.Binding
	Blur   key.Binding

	// Navigation
	Quit         key.Binding
	Help         key.Binding
	CycleTheme   key.Binding
	Logs         key.Binding
	FocusUpload  key.Binding
	FocusMessage key.Binding
	Refresh      key.Binding
	Up           key.Binding
	Down         key.Binding
	Top          key.Binding
	Bottom       key.Binding

	// Logs view
	ToggleFollow key.Binding
	Back         key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "Quit"),
		),
		NextFocus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Next panel"),
		),
		PrevFocus: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Previous panel"),
		),

		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Upload / Send"),
		),
		Blur: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Leave input"),
		),

		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?", "h"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Logs: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "Client log"),
		),
		FocusUpload: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "Edit file path"),
		),
		FocusMessage: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "Edit message"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Refresh files"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Scroll down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Bottom"),
		),

		ToggleFollow: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "Toggle follow"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "l"),
			key.WithHelp("esc", "Back to forms"),
		),
	}
}

// ShortHelp returns the bindings shown in the command bar.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns the bindings grouped for the help overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextFocus, k.PrevFocus, k.Submit, k.Blur},
		{k.FocusUpload, k.FocusMessage, k.Refresh, k.Up, k.Down, k.Top, k.Bottom},
		{k.Logs, k.ToggleFollow, k.Back},
		{k.CycleTheme, k.Help, k.Quit, k.ForceQuit},
	}
}
