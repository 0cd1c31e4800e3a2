package ui

import "github.com/rivo/tview"

// MenuHint describes a keyboard shortcut for display in the menu bar.
type MenuHint struct {
	Key         string
	Description string
	Danger      bool // destructive actions are drawn in the warning color
}

// Component is a page of the console.
type Component interface {
	tview.Primitive
	Name() string
	// Start runs when the page becomes visible.
	Start()
	// Stop runs when the page is hidden or popped.
	Stop()
	Hints() []MenuHint
}
