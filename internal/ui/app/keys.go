// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the global bindings. Screen bindings live with each screen.
type KeyMap struct {
	Quit    key.Binding
	Logout  key.Binding
	Retry   key.Binding
	ToLogin key.Binding

	Dashboard key.Binding
	Chat      key.Binding
	System    key.Binding
	NextTab   key.Binding
	PrevTab   key.Binding
}

// DefaultKeyMap returns the default global bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("C-c", "quit")),
		Logout:  key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("C-l", "logout")),
		Retry:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
		ToLogin: key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "login")),

		Dashboard: key.NewBinding(key.WithKeys("alt+1", "f1"), key.WithHelp("M-1", "dashboard")),
		Chat:      key.NewBinding(key.WithKeys("alt+2", "f2"), key.WithHelp("M-2", "chat")),
		System:    key.NewBinding(key.WithKeys("alt+3", "f3"), key.WithHelp("M-3", "system")),
		NextTab:   key.NewBinding(key.WithKeys("ctrl+right"), key.WithHelp("C-→", "next tab")),
		PrevTab:   key.NewBinding(key.WithKeys("ctrl+left"), key.WithHelp("C-←", "previous tab")),
	}
}
