// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package login

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the login screen bindings.
type KeyMap struct {
	Submit key.Binding
	Next   key.Binding
	Prev   key.Binding
	Toggle key.Binding
}

// DefaultKeyMap returns the default login bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "submit"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("Tab", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("S-Tab", "previous field"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("C-r", "login/register"),
		),
	}
}
