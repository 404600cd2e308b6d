// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import "github.com/kouponize121/Jarvis-AI/internal/api"

// LoggedInMsg reports a successful login to the application shell.
type LoggedInMsg struct {
	User api.User
}
