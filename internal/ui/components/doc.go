// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the widgets shared by the jarvis screens:
// the header with tab strip, banners, the thinking spinner, dashboard and
// log panels, and status pills. It also defines the messages screens send to
// the application shell.
package components
