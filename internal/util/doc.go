// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across the jarvis client.
//
// # Key Functions
//
// File Operations:
//   - AtomicWriteFile: crash-safe writes for the session and config files
//
// String Utilities:
//   - TruncateWidth, PadRight, StringWidth: column-aware layout via go-runewidth
//   - SplitList: comma separated attendee lists
//
// Text Matching:
//   - Fold, ContainsPhrase, HasWords, EqualsPhrase: normalized command matching over
//     golang.org/x/text
//
// # Usage
//
//	if util.ContainsPhrase(input, "system check") {
//		// run the status probe
//	}
//
//	name := util.PadRight(meeting.Title, 30)
package util
