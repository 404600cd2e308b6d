// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

// Activity is the assistant's indicator state.
type Activity int

const (
	// ActivityIdle - offline or waiting with AI unavailable
	ActivityIdle Activity = iota

	// ActivityThinking - waiting on a command or an AI reply
	ActivityThinking

	// ActivityProcessing - running a built-in command
	ActivityProcessing

	// ActivityActive - AI online and ready
	ActivityActive
)

// String returns the activity name.
func (a Activity) String() string {
	switch a {
	case ActivityThinking:
		return "thinking"
	case ActivityProcessing:
		return "processing"
	case ActivityActive:
		return "active"
	default:
		return "idle"
	}
}

// Status texts shown beside the activity indicator.
const (
	StatusInitializing    = "Initializing..."
	StatusReady           = "AI Online - Ready"
	StatusOffline         = "AI Offline"
	StatusConfigNeeded    = "AI Offline - Config Needed"
	StatusConnectionError = "Connection Error"
	StatusProcessing      = "Processing Command..."
	StatusStartingFlow    = "Starting Meeting Flow..."
	StatusEndingMeeting   = "Ending Meeting..."
	StatusSystemCheck     = "System Check..."
	StatusMemory          = "Accessing Memory..."
	StatusAIThinking      = "AI Thinking..."
	StatusCommandDetected = "Command Detected..."
	StatusGeneratingMoM   = "Generating MoM..."
	StatusError           = "Error Occurred"
)
